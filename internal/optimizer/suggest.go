package optimizer

import (
	"strings"

	"github.com/praxislabs/sdlcwiz/internal/quality"
)

const maxStageSuggestions = 3

// Suggest produces up to three stage-specific improvement hints for the
// artifact as generated, independent of its quality gate outcome.
func Suggest(kind quality.Kind, a quality.Artifact, c quality.Context) []string {
	var out []string
	switch kind {
	case quality.KindStories:
		out = storySuggestions(a.Stories)
	case quality.KindDesign:
		out = designSuggestions(a.Design)
	case quality.KindCode:
		out = codeSuggestions(a.Text)
	case quality.KindSecurity:
		out = securitySuggestions(a.Text)
	case quality.KindTests:
		out = testSuggestions(a.Text)
	case quality.KindQA:
		out = qaSuggestions(a.Text)
	}
	if len(out) > maxStageSuggestions {
		out = out[:maxStageSuggestions]
	}
	return out
}

func storySuggestions(stories []string) []string {
	var out []string
	if len(stories) < 3 {
		out = append(out, "Break the requirements into more, smaller user stories")
	}
	joined := strings.ToLower(strings.Join(stories, " "))
	if !strings.Contains(joined, "so that") {
		out = append(out, "State the benefit of each story with a 'so that' clause")
	}
	if !containsAnyKeyword(joined, "validate", "verify", "ensure", "check", "confirm") {
		out = append(out, "Add acceptance criteria that can be verified")
	}
	return out
}

func designSuggestions(doc *quality.DesignDoc) []string {
	if doc == nil {
		return []string{"Structure the design into functional and technical sections"}
	}
	var out []string
	if len(doc.Functional) < 3 {
		out = append(out, "Describe more of the functional capabilities in the design")
	}
	technical := strings.ToLower(strings.Join(doc.Technical, " "))
	if !containsAnyKeyword(technical, "security", "authentication", "authorization", "encryption") {
		out = append(out, "Address authentication and data protection in the design")
	}
	if len(doc.Technical) < 3 {
		out = append(out, "Add technical detail: data model, API surface, deployment")
	}
	return out
}

func codeSuggestions(code string) []string {
	var out []string
	if !strings.Contains(code, "//") && !strings.Contains(code, "#") {
		out = append(out, "Add comments explaining the non-obvious parts")
	}
	if strings.Contains(code, "TODO") {
		out = append(out, "Resolve the TODO markers before review")
	}
	if !containsAnyKeyword(strings.ToLower(code), "try", "except", "catch", "err") {
		out = append(out, "Add error handling around the failure-prone paths")
	}
	return out
}

func securitySuggestions(report string) []string {
	var out []string
	lower := strings.ToLower(report)
	if containsAnyKeyword(lower, "password =", "secret =", "hardcoded") {
		out = append(out, "Move credentials out of the source into environment configuration")
	}
	if containsAnyKeyword(lower, "injection", "eval", "os.system") {
		out = append(out, "Replace dynamic execution and string-built queries with safe APIs")
	}
	if !containsAnyKeyword(lower, "https", "tls", "encrypt") {
		out = append(out, "Encrypt data in transit and at rest")
	}
	return out
}

func testSuggestions(tests string) []string {
	var out []string
	lower := strings.ToLower(tests)
	if !containsAnyKeyword(lower, "edge", "boundary") {
		out = append(out, "Cover edge cases and boundary values")
	}
	if !containsAnyKeyword(lower, "negative", "invalid") {
		out = append(out, "Add negative tests for invalid input")
	}
	if !containsAnyKeyword(lower, "setup", "teardown", "mock") {
		out = append(out, "Isolate the tests with setup, teardown, or mocks")
	}
	return out
}

func qaSuggestions(report string) []string {
	var out []string
	lower := strings.ToLower(report)
	if strings.Contains(lower, "failed") {
		out = append(out, "Triage the failed checks and rerun the QA suite")
	}
	if containsAnyKeyword(lower, "slow", "timeout", "lag") {
		out = append(out, "Profile the slow paths reported by QA")
	}
	return out
}

func containsAnyKeyword(text string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
