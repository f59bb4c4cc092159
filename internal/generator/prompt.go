package generator

import (
	"fmt"
	"strings"

	"github.com/praxislabs/sdlcwiz/internal/config"
	"github.com/praxislabs/sdlcwiz/internal/quality"
)

// stage instructions by artifact kind; code-bearing stages get language
// addons from the catalog.
var stageInstructions = map[quality.Kind]string{
	quality.KindStories: "You are a requirements analyst. Turn the requirements into user stories, " +
		"one per line, each in the form 'As a <role>, I want <goal>, so that <benefit>'. " +
		"Cover every requirement and keep each story independently testable.",
	quality.KindDesign: "You are a software architect. Produce a design document with a " +
		"'## Functional Design' section and a '## Technical Design' section, each a bulleted list, " +
		"and an optional '## Assumptions' section. Trace every user story into the design.",
	quality.KindCode: "You are a senior %s developer. Implement the design as complete, runnable code. " +
		"Use %s comments for the non-obvious parts and provide the %s entry point. " +
		"Handle errors explicitly and keep credentials out of the source.",
	quality.KindSecurity: "You are a security reviewer. Review the %s code for vulnerabilities: " +
		"injection, unsafe execution, hardcoded credentials, missing authentication, missing input " +
		"validation, and missing encryption. Report each finding with its location and a fix.",
	quality.KindTests: "You are a test engineer. Write %s tests using %s for the code provided. " +
		"Cover the main paths, edge cases, boundaries, and negative cases. " +
		"Structure each case with [Test Case Name], [Description], [Test Steps], and [Expected Result].",
	quality.KindQA: "You are a QA engineer. Execute a final review of all artifacts and produce a QA " +
		"report listing each check as passed or failed, any critical issues, and observed performance.",
}

// BuildRequest assembles the structured generation request for a stage from
// the accumulated context. Reviewer feedback, when present, leads the input
// so regeneration incorporates it.
func BuildRequest(kind quality.Kind, c quality.Context, lang config.LanguageSpec) Request {
	instructions := stageInstructions[kind]
	switch kind {
	case quality.KindCode:
		instructions = fmt.Sprintf(instructions, lang.Name, lang.CommentStyle, lang.EntryPoint)
	case quality.KindSecurity:
		instructions = fmt.Sprintf(instructions, lang.Name)
	case quality.KindTests:
		instructions = fmt.Sprintf(instructions, lang.Name, lang.TestFramework)
	}

	var b strings.Builder
	if c.Feedback != "" {
		section(&b, "Reviewer feedback to incorporate", c.Feedback)
	}
	section(&b, "Requirements", c.Requirements)
	if len(c.Stories) > 0 {
		section(&b, "User stories", strings.Join(c.Stories, "\n"))
	}
	switch kind {
	case quality.KindCode, quality.KindQA:
		section(&b, "Design", c.Design)
	}
	switch kind {
	case quality.KindSecurity, quality.KindTests, quality.KindQA:
		section(&b, "Code", c.Code)
	}
	if kind == quality.KindQA {
		section(&b, "Test cases", c.TestCases)
	}

	return Request{
		Instructions: instructions,
		Input:        strings.TrimSpace(b.String()),
	}
}

func section(b *strings.Builder, title, body string) {
	if body == "" {
		return
	}
	fmt.Fprintf(b, "%s:\n%s\n\n", title, body)
}
