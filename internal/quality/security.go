package quality

import (
	"regexp"
	"strings"
)

// securityScorer performs the dedicated security review over generated code.
// Completeness and consistency do not apply to this stage.
type securityScorer struct{}

func (securityScorer) Assess(a Artifact, _ Context) (Metrics, error) {
	vulns := countVulnerabilities(a.Text, strings.ToLower(a.Language))
	vulnScore := clamp01(1.0 - float64(vulns)*0.1)
	auth := authScore(a.Text)
	validation := inputValidationScore(a.Text)
	encryption := encryptionScore(a.Text)

	overall := mean(vulnScore, auth, validation, encryption)
	return Metrics{
		Completeness:  notApplicable,
		Consistency:   notApplicable,
		Security:      vulnScore,
		BestPractices: overall,
		Overall:       overall,
	}, nil
}

var sqlInjectionPatterns = compilePatterns(
	`(?i)(SELECT|INSERT|UPDATE|DELETE).*\+.*["']`,
	`(?i)query.*%.*["']`,
	`(?i)execute.*%.*["']`,
)

// commandInjectionPatterns lists the per-language dangerous call sites.
var commandInjectionPatterns = map[string][]*regexp.Regexp{
	"python":     compilePatterns(`os\.system\s*\(`, `subprocess\.call\s*\(`, `eval\s*\(`, `exec\s*\(`),
	"javascript": compilePatterns(`eval\s*\(`, `Function\s*\(`, `setTimeout\s*\(\s*["']`, `setInterval\s*\(\s*["']`),
	"typescript": compilePatterns(`eval\s*\(`, `Function\s*\(`, `setTimeout\s*\(\s*["']`, `setInterval\s*\(\s*["']`),
	"java":       compilePatterns(`Runtime\.exec\s*\(`, `ProcessBuilder\s*\(`),
	"php":        compilePatterns(`eval\s*\(`, `exec\s*\(`, `system\s*\(`, `shell_exec\s*\(`),
	"go":         compilePatterns(`exec\.Command\s*\(`),
	"csharp":     compilePatterns(`Process\.Start\s*\(`, `System\.Diagnostics\.Process`),
}

var xssPatterns = compilePatterns(`innerHTML\s*=`, `document\.write\s*\(`, `echo\s+\$_`)

// countVulnerabilities counts matched vulnerability classes: SQL injection
// (once), each dangerous call pattern for the language, and XSS sinks for
// web languages lacking any sanitize mention.
func countVulnerabilities(code, language string) int {
	vulns := 0
	for _, p := range sqlInjectionPatterns {
		if p.MatchString(code) {
			vulns++
			break
		}
	}
	for _, p := range commandInjectionPatterns[language] {
		if p.MatchString(code) {
			vulns++
		}
	}
	switch language {
	case "javascript", "typescript", "php":
		if !strings.Contains(strings.ToLower(code), "sanitize") {
			for _, p := range xssPatterns {
				if p.MatchString(code) {
					vulns++
					break
				}
			}
		}
	}
	return vulns
}

var (
	authKeywords = []string{
		"authenticate", "authorization", "login", "token",
		"session", "jwt", "auth", "password", "credential",
	}
	secureAuthPatterns = []string{"bcrypt", "hash", "salt", "pepper", "scrypt", "argon2"}
)

func authScore(code string) float64 {
	score := 0.3
	lower := strings.ToLower(code)
	for _, kw := range authKeywords {
		if strings.Contains(lower, kw) {
			score += 0.1
		}
	}
	for _, kw := range secureAuthPatterns {
		if strings.Contains(lower, kw) {
			score += 0.1
		}
	}
	return clamp01(score)
}

var (
	validationKeywords = []string{
		"validate", "sanitize", "escape", "filter", "check",
		"verify", "clean", "strip", "trim", "regex",
	}
	validationPatterns = compilePatterns(
		`if\s+.*\s+(len|length)\s*\(`,
		`isinstance\s*\(`,
		`match\s*\(`,
		`in\s+\[.*\]`,
	)
)

func inputValidationScore(code string) float64 {
	score := 0.3
	lower := strings.ToLower(code)
	for _, kw := range validationKeywords {
		if strings.Contains(lower, kw) {
			score += 0.1
		}
	}
	score += float64(matchesAnyPattern(code, validationPatterns)) * 0.05
	return clamp01(score)
}

var encryptionKeywords = []string{
	"encrypt", "decrypt", "hash", "bcrypt", "sha", "aes",
	"ssl", "tls", "https", "crypto", "cipher",
}

func encryptionScore(code string) float64 {
	score := 0.5
	lower := strings.ToLower(code)
	for _, kw := range encryptionKeywords {
		if strings.Contains(lower, kw) {
			score += 0.08
		}
	}
	return clamp01(score)
}
