package quality

import (
	"regexp"
	"strings"
)

// languageAnalyzer scores source text for one language.
type languageAnalyzer interface {
	Analyze(code string) Metrics
}

// codeScorer dispatches to the analyzer for the artifact's language, with a
// generic fallback when the language is unrecognized.
type codeScorer struct {
	languages map[string]languageAnalyzer
}

func defaultLanguageAnalyzers() map[string]languageAnalyzer {
	return map[string]languageAnalyzer{
		"python":     pythonAnalyzer{},
		"javascript": javascriptAnalyzer{},
		"typescript": javascriptAnalyzer{},
		"java":       javaAnalyzer{},
	}
}

func (s codeScorer) Assess(a Artifact, _ Context) (Metrics, error) {
	analyzer, ok := s.languages[strings.ToLower(a.Language)]
	if !ok {
		analyzer = genericAnalyzer{}
	}
	return analyzer.Analyze(a.Text), nil
}

func boolScore(flags ...bool) float64 {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return float64(n) / float64(len(flags))
}

func matchesAnyPattern(code string, patterns []*regexp.Regexp) int {
	n := 0
	for _, p := range patterns {
		if p.MatchString(code) {
			n++
		}
	}
	return n
}

func compilePatterns(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, regexp.MustCompile(e))
	}
	return out
}

// The dangerous-pattern checks are deliberately substring/regex heuristics
// with no AST awareness; false positives are accepted.
var pythonDangerousPatterns = compilePatterns(
	`(?i)eval\s*\(`,
	`(?i)exec\s*\(`,
	`(?i)os\.system\s*\(`,
	`(?i)subprocess\.call\s*\(`,
	`(?i)password\s*=\s*["'][^"']*["']`,
	`(?i)secret\s*=\s*["'][^"']*["']`,
)

type pythonAnalyzer struct{}

func (pythonAnalyzer) Analyze(code string) Metrics {
	lines := strings.Split(code, "\n")

	hasImports := false
	hasComments := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "import ") || strings.HasPrefix(trimmed, "from ") {
			hasImports = true
		}
		if strings.HasPrefix(trimmed, "#") {
			hasComments = true
		}
	}
	hasFunctions := strings.Contains(code, "def ")
	hasClasses := strings.Contains(code, "class ")
	hasMain := strings.Contains(code, "__main__") || strings.Contains(code, "if __name__")
	structure := boolScore(hasImports, hasFunctions || hasClasses, hasMain)

	hasTryExcept := strings.Contains(code, "try:") && strings.Contains(code, "except")
	hasLogging := strings.Contains(code, "logging") || strings.Contains(code, "logger")
	errorHandling := boolScore(hasTryExcept, hasLogging)

	hasDocstrings := strings.Contains(code, `"""`) || strings.Contains(code, "'''")
	doc := boolScore(hasDocstrings, hasComments)

	issues := matchesAnyPattern(code, pythonDangerousPatterns)
	security := clamp01(1.0 - float64(issues)*0.2)

	return Metrics{
		Completeness:  structure,
		Consistency:   doc,
		Security:      security,
		BestPractices: errorHandling,
		Overall:       mean(structure, doc, security, errorHandling),
	}
}

var javascriptDangerousPatterns = compilePatterns(
	`(?i)eval\s*\(`,
	`innerHTML\s*=`,
	`document\.write\s*\(`,
	`setTimeout\s*\(\s*["']`,
	`setInterval\s*\(\s*["']`,
)

type javascriptAnalyzer struct{}

func (javascriptAnalyzer) Analyze(code string) Metrics {
	hasConstLet := strings.Contains(code, "const ") || strings.Contains(code, "let ")
	avoidsVar := strings.Count(code, "var ") < 3
	hasFunctions := strings.Contains(code, "function ") || strings.Contains(code, "=>")
	structure := boolScore(hasConstLet, hasFunctions, avoidsVar)

	hasTryCatch := strings.Contains(code, "try {") && strings.Contains(code, "catch")
	hasAsync := strings.Contains(code, ".then(") || strings.Contains(code, "async") || strings.Contains(code, "await")
	errorHandling := boolScore(hasTryCatch, hasAsync)

	hasJSDoc := strings.Contains(code, "/**")
	hasComments := strings.Contains(code, "//")
	doc := boolScore(hasJSDoc, hasComments)

	issues := matchesAnyPattern(code, javascriptDangerousPatterns)
	if strings.Contains(code, "innerHTML") && !strings.Contains(strings.ToLower(code), "sanitize") {
		issues++
	}
	security := clamp01(1.0 - float64(issues)*0.25)

	return Metrics{
		Completeness:  structure,
		Consistency:   doc,
		Security:      security,
		BestPractices: errorHandling,
		Overall:       mean(structure, doc, security, errorHandling),
	}
}

type javaAnalyzer struct{}

func (javaAnalyzer) Analyze(code string) Metrics {
	hasPackage := strings.Contains(code, "package ")
	hasClasses := strings.Contains(code, "class ")
	hasImports := strings.Contains(code, "import ")
	structure := boolScore(hasPackage, hasClasses, hasImports)

	hasTryCatch := strings.Contains(code, "try {") && strings.Contains(code, "catch")
	hasThrows := strings.Contains(code, "throws ")
	errorHandling := boolScore(hasTryCatch, hasThrows)

	hasJavadoc := strings.Contains(code, "/**")
	hasComments := strings.Contains(code, "//")
	doc := boolScore(hasJavadoc, hasComments)

	security := 0.7
	if strings.Contains(code, "PreparedStatement") {
		security += 0.2
	}
	if strings.Contains(code, "MessageDigest") || strings.Contains(code, "SecureRandom") {
		security += 0.1
	}
	security = clamp01(security)

	return Metrics{
		Completeness:  structure,
		Consistency:   doc,
		Security:      security,
		BestPractices: errorHandling,
		Overall:       mean(structure, doc, security, errorHandling),
	}
}

var commentLinePatterns = compilePatterns(
	`#.*`,
	`//.*`,
	`/\*.*?\*/`,
	`<!--.*?-->`,
)

// hardcodedSecretPatterns flag credential-like literal assignments in any
// language.
var hardcodedSecretPatterns = compilePatterns(
	`(?i)password\s*=\s*["'][^"']*["']`,
	`(?i)secret\s*=\s*["'][^"']*["']`,
	`(?i)key\s*=\s*["'][^"']*["']`,
	`(?i)token\s*=\s*["'][^"']*["']`,
)

type genericAnalyzer struct{}

func (genericAnalyzer) Analyze(code string) Metrics {
	lines := strings.Split(code, "\n")
	nonEmpty := 0
	commentLines := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		nonEmpty++
		for _, p := range commentLinePatterns {
			if p.MatchString(line) {
				commentLines++
				break
			}
		}
	}

	structure := clamp01(float64(nonEmpty) / 30)

	commentTarget := float64(nonEmpty) * 0.1
	if commentTarget < 1 {
		commentTarget = 1
	}
	doc := clamp01(float64(commentLines) / commentTarget)

	issues := matchesAnyPattern(code, hardcodedSecretPatterns)
	security := clamp01(1.0 - float64(issues)*0.25)

	// Best practices cannot be judged for an unknown language; the score is
	// a fixed midpoint excluded from the overall mean.
	return Metrics{
		Completeness:  structure,
		Consistency:   doc,
		Security:      security,
		BestPractices: 0.7,
		Overall:       mean(structure, doc, security),
	}
}
