package quality

import "strings"

// testScorer estimates coverage of the test artifact against the code under
// test and checks structural and best-practice markers.
type testScorer struct{}

func (testScorer) Assess(a Artifact, c Context) (Metrics, error) {
	coverage := estimateCoverage(a.Text, c.Code)
	structure := testStructureScore(a.Text)
	best := testBestPractices(a.Text)

	return Metrics{
		Completeness:  coverage,
		Consistency:   structure,
		Security:      notApplicable,
		BestPractices: best,
		Overall:       mean(coverage, structure, best),
	}, nil
}

var functionDeclPatterns = compilePatterns(
	`def\s+\w+`,
	`function\s+\w+`,
	`public\s+\w+`,
	`func\s+\w+`,
)

var testCaseMarkers = []string{"[Test Case Name]", "def test_", "test(", "@Test"}

// estimateCoverage approximates coverage as detected tests over detected
// functions times the 2.5-tests-per-function target.
func estimateCoverage(testCases, code string) float64 {
	if testCases == "" || code == "" {
		return 0
	}
	functions := 0
	for _, p := range functionDeclPatterns {
		functions += len(p.FindAllString(code, -1))
	}
	tests := 0
	for _, marker := range testCaseMarkers {
		if n := strings.Count(testCases, marker); n > tests {
			tests = n
		}
	}
	if functions == 0 {
		if tests > 0 {
			return 0.5
		}
		return 0
	}
	return clamp01(float64(tests) / (float64(functions) * 2.5))
}

// structureElements are the markers of a well-formed test case, each with
// its weight toward the structure score.
var structureElements = []struct {
	marker string
	weight float64
}{
	{"[Test Steps]", 0.2},
	{"[Expected Result]", 0.2},
	{"[Test Type]", 0.15},
	{"[Description]", 0.15},
	{"assert", 0.15},
	{"expect", 0.15},
}

func testStructureScore(testCases string) float64 {
	if testCases == "" {
		return 0
	}
	score := 0.0
	for _, el := range structureElements {
		if strings.Contains(testCases, el.marker) {
			score += el.weight
		}
	}
	return clamp01(score)
}

var testPractices = []struct {
	keyword string
	weight  float64
}{
	{"edge", 0.15},
	{"boundary", 0.15},
	{"negative", 0.15},
	{"invalid", 0.1},
	{"setup", 0.1},
	{"teardown", 0.1},
	{"mock", 0.1},
	{"stub", 0.1},
}

func testBestPractices(testCases string) float64 {
	score := 0.4
	lower := strings.ToLower(testCases)
	for _, p := range testPractices {
		if strings.Contains(lower, p.keyword) {
			score += p.weight
		}
	}
	return clamp01(score)
}
