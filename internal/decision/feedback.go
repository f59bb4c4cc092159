package decision

import (
	"strings"

	"github.com/praxislabs/sdlcwiz/internal/quality"
)

const weakDimension = 0.7

// dimensionAdvice maps each artifact kind to improvement hints per weak
// quality dimension. Dimensions a kind does not score have no entry.
var dimensionAdvice = map[quality.Kind]map[string]string{
	quality.KindStories: {
		"completeness":   "Rewrite incomplete stories in the 'As a ... I want ... so that ...' form",
		"consistency":    "Align the stories with the stated requirements; several requirement topics are not covered",
		"best_practices": "Review story sizing, remove duplicates, and make acceptance criteria verifiable",
	},
	quality.KindDesign: {
		"completeness":   "Expand the design with more functional and technical detail",
		"consistency":    "Trace every user story into the design; some stories have no matching component",
		"security":       "Add security considerations such as authentication, encryption, and input validation",
		"best_practices": "Cover the standard technical concerns: API design, data model, error handling, deployment",
	},
	quality.KindCode: {
		"completeness":   "Flesh out the code structure with imports, functions, and an entry point",
		"consistency":    "Add documentation comments explaining the non-obvious parts",
		"security":       "Security vulnerabilities detected; remove dangerous calls and hardcoded credentials",
		"best_practices": "Add error handling and logging around the failure-prone paths",
	},
	quality.KindSecurity: {
		"security":       "Resolve the flagged vulnerabilities before proceeding",
		"best_practices": "Strengthen authentication, input validation, and encryption coverage",
	},
	quality.KindTests: {
		"completeness":   "Increase test coverage; large parts of the code have no matching tests",
		"consistency":    "Structure each test case with steps and an expected result",
		"best_practices": "Add edge-case, boundary, and negative tests",
	},
	quality.KindQA: {
		"completeness":   "Investigate and fix the failed checks before sign-off",
		"best_practices": "Address the critical failures and performance complaints in the QA report",
	},
}

// dimension extraction order keeps feedback deterministic.
var dimensionOrder = []string{"completeness", "consistency", "security", "best_practices"}

func dimensionScores(m quality.Metrics) map[string]float64 {
	return map[string]float64{
		"completeness":   m.Completeness,
		"consistency":    m.Consistency,
		"security":       m.Security,
		"best_practices": m.BestPractices,
	}
}

// buildFeedback turns metrics into human-readable guidance: one hint per
// weak dimension, plus a positive note when the overall score earns one.
func buildFeedback(kind quality.Kind, m quality.Metrics) string {
	advice := dimensionAdvice[kind]
	scores := dimensionScores(m)

	var parts []string
	for _, dim := range dimensionOrder {
		hint, scored := advice[dim]
		if scored && scores[dim] < weakDimension {
			parts = append(parts, hint)
		}
	}
	switch {
	case m.Overall >= 0.9:
		parts = append(parts, "Excellent quality overall")
	case m.Overall >= 0.75:
		parts = append(parts, "Good quality with minor room for improvement")
	}
	if len(parts) == 0 {
		return "Quality is below expectations across the board; a broader rework is needed"
	}
	return strings.Join(parts, ". ")
}
