package quality

import "strings"

// qaScorer parses free-text QA results for pass rate, critical failures,
// and performance sentiment. Consistency and security do not apply.
type qaScorer struct{}

func (qaScorer) Assess(a Artifact, _ Context) (Metrics, error) {
	passRate := qaPassRate(a.Text)
	best := qaBestPractices(a.Text)

	return Metrics{
		Completeness:  passRate,
		Consistency:   notApplicable,
		Security:      notApplicable,
		BestPractices: best,
		Overall:       mean(passRate, best),
	}, nil
}

// qaPassRate derives a pass rate from pass/fail token counts, defaulting to
// 0.5 when no markers are present.
func qaPassRate(feedback string) float64 {
	lower := strings.ToLower(feedback)
	passed := strings.Count(lower, "passed")
	failed := strings.Count(lower, "failed")
	total := passed + failed
	if total == 0 {
		return 0.5
	}
	return float64(passed) / float64(total)
}

var criticalFailureKeywords = []string{
	"crash", "critical", "blocker", "security breach",
	"data loss", "corruption", "severe", "fatal",
}

var (
	positivePerformance = []string{"fast", "quick", "responsive", "efficient", "optimized"}
	negativePerformance = []string{"slow", "timeout", "lag", "delay", "bottleneck", "memory leak"}
)

// qaBestPractices folds the critical-failure penalty into a performance
// sentiment score built from a 0.6 base.
func qaBestPractices(feedback string) float64 {
	lower := strings.ToLower(feedback)

	score := 0.6
	for _, kw := range positivePerformance {
		if strings.Contains(lower, kw) {
			score += 0.08
		}
	}
	for _, kw := range negativePerformance {
		if strings.Contains(lower, kw) {
			score -= 0.15
		}
	}

	critical := 0
	for _, kw := range criticalFailureKeywords {
		if strings.Contains(lower, kw) {
			critical++
		}
	}
	score -= float64(critical) * 0.2

	return clamp01(score)
}
