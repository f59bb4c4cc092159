// Package quality implements the heuristic quality assessment engine.
//
// Every scorer is a pure function of its artifact and context: no hidden
// state, no clock, no randomness. Assessing the same inputs twice yields
// identical metrics.
package quality

// Metrics is an immutable scored snapshot of an artifact. All sub-scores and
// the overall score are bounded to [0,1]. Dimensions that do not apply to a
// stage are stored as 1.0 and excluded from the overall mean.
type Metrics struct {
	Completeness  float64 `json:"completeness"`
	Consistency   float64 `json:"consistency"`
	Security      float64 `json:"security"`
	BestPractices float64 `json:"best_practices"`
	Overall       float64 `json:"overall"`
}

// Neutral returns the conservative metrics used when assessment itself fails.
func Neutral() Metrics {
	return Metrics{
		Completeness:  0.5,
		Consistency:   0.5,
		Security:      0.5,
		BestPractices: 0.5,
		Overall:       0.5,
	}
}

// MeetsThreshold reports whether the overall score reaches the threshold.
func (m Metrics) MeetsThreshold(threshold float64) bool {
	return m.Overall >= threshold
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// notApplicable marks a dimension as excluded from the overall mean.
const notApplicable = 1.0

// mean averages the given applicable sub-scores, clamping each to [0,1].
func mean(scores ...float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range scores {
		sum += clamp01(s)
	}
	return sum / float64(len(scores))
}
