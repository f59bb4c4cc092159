package optimizer

import (
	"sync"
	"time"
)

// Trend labels for Report.Trend.
const (
	TrendImproving    = "improving"
	TrendDeclining    = "declining"
	TrendStable       = "stable"
	TrendInsufficient = "insufficient-data"
)

// Normalization baselines: a run at or past a baseline scores zero on that
// component.
const (
	baselineDuration   = time.Hour
	baselineIterations = 5
	baselineErrors     = 3
)

const (
	weightDuration   = 0.4
	weightIterations = 0.3
	weightErrors     = 0.3

	autonomyBonusPer = 0.05
	autonomyBonusCap = 0.2
)

const historyCap = 50

// RunMetrics summarizes one finished (or suspended) workflow run.
type RunMetrics struct {
	Duration            time.Duration `json:"duration"`
	Iterations          int           `json:"iterations"`
	Errors              int           `json:"errors"`
	AutonomousDecisions int           `json:"autonomous_decisions"`
}

// Report is the outcome of analyzing one run against the history.
type Report struct {
	Score       float64  `json:"score"`
	Suggestions []string `json:"suggestions"`
	Trend       string   `json:"trend"`
	Rating      string   `json:"rating"`
}

type scoreRecord struct {
	score float64
	at    time.Time
}

// Optimizer scores runs and tracks efficiency across them.
type Optimizer struct {
	mu      sync.Mutex
	history []scoreRecord
	now     func() time.Time
}

func New() *Optimizer {
	return &Optimizer{now: time.Now}
}

// Analyze scores a run, appends it to the capped history, and derives
// suggestions, trend, and a rating.
func (o *Optimizer) Analyze(m RunMetrics) Report {
	score := Score(m)

	o.mu.Lock()
	o.history = append(o.history, scoreRecord{score: score, at: o.now()})
	if len(o.history) > historyCap {
		o.history = o.history[len(o.history)-historyCap:]
	}
	scores := make([]float64, len(o.history))
	for i, r := range o.history {
		scores[i] = r.score
	}
	o.mu.Unlock()

	return Report{
		Score:       score,
		Suggestions: suggestions(m),
		Trend:       trend(scores),
		Rating:      rating(score),
	}
}

// Score is the efficiency score for a single run: fewer seconds, iterations,
// and errors all score higher, plus a capped bonus per autonomous decision.
func Score(m RunMetrics) float64 {
	duration := inverted(m.Duration.Seconds(), baselineDuration.Seconds())
	iterations := inverted(float64(m.Iterations), baselineIterations)
	errors := inverted(float64(m.Errors), baselineErrors)

	score := duration*weightDuration + iterations*weightIterations + errors*weightErrors

	bonus := float64(m.AutonomousDecisions) * autonomyBonusPer
	if bonus > autonomyBonusCap {
		bonus = autonomyBonusCap
	}
	return clamp01(score + bonus)
}

// inverted maps value/baseline to [0,1] with 1 meaning "none used".
func inverted(value, baseline float64) float64 {
	return clamp01(1 - clamp01(value/baseline))
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

func suggestions(m RunMetrics) []string {
	var out []string
	if m.Iterations > baselineIterations {
		out = append(out, "Provide richer requirements up front to cut regeneration cycles")
	}
	if m.Errors > baselineErrors {
		out = append(out, "Enable error recovery and configure fallback generation backends")
	}
	if m.Duration > baselineDuration {
		out = append(out, "Raise the autonomy level or switch to a more capable generation backend")
	}
	if m.AutonomousDecisions == 0 && m.Iterations > 1 {
		out = append(out, "Raise the autonomy level to reduce manual review stops")
	}
	return out
}

// trend compares the mean of the most recent window against the mean of
// everything older.
const (
	trendWindow    = 5
	trendThreshold = 0.05
)

func trend(scores []float64) string {
	if len(scores) < 3 {
		return TrendInsufficient
	}
	split := len(scores) - trendWindow
	if split <= 0 {
		return TrendStable
	}
	recent := mean(scores[split:])
	older := mean(scores[:split])
	switch {
	case recent-older > trendThreshold:
		return TrendImproving
	case older-recent > trendThreshold:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func mean(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}

func rating(score float64) string {
	switch {
	case score >= 0.9:
		return "Excellent"
	case score >= 0.75:
		return "Good"
	case score >= 0.6:
		return "Fair"
	case score >= 0.4:
		return "Poor"
	default:
		return "Needs Improvement"
	}
}

// HistoryLen reports how many runs are currently tracked.
func (o *Optimizer) HistoryLen() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.history)
}
