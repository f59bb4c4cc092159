package decision

import (
	"sync"
	"time"
)

// Outcome is the verdict on a stage artifact.
type Outcome string

const (
	OutcomeApprove Outcome = "approve"
	OutcomeDeny    Outcome = "deny"
)

// Decision sources.
const (
	SourceAuto  = "auto"
	SourceHuman = "human"
)

// Record is one decision taken during a run, kept for auditability.
type Record struct {
	Stage     string    `json:"stage"`
	Outcome   Outcome   `json:"outcome"`
	Score     float64   `json:"score"`
	Autonomy  Level     `json:"autonomy"`
	Source    string    `json:"source"`
	Feedback  string    `json:"feedback,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Log is an append-only, concurrency-safe decision trail.
type Log struct {
	mu      sync.Mutex
	records []Record
}

// Replay seeds the trail from a restored checkpoint.
func (l *Log) Replay(records []Record) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records[:0], records...)
}

func (l *Log) Append(r Record) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, r)
}

// Records returns a copy of the trail in insertion order.
func (l *Log) Records() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// AutonomousCount is the number of decisions taken without a human.
func (l *Log) AutonomousCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, r := range l.records {
		if r.Source == SourceAuto {
			n++
		}
	}
	return n
}
