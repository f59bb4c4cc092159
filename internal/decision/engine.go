package decision

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/praxislabs/sdlcwiz/internal/quality"
)

// Result is the outcome of one quality gate evaluation.
type Result struct {
	Outcome  Outcome
	Metrics  quality.Metrics
	Feedback string
}

// Engine evaluates stage artifacts and decides whether they pass their
// quality gate at the configured autonomy level.
type Engine struct {
	assess *quality.Engine
	level  Level
	log    *Log
	now    func() time.Time
}

func NewEngine(assess *quality.Engine, level Level) *Engine {
	return &Engine{
		assess: assess,
		level:  level,
		log:    &Log{},
		now:    time.Now,
	}
}

func (e *Engine) Level() Level { return e.level }

// Log exposes the decision trail for reporting and persistence.
func (e *Engine) Log() *Log { return e.log }

// Decide assesses the artifact and applies the autonomy threshold. An
// assessment failure degrades to a deny with neutral metrics rather than
// failing the run.
func (e *Engine) Decide(stage string, kind quality.Kind, a quality.Artifact, c quality.Context) Result {
	metrics, err := e.assess.Assess(kind, a, c)
	if err != nil {
		log.Warn().Err(err).Str("stage", stage).Msg("quality assessment failed, denying")
		res := Result{
			Outcome:  OutcomeDeny,
			Metrics:  quality.Neutral(),
			Feedback: fmt.Sprintf("Quality assessment failed (%s); manual review required", err),
		}
		e.record(stage, res, SourceAuto)
		return res
	}

	outcome := OutcomeDeny
	if e.level.AutoApprove() && metrics.MeetsThreshold(e.level.Threshold()) {
		outcome = OutcomeApprove
	}
	res := Result{
		Outcome:  outcome,
		Metrics:  metrics,
		Feedback: buildFeedback(kind, metrics),
	}
	log.Debug().
		Str("stage", stage).
		Str("outcome", string(outcome)).
		Float64("score", metrics.Overall).
		Float64("threshold", e.level.Threshold()).
		Msg("gate decision")
	e.record(stage, res, SourceAuto)
	return res
}

// RecordHuman logs a decision made by a person at a gate.
func (e *Engine) RecordHuman(stage string, outcome Outcome, score float64, feedback string) {
	e.log.Append(Record{
		Stage:     stage,
		Outcome:   outcome,
		Score:     score,
		Autonomy:  e.level,
		Source:    SourceHuman,
		Feedback:  feedback,
		Timestamp: e.now(),
	})
}

func (e *Engine) record(stage string, res Result, source string) {
	e.log.Append(Record{
		Stage:     stage,
		Outcome:   res.Outcome,
		Score:     res.Metrics.Overall,
		Autonomy:  e.level,
		Source:    source,
		Feedback:  res.Feedback,
		Timestamp: e.now(),
	})
}
