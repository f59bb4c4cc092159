package recovery

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog/log"

	"github.com/praxislabs/sdlcwiz/internal/config"
)

// ActionType tells the caller what to do next.
type ActionType string

const (
	ActionRetry         ActionType = "retry"
	ActionSwitchBackend ActionType = "switch_backend"
	ActionEnrichPrompt  ActionType = "enrich_prompt"
	ActionReduceScope   ActionType = "reduce_scope"
	ActionExtendTimeout ActionType = "extend_timeout"
	ActionProvision     ActionType = "provision_dependency"
	ActionManual        ActionType = "manual_intervention"
)

// Action is the structured recovery outcome. Recovered reports whether the
// engine considers the error handled; the state machine may only surface a
// fatal condition when it is false.
type Action struct {
	Type        ActionType
	Recovered   bool
	Wait        time.Duration
	Attempt     int
	Backend     string
	Timeout     time.Duration
	Suggestions []string
	Component   string
	Message     string
}

// Attempt describes where the failing stage currently stands.
type Attempt struct {
	Stage         string
	Retries       int // retries already spent on the current backend
	FallbacksUsed int
	Timeout       time.Duration
}

// Record is one entry in the per-instance error history.
type Record struct {
	Kind      Kind      `json:"kind"`
	Stage     string    `json:"stage"`
	Details   string    `json:"details"`
	Recovered bool      `json:"recovered"`
	Timestamp time.Time `json:"timestamp"`
}

// Summary aggregates the error history.
type Summary struct {
	Total        int          `json:"total"`
	ByKind       map[Kind]int `json:"by_kind"`
	Last         *Record      `json:"last,omitempty"`
	RecoveryRate float64      `json:"recovery_rate"`
}

// enrichmentSuggestions is the default guidance attached to validation
// failures that carry no suggestions of their own.
var enrichmentSuggestions = []string{
	"Describe the main features in more detail",
	"Name the target users and their goals",
	"List the expected inputs and outputs",
	"State constraints such as platform or performance requirements",
}

// Engine applies per-kind recovery strategies and keeps the error history.
type Engine struct {
	cfg       config.RecoveryConfig
	fallbacks []string

	mu      sync.Mutex
	history []Record

	sleep func(context.Context, time.Duration) error
	now   func() time.Time
}

// NewEngine builds a recovery engine. fallbacks are generator backend names
// tried in order once the retry budget is exhausted.
func NewEngine(cfg config.RecoveryConfig, fallbacks []string) *Engine {
	return &Engine{
		cfg:       cfg,
		fallbacks: fallbacks,
		sleep:     sleepContext,
		now:       time.Now,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Handle classifies err, applies the strategy for its kind, and records the
// outcome. It never returns an error; backoff sleeps happen here, without
// holding any lock, and respect ctx cancellation.
func (e *Engine) Handle(ctx context.Context, att Attempt, err error) Action {
	kind := Classify(err)
	action := e.apply(ctx, kind, att, err)

	e.mu.Lock()
	e.history = append(e.history, Record{
		Kind:      kind,
		Stage:     att.Stage,
		Details:   err.Error(),
		Recovered: action.Recovered,
		Timestamp: e.now(),
	})
	e.mu.Unlock()

	log.Debug().
		Str("stage", att.Stage).
		Str("kind", string(kind)).
		Str("action", string(action.Type)).
		Bool("recovered", action.Recovered).
		Msg("error recovery")
	return action
}

func (e *Engine) apply(ctx context.Context, kind Kind, att Attempt, err error) Action {
	switch kind {
	case KindBackend:
		return e.handleBackend(ctx, att)
	case KindValidation:
		return handleValidation(err)
	case KindContent:
		return Action{
			Type:      ActionReduceScope,
			Recovered: true,
			Message:   "reduce the scope or complexity of the request and resubmit",
		}
	case KindTimeout:
		return e.handleTimeout(att)
	case KindDependency:
		var depErr *MissingDependencyError
		component := ""
		if errors.As(err, &depErr) {
			component = depErr.Component
		}
		return Action{
			Type:      ActionProvision,
			Recovered: false,
			Component: component,
			Message:   "provision the missing dependency and restart the stage",
		}
	default:
		return Action{
			Type:      ActionManual,
			Recovered: true,
			Message:   "unclassified error, manual intervention requested",
		}
	}
}

func (e *Engine) handleBackend(ctx context.Context, att Attempt) Action {
	if att.Retries < e.cfg.MaxRetries {
		attempt := att.Retries + 1
		wait := e.backoffDelay(attempt)
		if err := e.sleep(ctx, wait); err != nil {
			return Action{Type: ActionManual, Recovered: false, Message: "canceled during backoff"}
		}
		return Action{Type: ActionRetry, Recovered: true, Wait: wait, Attempt: attempt}
	}
	if att.FallbacksUsed < len(e.fallbacks) {
		return Action{
			Type:      ActionSwitchBackend,
			Recovered: true,
			Backend:   e.fallbacks[att.FallbacksUsed],
		}
	}
	return Action{
		Type:      ActionManual,
		Recovered: false,
		Message:   "retry budget and fallback backends exhausted",
	}
}

// backoffDelay is the deterministic exponential delay for the n-th retry.
func (e *Engine) backoffDelay(attempt int) time.Duration {
	b := &backoff.ExponentialBackOff{
		InitialInterval:     e.cfg.BaseDelay,
		RandomizationFactor: 0,
		Multiplier:          2,
		MaxInterval:         e.cfg.MaxDelay,
	}
	b.Reset()
	wait := b.NextBackOff()
	for i := 1; i < attempt; i++ {
		wait = b.NextBackOff()
	}
	return wait
}

func handleValidation(err error) Action {
	suggestions := enrichmentSuggestions
	var valErr *ValidationError
	if errors.As(err, &valErr) && len(valErr.Suggestions) > 0 {
		suggestions = valErr.Suggestions
	}
	return Action{
		Type:        ActionEnrichPrompt,
		Recovered:   true,
		Suggestions: suggestions,
		Message:     "enrich the input and resubmit",
	}
}

func (e *Engine) handleTimeout(att Attempt) Action {
	current := att.Timeout
	if current <= 0 {
		current = e.cfg.Timeout
	}
	if current >= e.cfg.MaxTimeout {
		return Action{
			Type:      ActionManual,
			Recovered: false,
			Message:   "timeout budget exhausted",
		}
	}
	extended := current * 2
	if extended > e.cfg.MaxTimeout {
		extended = e.cfg.MaxTimeout
	}
	return Action{Type: ActionExtendTimeout, Recovered: true, Timeout: extended}
}

// Replay seeds the history from a restored checkpoint.
func (e *Engine) Replay(records []Record) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history = append(e.history[:0], records...)
}

// History returns a copy of the error records in insertion order.
func (e *Engine) History() []Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Record, len(e.history))
	copy(out, e.history)
	return out
}

// Summary aggregates the history: totals, per-kind counts, the most recent
// record, and the recovered fraction.
func (e *Engine) Summary() Summary {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Summary{ByKind: make(map[Kind]int)}
	recovered := 0
	for i := range e.history {
		r := e.history[i]
		s.ByKind[r.Kind]++
		if r.Recovered {
			recovered++
		}
	}
	s.Total = len(e.history)
	if s.Total > 0 {
		last := e.history[s.Total-1]
		s.Last = &last
		s.RecoveryRate = float64(recovered) / float64(s.Total)
	}
	return s
}
