package recovery

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxislabs/sdlcwiz/internal/config"
)

func testEngine(fallbacks ...string) (*Engine, *[]time.Duration) {
	e := NewEngine(config.RecoveryConfig{
		MaxRetries: 3,
		BaseDelay:  2 * time.Second,
		MaxDelay:   10 * time.Second,
		Timeout:    60 * time.Second,
		MaxTimeout: 180 * time.Second,
	}, fallbacks)

	var slept []time.Duration
	e.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return e, &slept
}

func TestClassify(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		want Kind
	}{
		{&BackendError{Backend: "groq", Err: errors.New("503")}, KindBackend},
		{&ValidationError{Reason: "too short"}, KindValidation},
		{&ContentError{Reason: "empty output"}, KindContent},
		{&TimeoutError{Budget: time.Minute}, KindTimeout},
		{&MissingDependencyError{Component: "api key"}, KindDependency},
		{fmt.Errorf("call backend: %w", context.DeadlineExceeded), KindTimeout},
		{&BackendError{Backend: "groq", Err: context.DeadlineExceeded}, KindTimeout},
		{errors.New("something odd"), KindUnclassified},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Classify(c.err), c.err.Error())
	}
}

func TestBackendRetryBudget(t *testing.T) {
	t.Parallel()

	e, slept := testEngine("fallback-a", "fallback-b")
	ctx := context.Background()
	err := &BackendError{Backend: "primary", Err: errors.New("503")}

	for i := 0; i < 3; i++ {
		a := e.Handle(ctx, Attempt{Stage: "code", Retries: i}, err)
		assert.Equal(t, ActionRetry, a.Type)
		assert.True(t, a.Recovered)
		assert.Equal(t, i+1, a.Attempt)
	}
	// Deterministic doubling from the base delay, capped at the max.
	require.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second}, *slept)

	// Budget spent: rotate through fallbacks, then give up.
	a := e.Handle(ctx, Attempt{Stage: "code", Retries: 3}, err)
	assert.Equal(t, ActionSwitchBackend, a.Type)
	assert.Equal(t, "fallback-a", a.Backend)

	a = e.Handle(ctx, Attempt{Stage: "code", Retries: 3, FallbacksUsed: 1}, err)
	assert.Equal(t, "fallback-b", a.Backend)

	a = e.Handle(ctx, Attempt{Stage: "code", Retries: 3, FallbacksUsed: 2}, err)
	assert.Equal(t, ActionManual, a.Type)
	assert.False(t, a.Recovered)
}

func TestBackendBackoffCap(t *testing.T) {
	t.Parallel()

	e, _ := testEngine()
	assert.Equal(t, 2*time.Second, e.backoffDelay(1))
	assert.Equal(t, 4*time.Second, e.backoffDelay(2))
	assert.Equal(t, 8*time.Second, e.backoffDelay(3))
	assert.Equal(t, 10*time.Second, e.backoffDelay(4))
	assert.Equal(t, 10*time.Second, e.backoffDelay(7))
}

func TestBackoffCanceled(t *testing.T) {
	t.Parallel()

	e, _ := testEngine()
	e.sleep = func(ctx context.Context, _ time.Duration) error { return context.Canceled }

	a := e.Handle(context.Background(), Attempt{Stage: "code"}, &BackendError{Backend: "p", Err: errors.New("x")})
	assert.Equal(t, ActionManual, a.Type)
	assert.False(t, a.Recovered)
}

func TestValidationSuggestions(t *testing.T) {
	t.Parallel()

	e, slept := testEngine()
	a := e.Handle(context.Background(), Attempt{Stage: "requirements"},
		&ValidationError{Reason: "requirements too short"})

	assert.Equal(t, ActionEnrichPrompt, a.Type)
	assert.True(t, a.Recovered)
	assert.Equal(t, enrichmentSuggestions, a.Suggestions)
	assert.Empty(t, *slept)

	custom := e.Handle(context.Background(), Attempt{Stage: "requirements"},
		&ValidationError{Reason: "missing users", Suggestions: []string{"name the users"}})
	assert.Equal(t, []string{"name the users"}, custom.Suggestions)
}

func TestContentReducesScope(t *testing.T) {
	t.Parallel()

	e, _ := testEngine()
	a := e.Handle(context.Background(), Attempt{Stage: "stories"}, &ContentError{Reason: "empty output"})
	assert.Equal(t, ActionReduceScope, a.Type)
	assert.True(t, a.Recovered)
}

func TestTimeoutDoubling(t *testing.T) {
	t.Parallel()

	e, _ := testEngine()
	ctx := context.Background()
	err := &TimeoutError{Budget: time.Minute}

	a := e.Handle(ctx, Attempt{Stage: "code", Timeout: 60 * time.Second}, err)
	assert.Equal(t, ActionExtendTimeout, a.Type)
	assert.Equal(t, 120*time.Second, a.Timeout)

	a = e.Handle(ctx, Attempt{Stage: "code", Timeout: 120 * time.Second}, err)
	assert.Equal(t, 180*time.Second, a.Timeout)

	a = e.Handle(ctx, Attempt{Stage: "code", Timeout: 180 * time.Second}, err)
	assert.Equal(t, ActionManual, a.Type)
	assert.False(t, a.Recovered)

	// Zero means the configured default budget.
	a = e.Handle(ctx, Attempt{Stage: "code"}, err)
	assert.Equal(t, 120*time.Second, a.Timeout)
}

func TestMissingDependency(t *testing.T) {
	t.Parallel()

	e, _ := testEngine()
	a := e.Handle(context.Background(), Attempt{Stage: "deployment"},
		&MissingDependencyError{Component: "GROQ_API_KEY"})
	assert.Equal(t, ActionProvision, a.Type)
	assert.False(t, a.Recovered)
	assert.Equal(t, "GROQ_API_KEY", a.Component)
}

func TestUnclassifiedIsManualButRecovered(t *testing.T) {
	t.Parallel()

	e, _ := testEngine()
	a := e.Handle(context.Background(), Attempt{Stage: "qa"}, errors.New("surprise"))
	assert.Equal(t, ActionManual, a.Type)
	assert.True(t, a.Recovered)
}

func TestSummary(t *testing.T) {
	t.Parallel()

	e, _ := testEngine()
	assert.Zero(t, e.Summary().Total)
	assert.Nil(t, e.Summary().Last)

	ctx := context.Background()
	e.Handle(ctx, Attempt{Stage: "stories"}, &ContentError{Reason: "empty"})
	e.Handle(ctx, Attempt{Stage: "code"}, &MissingDependencyError{Component: "db"})
	e.Handle(ctx, Attempt{Stage: "qa"}, errors.New("odd"))

	s := e.Summary()
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 1, s.ByKind[KindContent])
	assert.Equal(t, 1, s.ByKind[KindDependency])
	assert.Equal(t, 1, s.ByKind[KindUnclassified])
	require.NotNil(t, s.Last)
	assert.Equal(t, "qa", s.Last.Stage)
	assert.InDelta(t, 2.0/3.0, s.RecoveryRate, 1e-9)

	require.Len(t, e.History(), 3)
}
