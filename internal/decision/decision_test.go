package decision

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxislabs/sdlcwiz/internal/quality"
)

const sampleRequirements = "We want to build a task management system. " +
	"Users must be able to create tasks, update tasks, and delete tasks. " +
	"Users must be able to register an account and login. " +
	"The system must expose an API so that other tools can create tasks. " +
	"The system must validate input and confirm changes to users. " +
	"It should also have a secure login for all users."

var sampleStories = []string{
	"As a user, I want to create tasks and update tasks, so that users in the task management system can manage their work",
	"As a registered user, I want to delete tasks from my account, so that I can verify they are removed",
	"As a developer, I want to create tasks through the API, so that other tools can integrate with the system",
	"As a user, I want the system to validate my input and confirm changes, so that I can trust the data shown to users",
}

func TestLevelThresholds(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1.0, LevelManual.Threshold())
	assert.Equal(t, 0.85, LevelSemiAuto.Threshold())
	assert.Equal(t, 0.75, LevelFullAuto.Threshold())
	assert.Equal(t, 0.70, LevelExpertAuto.Threshold())

	assert.False(t, LevelManual.AutoApprove())
	assert.True(t, LevelSemiAuto.AutoApprove())
	assert.True(t, LevelFullAuto.AutoApprove())
	assert.True(t, LevelExpertAuto.AutoApprove())
}

func TestLevelRoundTrip(t *testing.T) {
	t.Parallel()

	for _, l := range []Level{LevelManual, LevelSemiAuto, LevelFullAuto, LevelExpertAuto} {
		text, err := l.MarshalText()
		require.NoError(t, err)
		var back Level
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, l, back)
	}
	_, err := ParseLevel("turbo")
	require.Error(t, err)
}

func TestSemiAutoApprovesWellFormedStories(t *testing.T) {
	t.Parallel()

	e := NewEngine(quality.NewEngine(), LevelSemiAuto)
	res := e.Decide("stories", quality.KindStories,
		quality.Artifact{Stories: sampleStories},
		quality.Context{Requirements: sampleRequirements})

	assert.Equal(t, OutcomeApprove, res.Outcome)
	assert.GreaterOrEqual(t, res.Metrics.Overall, 0.85)
}

func TestEmptyStoriesDenied(t *testing.T) {
	t.Parallel()

	for _, level := range []Level{LevelSemiAuto, LevelFullAuto, LevelExpertAuto} {
		e := NewEngine(quality.NewEngine(), level)
		res := e.Decide("stories", quality.KindStories,
			quality.Artifact{}, quality.Context{Requirements: sampleRequirements})
		assert.Equal(t, OutcomeDeny, res.Outcome, level.String())
		assert.NotEmpty(t, res.Feedback)
	}
}

func TestManualNeverAutoApproves(t *testing.T) {
	t.Parallel()

	e := NewEngine(quality.NewEngine(), LevelManual)
	res := e.Decide("qa", quality.KindQA,
		quality.Artifact{Text: "All checks passed. Fast and responsive."}, quality.Context{})

	assert.Equal(t, OutcomeDeny, res.Outcome)
}

func TestAssessmentFailureDegrades(t *testing.T) {
	t.Parallel()

	e := NewEngine(quality.NewEngine(), LevelFullAuto)
	// A design stage without a parsed document fails assessment.
	res := e.Decide("design", quality.KindDesign, quality.Artifact{Text: "prose"}, quality.Context{})

	assert.Equal(t, OutcomeDeny, res.Outcome)
	assert.Equal(t, quality.Neutral(), res.Metrics)
	assert.Contains(t, res.Feedback, "manual review")
	// The feedback names the failure, not just the fact of one.
	assert.Contains(t, res.Feedback, "no parsed document")
}

func TestHardcodedSecretFeedback(t *testing.T) {
	t.Parallel()

	code := "password = \"hunter2\"\nsecret = \"super-secret\"\n"
	e := NewEngine(quality.NewEngine(), LevelSemiAuto)
	res := e.Decide("code", quality.KindCode,
		quality.Artifact{Text: code, Language: "python"}, quality.Context{})

	assert.Less(t, res.Metrics.Security, 1.0)
	assert.Contains(t, res.Feedback, "vulnerabilities")
}

func TestDecisionLog(t *testing.T) {
	t.Parallel()

	e := NewEngine(quality.NewEngine(), LevelFullAuto)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return fixed }

	e.Decide("stories", quality.KindStories,
		quality.Artifact{Stories: sampleStories},
		quality.Context{Requirements: sampleRequirements})
	e.RecordHuman("design", OutcomeApprove, 0.8, "looks good")

	records := e.Log().Records()
	require.Len(t, records, 2)
	assert.Equal(t, "stories", records[0].Stage)
	assert.Equal(t, SourceAuto, records[0].Source)
	assert.Equal(t, SourceHuman, records[1].Source)
	assert.Equal(t, fixed, records[1].Timestamp)
	assert.Equal(t, 1, e.Log().AutonomousCount())

	// Mutating the copy must not affect the trail.
	records[0].Stage = "tampered"
	assert.Equal(t, "stories", e.Log().Records()[0].Stage)
}

func TestFeedbackPositiveNotes(t *testing.T) {
	t.Parallel()

	high := quality.Metrics{Completeness: 1, Consistency: 0.95, Security: 1, BestPractices: 0.95, Overall: 0.97}
	assert.Contains(t, buildFeedback(quality.KindStories, high), "Excellent")

	good := quality.Metrics{Completeness: 0.8, Consistency: 0.8, Security: 1, BestPractices: 0.8, Overall: 0.8}
	assert.Contains(t, buildFeedback(quality.KindStories, good), "Good quality")

	// A high overall score earns the congratulation even when one
	// dimension still gets a hint.
	mixed := quality.Metrics{Completeness: 1, Consistency: 0.65, Security: 1, BestPractices: 1, Overall: 0.91}
	fb := buildFeedback(quality.KindStories, mixed)
	assert.Contains(t, fb, "Align the stories")
	assert.Contains(t, fb, "Excellent")
}
