package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	handle, err := Open(filepath.Join(t.TempDir(), "sdlcwiz.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = handle.Close() })
	return NewStore(handle)
}

func createInstance(t *testing.T, s *Store, id string) {
	t.Helper()
	err := s.CreateInstance(context.Background(), RunInfo{
		InstanceID:   id,
		Autonomy:     "semi_auto",
		Language:     "python",
		Status:       "running",
		CurrentStage: "requirements",
	}, "build a task tracker with user accounts", `{"stage":"requirements"}`)
	require.NoError(t, err)
}

func TestCreateAndLoad(t *testing.T) {
	s := testStore(t)
	createInstance(t, s, "wf-1")

	snapshot, err := s.LoadSnapshot(context.Background(), "wf-1")
	require.NoError(t, err)
	assert.Equal(t, `{"stage":"requirements"}`, snapshot)

	events, err := s.Events(context.Background(), "wf-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "workflow_started", events[0].Type)
	assert.Equal(t, 1, events[0].Seq)
}

func TestLoadMissing(t *testing.T) {
	s := testStore(t)
	_, err := s.LoadSnapshot(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSaveCheckpoint(t *testing.T) {
	s := testStore(t)
	createInstance(t, s, "wf-1")
	ctx := context.Background()

	err := s.SaveCheckpoint(ctx, "wf-1", "suspended", "stories_gate", `{"stage":"stories_gate"}`, []Event{
		{Type: "stage_committed", Message: "stories approved"},
		{Type: "gate_suspended", Message: "awaiting human review"},
	})
	require.NoError(t, err)

	snapshot, err := s.LoadSnapshot(ctx, "wf-1")
	require.NoError(t, err)
	assert.Equal(t, `{"stage":"stories_gate"}`, snapshot)

	events, err := s.Events(ctx, "wf-1")
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{events[0].Seq, events[1].Seq, events[2].Seq})

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "suspended", runs[0].Status)
	assert.Equal(t, "stories_gate", runs[0].CurrentStage)
}

func TestSaveCheckpointMissing(t *testing.T) {
	s := testStore(t)
	err := s.SaveCheckpoint(context.Background(), "nope", "running", "code", "{}", nil)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPruneKeepLast(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	for _, id := range []string{"wf-1", "wf-2", "wf-3"} {
		createInstance(t, s, id)
	}

	deleted, err := s.PruneRuns(ctx, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestPruneDisabled(t *testing.T) {
	s := testStore(t)
	createInstance(t, s, "wf-1")

	deleted, err := s.PruneRuns(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}
