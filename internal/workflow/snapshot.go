package workflow

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/praxislabs/sdlcwiz/internal/decision"
	"github.com/praxislabs/sdlcwiz/internal/optimizer"
	"github.com/praxislabs/sdlcwiz/internal/recovery"
)

// Snapshot is the full externalized state of an instance: enough to render
// it anywhere and to continue a suspended run from exactly this point.
type Snapshot struct {
	ID           string                 `json:"id"`
	Status       Status                 `json:"status"`
	Autonomy     decision.Level         `json:"autonomy"`
	Language     string                 `json:"language"`
	Requirements string                 `json:"requirements"`
	CurrentStage string                 `json:"current_stage"`
	Stages       map[string]*StageState `json:"stages"`
	Feedback     string                 `json:"feedback,omitempty"`
	StartedAt    time.Time              `json:"started_at"`
	Iterations   int                    `json:"iterations"`

	Definition  Definition        `json:"definition"`
	Decisions   []decision.Record `json:"decisions,omitempty"`
	Errors      []recovery.Record `json:"errors,omitempty"`
	Performance *optimizer.Report `json:"performance,omitempty"`
	ErrorStats  *recovery.Summary `json:"error_stats,omitempty"`
}

// Snapshot builds the read model, including the decision trail and error
// history from the machine's engines.
func (m *Machine) Snapshot() Snapshot {
	inst := m.inst
	inst.lock()
	defer inst.unlock()

	stages := make(map[string]*StageState, len(inst.Stages))
	for name, s := range inst.Stages {
		copied := *s
		stages[name] = &copied
	}

	snap := Snapshot{
		ID:           inst.ID,
		Status:       inst.Status,
		Autonomy:     inst.Autonomy,
		Language:     inst.Language,
		Requirements: inst.Requirements,
		CurrentStage: inst.CurrentStage().Name,
		Stages:       stages,
		Feedback:     inst.Feedback,
		StartedAt:    inst.StartedAt,
		Iterations:   inst.Iterations,
		Definition:   inst.Definition,
		Decisions:    m.decider.Log().Records(),
		Errors:       m.recover.History(),
		Performance:  inst.Performance,
	}
	if len(snap.Errors) > 0 {
		stats := m.recover.Summary()
		snap.ErrorStats = &stats
	}
	return snap
}

func (m *Machine) snapshotJSON() string {
	data, err := json.Marshal(m.Snapshot())
	if err != nil {
		// Snapshot contains only marshalable types; this is unreachable
		// short of a programming error.
		return "{}"
	}
	return string(data)
}

// ParseSnapshot decodes a stored snapshot.
func ParseSnapshot(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("parse snapshot: %w", err)
	}
	if err := snap.Definition.Validate(); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot pipeline: %w", err)
	}
	return snap, nil
}

// RestoreInstance rebuilds a live instance from a snapshot. Committed
// stages are carried over as-is, so nothing re-executes on resume.
func RestoreInstance(snap Snapshot) (*Instance, error) {
	idx := snap.Definition.Index(snap.CurrentStage)
	if idx < 0 {
		return nil, fmt.Errorf("snapshot stage %q not in pipeline", snap.CurrentStage)
	}
	stages := make(map[string]*StageState, len(snap.Stages))
	for name, s := range snap.Stages {
		copied := *s
		stages[name] = &copied
	}
	return &Instance{
		ID:           snap.ID,
		Definition:   snap.Definition,
		Autonomy:     snap.Autonomy,
		Language:     snap.Language,
		Requirements: snap.Requirements,
		Current:      idx,
		Status:       snap.Status,
		Stages:       stages,
		Feedback:     snap.Feedback,
		StartedAt:    snap.StartedAt,
		Iterations:   snap.Iterations,
		Performance:  snap.Performance,
	}, nil
}
