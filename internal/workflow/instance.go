package workflow

import (
	"sync"
	"time"

	"github.com/praxislabs/sdlcwiz/internal/decision"
	"github.com/praxislabs/sdlcwiz/internal/optimizer"
	"github.com/praxislabs/sdlcwiz/internal/quality"
)

// Status is the lifecycle state of a workflow instance.
type Status string

const (
	StatusRunning   Status = "running"
	StatusSuspended Status = "suspended"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusAbandoned Status = "abandoned"
)

// StageState is everything committed for one stage.
type StageState struct {
	Artifact    quality.Artifact `json:"artifact"`
	Metrics     quality.Metrics  `json:"metrics"`
	Decision    decision.Outcome `json:"decision,omitempty"`
	Feedback    string           `json:"feedback,omitempty"`
	Suggestions []string         `json:"suggestions,omitempty"`
	Attempts    int              `json:"attempts"`
}

// Instance is one running workflow. All mutation goes through its owning
// Machine, which serializes access with the instance mutex.
type Instance struct {
	mu sync.Mutex

	ID           string
	Definition   Definition
	Autonomy     decision.Level
	Language     string
	Requirements string

	Current int
	Status  Status
	Stages  map[string]*StageState

	// Feedback is pending reviewer guidance consumed by the next
	// regeneration of the routed stage.
	Feedback string

	StartedAt  time.Time
	Iterations int

	Performance *optimizer.Report
}

func (in *Instance) lock()   { in.mu.Lock() }
func (in *Instance) unlock() { in.mu.Unlock() }

// CurrentStage returns the stage the instance is positioned at.
func (in *Instance) CurrentStage() Stage {
	return in.Definition.Stages[in.Current]
}

// stageState returns the committed state for a stage, or an empty one.
func (in *Instance) stageState(name string) StageState {
	if s, ok := in.Stages[name]; ok {
		return *s
	}
	return StageState{}
}

// artifactText returns the committed artifact text of a stage.
func (in *Instance) artifactText(name string) string {
	return in.stageState(name).Artifact.Text
}

// context assembles the quality context visible to the stage being
// generated, including any pending reviewer feedback.
func (in *Instance) context() quality.Context {
	return quality.Context{
		Requirements: in.Requirements,
		Stories:      in.stageState("stories").Artifact.Stories,
		Design:       in.artifactText("design"),
		Code:         in.artifactText("code"),
		TestCases:    in.artifactText("tests"),
		Feedback:     in.Feedback,
	}
}
