package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/praxislabs/sdlcwiz/internal/config"
	"github.com/praxislabs/sdlcwiz/internal/db"
	"github.com/praxislabs/sdlcwiz/internal/decision"
	"github.com/praxislabs/sdlcwiz/internal/generator"
	"github.com/praxislabs/sdlcwiz/internal/optimizer"
	"github.com/praxislabs/sdlcwiz/internal/quality"
	"github.com/praxislabs/sdlcwiz/internal/recovery"
)

// Machine drives one workflow instance through its pipeline: generating,
// assessing, deciding, recovering, and checkpointing. One machine owns one
// instance; callers must serialize calls into it.
type Machine struct {
	cfg  config.Config
	def  Definition
	lang config.LanguageSpec

	decider *decision.Engine
	recover *recovery.Engine
	opt     *optimizer.Optimizer

	gens     []generator.Generator
	genIndex int
	timeout  time.Duration

	store *db.Store
	inst  *Instance
	newID func() string
}

// NewMachine builds a machine for a fresh instance. gens lists the primary
// backend first, then the configured fallbacks in rotation order.
func NewMachine(cfg config.Config, def Definition, gens []generator.Generator, store *db.Store) (*Machine, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	if len(gens) == 0 {
		return nil, fmt.Errorf("at least one generator is required")
	}
	level, err := decision.ParseLevel(cfg.Autonomy)
	if err != nil {
		return nil, err
	}

	fallbackNames := make([]string, 0, len(gens)-1)
	for _, g := range gens[1:] {
		fallbackNames = append(fallbackNames, g.Name())
	}

	return &Machine{
		cfg:     cfg,
		def:     def,
		lang:    config.Language(cfg.Language),
		decider: decision.NewEngine(quality.NewEngine(), level),
		recover: recovery.NewEngine(cfg.Recovery, fallbackNames),
		opt:     optimizer.New(),
		gens:    gens,
		timeout: cfg.Recovery.Timeout,
		store:   store,
		newID:   func() string { return uuid.NewString() },
	}, nil
}

// Instance returns the owned instance, or nil before Start/Attach.
func (m *Machine) Instance() *Instance { return m.inst }

// Decider exposes the decision engine for reporting.
func (m *Machine) Decider() *decision.Engine { return m.decider }

// Recovery exposes the recovery engine for reporting.
func (m *Machine) Recovery() *recovery.Engine { return m.recover }

// Start validates the requirements, creates the instance, and advances it
// until it suspends, completes, or fails. Requirements below the minimum
// word count are rejected with enrichment suggestions.
func (m *Machine) Start(ctx context.Context, requirements string) (*Instance, error) {
	requirements = strings.TrimSpace(requirements)
	if len(strings.Fields(requirements)) < config.MinRequirementWords {
		valErr := &recovery.ValidationError{
			Reason: fmt.Sprintf("requirements need at least %d words", config.MinRequirementWords),
		}
		action := m.recover.Handle(ctx, recovery.Attempt{Stage: m.def.Stages[0].Name}, valErr)
		return nil, fmt.Errorf("%w (try: %s)", valErr, strings.Join(action.Suggestions, "; "))
	}

	inst := &Instance{
		ID:           m.newID(),
		Definition:   m.def,
		Autonomy:     m.decider.Level(),
		Language:     m.cfg.Language,
		Requirements: requirements,
		Status:       StatusRunning,
		Stages:       map[string]*StageState{},
		StartedAt:    time.Now(),
	}
	inst.Stages[m.def.Stages[0].Name] = &StageState{
		Artifact: quality.Artifact{Text: requirements},
	}
	m.inst = inst

	if m.store != nil {
		err := m.store.CreateInstance(ctx, db.RunInfo{
			InstanceID:   inst.ID,
			Autonomy:     inst.Autonomy.String(),
			Language:     inst.Language,
			Status:       string(inst.Status),
			CurrentStage: inst.CurrentStage().Name,
		}, requirements, m.snapshotJSON())
		if err != nil {
			return nil, fmt.Errorf("persist new workflow: %w", err)
		}
	}

	log.Info().Str("instance", inst.ID).Str("autonomy", inst.Autonomy.String()).Msg("workflow started")
	return inst, m.advance(ctx)
}

// Attach adopts a restored instance so a suspended run can continue.
func (m *Machine) Attach(inst *Instance) {
	m.inst = inst
}

// Restore rebuilds the instance from a snapshot and replays the decision
// trail and error history into the engines, so the audit record survives
// process restarts.
func (m *Machine) Restore(snap Snapshot) error {
	inst, err := RestoreInstance(snap)
	if err != nil {
		return err
	}
	// The snapshot's autonomy wins over the current config so a resumed run
	// keeps the gating behavior it started with.
	m.def = snap.Definition
	m.decider = decision.NewEngine(quality.NewEngine(), snap.Autonomy)
	m.decider.Log().Replay(snap.Decisions)
	m.recover.Replay(snap.Errors)
	m.inst = inst
	return nil
}

// Resume delivers a human decision to a suspended instance and advances it.
// Deny routes back to the gate's remediation stage with the reviewer's
// feedback prepended to the generation context.
func (m *Machine) Resume(ctx context.Context, approve bool, feedback string) error {
	inst := m.inst
	if inst == nil {
		return fmt.Errorf("no instance attached")
	}
	inst.lock()
	if inst.Status != StatusSuspended {
		inst.unlock()
		return fmt.Errorf("instance %s is %s, not suspended", inst.ID, inst.Status)
	}
	stage := inst.CurrentStage()

	switch stage.Kind {
	case StageHumanGate:
		reviewed := inst.stageState(stage.Remediate)
		if approve {
			m.decider.RecordHuman(stage.Name, decision.OutcomeApprove, reviewed.Metrics.Overall, feedback)
			inst.Current++
			inst.Status = StatusRunning
			inst.unlock()
			m.checkpoint(ctx, "gate_approved", fmt.Sprintf("%s approved by reviewer", stage.Name))
		} else {
			m.decider.RecordHuman(stage.Name, decision.OutcomeDeny, reviewed.Metrics.Overall, feedback)
			inst.Feedback = feedback
			inst.Current = m.def.Index(stage.Remediate)
			inst.Status = StatusRunning
			inst.unlock()
			m.checkpoint(ctx, "gate_denied", fmt.Sprintf("%s denied, regenerating %s", stage.Name, stage.Remediate))
		}
	case StageGenerated:
		// Suspended for manual intervention mid-generation; resume retries
		// the stage with any feedback provided.
		inst.Feedback = feedback
		inst.Status = StatusRunning
		inst.unlock()
		m.checkpoint(ctx, "resumed", fmt.Sprintf("%s resumed after manual intervention", stage.Name))
	default:
		inst.unlock()
		return fmt.Errorf("cannot resume at stage %s (%s)", stage.Name, stage.Kind)
	}

	return m.advance(ctx)
}

// Abandon cancels a run at a suspension point. History stays as written.
func (m *Machine) Abandon(ctx context.Context) error {
	inst := m.inst
	if inst == nil {
		return fmt.Errorf("no instance attached")
	}
	inst.lock()
	if inst.Status != StatusSuspended && inst.Status != StatusRunning {
		inst.unlock()
		return fmt.Errorf("instance %s is already %s", inst.ID, inst.Status)
	}
	inst.Status = StatusAbandoned
	inst.unlock()
	m.checkpoint(ctx, "abandoned", "workflow abandoned")
	return nil
}

// advance walks stages until the instance suspends, completes, or fails.
func (m *Machine) advance(ctx context.Context) error {
	inst := m.inst
	for {
		inst.lock()
		if inst.Status != StatusRunning {
			inst.unlock()
			return nil
		}
		stage := inst.CurrentStage()
		inst.unlock()

		switch stage.Kind {
		case StageInput:
			inst.lock()
			inst.Current++
			inst.unlock()
		case StageGenerated:
			if err := m.runGenerated(ctx, stage); err != nil {
				return err
			}
		case StageHumanGate:
			inst.lock()
			inst.Status = StatusSuspended
			inst.unlock()
			m.checkpoint(ctx, "gate_suspended", fmt.Sprintf("awaiting review at %s", stage.Name))
			return nil
		case StageTerminal:
			m.complete(ctx, stage)
			return nil
		}
	}
}

// runGenerated executes one generated stage: generate with recovery, then
// assess and decide. Approval commits and skips the following human gate;
// denial either regenerates once with feedback (FullAuto and above) or
// suspends at the gate for review.
func (m *Machine) runGenerated(ctx context.Context, stage Stage) error {
	inst := m.inst
	retries := 0
	scopeReduced := false
	regenerated := false

	for {
		gen := m.gens[m.genIndex]
		req := generator.BuildRequest(stage.Scorer, inst.context(), m.lang)
		if scopeReduced {
			req.Instructions += "\nKeep the output minimal: cover only the core functionality."
		}

		genCtx, cancel := context.WithTimeout(ctx, m.timeout)
		out, err := gen.Generate(genCtx, req)
		cancel()
		if err == nil && strings.TrimSpace(out) == "" {
			err = &recovery.ContentError{Reason: "backend returned empty output"}
		}
		if err != nil {
			if recovery.Classify(err) == recovery.KindUnclassified {
				err = &recovery.BackendError{Backend: gen.Name(), Err: err}
			}
			action := m.recover.Handle(ctx, recovery.Attempt{
				Stage:         stage.Name,
				Retries:       retries,
				FallbacksUsed: m.genIndex,
				Timeout:       m.timeout,
			}, err)

			switch action.Type {
			case recovery.ActionRetry:
				retries = action.Attempt
				continue
			case recovery.ActionSwitchBackend:
				m.genIndex = m.generatorIndex(action.Backend)
				retries = 0
				log.Info().Str("stage", stage.Name).Str("backend", action.Backend).Msg("switching generation backend")
				continue
			case recovery.ActionExtendTimeout:
				m.timeout = action.Timeout
				continue
			case recovery.ActionReduceScope:
				if scopeReduced {
					m.suspendManual(ctx, stage, "generated content unusable after scope reduction")
					return nil
				}
				scopeReduced = true
				continue
			default:
				if action.Recovered {
					m.suspendManual(ctx, stage, action.Message)
					return nil
				}
				inst.lock()
				inst.Status = StatusFailed
				inst.unlock()
				m.checkpoint(ctx, "failed", fmt.Sprintf("%s: %s", stage.Name, action.Message))
				return fmt.Errorf("stage %s: %w", stage.Name, err)
			}
		}

		artifact := buildArtifact(stage.Scorer, out, inst.Language)
		res := m.decider.Decide(stage.Name, stage.Scorer, artifact, inst.context())

		inst.lock()
		inst.Iterations++
		attempts := inst.stageState(stage.Name).Attempts + 1
		state := &StageState{
			Artifact:    artifact,
			Metrics:     res.Metrics,
			Decision:    res.Outcome,
			Feedback:    res.Feedback,
			Suggestions: optimizer.Suggest(stage.Scorer, artifact, inst.context()),
			Attempts:    attempts,
		}
		inst.Stages[stage.Name] = state

		if res.Outcome == decision.OutcomeApprove {
			inst.Feedback = ""
			inst.Current++
			skipped := ""
			if inst.Current < len(m.def.Stages) && m.def.Stages[inst.Current].Kind == StageHumanGate {
				skipped = m.def.Stages[inst.Current].Name
				inst.Current++
			}
			inst.unlock()
			msg := fmt.Sprintf("%s approved (score %.2f)", stage.Name, res.Metrics.Overall)
			if skipped != "" {
				msg += fmt.Sprintf(", %s auto-approved", skipped)
			}
			m.checkpoint(ctx, "stage_committed", msg)
			return nil
		}

		if m.allowOverride() && !regenerated {
			regenerated = true
			inst.Feedback = res.Feedback
			inst.unlock()
			log.Info().Str("stage", stage.Name).Float64("score", res.Metrics.Overall).Msg("denied, regenerating with feedback")
			continue
		}

		// Park at the following gate so a reviewer sees the artifact and
		// the generated feedback; the advance loop suspends there. Without
		// a gate, suspend at the stage itself.
		inst.Feedback = ""
		if inst.Current+1 < len(m.def.Stages) && m.def.Stages[inst.Current+1].Kind == StageHumanGate {
			inst.Current++
		} else {
			inst.Status = StatusSuspended
		}
		inst.unlock()
		m.checkpoint(ctx, "review_requested", fmt.Sprintf("%s denied (score %.2f), awaiting review", stage.Name, res.Metrics.Overall))
		return nil
	}
}

// allowOverride reports whether a denial may trigger one autonomous
// regeneration instead of suspending.
func (m *Machine) allowOverride() bool {
	level := m.decider.Level()
	return level == decision.LevelFullAuto || level == decision.LevelExpertAuto
}

func (m *Machine) generatorIndex(name string) int {
	for i, g := range m.gens {
		if g.Name() == name {
			return i
		}
	}
	return m.genIndex
}

func (m *Machine) suspendManual(ctx context.Context, stage Stage, reason string) {
	inst := m.inst
	inst.lock()
	inst.Status = StatusSuspended
	inst.unlock()
	m.checkpoint(ctx, "manual_intervention", fmt.Sprintf("%s: %s", stage.Name, reason))
}

// complete runs the terminal stage: performance analysis and final commit.
func (m *Machine) complete(ctx context.Context, stage Stage) {
	inst := m.inst

	report := m.opt.Analyze(optimizer.RunMetrics{
		Duration:            time.Since(inst.StartedAt),
		Iterations:          inst.Iterations,
		Errors:              len(m.recover.History()),
		AutonomousDecisions: m.decider.Log().AutonomousCount(),
	})

	inst.lock()
	inst.Performance = &report
	inst.Status = StatusCompleted
	inst.unlock()

	log.Info().
		Str("instance", inst.ID).
		Float64("score", report.Score).
		Str("rating", report.Rating).
		Msg("workflow completed")
	m.checkpoint(ctx, "workflow_completed", fmt.Sprintf("completed at %s, efficiency %s", stage.Name, report.Rating))
}

// checkpoint persists the current snapshot and a timeline event. A
// persistence failure is logged but does not interrupt the run.
func (m *Machine) checkpoint(ctx context.Context, eventType, message string) {
	if m.store == nil {
		return
	}
	inst := m.inst
	inst.lock()
	status := string(inst.Status)
	stageName := inst.CurrentStage().Name
	id := inst.ID
	inst.unlock()

	err := m.store.SaveCheckpoint(ctx, id, status, stageName, m.snapshotJSON(), []db.Event{
		{Type: eventType, Message: message},
	})
	if err != nil {
		log.Error().Err(err).Str("instance", id).Msg("failed to save checkpoint")
	}
}
