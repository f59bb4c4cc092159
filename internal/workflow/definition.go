// Package workflow implements the staged delivery state machine: stage
// definitions, running instances, checkpointing, and resume.
package workflow

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/praxislabs/sdlcwiz/internal/quality"
)

// StageKind determines how the state machine treats a stage.
type StageKind string

const (
	StageInput     StageKind = "input"
	StageGenerated StageKind = "generated"
	StageHumanGate StageKind = "human_gate"
	StageTerminal  StageKind = "terminal"
)

// Stage is one step of the pipeline. Generated stages name the scorer that
// gates them; human gates name the stage to regenerate when a reviewer
// denies.
type Stage struct {
	Name      string       `json:"name"`
	Kind      StageKind    `json:"kind"`
	Scorer    quality.Kind `json:"scorer,omitempty"`
	Remediate string       `json:"remediate,omitempty"`
}

// Definition is the ordered pipeline a workflow instance walks.
type Definition struct {
	Stages []Stage `json:"stages"`
}

// Default is the built-in delivery pipeline: every generated stage is
// followed by a human gate, bracketed by the requirements input and the
// terminal deployment stage.
func Default() Definition {
	return Definition{Stages: []Stage{
		{Name: "requirements", Kind: StageInput},
		{Name: "stories", Kind: StageGenerated, Scorer: quality.KindStories},
		{Name: "stories_gate", Kind: StageHumanGate, Remediate: "stories"},
		{Name: "design", Kind: StageGenerated, Scorer: quality.KindDesign},
		{Name: "design_gate", Kind: StageHumanGate, Remediate: "design"},
		{Name: "code", Kind: StageGenerated, Scorer: quality.KindCode},
		{Name: "code_gate", Kind: StageHumanGate, Remediate: "code"},
		{Name: "security", Kind: StageGenerated, Scorer: quality.KindSecurity},
		{Name: "security_gate", Kind: StageHumanGate, Remediate: "security"},
		{Name: "tests", Kind: StageGenerated, Scorer: quality.KindTests},
		{Name: "tests_gate", Kind: StageHumanGate, Remediate: "tests"},
		{Name: "qa", Kind: StageGenerated, Scorer: quality.KindQA},
		{Name: "qa_gate", Kind: StageHumanGate, Remediate: "qa"},
		{Name: "deployment", Kind: StageTerminal},
	}}
}

// yamlStage is the on-disk shape of a stage; scorer names are resolved
// after parsing.
type yamlStage struct {
	Name      string `yaml:"name"`
	Kind      string `yaml:"kind"`
	Scorer    string `yaml:"scorer"`
	Remediate string `yaml:"remediate"`
}

type yamlDefinition struct {
	Stages []yamlStage `yaml:"stages"`
}

// Load reads a pipeline definition from a YAML file and validates it.
func Load(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("read pipeline: %w", err)
	}
	var raw yamlDefinition
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Definition{}, fmt.Errorf("parse pipeline: %w", err)
	}

	def := Definition{Stages: make([]Stage, 0, len(raw.Stages))}
	for _, s := range raw.Stages {
		stage := Stage{Name: s.Name, Kind: StageKind(s.Kind), Remediate: s.Remediate}
		if s.Scorer != "" {
			kind, err := quality.ParseKind(s.Scorer)
			if err != nil {
				return Definition{}, fmt.Errorf("stage %q: %w", s.Name, err)
			}
			stage.Scorer = kind
		}
		def.Stages = append(def.Stages, stage)
	}
	if err := def.Validate(); err != nil {
		return Definition{}, err
	}
	return def, nil
}

// Validate checks the structural invariants the state machine relies on.
func (d Definition) Validate() error {
	if len(d.Stages) < 2 {
		return fmt.Errorf("pipeline needs at least an input and a terminal stage")
	}
	if d.Stages[0].Kind != StageInput {
		return fmt.Errorf("first stage must be kind %q", StageInput)
	}
	if d.Stages[len(d.Stages)-1].Kind != StageTerminal {
		return fmt.Errorf("last stage must be kind %q", StageTerminal)
	}

	seen := make(map[string]StageKind, len(d.Stages))
	for _, s := range d.Stages {
		if s.Name == "" {
			return fmt.Errorf("stage without a name")
		}
		if _, dup := seen[s.Name]; dup {
			return fmt.Errorf("duplicate stage name %q", s.Name)
		}
		seen[s.Name] = s.Kind

		switch s.Kind {
		case StageInput, StageTerminal, StageHumanGate:
		case StageGenerated:
			if s.Scorer == 0 {
				return fmt.Errorf("generated stage %q needs a scorer", s.Name)
			}
		default:
			return fmt.Errorf("stage %q has unknown kind %q", s.Name, s.Kind)
		}
	}

	for _, s := range d.Stages {
		if s.Kind != StageHumanGate {
			continue
		}
		if s.Remediate == "" {
			return fmt.Errorf("gate %q needs a remediate target", s.Name)
		}
		if kind, ok := seen[s.Remediate]; !ok || kind != StageGenerated {
			return fmt.Errorf("gate %q remediates %q, which is not a generated stage", s.Name, s.Remediate)
		}
	}
	return nil
}

// Index returns the position of a stage by name, or -1.
func (d Definition) Index(name string) int {
	for i, s := range d.Stages {
		if s.Name == name {
			return i
		}
	}
	return -1
}
