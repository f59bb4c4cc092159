// Package generator provides the content generation backends the workflow
// drives: an OpenAI-compatible API client and a local command runner.
package generator

import (
	"context"
	"fmt"

	"github.com/praxislabs/sdlcwiz/internal/config"
)

// Request is one structured generation call.
type Request struct {
	Instructions string
	Input        string
}

// Generator produces text for a stage. Implementations are opaque, slow,
// and allowed to fail; the caller owns retries and fallbacks.
type Generator interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
}

// New constructs the backend described by cfg.
func New(cfg config.GeneratorConfig) (Generator, error) {
	switch cfg.Type {
	case "openai":
		return newOpenAIGenerator(cfg)
	case "exec":
		return newExecGenerator(cfg)
	default:
		return nil, fmt.Errorf("unknown generator type %q", cfg.Type)
	}
}
