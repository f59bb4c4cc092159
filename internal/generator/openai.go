package generator

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"

	"github.com/praxislabs/sdlcwiz/internal/config"
)

const (
	defaultBaseURL   = "https://api.openai.com/v1"
	defaultAPIKeyEnv = "OPENAI_API_KEY"
	defaultTimeout   = 60 * time.Second
)

// openAIGenerator wraps the OpenAI responses API for oneshot calls. With a
// custom base URL it also serves OpenAI-compatible providers.
type openAIGenerator struct {
	name   string
	model  string
	client openai.Client
}

func newOpenAIGenerator(cfg config.GeneratorConfig) (*openAIGenerator, error) {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return nil, fmt.Errorf("openai generator %q requires a model", cfg.Name)
	}

	envKey := strings.TrimSpace(cfg.APIKeyEnv)
	if envKey == "" {
		envKey = defaultAPIKeyEnv
	}
	apiKey := strings.TrimSpace(os.Getenv(envKey))
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is required (set %s)", envKey)
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &openAIGenerator{
		name:  cfg.Name,
		model: model,
		client: openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithBaseURL(baseURL),
			option.WithRequestTimeout(timeout),
		),
	}, nil
}

func (g *openAIGenerator) Name() string { return g.name }

func (g *openAIGenerator) Generate(ctx context.Context, req Request) (string, error) {
	resp, err := g.client.Responses.New(ctx, responses.ResponseNewParams{
		Model:        g.model,
		Instructions: openai.String(req.Instructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(req.Input),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai responses.create: %w", err)
	}
	if msg := strings.TrimSpace(resp.Error.Message); msg != "" {
		return "", fmt.Errorf("openai response failed: %s", msg)
	}
	return strings.TrimSpace(resp.OutputText()), nil
}
