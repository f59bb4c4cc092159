package generator

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/praxislabs/sdlcwiz/internal/config"
)

// execGenerator runs a local command, writing the prompt to its stdin and
// reading the generated text from its stdout.
type execGenerator struct {
	name string
	cmd  []string
}

func newExecGenerator(cfg config.GeneratorConfig) (*execGenerator, error) {
	if len(cfg.Cmd) == 0 {
		return nil, fmt.Errorf("exec generator %q requires cmd", cfg.Name)
	}
	return &execGenerator{name: cfg.Name, cmd: cfg.Cmd}, nil
}

func (g *execGenerator) Name() string { return g.name }

func (g *execGenerator) Generate(ctx context.Context, req Request) (string, error) {
	cmd := exec.CommandContext(ctx, g.cmd[0], g.cmd[1:]...)

	var stdout, stderr bytes.Buffer
	cmd.Stdin = strings.NewReader(req.Instructions + "\n\n" + req.Input)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return "", fmt.Errorf("run %s: %w: %s", g.cmd[0], err, strings.TrimSpace(stderr.String()))
		}
		return "", fmt.Errorf("run %s: %w", g.cmd[0], err)
	}
	return strings.TrimSpace(stdout.String()), nil
}
