package generic

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/FishingHacks/redstart/internal/ctxlog"
	"github.com/FishingHacks/redstart/internal/registry"
)

//go:embed manifest.hcl
var manifest []byte

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the options of a @build/generic step.
type Input struct {
	Command   string   `cty:"command"`
	Arguments []string `cty:"arguments"`
}

// Validate rejects an empty command.
func (m *Module) Validate(ctx context.Context, call *registry.Call) error {
	input := call.Input.(*Input)
	if strings.TrimSpace(input.Command) == "" {
		return errors.New("command must not be empty")
	}
	return nil
}

// Initiate runs the command in the step's working directory and fails when
// it exits with a non-zero status.
func (m *Module) Initiate(ctx context.Context, call *registry.Call) error {
	input := call.Input.(*Input)
	logger := ctxlog.FromContext(ctx)
	logger.Info("Running build command.", "command", input.Command, "args", input.Arguments, "cwd", call.Cwd)

	var output bytes.Buffer
	cmd := exec.CommandContext(ctx, input.Command, input.Arguments...)
	cmd.Dir = call.Cwd
	cmd.Stdout = &output
	cmd.Stderr = &output

	err := cmd.Run()
	if out := strings.TrimRight(output.String(), "\n"); out != "" {
		logger.Info("Build output.", "output", out)
	}
	if err != nil {
		return fmt.Errorf("error during build: %s: %w", input.Command, err)
	}

	logger.Debug("Build command finished.", "command", input.Command)
	return nil
}

// Register registers the module with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register(&registry.Registration{
		Manifest: manifest,
		NewInput: func() any { return new(Input) },
		Module:   m,
	})
}
