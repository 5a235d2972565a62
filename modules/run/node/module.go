package node

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/FishingHacks/redstart/internal/ctxlog"
	"github.com/FishingHacks/redstart/internal/registry"
	"github.com/FishingHacks/redstart/internal/toolchain"
)

//go:embed manifest.hcl
var manifest []byte

// Module implements the registry.Module interface for this package.
type Module struct {
	// Run starts node. Nil means a child process.
	Run toolchain.RunFunc
}

// Input defines the options of a @run/node step.
type Input struct {
	MainFile  string   `cty:"mainFile"`
	Arguments []string `cty:"arguments"`
	EnvFile   *string  `cty:"envFile"`
}

// Validate rejects an empty main file.
func (m *Module) Validate(ctx context.Context, call *registry.Call) error {
	input := call.Input.(*Input)
	if strings.TrimSpace(input.MainFile) == "" {
		return errors.New("mainFile must not be empty")
	}
	return nil
}

// Initiate runs the main file with node and writes the program's output.
// A missing env file is skipped with a warning.
func (m *Module) Initiate(ctx context.Context, call *registry.Call) error {
	input := call.Input.(*Input)
	logger := ctxlog.FromContext(ctx)

	var env []string
	if input.EnvFile != nil {
		path := filepath.Join(call.Cwd, *input.EnvFile)
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			logger.Warn("Env file not found, running without it.", "path", path)
		case err != nil:
			return fmt.Errorf("couldn't read env file: %w", err)
		default:
			env = toolchain.ParseEnv(string(data))
		}
	}

	args := []string{input.MainFile}
	for _, arg := range input.Arguments {
		args = append(args, strings.TrimSpace(arg))
	}
	cmd := toolchain.Command{Name: "node", Args: args, Dir: call.Cwd, Env: env}
	logger.Debug("Running node.", "command", cmd.String(), "env", len(env))

	end := call.Phase("running the program")
	out, err := toolchain.Or(m.Run)(ctx, cmd)
	end()

	if out != "" && call.Out != nil {
		fmt.Fprintln(call.Out, out)
	}
	if err != nil {
		return fmt.Errorf("execution of %s failed: %w", input.MainFile, err)
	}
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
