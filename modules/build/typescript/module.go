package typescript

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/FishingHacks/redstart/internal/ctxlog"
	"github.com/FishingHacks/redstart/internal/registry"
	"github.com/FishingHacks/redstart/internal/toolchain"
)

//go:embed manifest.hcl
var manifest []byte

// Module implements the registry.Module interface for this package.
type Module struct {
	// Run starts tsc. Nil means a child process.
	Run toolchain.RunFunc
}

// Input defines the options of a @build/typescript step.
type Input struct {
	ConfigFile      *string `cty:"configFile"`
	SourceDirectory *string `cty:"sourceDirectory"`
	BuildDirectory  *string `cty:"buildDirectory"`
	AllowJSFiles    *bool   `cty:"allowJSFiles"`
}

// Validate rejects options that are set to an empty string.
func (m *Module) Validate(ctx context.Context, call *registry.Call) error {
	input := call.Input.(*Input)
	if input.ConfigFile != nil && strings.TrimSpace(*input.ConfigFile) == "" {
		return errors.New("configFile must not be empty when set")
	}
	if input.SourceDirectory != nil && strings.TrimSpace(*input.SourceDirectory) == "" {
		return errors.New("sourceDirectory must not be empty when set")
	}
	return nil
}

// Initiate compiles the project with tsc. Without a config file every .ts
// file below the source directory is passed to the compiler.
func (m *Module) Initiate(ctx context.Context, call *registry.Call) error {
	input := call.Input.(*Input)
	logger := ctxlog.FromContext(ctx)
	run := toolchain.Or(m.Run)

	srcDir := call.Cwd
	if input.SourceDirectory != nil {
		srcDir = filepath.Join(call.Cwd, *input.SourceDirectory)
	}
	if _, err := os.Stat(srcDir); err != nil {
		return fmt.Errorf("source directory %s doesn't exist", srcDir)
	}
	buildDir := call.Cwd
	if input.BuildDirectory != nil {
		buildDir = filepath.Join(call.Cwd, *input.BuildDirectory)
	}
	if err := os.MkdirAll(buildDir, 0o755); err != nil {
		return fmt.Errorf("couldn't create build directory: %w", err)
	}

	end := call.Phase("checking typescript compiler")
	_, err := run(ctx, toolchain.Command{Name: "tsc", Args: []string{"-v"}})
	end()
	if err != nil {
		return fmt.Errorf("tsc is not installed: %w", err)
	}

	var args []string
	if input.ConfigFile != nil {
		args = append(args, "-p", *input.ConfigFile)
	}
	args = append(args, "--outDir", buildDir)
	if input.AllowJSFiles != nil && *input.AllowJSFiles {
		args = append(args, "--allowJs")
	}
	args = append(args, "--pretty")
	if input.ConfigFile == nil {
		files, err := toolchain.FindFiles(srcDir, ".ts")
		if err != nil {
			return fmt.Errorf("couldn't read source directory %s: %w", srcDir, err)
		}
		files = slices.DeleteFunc(files, func(f string) bool { return strings.HasSuffix(f, ".d.ts") })
		if len(files) == 0 {
			return errors.New("no typescript files found in " + srcDir)
		}
		args = append(args, files...)
	}

	cmd := toolchain.Command{Name: "tsc", Args: args, Dir: srcDir}
	logger.Debug("Running tsc.", "command", cmd.String(), "cwd", srcDir)

	end = call.Phase("running tsc")
	out, err := run(ctx, cmd)
	end()
	if out != "" {
		logger.Info("Compiler output.", "output", out)
	}
	if err != nil {
		return fmt.Errorf("error running the compiler: %w", err)
	}

	logger.Info("Compilation successful.", "outDir", buildDir)
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
