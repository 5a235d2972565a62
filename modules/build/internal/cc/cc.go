// Package cc builds C and C++ programs with a gcc compatible compiler. The
// @build/c and @build/cpp modules differ only in compiler and sources.
package cc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/FishingHacks/redstart/internal/ctxlog"
	"github.com/FishingHacks/redstart/internal/registry"
	"github.com/FishingHacks/redstart/internal/toolchain"
)

// DefaultOptimization is the level used when a step sets none.
const DefaultOptimization = "1"

// Input defines the options shared by C and C++ build steps.
type Input struct {
	FileName        string  `cty:"fileName"`
	SourceDirectory string  `cty:"sourceDirectory"`
	BuildDirectory  *string `cty:"buildDirectory"`
	Optimizations   *string `cty:"optimizations"`
}

// Toolchain names a compiler and the source files handed to it.
type Toolchain struct {
	Compiler   string
	Extensions []string
}

// Validate rejects an empty executable name or source directory.
func Validate(call *registry.Call) error {
	input := call.Input.(*Input)
	if strings.TrimSpace(input.FileName) == "" {
		return errors.New("fileName must not be empty")
	}
	if strings.TrimSpace(input.SourceDirectory) == "" {
		return errors.New("sourceDirectory must not be empty")
	}
	return nil
}

// Build checks for the compiler, collects every source below the source
// directory and compiles them into one executable inside the build
// directory.
func (tc Toolchain) Build(ctx context.Context, run toolchain.RunFunc, call *registry.Call) error {
	input := call.Input.(*Input)
	logger := ctxlog.FromContext(ctx)
	run = toolchain.Or(run)

	end := call.Phase("checking for " + tc.Compiler)
	_, err := run(ctx, toolchain.Command{Name: tc.Compiler, Args: []string{"--version"}})
	end()
	if err != nil {
		return fmt.Errorf("compiler %s not found: %w", tc.Compiler, err)
	}

	end = call.Phase("finding files")
	srcDir := filepath.Join(call.Cwd, input.SourceDirectory)
	files, err := toolchain.FindFiles(srcDir, tc.Extensions...)
	end()
	if err != nil {
		return fmt.Errorf("couldn't read source directory %s: %w", srcDir, err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no source files found in %s", srcDir)
	}

	buildDir := call.Cwd
	if input.BuildDirectory != nil {
		buildDir = filepath.Join(call.Cwd, *input.BuildDirectory)
		if err := os.MkdirAll(buildDir, 0o755); err != nil {
			return fmt.Errorf("couldn't create build directory: %w", err)
		}
	}

	level := DefaultOptimization
	if input.Optimizations != nil {
		level = *input.Optimizations
	}

	args := append([]string{"-O" + level, "-o", input.FileName}, files...)
	cmd := toolchain.Command{Name: tc.Compiler, Args: args, Dir: buildDir}
	logger.Debug("Compiling.", "command", cmd.String(), "cwd", buildDir)

	end = call.Phase("compiling")
	out, err := run(ctx, cmd)
	end()
	if out != "" {
		logger.Info("Compiler output.", "output", out)
	}
	if err != nil {
		return fmt.Errorf("compilation failed: %w", err)
	}

	logger.Info("Compiled executable.", "file", filepath.Join(buildDir, input.FileName), "sources", len(files))
	return nil
}
