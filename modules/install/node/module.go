package node

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/FishingHacks/redstart/internal/ctxlog"
	"github.com/FishingHacks/redstart/internal/registry"
	"github.com/FishingHacks/redstart/internal/toolchain"
)

//go:embed manifest.hcl
var manifest []byte

// Module implements the registry.Module interface for this package.
type Module struct {
	// Run starts the package manager. Nil means a child process.
	Run toolchain.RunFunc
}

// Input defines the options of an @install/node step.
type Input struct {
	PackageManager string `cty:"packageManager"`
}

// Validate accepts every step; the manifest restricts packageManager.
func (m *Module) Validate(ctx context.Context, call *registry.Call) error {
	return nil
}

// Initiate installs the dependencies of the package in the step directory.
func (m *Module) Initiate(ctx context.Context, call *registry.Call) error {
	pm := call.Input.(*Input).PackageManager
	logger := ctxlog.FromContext(ctx)
	run := toolchain.Or(m.Run)
	logger.Info("Using package manager.", "packageManager", pm)

	end := call.Phase("checking package manager")
	_, err := run(ctx, toolchain.Command{Name: pm, Args: []string{"--version"}, Dir: call.Cwd})
	end()
	if err != nil {
		return fmt.Errorf("package manager %s is not installed: %w", pm, err)
	}

	end = call.Phase("installing packages")
	out, err := run(ctx, toolchain.Command{Name: pm, Args: []string{"install"}, Dir: call.Cwd})
	end()
	if out != "" {
		logger.Debug("Package manager output.", "output", out)
	}
	if err != nil {
		return fmt.Errorf("failed to install packages: %w: %s", err, out)
	}

	logger.Info("Packages installed.", "cwd", call.Cwd)
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
