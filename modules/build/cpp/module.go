package cpp

import (
	"context"
	_ "embed"

	"github.com/FishingHacks/redstart/internal/registry"
	"github.com/FishingHacks/redstart/internal/toolchain"
	"github.com/FishingHacks/redstart/modules/build/internal/cc"
)

//go:embed manifest.hcl
var manifest []byte

var gxx = cc.Toolchain{Compiler: "g++", Extensions: []string{".c", ".cc", ".cpp", ".cxx"}}

// Module implements the registry.Module interface for this package.
type Module struct {
	// Run starts the compiler. Nil means a child process.
	Run toolchain.RunFunc
}

func (m *Module) Validate(ctx context.Context, call *registry.Call) error {
	return cc.Validate(call)
}

// Initiate compiles every C and C++ source below sourceDirectory with g++.
func (m *Module) Initiate(ctx context.Context, call *registry.Call) error {
	return gxx.Build(ctx, m.Run, call)
}

// Register registers the module with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register(&registry.Registration{
		Manifest: manifest,
		NewInput: func() any { return new(cc.Input) },
		Module:   m,
	})
}
