package typescript

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
	// Run starts tsc. Nil means a child process.
	Run toolchain.RunFunc
}

func (m *Module) Validate(ctx context.Context, call *registry.Call) error {
	return nil
}

// Initiate runs `tsc --init` in the step directory.
func (m *Module) Initiate(ctx context.Context, call *registry.Call) error {
	out, err := toolchain.Or(m.Run)(ctx, toolchain.Command{Name: "tsc", Args: []string{"--init"}, Dir: call.Cwd})
	if err != nil {
		return fmt.Errorf("couldn't initialize typescript, is tsc installed? %w: %s", err, out)
	}
	ctxlog.FromContext(ctx).Info("Initialized typescript.", "cwd", call.Cwd)
	return nil
}

// Register registers the module with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register(&registry.Registration{
		Manifest: manifest,
		Module:   m,
	})
}
