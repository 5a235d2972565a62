package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/FishingHacks/redstart/internal/ctxlog"
	"github.com/FishingHacks/redstart/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	config   *Config
}

// NewApp is the constructor for the main application. Module output goes to
// outW and logs go to logW. With no modules given, the core modules are
// registered. A registry that fails validation is a programmer error and
// panics.
func NewApp(outW, logW io.Writer, cfg *Config, modules ...registry.Registrar) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules()
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All Go modules registered.", "count", len(modules))

	if err := reg.ValidateRegistry(ctx); err != nil {
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		config:   cfg,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
