package gitignore

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/FishingHacks/redstart/internal/ctxlog"
	"github.com/FishingHacks/redstart/internal/registry"
)

//go:embed manifest.hcl
var manifest []byte

// FileName is the file the module writes inside the step's directory.
const FileName = ".gitignore"

var nodePreset = []string{
	"node_modules/",
	"npm-debug.log*",
	"yarn-debug.log*",
	"yarn-error.log*",
	"lerna-debug.log*",
	".pnpm-debug-lock*",
	"report.[0-9]*.[0-9]*.[0-9]*.[0-9]*.json",
	"pids",
	"*.pid",
	"*.seed",
	"*.pid.lock",
	"build/",
	"jspm_packages/",
	"web_modules/",
	"*.tsbuildinfo",
	".npm",
	".eslintcache",
	".node_repl_history",
	"*.tgz",
	".env",
	".env.development.local",
	".env.test.local",
	".env.production.local",
	".env.local",
	".next",
	"out",
	".nuxt",
	"dist",
	".cache/",
	".vuepress/dist",
	".temp",
	".cache",
	".serverless/",
	".fusebox/",
}

// Preset returns the entries a language starts with. Unknown languages and
// the empty string start empty.
func Preset(language string) []string {
	switch language {
	case "js", "javascript":
		return slices.Clone(nodePreset)
	case "ts", "typescript":
		return append(slices.Clone(nodePreset), "*.js")
	default:
		return nil
	}
}

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the options of a @git/gitignore step.
type Input struct {
	Language   string   `cty:"language"`
	Additional []string `cty:"additional"`
}

// Validate has nothing to check beyond the manifest.
func (m *Module) Validate(ctx context.Context, call *registry.Call) error {
	return nil
}

// Initiate writes the .gitignore file. An existing file is left alone.
func (m *Module) Initiate(ctx context.Context, call *registry.Call) error {
	input := call.Input.(*Input)
	logger := ctxlog.FromContext(ctx)
	path := filepath.Join(call.Cwd, FileName)

	if _, err := os.Stat(path); err == nil {
		logger.Warn(".gitignore already found, skipping.", "path", path)
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to check %s: %w", path, err)
	}

	entries := Entries(input.Language, input.Additional)
	if err := os.WriteFile(path, []byte(strings.Join(entries, "\n")), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	logger.Info("Wrote .gitignore.", "path", path, "entries", len(entries))
	return nil
}

// Entries returns the language preset followed by the additional entries
// that are not blank and not already present.
func Entries(language string, additional []string) []string {
	entries := Preset(language)
	for _, e := range additional {
		e = strings.TrimSpace(e)
		if e == "" || slices.Contains(entries, e) {
			continue
		}
		entries = append(entries, e)
	}
	return entries
}

// Register registers the module with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register(&registry.Registration{
		Manifest: manifest,
		NewInput: func() any { return new(Input) },
		Module:   m,
	})
}
