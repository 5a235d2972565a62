package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/FishingHacks/redstart/internal/ctxlog"
	"github.com/FishingHacks/redstart/internal/manifest"
	"gopkg.in/yaml.v3"
)

// inspectDoc is the shape `redstart inspect` prints.
type inspectDoc struct {
	Path    string `json:"path" yaml:"path"`
	WorkDir string `json:"workDir" yaml:"workDir"`
	Project any    `json:"project" yaml:"project"`
}

// Inspect writes the resolved project at path to w as yaml or json.
func (a *App) Inspect(ctx context.Context, w io.Writer, path, format string) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	project, err := a.LoadProject(ctx, path)
	if err != nil {
		return err
	}
	doc := inspectDoc{Path: project.Path, WorkDir: project.WorkDir, Project: project.ParseResult}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case "yaml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q: must be one of yaml, json", format)
	}
}

// ListModules writes every registered module and its description.
func (a *App) ListModules(w io.Writer) error {
	types := a.registry.Types()
	width := 0
	for _, t := range types {
		width = max(width, len(t))
	}
	for _, t := range types {
		entry, _ := a.registry.Lookup(t)
		if _, err := fmt.Fprintf(w, "%-*s  %s\n", width, t, entry.Manifest.Description); err != nil {
			return err
		}
	}
	return nil
}

// Usage writes the description and options of one module.
func (a *App) Usage(w io.Writer, moduleType string) error {
	entry, ok := a.registry.Lookup(moduleType)
	if !ok {
		return fmt.Errorf("module %s doesn't exist", moduleType)
	}
	m := entry.Manifest

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n  %s\n", m.Type, m.Description)
	writeFields(&b, "Required fields", m.Required())
	writeFields(&b, "Optional fields", m.Optional())

	_, err := io.WriteString(w, b.String())
	return err
}

func writeFields(b *strings.Builder, title string, fields []*manifest.Field) {
	if len(fields) == 0 {
		return
	}
	sorted := make([]*manifest.Field, len(fields))
	copy(sorted, fields)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	fmt.Fprintf(b, "\n%s:\n", title)
	for _, f := range sorted {
		fmt.Fprintf(b, "  %s (%s)\n", f.Name, manifest.TypeName(f.Type))
		if f.Description != "" {
			fmt.Fprintf(b, "      %s\n", f.Description)
		}
		if len(f.Choices) > 0 {
			choices := make([]string, len(f.Choices))
			for i, c := range f.Choices {
				choices[i] = fmt.Sprintf("%q", c)
			}
			fmt.Fprintf(b, "      choices: %s\n", strings.Join(choices, ", "))
		}
	}
}
