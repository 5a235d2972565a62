package registry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"sort"

	"github.com/FishingHacks/redstart/internal/manifest"
	"github.com/FishingHacks/redstart/internal/rsproj"
)

// Module is implemented by every step type.
type Module interface {
	// Validate checks a step before anything in the job runs. A non-nil
	// error rejects the step and aborts the run.
	Validate(ctx context.Context, call *Call) error

	// Initiate performs the step.
	Initiate(ctx context.Context, call *Call) error
}

// Registrar is implemented by module packages to add themselves to a Registry.
type Registrar interface {
	Register(r *Registry)
}

// Call is everything a module receives for one step.
type Call struct {
	// Options are the step's options as written in the project file.
	Options rsproj.ConfigMap
	// Input is Options decoded into the module's input struct, or nil when
	// the module has none.
	Input any
	// Cwd is the absolute working directory of the step.
	Cwd string
	// Settings is the project's settings block.
	Settings rsproj.ConfigMap
	// Out receives the module's user-facing output.
	Out io.Writer
	// Start begins a named sub-task for progress reporting and returns the
	// function that ends it.
	Start func(name string) func()
}

// Phase calls Start, or returns a no-op when the call has no Start.
func (c *Call) Phase(name string) func() {
	if c.Start == nil {
		return func() {}
	}
	return c.Start(name)
}

// Registration is what a module package hands to Register.
type Registration struct {
	// Manifest is the module's HCL manifest source.
	Manifest []byte
	// NewInput returns a pointer to a fresh input struct whose fields carry
	// `cty` tags matching the manifest fields. Optional.
	NewInput func() any
	Module   Module
}

// Entry is a registered module together with its decoded manifest.
type Entry struct {
	Manifest  *manifest.Manifest
	Module    Module
	newInput  func() any
	inputType reflect.Type
}

// Registry maps step types to modules. It is populated once at startup.
type Registry struct {
	entries map[string]*Entry
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

// Register adds a module under the type declared in its manifest. A broken
// manifest or a duplicate type is a programmer error and panics.
func (r *Registry) Register(reg *Registration) {
	m := manifest.MustParse("manifest.hcl", reg.Manifest)
	if _, exists := r.entries[m.Type]; exists {
		panic(fmt.Sprintf("module with type '%s' already registered", m.Type))
	}

	entry := &Entry{Manifest: m, Module: reg.Module, newInput: reg.NewInput}
	if reg.NewInput != nil {
		entry.inputType = reflect.TypeOf(reg.NewInput()).Elem()
	}
	slog.Debug("Registering module.", "type", m.Type)
	r.entries[m.Type] = entry
}

// Lookup returns the module registered for a step type.
func (r *Registry) Lookup(typ string) (*Entry, bool) {
	e, ok := r.entries[typ]
	return e, ok
}

// Types returns all registered step types, sorted.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.entries))
	for t := range r.entries {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Resolve looks up every step type a project uses and fails on the first
// one that is not registered.
func (r *Registry) Resolve(types []string) (map[string]*Entry, error) {
	out := make(map[string]*Entry, len(types))
	for _, t := range types {
		e, ok := r.entries[t]
		if !ok {
			return nil, fmt.Errorf("module %s doesn't exist", t)
		}
		out[t] = e
	}
	return out, nil
}
