package manifest

import (
	"fmt"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// --- HCL decoding schema ---

// fieldBlock is a `field` block inside a module manifest.
type fieldBlock struct {
	Name        string         `hcl:"name,label"`
	Type        hcl.Expression `hcl:"type"`
	Description string         `hcl:"description,optional"`
	Optional    bool           `hcl:"optional,optional"`
	Choices     []string       `hcl:"choices,optional"`
}

// moduleBlock is the `module` block that describes one step type.
type moduleBlock struct {
	Type        string        `hcl:"type,label"`
	Description string        `hcl:"description,optional"`
	Fields      []*fieldBlock `hcl:"field,block"`
}

// fileRoot is the top-level structure of a manifest file.
type fileRoot struct {
	Module *moduleBlock `hcl:"module,block"`
	Remain hcl.Body     `hcl:",remain"`
}

// --- Format-agnostic model ---

// Field describes one option a module accepts.
type Field struct {
	Name        string
	Type        cty.Type
	Description string
	Optional    bool
	Choices     []string
}

// Manifest is the static metadata of a module: its step type, what it does
// and the options it takes, in declaration order.
type Manifest struct {
	Type        string
	Description string
	Fields      []*Field
}

// Field returns the field with the given name, or nil.
func (m *Manifest) Field(name string) *Field {
	for _, f := range m.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Required returns the fields a step must set.
func (m *Manifest) Required() []*Field {
	return slices.DeleteFunc(slices.Clone(m.Fields), func(f *Field) bool { return f.Optional })
}

// Optional returns the fields a step may leave out.
func (m *Manifest) Optional() []*Field {
	return slices.DeleteFunc(slices.Clone(m.Fields), func(f *Field) bool { return !f.Optional })
}

// Parse decodes a manifest from HCL source. filename is only used in
// diagnostics.
func Parse(filename string, src []byte) (*Manifest, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", filename, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode manifest %s: %w", filename, diags)
	}
	if root.Module == nil {
		return nil, fmt.Errorf("manifest %s: missing module block", filename)
	}

	m := &Manifest{
		Type:        root.Module.Type,
		Description: root.Module.Description,
	}
	for _, fb := range root.Module.Fields {
		if m.Field(fb.Name) != nil {
			return nil, fmt.Errorf("module '%s': field '%s' declared twice", m.Type, fb.Name)
		}
		ty, err := typeExprToCtyType(fb.Type)
		if err != nil {
			return nil, fmt.Errorf("module '%s', field '%s': %w", m.Type, fb.Name, err)
		}
		if len(fb.Choices) > 0 && !ty.Equals(cty.String) {
			return nil, fmt.Errorf("module '%s', field '%s': choices require type string", m.Type, fb.Name)
		}
		m.Fields = append(m.Fields, &Field{
			Name:        fb.Name,
			Type:        ty,
			Description: fb.Description,
			Optional:    fb.Optional,
			Choices:     fb.Choices,
		})
	}
	return m, nil
}

// MustParse is like Parse but panics on error. Manifests are compiled into
// the binary, so a broken one is a programmer error.
func MustParse(filename string, src []byte) *Manifest {
	m, err := Parse(filename, src)
	if err != nil {
		panic(err)
	}
	return m
}
