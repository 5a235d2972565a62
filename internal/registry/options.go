package registry

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/FishingHacks/redstart/internal/manifest"
	"github.com/FishingHacks/redstart/internal/rsproj"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// OptionsError lists every problem found in one step's options.
type OptionsError struct {
	Module   string
	Problems []string
}

// Error implements the error interface.
func (e *OptionsError) Error() string {
	return fmt.Sprintf("invalid options for module %s:\n- %s", e.Module, strings.Join(e.Problems, "\n- "))
}

// CheckOptions checks step options against the manifest: required fields
// are present, values convert to the declared type, strings are one of the
// declared choices and no undeclared option is set. It returns the options
// as a cty object with a null for every unset field.
func (e *Entry) CheckOptions(options rsproj.ConfigMap) (cty.Value, error) {
	var problems []string
	attrs := make(map[string]cty.Value, len(e.Manifest.Fields))

	for _, f := range e.Manifest.Fields {
		raw, ok := options[f.Name]
		if !ok {
			if !f.Optional {
				problems = append(problems, fmt.Sprintf("missing required option '%s'", f.Name))
			}
			attrs[f.Name] = cty.NullVal(f.Type)
			continue
		}

		val, err := convertOption(raw, f)
		if err != nil {
			problems = append(problems, fmt.Sprintf("option '%s': %s", f.Name, err))
			continue
		}
		if len(f.Choices) > 0 && !slices.Contains(f.Choices, val.AsString()) {
			problems = append(problems, fmt.Sprintf("option '%s': %q is not one of %s", f.Name, val.AsString(), quoteAll(f.Choices)))
			continue
		}
		attrs[f.Name] = val
	}

	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if e.Manifest.Field(k) == nil {
			problems = append(problems, fmt.Sprintf("unknown option '%s'", k))
		}
	}

	if len(problems) > 0 {
		return cty.NilVal, &OptionsError{Module: e.Manifest.Type, Problems: problems}
	}
	return cty.ObjectVal(attrs), nil
}

// convertOption converts a project file value to the field's type. A single
// value given for a list field becomes a one-element list. Fields of type
// string, number or bool take only a value of that exact kind; list items
// are converted.
func convertOption(v rsproj.Value, f *manifest.Field) (cty.Value, error) {
	val := v.ToCty()
	if f.Type.Equals(cty.DynamicPseudoType) {
		return val, nil
	}
	if f.Type.IsPrimitiveType() {
		if v.IsArray() {
			return cty.NilVal, fmt.Errorf("expected %s, got a list", manifest.TypeName(f.Type))
		}
		if !val.Type().Equals(f.Type) {
			return cty.NilVal, fmt.Errorf("expected %s, got %s", manifest.TypeName(f.Type), manifest.TypeName(val.Type()))
		}
		return val, nil
	}
	if f.Type.IsListType() && !v.IsArray() {
		val = cty.TupleVal([]cty.Value{val})
	}
	out, err := convert.Convert(val, f.Type)
	if err != nil {
		return cty.NilVal, fmt.Errorf("expected %s: %w", manifest.TypeName(f.Type), err)
	}
	return out, nil
}

// DecodeOptions checks options and decodes them into a fresh input struct.
// It returns nil when the module declares no input struct.
func (e *Entry) DecodeOptions(options rsproj.ConfigMap) (any, error) {
	obj, err := e.CheckOptions(options)
	if err != nil {
		return nil, err
	}
	if e.newInput == nil {
		return nil, nil
	}

	input := e.newInput()
	if err := gocty.FromCtyValue(obj, input); err != nil {
		return nil, fmt.Errorf("failed to decode options for module %s: %w", e.Manifest.Type, err)
	}
	return input, nil
}

func quoteAll(ss []string) string {
	quoted := make([]string, len(ss))
	for i, s := range ss {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(quoted, ", ")
}
