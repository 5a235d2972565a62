package registry

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/FishingHacks/redstart/internal/ctxlog"
	"github.com/FishingHacks/redstart/internal/manifest"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ValidateRegistry performs a strict parity check between manifests and Go code.
// It checks both the presence of fields and the compatibility of their types.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, moduleType := range r.Types() {
		entry := r.entries[moduleType]
		def := entry.Manifest

		if entry.inputType == nil {
			continue
		}
		if entry.inputType.Kind() != reflect.Struct {
			errs = append(errs, fmt.Sprintf("module '%s': input must be a pointer to a struct, got %s", moduleType, entry.inputType))
			continue
		}

		goInputs := make(map[string]reflect.StructField)
		for i := 0; i < entry.inputType.NumField(); i++ {
			field := entry.inputType.Field(i)
			if !field.IsExported() {
				continue
			}
			tagName := strings.Split(field.Tag.Get("cty"), ",")[0]
			if tagName != "" && tagName != "-" {
				goInputs[tagName] = field
			}
		}

		// Check for presence mismatches
		for name := range goInputs {
			if def.Field(name) == nil {
				errs = append(errs, fmt.Sprintf("module '%s': Go struct has field for option '%s' which is not declared in manifest", moduleType, name))
			}
		}
		for _, f := range def.Fields {
			if _, ok := goInputs[f.Name]; !ok {
				errs = append(errs, fmt.Sprintf("module '%s': manifest declares option '%s' which is not found in Go struct", moduleType, f.Name))
			}
		}

		// Check for type mismatches
		for _, f := range def.Fields {
			goField, ok := goInputs[f.Name]
			if !ok {
				continue
			}
			if f.Type.Equals(cty.DynamicPseudoType) {
				logger.Warn("Manifest declares an option with 'type = any', which disables type checking.", "module", moduleType, "option", f.Name)
				continue
			}
			if f.Optional && !f.Type.IsListType() && goField.Type.Kind() != reflect.Ptr {
				errs = append(errs, fmt.Sprintf("module '%s', option '%s': optional options need a pointer field so an unset value can be told apart", moduleType, f.Name))
			}

			goFieldType, err := gocty.ImpliedType(reflect.Zero(goField.Type).Interface())
			if err != nil {
				errs = append(errs, fmt.Sprintf("module '%s', option '%s': could not imply cty type from Go field type %s: %v", moduleType, f.Name, goField.Type, err))
				continue
			}
			if !f.Type.Equals(goFieldType) {
				errs = append(errs, fmt.Sprintf("module '%s', option '%s': type mismatch. Manifest requires '%s' but Go struct field '%s' provides '%s'",
					moduleType, f.Name, manifest.TypeName(f.Type), goField.Name, manifest.TypeName(goFieldType)))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	return nil
}
