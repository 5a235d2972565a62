// This file contains the logic for parsing HCL type expressions (e.g., `string`,
// `list(number)`) into their corresponding cty.Type objects.

package manifest

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// typeExprToCtyType converts an HCL type expression into its cty.Type
// equivalent. Project files only hold strings, numbers and booleans, so
// lists of those are the only collection type.
func typeExprToCtyType(expr hcl.Expression) (cty.Type, error) {
	if expr == nil {
		return cty.DynamicPseudoType, nil
	}

	switch v := expr.(type) {
	case *hclsyntax.FunctionCallExpr:
		if v.Name != "list" {
			return cty.DynamicPseudoType, fmt.Errorf("unknown type constructor function %q", v.Name)
		}
		if len(v.Args) != 1 {
			return cty.DynamicPseudoType, fmt.Errorf("list requires exactly one argument, got %d", len(v.Args))
		}

		elementType, err := typeExprToCtyType(v.Args[0])
		if err != nil {
			return cty.DynamicPseudoType, err
		}
		if !elementType.IsPrimitiveType() {
			return cty.DynamicPseudoType, fmt.Errorf("list elements must be string, number or bool")
		}
		return cty.List(elementType), nil

	case *hclsyntax.ScopeTraversalExpr:
		if len(v.Traversal) != 1 {
			return cty.DynamicPseudoType, fmt.Errorf("invalid type keyword: traversal path is not a single identifier")
		}
		switch rootName := v.Traversal.RootName(); rootName {
		case "string":
			return cty.String, nil
		case "number":
			return cty.Number, nil
		case "bool":
			return cty.Bool, nil
		case "any":
			return cty.DynamicPseudoType, nil
		default:
			return cty.DynamicPseudoType, fmt.Errorf("unknown primitive type %q", rootName)
		}

	default:
		return cty.DynamicPseudoType, fmt.Errorf("unsupported expression for type definition: %T", v)
	}
}

// TypeName renders a field type the way manifests spell it.
func TypeName(ty cty.Type) string {
	switch {
	case ty == cty.DynamicPseudoType:
		return "any"
	case ty.IsListType():
		return "list(" + TypeName(ty.ElementType()) + ")"
	default:
		return ty.FriendlyName()
	}
}
