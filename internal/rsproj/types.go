package rsproj

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// ScalarKind identifies the type held by a Scalar.
type ScalarKind uint8

// Scalar kinds. The zero value marks an unset Scalar.
const (
	// ScalarString is a quoted string.
	ScalarString ScalarKind = iota + 1
	// ScalarNumber is a non-negative integer literal.
	ScalarNumber
	// ScalarBool is a true or false literal.
	ScalarBool
)

// String returns the name used for the kind in diagnostics.
func (k ScalarKind) String() string {
	switch k {
	case ScalarString:
		return "string"
	case ScalarNumber:
		return "number"
	case ScalarBool:
		return "bool"
	default:
		return "invalid"
	}
}

// Scalar is a single string, integer or boolean value from a project file.
type Scalar struct {
	kind ScalarKind
	text string
	num  int64
	flag bool
}

// Str returns a string scalar.
func Str(s string) Scalar { return Scalar{kind: ScalarString, text: s} }

// Num returns a number scalar.
func Num(n int64) Scalar { return Scalar{kind: ScalarNumber, num: n} }

// Bool returns a boolean scalar.
func Bool(b bool) Scalar { return Scalar{kind: ScalarBool, flag: b} }

// Kind reports which type the scalar holds.
func (s Scalar) Kind() ScalarKind { return s.kind }

// AsString returns the string held by s, if any.
func (s Scalar) AsString() (string, bool) { return s.text, s.kind == ScalarString }

// AsNumber returns the number held by s, if any.
func (s Scalar) AsNumber() (int64, bool) { return s.num, s.kind == ScalarNumber }

// AsBool returns the boolean held by s, if any.
func (s Scalar) AsBool() (bool, bool) { return s.flag, s.kind == ScalarBool }

// String renders the scalar the way it is used as text, e.g. when a number is
// passed as a command line argument.
func (s Scalar) String() string {
	switch s.kind {
	case ScalarNumber:
		return strconv.FormatInt(s.num, 10)
	case ScalarBool:
		return strconv.FormatBool(s.flag)
	default:
		return s.text
	}
}

// Interface returns the scalar as a plain Go value (string, int64 or bool).
func (s Scalar) Interface() any {
	switch s.kind {
	case ScalarNumber:
		return s.num
	case ScalarBool:
		return s.flag
	default:
		return s.text
	}
}

// Equal reports whether two scalars hold the same kind and value.
func (s Scalar) Equal(o Scalar) bool { return s == o }

// ToCty converts the scalar into its cty equivalent.
func (s Scalar) ToCty() cty.Value {
	switch s.kind {
	case ScalarNumber:
		return cty.NumberIntVal(s.num)
	case ScalarBool:
		return cty.BoolVal(s.flag)
	default:
		return cty.StringVal(s.text)
	}
}

// Value is either a single Scalar or an ordered array of them.
type Value struct {
	items []Scalar
	array bool
}

// Single wraps one scalar.
func Single(s Scalar) Value { return Value{items: []Scalar{s}} }

// Array builds an array value. The items are copied.
func Array(items ...Scalar) Value {
	return Value{items: append([]Scalar(nil), items...), array: true}
}

// IsArray reports whether v was declared with more than one token or was
// merged from duplicate keys.
func (v Value) IsArray() bool { return v.array }

// Scalar returns the value when it is not an array.
func (v Value) Scalar() (Scalar, bool) {
	if v.array || len(v.items) == 0 {
		return Scalar{}, false
	}
	return v.items[0], true
}

// Scalars returns every scalar in declaration order.
func (v Value) Scalars() []Scalar {
	return append([]Scalar(nil), v.items...)
}

// Len is the number of scalars held by v.
func (v Value) Len() int { return len(v.items) }

// String renders the value as text; array items are joined with commas.
func (v Value) String() string {
	parts := make([]string, len(v.items))
	for i, s := range v.items {
		parts[i] = s.String()
	}
	return strings.Join(parts, ",")
}

// Equal reports whether two values hold the same scalars with the same shape.
func (v Value) Equal(o Value) bool {
	if v.array != o.array || len(v.items) != len(o.items) {
		return false
	}
	for i := range v.items {
		if v.items[i] != o.items[i] {
			return false
		}
	}
	return true
}

// Interface returns the value as a plain Go value; arrays become []any.
func (v Value) Interface() any {
	if s, ok := v.Scalar(); ok {
		return s.Interface()
	}
	out := make([]any, len(v.items))
	for i, s := range v.items {
		out[i] = s.Interface()
	}
	return out
}

// ToCty converts the value into a cty value. Arrays become tuples, since
// their items may mix kinds.
func (v Value) ToCty() cty.Value {
	if s, ok := v.Scalar(); ok {
		return s.ToCty()
	}
	if len(v.items) == 0 {
		return cty.EmptyTupleVal
	}
	vals := make([]cty.Value, len(v.items))
	for i, s := range v.items {
		vals[i] = s.ToCty()
	}
	return cty.TupleVal(vals)
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) { return json.Marshal(v.Interface()) }

// MarshalYAML implements yaml.Marshaler.
func (v Value) MarshalYAML() (any, error) { return v.Interface(), nil }

// merge appends o to v, turning the result into an array.
func (v Value) merge(o Value) Value {
	items := make([]Scalar, 0, len(v.items)+len(o.items))
	items = append(items, v.items...)
	items = append(items, o.items...)
	return Value{items: items, array: true}
}

// ConfigMap maps trimmed key names to their values. It backs both the
// settings block and step options.
type ConfigMap map[string]Value

// Lookup returns the single scalar stored under key.
func (m ConfigMap) Lookup(key string) (Scalar, bool) {
	v, ok := m[key]
	if !ok {
		return Scalar{}, false
	}
	return v.Scalar()
}

// Truthy reports whether key is set to something other than false, 0 or "".
func (m ConfigMap) Truthy(key string) bool {
	v, ok := m[key]
	if !ok {
		return false
	}
	s, ok := v.Scalar()
	if !ok {
		return v.Len() > 0
	}
	switch s.Kind() {
	case ScalarBool:
		b, _ := s.AsBool()
		return b
	case ScalarNumber:
		n, _ := s.AsNumber()
		return n != 0
	default:
		str, _ := s.AsString()
		return str != ""
	}
}

// Step is one unit of work inside a job.
type Step struct {
	Type    string    `json:"type" yaml:"type"`
	Cwd     string    `json:"cwd" yaml:"cwd"`
	Options ConfigMap `json:"options" yaml:"options"`
}

// Job is an ordered list of steps with every `use` already expanded.
type Job []Step

// ParseResult is the fully resolved content of a project file.
type ParseResult struct {
	Jobs     map[string]Job `json:"jobs" yaml:"jobs"`
	Settings ConfigMap      `json:"settings" yaml:"settings"`
	// Modules lists each distinct step type in first-seen order.
	Modules []string `json:"modules" yaml:"modules"`
	// Order lists job names in declaration order.
	Order []string `json:"order" yaml:"order"`
}
