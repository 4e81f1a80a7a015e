package paramgen

import (
	"fmt"
	"strings"
)

// Kind enumerates the value types a parameter can carry. The string values
// match the dynamic-reconfigure type names (str_t, double_t, int_t, bool_t)
// without the suffix.
type Kind string

const (
	KindString Kind = "str"
	KindDouble Kind = "double"
	KindInt    Kind = "int"
	KindBool   Kind = "bool"
)

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindString, KindDouble, KindInt, KindBool:
		return true
	default:
		return false
	}
}

// Numeric reports whether k accepts min/max bounds.
func (k Kind) Numeric() bool {
	return k == KindDouble || k == KindInt
}

// ParseKind accepts both the bare kind names and the dynamic-reconfigure
// spelling ("double_t").
func ParseKind(raw string) (Kind, error) {
	name := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(raw)), "_t")
	switch name {
	case "str", "string":
		return KindString, nil
	case "double", "float", "number":
		return KindDouble, nil
	case "int", "integer":
		return KindInt, nil
	case "bool", "boolean":
		return KindBool, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, raw)
}

// Level is an uninterpreted grouping tag. Reconfiguration callbacks receive
// the bitwise OR of the levels of every parameter that changed.
type Level uint32

// Parameter is a single parameter declaration. Default, Min and Max hold the
// Go type of Kind: string, float64, int or bool. Min and Max are nil when the
// parameter is unbounded (always the case for string and bool kinds).
type Parameter struct {
	Name        string `json:"name" yaml:"name"`
	Kind        Kind   `json:"kind" yaml:"kind"`
	Level       Level  `json:"level" yaml:"level"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Default     any    `json:"default" yaml:"default"`
	Min         any    `json:"min,omitempty" yaml:"min,omitempty"`
	Max         any    `json:"max,omitempty" yaml:"max,omitempty"`
}

// Bounded reports whether the parameter declares an inclusive range.
func (p Parameter) Bounded() bool {
	return p.Min != nil && p.Max != nil
}

// Values maps parameter names to typed values.
type Values map[string]any

// Clone returns a shallow copy; values are scalars so this is a full copy.
func (v Values) Clone() Values {
	if v == nil {
		return nil
	}
	out := make(Values, len(v))
	for key, value := range v {
		out[key] = value
	}
	return out
}
