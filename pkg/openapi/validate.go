package openapi

import (
	"errors"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-navparams/pkg/paramgen"
)

// FieldError is one schema violation reported by ValidateValues.
type FieldError struct {
	Field  string
	Reason string
}

// ValidationError lists every violation, ordered by field.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Field == "" {
			parts = append(parts, f.Reason)
			continue
		}
		parts = append(parts, f.Field+": "+f.Reason)
	}
	return "openapi: invalid values: " + strings.Join(parts, "; ")
}

// ValidateValues checks a complete values document against the OpenAPI
// rendition of schema. It is the same check an HTTP client generated from
// Document would apply, so it doubles as a consistency test of the export.
func ValidateValues(schema paramgen.Schema, values map[string]any) error {
	obj := ParameterSchema(schema)
	err := obj.VisitJSON(jsonNative(values), openapi3.MultiErrors())
	if err == nil {
		return nil
	}

	var fields []FieldError
	collect(err, &fields)
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })
	return &ValidationError{Fields: fields}
}

func collect(err error, out *[]FieldError) {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		for _, item := range multi {
			collect(item, out)
		}
		return
	}
	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		*out = append(*out, FieldError{
			Field:  strings.Join(schemaErr.JSONPointer(), "/"),
			Reason: schemaErr.Reason,
		})
		return
	}
	*out = append(*out, FieldError{Reason: err.Error()})
}

// jsonNative converts Go numbers into the float64 representation VisitJSON
// expects.
func jsonNative(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for name, value := range values {
		switch v := value.(type) {
		case int:
			out[name] = float64(v)
		case int64:
			out[name] = float64(v)
		case uint32:
			out[name] = float64(v)
		default:
			out[name] = value
		}
	}
	return out
}
