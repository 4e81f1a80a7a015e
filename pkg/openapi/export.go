package openapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-navparams/pkg/paramgen"
)

const (
	// ExtensionLevel carries the reconfigure level of a property.
	ExtensionLevel = "x-navparams-level"
	// ExtensionOrder lists property names in declaration order.
	ExtensionOrder = "x-navparams-order"

	DefaultComponent = "Parameters"
	DefaultPath      = "/parameters"
	DefaultVersion   = "1.0.0"
)

// Options configures Document.
type Options struct {
	Title       string
	Description string
	Version     string
	Path        string
	Component   string
}

// Option mutates Options.
type Option func(*Options)

// WithInfo sets the document title and version.
func WithInfo(title, version string) Option {
	return func(o *Options) {
		o.Title = title
		o.Version = version
	}
}

// WithDescription sets the document description.
func WithDescription(description string) Option {
	return func(o *Options) {
		o.Description = description
	}
}

// WithPath overrides the HTTP path the operations are registered on.
func WithPath(path string) Option {
	return func(o *Options) {
		o.Path = path
	}
}

// WithComponent overrides the component schema name.
func WithComponent(name string) Option {
	return func(o *Options) {
		o.Component = name
	}
}

func newOptions(options []Option) Options {
	opts := Options{
		Title:     "Parameters",
		Version:   DefaultVersion,
		Path:      DefaultPath,
		Component: DefaultComponent,
	}
	for _, opt := range options {
		if opt != nil {
			opt(&opts)
		}
	}
	if opts.Component == "" {
		opts.Component = DefaultComponent
	}
	if opts.Path == "" {
		opts.Path = DefaultPath
	}
	return opts
}

// ParameterSchema converts a paramgen.Schema into an object schema. Every
// declaration is required and no other properties are allowed, which is the
// shape of a complete values document.
func ParameterSchema(schema paramgen.Schema) *openapi3.Schema {
	obj := openapi3.NewObjectSchema().WithoutAdditionalProperties()
	obj.Extensions = map[string]any{ExtensionOrder: schema.Names()}
	for _, param := range schema.Parameters() {
		obj.WithProperty(param.Name, propertySchema(param))
	}
	obj.Required = schema.Names()
	return obj
}

// PatchSchema is ParameterSchema without required properties, describing a
// partial update.
func PatchSchema(schema paramgen.Schema) *openapi3.Schema {
	obj := ParameterSchema(schema)
	obj.Required = nil
	return obj
}

func propertySchema(param paramgen.Parameter) *openapi3.Schema {
	var prop *openapi3.Schema
	switch param.Kind {
	case paramgen.KindDouble:
		prop = openapi3.NewFloat64Schema()
	case paramgen.KindInt:
		prop = openapi3.NewInt64Schema()
	case paramgen.KindBool:
		prop = openapi3.NewBoolSchema()
	default:
		prop = openapi3.NewStringSchema()
	}
	prop.Description = param.Description
	prop.Default = param.Default
	if param.Bounded() {
		prop.WithMin(toFloat(param.Min)).WithMax(toFloat(param.Max))
	}
	prop.Extensions = map[string]any{ExtensionLevel: uint32(param.Level)}
	return prop
}

// Document builds an OpenAPI 3 document describing the reconfigure endpoint
// for schema.
func Document(schema paramgen.Schema, options ...Option) (*openapi3.T, error) {
	if schema.Len() == 0 {
		return nil, errors.New("openapi: schema has no parameters")
	}
	opts := newOptions(options)
	ref := "#/components/schemas/" + opts.Component
	patchName := opts.Component + "Patch"
	patchRef := "#/components/schemas/" + patchName

	get := openapi3.NewOperation()
	get.OperationID = "getParameters"
	get.Summary = "Current parameter values"
	get.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription("Current values").
				WithJSONSchemaRef(openapi3.NewSchemaRef(ref, nil)),
		}),
	)

	put := openapi3.NewOperation()
	put.OperationID = "updateParameters"
	put.Summary = "Update parameter values"
	put.Description = "Partial update. Setting restore_defaults to true resets every parameter."
	put.RequestBody = &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().
			WithRequired(true).
			WithJSONSchemaRef(openapi3.NewSchemaRef(patchRef, nil)),
	}
	put.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription("Values after the update").
				WithJSONSchemaRef(openapi3.NewSchemaRef(ref, nil)),
		}),
		openapi3.WithStatus(http.StatusUnprocessableEntity, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("Rejected update"),
		}),
	)

	patch := PatchSchema(schema)
	patch.WithProperty("restore_defaults", openapi3.NewBoolSchema())

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       opts.Title,
			Description: opts.Description,
			Version:     opts.Version,
		},
		Paths: openapi3.NewPaths(openapi3.WithPath(opts.Path, &openapi3.PathItem{
			Get: get,
			Put: put,
		})),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{
				opts.Component: openapi3.NewSchemaRef("", ParameterSchema(schema)),
				patchName:      openapi3.NewSchemaRef("", patch),
			},
		},
	}
	return doc, nil
}

// MarshalJSON encodes doc as indented JSON.
func MarshalJSON(doc *openapi3.T) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("openapi: document is nil")
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("openapi: marshal json: %w", err)
	}
	return append(out, '\n'), nil
}

// MarshalYAML encodes doc as YAML. The document goes through its JSON form
// so extensions and references are emitted the same way as MarshalJSON.
func MarshalYAML(doc *openapi3.T) ([]byte, error) {
	raw, err := MarshalJSON(doc)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("openapi: marshal yaml: %w", err)
	}
	out, err := yaml.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("openapi: marshal yaml: %w", err)
	}
	return out, nil
}

func toFloat(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}
