package openapi

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-navparams/pkg/paramgen"
)

// Loader reads OpenAPI documents from files or an fs.FS and rebuilds the
// parameter schema they describe.
type Loader struct {
	fs        fs.FS
	component string
	generator []paramgen.Option
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFileSystem injects an fs.FS used for SourceKindFS sources.
func WithFileSystem(files fs.FS) LoaderOption {
	return func(l *Loader) {
		l.fs = files
	}
}

// WithSchemaComponent selects the component schema to import.
func WithSchemaComponent(name string) LoaderOption {
	return func(l *Loader) {
		if name != "" {
			l.component = name
		}
	}
}

// WithGeneratorOptions forwards options to the generator that re-registers
// the imported declarations.
func WithGeneratorOptions(options ...paramgen.Option) LoaderOption {
	return func(l *Loader) {
		l.generator = append(l.generator, options...)
	}
}

// NewLoader constructs a Loader.
func NewLoader(options ...LoaderOption) *Loader {
	l := &Loader{component: DefaultComponent}
	for _, opt := range options {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Load reads src and imports its parameter schema.
func (l *Loader) Load(ctx context.Context, src Source) (paramgen.Schema, error) {
	if src == nil {
		return paramgen.Schema{}, errors.New("openapi loader: source is nil")
	}
	if err := ctx.Err(); err != nil {
		return paramgen.Schema{}, err
	}

	var (
		data []byte
		err  error
	)
	switch src.Kind() {
	case SourceKindFile:
		data, err = os.ReadFile(src.Location())
	case SourceKindFS:
		if l.fs == nil {
			return paramgen.Schema{}, errors.New("openapi loader: filesystem is not configured")
		}
		data, err = fs.ReadFile(l.fs, src.Location())
	default:
		err = fmt.Errorf("openapi loader: unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return paramgen.Schema{}, fmt.Errorf("openapi loader: read %s: %w", src.Location(), err)
	}
	return l.Import(ctx, data)
}

// Import parses an OpenAPI document (JSON or YAML) and rebuilds the schema.
func (l *Loader) Import(ctx context.Context, data []byte) (paramgen.Schema, error) {
	if len(data) == 0 {
		return paramgen.Schema{}, errors.New("openapi loader: document payload is empty")
	}
	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return paramgen.Schema{}, fmt.Errorf("openapi loader: load document: %w", err)
	}
	return l.FromDocument(doc)
}

// Import is NewLoader().Import.
func Import(ctx context.Context, data []byte) (paramgen.Schema, error) {
	return NewLoader().Import(ctx, data)
}

// FromDocument extracts the configured component schema from doc.
func (l *Loader) FromDocument(doc *openapi3.T) (paramgen.Schema, error) {
	if doc == nil || doc.Components == nil {
		return paramgen.Schema{}, errors.New("openapi loader: document has no components")
	}
	ref, ok := doc.Components.Schemas[l.component]
	if !ok || ref == nil || ref.Value == nil {
		return paramgen.Schema{}, fmt.Errorf("openapi loader: component schema %q not found", l.component)
	}
	obj := ref.Value

	gen := paramgen.NewGenerator(l.generator...)
	order, err := propertyOrder(obj)
	if err != nil {
		return paramgen.Schema{}, fmt.Errorf("openapi loader: %w", err)
	}
	for _, name := range order {
		propRef, ok := obj.Properties[name]
		if !ok || propRef == nil || propRef.Value == nil {
			return paramgen.Schema{}, fmt.Errorf("openapi loader: property %q listed in %s is missing", name, ExtensionOrder)
		}
		if err := addProperty(gen, name, propRef.Value); err != nil {
			return paramgen.Schema{}, fmt.Errorf("openapi loader: %w", err)
		}
	}
	return gen.Schema(), nil
}

// propertyOrder prefers the order extension and falls back to name order.
// When the extension is present it must list every property.
func propertyOrder(obj *openapi3.Schema) ([]string, error) {
	raw, ok := obj.Extensions[ExtensionOrder]
	if !ok {
		names := make([]string, 0, len(obj.Properties))
		for name := range obj.Properties {
			names = append(names, name)
		}
		sort.Strings(names)
		return names, nil
	}

	var names []string
	switch items := raw.(type) {
	case []string:
		names = append(names, items...)
	case []any:
		names = make([]string, 0, len(items))
		for _, item := range items {
			name, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s entries must be strings, got %T", ExtensionOrder, item)
			}
			names = append(names, name)
		}
	default:
		return nil, fmt.Errorf("%s must be a list of names, got %T", ExtensionOrder, raw)
	}

	listed := make(map[string]struct{}, len(names))
	for _, name := range names {
		listed[name] = struct{}{}
	}
	var missing []string
	for name := range obj.Properties {
		if _, ok := listed[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("properties %s are not listed in %s", strings.Join(missing, ", "), ExtensionOrder)
	}
	return names, nil
}

func addProperty(b paramgen.Builder, name string, prop *openapi3.Schema) error {
	kind, err := kindOf(prop)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	level, err := levelOf(prop)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if !kind.Numeric() || prop.Min == nil || prop.Max == nil {
		return b.Add(name, kind, level, prop.Description, prop.Default)
	}
	// Int bounds stay float64 so the builder rejects fractional ones.
	return b.Add(name, kind, level, prop.Description, prop.Default, *prop.Min, *prop.Max)
}

func kindOf(prop *openapi3.Schema) (paramgen.Kind, error) {
	switch {
	case prop.Type == nil:
		return "", fmt.Errorf("%w: property has no type", paramgen.ErrUnknownKind)
	case prop.Type.Is(openapi3.TypeString):
		return paramgen.KindString, nil
	case prop.Type.Is(openapi3.TypeNumber):
		return paramgen.KindDouble, nil
	case prop.Type.Is(openapi3.TypeInteger):
		return paramgen.KindInt, nil
	case prop.Type.Is(openapi3.TypeBoolean):
		return paramgen.KindBool, nil
	}
	return "", fmt.Errorf("%w: %v", paramgen.ErrUnknownKind, prop.Type.Slice())
}

func levelOf(prop *openapi3.Schema) (paramgen.Level, error) {
	raw, ok := prop.Extensions[ExtensionLevel]
	if !ok {
		return 0, nil
	}
	var v float64
	switch n := raw.(type) {
	case float64:
		v = n
	case uint32:
		return paramgen.Level(n), nil
	case int:
		v = float64(n)
	default:
		return 0, fmt.Errorf("%s must be a number, got %T", ExtensionLevel, raw)
	}
	if v < 0 || v > math.MaxUint32 || v != math.Trunc(v) {
		return 0, fmt.Errorf("%s %v is not a valid level", ExtensionLevel, v)
	}
	return paramgen.Level(v), nil
}
