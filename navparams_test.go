package navparams_test

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-navparams"
	"github.com/goliatone/go-navparams/pkg/navigation"
	"github.com/goliatone/go-navparams/pkg/openapi"
	"github.com/goliatone/go-navparams/pkg/renderers/html"
	"github.com/goliatone/go-navparams/pkg/renderers/tui"
)

func TestNewSchema(t *testing.T) {
	schema, err := navparams.NewSchema()
	if err != nil {
		t.Fatalf("new schema: %v", err)
	}
	if schema.Len() != 11 {
		t.Fatalf("expected 11 declarations, got %d", schema.Len())
	}
}

func TestDefaultRegistry(t *testing.T) {
	registry, err := navparams.DefaultRegistry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	for _, name := range []string{html.Name, tui.Name} {
		if !registry.Has(name) {
			t.Fatalf("expected renderer %q to be registered", name)
		}
	}
}

func TestGenerateHTML(t *testing.T) {
	out, err := navparams.Generate(context.Background(), html.Name, navparams.RenderOptions{
		Values: map[string]any{navigation.ParamPlannerFrequency: 1.5},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(out), `name="planner_frequency" value="1.5"`) {
		t.Fatalf("expected prefilled value in:\n%s", out)
	}
}

func TestEmbeddedTemplates(t *testing.T) {
	for _, name := range []string{"templates/form.tmpl", "templates/field.tmpl"} {
		if _, err := fs.Stat(navparams.EmbeddedTemplates(), name); err != nil {
			t.Fatalf("expected embedded template %s: %v", name, err)
		}
	}
}

func TestNewSchemaLoader(t *testing.T) {
	schema, _ := navparams.NewSchema()
	doc, err := openapi.Document(schema)
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	data, err := openapi.MarshalJSON(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	imported, err := navparams.NewSchemaLoader().Import(context.Background(), data)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if imported.Len() != schema.Len() {
		t.Fatalf("expected %d declarations, got %d", schema.Len(), imported.Len())
	}
}
