package pongo_test

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-navparams/pkg/render/template/pongo"
)

func newEngine(t *testing.T) *pongo.Engine {
	t.Helper()
	files := fstest.MapFS{
		"hello.tmpl":  {Data: []byte("Hello {{ name }}!")},
		"global.tmpl": {Data: []byte("{{ site }}/{{ name }}")},
		"number.tmpl": {Data: []byte(`{{ value|number }}|{{ " x "|trim }}`)},
	}
	engine, err := pongo.New(pongo.WithFS(files), pongo.WithGlobalData(map[string]any{"site": "nav"}))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	var buf bytes.Buffer
	out, err := engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, &buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "Hello Ada!" || buf.String() != out {
		t.Fatalf("unexpected output %q / writer %q", out, buf.String())
	}
}

func TestEngine_GlobalsAndStructData(t *testing.T) {
	engine := newEngine(t)
	data := struct {
		Name string `json:"name"`
	}{Name: "planner"}

	out, err := engine.RenderTemplate("global.tmpl", data)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "nav/planner" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestEngine_DefaultFilters(t *testing.T) {
	engine := newEngine(t)
	out, err := engine.RenderTemplate("number", map[string]any{"value": 0.5})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "0.5|x" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)
	err := engine.RegisterFilter("navshout", func(input any, _ any) (any, error) {
		return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}
	out, err := engine.RenderString(`{{ name|navshout }}`, map[string]any{"name": "stop"})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if out != "STOP!" {
		t.Fatalf("unexpected output %q", out)
	}
	if err := engine.RegisterFilter("navshout", func(any, any) (any, error) { return nil, errors.New("x") }); err == nil {
		t.Fatalf("expected duplicate filter error")
	}
}

func TestNew_RequiresSource(t *testing.T) {
	if _, err := pongo.New(); err == nil {
		t.Fatalf("expected error without templates")
	}
}
