package render_test

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-navparams/pkg/model"
	"github.com/goliatone/go-navparams/pkg/render"
)

type stubRenderer struct{ name string }

func (s stubRenderer) Name() string        { return s.name }
func (s stubRenderer) ContentType() string { return "text/plain" }
func (s stubRenderer) Render(context.Context, model.FormModel, render.RenderOptions) ([]byte, error) {
	return []byte(s.name), nil
}

func TestRegistry(t *testing.T) {
	registry, err := render.NewRegistry(stubRenderer{"tui"}, stubRenderer{"html"})
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}

	if got := registry.List(); strings.Join(got, ",") != "html,tui" {
		t.Fatalf("unexpected renderer list: %v", got)
	}
	if !registry.Has("html") {
		t.Fatalf("expected html renderer")
	}
	if err := registry.Register(stubRenderer{"html"}); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if err := registry.Register(stubRenderer{""}); err == nil {
		t.Fatalf("expected unnamed renderer error")
	}

	_, err = registry.Get("preact")
	if err == nil || !strings.Contains(err.Error(), "html") {
		t.Fatalf("expected not found error listing available renderers, got %v", err)
	}
}

func TestRenderOptions_ValueFor(t *testing.T) {
	opts := render.RenderOptions{Values: map[string]any{"rate": 2.0}}
	if got := opts.ValueFor("rate", 1.0); got != 2.0 {
		t.Fatalf("expected supplied value, got %v", got)
	}
	if got := opts.ValueFor("other", true); got != true {
		t.Fatalf("expected fallback, got %v", got)
	}
}
