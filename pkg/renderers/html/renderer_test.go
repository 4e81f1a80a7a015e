package html_test

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-navparams/pkg/model"
	"github.com/goliatone/go-navparams/pkg/navigation"
	"github.com/goliatone/go-navparams/pkg/paramgen"
	"github.com/goliatone/go-navparams/pkg/render"
	"github.com/goliatone/go-navparams/pkg/renderers/html"
)

func renderNavigation(t *testing.T, options render.RenderOptions) string {
	t.Helper()

	form, err := model.Build(navigation.MustSchema(), model.WithForm("navigation", "Navigation", ""))
	if err != nil {
		t.Fatalf("build form: %v", err)
	}
	renderer, err := html.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := renderer.Render(context.Background(), form, options)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func TestRenderer_NavigationForm(t *testing.T) {
	out := renderNavigation(t, render.RenderOptions{})

	mustContain(t, out,
		`<form class="navparams-form" id="navigation"`,
		`<input type="hidden" name="_method" value="PUT">`,
		`name="global_planner" value="navfn/NavfnROS"`,
		`name="planner_frequency" value="0" min="0" max="100" step="any"`,
		`name="planner_max_retries" value="-1" min="-1" max="1000" step="1"`,
		`name="oscillation_distance" value="0.5" min="0" max="10" step="any"`,
		`name="recovery_enabled" value="true" checked>`,
		`<span class="navparams-field__unit">(Hz)</span>`,
	)

	order := []string{"global_planner", "local_planner", "planner_frequency", "controller_max_retries", "oscillation_distance"}
	last := -1
	for _, name := range order {
		idx := strings.Index(out, `name="`+name+`"`)
		if idx <= last {
			t.Fatalf("field %s rendered out of declaration order", name)
		}
		last = idx
	}
}

func TestRenderer_ValuesAndErrors(t *testing.T) {
	out := renderNavigation(t, render.RenderOptions{
		Values: map[string]any{
			navigation.ParamControllerFrequency: 12.5,
			navigation.ParamRecoveryEnabled:     false,
		},
		Errors: map[string][]string{
			navigation.ParamControllerFrequency: {"must be <= 100"},
		},
	})

	mustContain(t, out,
		`name="controller_frequency" value="12.5"`,
		`navparams-field--invalid`,
		`<p class="navparams-field__error" role="alert">must be &lt;= 100</p>`,
	)
	if strings.Contains(out, `name="recovery_enabled" value="true" checked`) {
		t.Fatalf("recovery_enabled should be unchecked")
	}
}

func TestRenderer_SanitizesDescriptions(t *testing.T) {
	gen := paramgen.NewGenerator()
	if err := gen.Add("plugin", paramgen.KindString, 0, `Use <code>pkg/Class</code><script>alert(1)</script>`, "a/B"); err != nil {
		t.Fatalf("add: %v", err)
	}
	form, err := model.Build(gen.Schema())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	renderer, err := html.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := renderer.Render(context.Background(), form, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(string(out), "<script>") {
		t.Fatalf("script tag leaked into output:\n%s", out)
	}
	mustContain(t, string(out), "<code>pkg/Class</code>")
}

func TestRenderer_CancelledContext(t *testing.T) {
	renderer, err := html.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := renderer.Render(ctx, model.FormModel{}, render.RenderOptions{}); err == nil {
		t.Fatalf("expected context error")
	}
}

func mustContain(t *testing.T, out string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected output to contain %q\n%s", fragment, out)
		}
	}
}

func TestRenderer_FormErrors(t *testing.T) {
	out := renderNavigation(t, render.RenderOptions{FormErrors: []string{"unknown parameter recovery_behaviors"}})
	mustContain(t, out, `<p class="navparams-form__error" role="alert">unknown parameter recovery_behaviors</p>`)
}
