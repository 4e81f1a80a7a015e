// Package navparams is the entry point of the navigation parameter toolkit:
// it builds the navigation schema and renders it as an HTML form or an
// interactive terminal session.
package navparams

import (
	"context"
	"fmt"

	"github.com/goliatone/go-navparams/pkg/navigation"
	"github.com/goliatone/go-navparams/pkg/orchestrator"
	"github.com/goliatone/go-navparams/pkg/paramgen"
	"github.com/goliatone/go-navparams/pkg/render"
	"github.com/goliatone/go-navparams/pkg/renderers/html"
	"github.com/goliatone/go-navparams/pkg/renderers/tui"
)

// RenderOptions carries current values and validation errors to renderers.
type RenderOptions = render.RenderOptions

// NewSchema declares the navigation parameters on a fresh generator.
func NewSchema(options ...paramgen.Option) (paramgen.Schema, error) {
	return navigation.Schema(options...)
}

// DefaultRegistry returns a registry holding the HTML and TUI renderers.
func DefaultRegistry(tuiOptions ...tui.Option) (*render.Registry, error) {
	htmlRenderer, err := html.New()
	if err != nil {
		return nil, fmt.Errorf("navparams: html renderer: %w", err)
	}
	return render.NewRegistry(htmlRenderer, tui.New(tuiOptions...))
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Generate renders the navigation schema with the named renderer. Options
// can swap the schema, registry or transformer; the default registry is
// DefaultRegistry().
func Generate(ctx context.Context, rendererName string, opts RenderOptions, options ...orchestrator.Option) ([]byte, error) {
	registry, err := DefaultRegistry()
	if err != nil {
		return nil, err
	}
	all := append([]orchestrator.Option{orchestrator.WithRegistry(registry)}, options...)
	return orchestrator.New(all...).Generate(ctx, orchestrator.Request{
		Renderer:      rendererName,
		RenderOptions: opts,
	})
}
