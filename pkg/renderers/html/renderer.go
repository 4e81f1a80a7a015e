// Package html renders parameter forms as plain HTML using embedded pongo2
// templates. Values and validation errors supplied through
// render.RenderOptions are reflected in the output.
package html

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/goliatone/go-navparams/pkg/model"
	"github.com/goliatone/go-navparams/pkg/render"
	rendertemplate "github.com/goliatone/go-navparams/pkg/render/template"
	"github.com/goliatone/go-navparams/pkg/render/template/pongo"
)

// Name is the registry key of the HTML renderer.
const Name = "html"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	submitLabel      string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS. The bundle
// must provide templates/form.tmpl and templates/field.tmpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithSubmitLabel changes the submit button text.
func WithSubmitLabel(label string) Option {
	return func(cfg *config) {
		if label != "" {
			cfg.submitLabel = label
		}
	}
}

type Renderer struct {
	templates   rendertemplate.TemplateRenderer
	submitLabel string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), submitLabel: "Apply"}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := pongo.New(
			pongo.WithFS(cfg.templateFS),
			pongo.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer, submitLabel: cfg.submitLabel}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(ctx context.Context, form model.FormModel, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}

	fields := make([]map[string]any, 0, len(form.Fields))
	for _, field := range form.Fields {
		fields = append(fields, fieldView(form.ID, field, options))
	}

	result, err := r.templates.RenderTemplate("templates/form.tmpl", map[string]any{
		"form":        form,
		"fields":      fields,
		"submitLabel": r.submitLabel,
		"formErrors":  options.FormErrors,
	})
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func fieldView(formID string, field model.Field, options render.RenderOptions) map[string]any {
	value := options.ValueFor(field.Name, field.Default)
	view := map[string]any{
		"id":          formID + "-" + field.Name,
		"name":        field.Name,
		"type":        string(field.Type),
		"label":       field.Label,
		"description": sanitizeDescription(field.Description),
		"inputType":   field.UIHints["inputType"],
		"step":        field.UIHints["step"],
		"unit":        field.UIHints["unit"],
		"placeholder": field.UIHints["placeholder"],
		"level":       field.Metadata["level"],
		"value":       formatValue(value),
		"checked":     value == true,
		"errors":      options.Errors[field.Name],
	}
	if rule, ok := field.Rule(model.ValidationRuleMin); ok {
		view["min"] = rule.Params["value"]
	}
	if rule, ok := field.Rule(model.ValidationRuleMax); ok {
		view["max"] = rule.Params["value"]
	}
	return view
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	}
	return fmt.Sprint(value)
}
