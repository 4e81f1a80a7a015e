// Package tui edits parameter values interactively in a terminal. Each field
// of the form model becomes one prompt; the collected values are returned as
// JSON or YAML so they can be saved as a values file.
package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-navparams/pkg/model"
	"github.com/goliatone/go-navparams/pkg/render"
)

// Name is the registry key of the TUI renderer.
const Name = "tui"

// Renderer implements render.Renderer for terminal-driven sessions.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) *Renderer {
	r := &Renderer{
		driver:       newSurveyDriver(),
		outputFormat: OutputFormatJSON,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return Name
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	if r.outputFormat == OutputFormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// Render prompts for every field and serializes the answers. Fields keep
// their current value (options.Values, else the default) as prompt default.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	if form.Title != "" {
		if err := r.driver.Info(ctx, form.Title); err != nil {
			return nil, err
		}
	}

	values := make(map[string]any, len(form.Fields))
	order := make([]string, 0, len(form.Fields))
	for _, field := range form.Fields {
		value, err := r.promptField(ctx, field, opts)
		if err != nil {
			return nil, err
		}
		values[field.Name] = value
		order = append(order, field.Name)
	}

	if r.submitTransformer != nil {
		var err error
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}

	return r.serialize(order, values)
}

func (r *Renderer) promptField(ctx context.Context, field model.Field, opts render.RenderOptions) (any, error) {
	current := opts.ValueFor(field.Name, field.Default)
	message := displayLabel(field)
	help := displayHelp(field, opts.Errors[field.Name])

	switch field.Type {
	case model.FieldTypeBoolean:
		def, _ := current.(bool)
		return r.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: def, Help: help})
	case model.FieldTypeInteger, model.FieldTypeNumber:
		bounds := boundsOf(field)
		raw, err := r.driver.Input(ctx, InputConfig{
			Message: message,
			Default: formatValue(current),
			Help:    help,
			Validator: func(input string) error {
				_, err := parseNumber(field.Type, input, bounds)
				return err
			},
		})
		if err != nil {
			return nil, err
		}
		value, err := parseNumber(field.Type, raw, bounds)
		if err != nil {
			return nil, fmt.Errorf("tui: %s: %w", field.Name, err)
		}
		return value, nil
	default:
		def := formatValue(current)
		if options := choiceOptions(field, def); len(options) > 0 {
			idx, err := r.driver.Select(ctx, SelectConfig{
				Message:      message,
				Options:      options,
				DefaultIndex: indexOf(options, def),
				Help:         help,
			})
			if err != nil {
				return nil, err
			}
			if idx < 0 || idx >= len(options) {
				return nil, fmt.Errorf("tui: %s: selection %d out of range", field.Name, idx)
			}
			return options[idx], nil
		}
		return r.driver.Input(ctx, InputConfig{Message: message, Default: def, Help: help})
	}
}

func (r *Renderer) serialize(order []string, values map[string]any) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatYAML:
		node := &yaml.Node{Kind: yaml.MappingNode}
		seen := make(map[string]bool, len(values))
		for _, name := range order {
			if value, ok := values[name]; ok {
				if err := appendYAML(node, name, value); err != nil {
					return nil, err
				}
				seen[name] = true
			}
		}
		for name, value := range values {
			if !seen[name] {
				if err := appendYAML(node, name, value); err != nil {
					return nil, err
				}
			}
		}
		out, err := yaml.Marshal(node)
		if err != nil {
			return nil, fmt.Errorf("tui: encode yaml: %w", err)
		}
		return out, nil
	default:
		out, err := json.Marshal(values)
		if err != nil {
			return nil, fmt.Errorf("tui: encode json: %w", err)
		}
		return out, nil
	}
}

func appendYAML(node *yaml.Node, name string, value any) error {
	var valueNode yaml.Node
	if err := valueNode.Encode(value); err != nil {
		return fmt.Errorf("tui: encode yaml %s: %w", name, err)
	}
	node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name}, &valueNode)
	return nil
}

type numberBounds struct {
	min, max       float64
	hasMin, hasMax bool
}

func boundsOf(field model.Field) numberBounds {
	var b numberBounds
	if rule, ok := field.Rule(model.ValidationRuleMin); ok {
		if v, err := strconv.ParseFloat(rule.Params["value"], 64); err == nil {
			b.min, b.hasMin = v, true
		}
	}
	if rule, ok := field.Rule(model.ValidationRuleMax); ok {
		if v, err := strconv.ParseFloat(rule.Params["value"], 64); err == nil {
			b.max, b.hasMax = v, true
		}
	}
	return b
}

func parseNumber(kind model.FieldType, raw string, b numberBounds) (any, error) {
	raw = strings.TrimSpace(raw)
	var (
		value   any
		asFloat float64
	)
	if kind == model.FieldTypeInteger {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", raw)
		}
		value, asFloat = v, float64(v)
	} else {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%q is not a number", raw)
		}
		value, asFloat = v, v
	}
	if b.hasMin && asFloat < b.min {
		return nil, fmt.Errorf("must be >= %s", strconv.FormatFloat(b.min, 'f', -1, 64))
	}
	if b.hasMax && asFloat > b.max {
		return nil, fmt.Errorf("must be <= %s", strconv.FormatFloat(b.max, 'f', -1, 64))
	}
	return value, nil
}

// choiceOptions reads the comma separated "options" hint. The current value
// is kept selectable even when it is not part of the list.
func choiceOptions(field model.Field, current string) []string {
	raw := strings.TrimSpace(field.UIHints["options"])
	if raw == "" {
		return nil
	}
	var options []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			options = append(options, part)
		}
	}
	if current != "" && indexOf(options, current) < 0 {
		options = append([]string{current}, options...)
	}
	return options
}

func displayLabel(field model.Field) string {
	label := field.Label
	if label == "" {
		label = field.Name
	}
	if unit := field.UIHints["unit"]; unit != "" {
		label += " (" + unit + ")"
	}
	return label
}

func displayHelp(field model.Field, errs []string) string {
	parts := []string{}
	if field.Description != "" {
		parts = append(parts, field.Description)
	}
	if b := boundsOf(field); b.hasMin && b.hasMax {
		parts = append(parts, fmt.Sprintf("range [%s, %s]",
			strconv.FormatFloat(b.min, 'f', -1, 64), strconv.FormatFloat(b.max, 'f', -1, 64)))
	}
	parts = append(parts, errs...)
	return strings.Join(parts, " | ")
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
	}
	return fmt.Sprint(value)
}

func indexOf(options []string, value string) int {
	for i, option := range options {
		if option == value {
			return i
		}
	}
	return -1
}
