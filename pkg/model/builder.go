package model

import (
	"github.com/goliatone/go-navparams/internal/model"
	"github.com/goliatone/go-navparams/pkg/paramgen"
)

// Builder converts parameter schemas into form models.
type Builder interface {
	Build(schema paramgen.Schema) (FormModel, error)
}

// BuilderOption configures the builder behaviour.
type BuilderOption func(*model.Options)

// WithLabeler overrides the default label generation function.
func WithLabeler(labeler func(string) string) BuilderOption {
	return func(opts *model.Options) {
		opts.Labeler = labeler
	}
}

// WithForm sets the form id and title.
func WithForm(id, title, description string) BuilderOption {
	return func(opts *model.Options) {
		opts.ID = id
		opts.Title = title
		opts.Description = description
	}
}

// WithEndpoint sets the submission target recorded on the form.
func WithEndpoint(method, endpoint string) BuilderOption {
	return func(opts *model.Options) {
		opts.Method = method
		opts.Endpoint = endpoint
	}
}

// WithFieldHints merges UI hints for a single field over the derived ones.
func WithFieldHints(name string, hints map[string]string) BuilderOption {
	return func(opts *model.Options) {
		if opts.FieldHints == nil {
			opts.FieldHints = make(map[string]map[string]string)
		}
		merged := opts.FieldHints[name]
		if merged == nil {
			merged = make(map[string]string, len(hints))
		}
		for key, value := range hints {
			merged[key] = value
		}
		opts.FieldHints[name] = merged
	}
}

// NewBuilder returns a Builder backed by the internal implementation.
func NewBuilder(options ...BuilderOption) Builder {
	cfg := model.Options{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return model.New(cfg)
}

// Build is a shortcut for NewBuilder(options...).Build(schema).
func Build(schema paramgen.Schema, options ...BuilderOption) (FormModel, error) {
	return NewBuilder(options...).Build(schema)
}
