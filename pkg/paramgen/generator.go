package paramgen

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Builder is the registration seam declaration helpers depend on. bounds is
// either empty or exactly (min, max).
type Builder interface {
	Add(name string, kind Kind, level Level, description string, def any, bounds ...any) error
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger routes declaration logs to the provided logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// Generator is the default Builder. It records declarations in call order and
// rejects anything that would produce an inconsistent schema.
type Generator struct {
	mu     sync.Mutex
	params []Parameter
	index  map[string]int
	logger logrus.FieldLogger
}

var _ Builder = (*Generator)(nil)

// NewGenerator returns an empty generator.
func NewGenerator(options ...Option) *Generator {
	g := &Generator{
		index:  make(map[string]int),
		logger: discardLogger(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(g)
	}
	return g
}

// Add validates and records a declaration. Rejected declarations leave the
// generator unchanged.
func (g *Generator) Add(name string, kind Kind, level Level, description string, def any, bounds ...any) error {
	param, err := newParameter(name, kind, level, description, def, bounds)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.index[param.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicate, param.Name)
	}
	g.index[param.Name] = len(g.params)
	g.params = append(g.params, param)

	g.logger.WithFields(logrus.Fields{
		"parameter": param.Name,
		"kind":      string(param.Kind),
		"level":     uint32(param.Level),
	}).Debug("paramgen: declared parameter")
	return nil
}

// Len returns the number of recorded declarations.
func (g *Generator) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.params)
}

// Schema returns an immutable snapshot of the declarations recorded so far.
func (g *Generator) Schema() Schema {
	g.mu.Lock()
	defer g.mu.Unlock()
	return NewSchema(g.params)
}

func newParameter(name string, kind Kind, level Level, description string, def any, bounds []any) (Parameter, error) {
	if name == "" || strings.ContainsAny(name, " \t\r\n") {
		return Parameter{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if !kind.Valid() {
		return Parameter{}, fmt.Errorf("%w: %q (parameter %s)", ErrUnknownKind, kind, name)
	}

	param := Parameter{
		Name:        name,
		Kind:        kind,
		Level:       level,
		Description: description,
	}

	value, err := coerce(kind, def)
	if err != nil {
		return Parameter{}, fmt.Errorf("%s default: %w", name, err)
	}
	param.Default = value

	switch len(bounds) {
	case 0:
	case 2:
		if !kind.Numeric() {
			return Parameter{}, fmt.Errorf("%w: %s is %s and cannot declare min/max", ErrInvalidBounds, name, kind)
		}
		minValue, err := coerce(kind, bounds[0])
		if err != nil {
			return Parameter{}, fmt.Errorf("%s min: %w", name, err)
		}
		maxValue, err := coerce(kind, bounds[1])
		if err != nil {
			return Parameter{}, fmt.Errorf("%s max: %w", name, err)
		}
		if lessThan(maxValue, minValue) {
			return Parameter{}, fmt.Errorf("%w: %s min %v > max %v", ErrOutOfRange, name, minValue, maxValue)
		}
		param.Min = minValue
		param.Max = maxValue
	default:
		return Parameter{}, fmt.Errorf("%w: %s expects min and max, got %d values", ErrInvalidBounds, name, len(bounds))
	}

	if err := param.Check(param.Default); err != nil {
		return Parameter{}, fmt.Errorf("%s default: %w", name, err)
	}
	return param, nil
}

func lessThan(a, b any) bool {
	switch av := a.(type) {
	case float64:
		return av < b.(float64)
	case int:
		return av < b.(int)
	}
	return false
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
