// Package reconfigure holds the live parameter values of a running process
// and applies validated updates to them, notifying subscribers with the level
// bitmask of what changed.
package reconfigure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-navparams/pkg/paramgen"
	"github.com/goliatone/go-navparams/pkg/values"
)

// RestoreDefaultsKey is the reserved update key that resets every parameter
// to the restore point. It is never stored as a value.
const RestoreDefaultsKey = "restore_defaults"

// ErrRejected wraps every update refused by validation.
var ErrRejected = errors.New("reconfigure: update rejected")

// Callback receives the values after an update and the OR of the levels of
// the parameters that changed.
type Callback func(current paramgen.Values, level paramgen.Level)

// Option configures a Server.
type Option func(*Server)

// WithLogger routes server logs to logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithInitialValues overlays values on the schema defaults at start-up. The
// result becomes the restore point.
func WithInitialValues(initial map[string]any) Option {
	return func(s *Server) {
		s.initial = initial
	}
}

// Server owns the current configuration.
type Server struct {
	mu          sync.Mutex
	schema      paramgen.Schema
	current     paramgen.Values
	restore     paramgen.Values
	initial     map[string]any
	subscribers map[int]Callback
	nextID      int
	logger      logrus.FieldLogger
}

// New seeds the server with the schema defaults, overlaid by any initial
// values. Invalid initial values fail construction.
func New(schema paramgen.Schema, options ...Option) (*Server, error) {
	if schema.Len() == 0 {
		return nil, errors.New("reconfigure: schema has no parameters")
	}
	s := &Server{
		schema:      schema,
		subscribers: make(map[int]Callback),
		logger:      discardLogger(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}

	result := values.Resolve(schema, s.initial)
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("reconfigure: initial values: %w", err)
	}
	s.current = result.Values
	s.restore = result.Values.Clone()
	s.initial = nil
	return s, nil
}

// Schema returns the schema the server validates against.
func (s *Server) Schema() paramgen.Schema {
	return s.schema
}

// Current returns a copy of the current values.
func (s *Server) Current() paramgen.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// Update applies a partial update. Every entry is validated first; if any is
// rejected nothing changes and the returned error wraps ErrRejected and a
// *values.ValidationError. A true RestoreDefaultsKey resets to the restore
// point and the other entries of that update are ignored.
func (s *Server) Update(ctx context.Context, update map[string]any) (paramgen.Values, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	restore, rest, err := splitRestore(update)
	if err != nil {
		return nil, err
	}

	var accepted paramgen.Values
	if !restore {
		accepted, err = s.validate(rest)
		if err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current.Clone()
	if restore {
		next = s.restore.Clone()
	}
	for name, value := range accepted {
		next[name] = value
	}

	var (
		level   paramgen.Level
		changed []string
	)
	for _, param := range s.schema.Parameters() {
		if next[param.Name] != s.current[param.Name] {
			level |= param.Level
			changed = append(changed, param.Name)
		}
	}
	s.current = next

	s.logger.WithFields(logrus.Fields{
		"changed": changed,
		"level":   uint32(level),
		"restore": restore,
	}).Info("reconfigure: parameters updated")

	for _, id := range s.subscriberIDs() {
		s.subscribers[id](next.Clone(), level)
	}
	return next.Clone(), nil
}

// Subscribe registers fn for every successful update. Callbacks run while the
// configuration lock is held, in registration order, so they observe updates
// in sequence; they must not call Update. The returned func unsubscribes.
func (s *Server) Subscribe(fn Callback) func() {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
		})
	}
}

func (s *Server) subscriberIDs() []int {
	ids := make([]int, 0, len(s.subscribers))
	for id := range s.subscribers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (s *Server) validate(update map[string]any) (paramgen.Values, error) {
	result := values.Resolve(s.schema, update)
	if err := result.Err(); err != nil {
		s.logger.WithError(err).Warn("reconfigure: update rejected")
		return nil, fmt.Errorf("%w: %w", ErrRejected, err)
	}
	accepted := make(paramgen.Values, len(update))
	for name := range update {
		accepted[name] = result.Values[name]
	}
	return accepted, nil
}

func splitRestore(update map[string]any) (bool, map[string]any, error) {
	raw, ok := update[RestoreDefaultsKey]
	if !ok {
		return false, update, nil
	}
	flag, isBool := raw.(bool)
	if !isBool {
		issue := values.Issue{Field: RestoreDefaultsKey, Message: fmt.Sprintf("expected bool value, got %T", raw)}
		return false, nil, fmt.Errorf("%w: %w", ErrRejected, &values.ValidationError{Issues: []values.Issue{issue}})
	}
	rest := make(map[string]any, len(update)-1)
	for name, value := range update {
		if name != RestoreDefaultsKey {
			rest[name] = value
		}
	}
	return flag, rest, nil
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
