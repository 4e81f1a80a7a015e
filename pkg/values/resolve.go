// Package values reads, validates and writes parameter value documents
// (JSON, YAML or TOML) against a paramgen.Schema.
package values

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-navparams/pkg/paramgen"
)

// Issue describes a single rejected entry.
type Issue struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Result captures the outcome of Resolve. Values always holds a complete set:
// defaults for anything missing or rejected.
type Result struct {
	Valid  bool            `json:"valid"`
	Values paramgen.Values `json:"values"`
	Issues []Issue         `json:"issues,omitempty"`
}

// Err returns nil for valid results and a *ValidationError otherwise.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return &ValidationError{Issues: append([]Issue(nil), r.Issues...)}
}

// ValidationError aggregates every issue found while resolving.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		if issue.Field == "" {
			parts = append(parts, issue.Message)
			continue
		}
		parts = append(parts, issue.Field+": "+issue.Message)
	}
	return "values: " + strings.Join(parts, "; ")
}

// Resolve overlays raw on top of the schema defaults. Every entry is checked;
// issues are reported in name order so output is stable.
func Resolve(schema paramgen.Schema, raw map[string]any) Result {
	result := Result{Valid: true, Values: schema.Defaults()}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		param, ok := schema.Lookup(name)
		if !ok {
			result.Issues = append(result.Issues, Issue{Field: name, Message: "unknown parameter"})
			continue
		}
		value, err := param.CoerceAndCheck(raw[name])
		if err != nil {
			result.Issues = append(result.Issues, Issue{Field: name, Message: issueMessage(err)})
			continue
		}
		result.Values[name] = value
	}

	result.Valid = len(result.Issues) == 0
	return result
}

func issueMessage(err error) string {
	switch {
	case errors.Is(err, paramgen.ErrOutOfRange):
		return strings.TrimPrefix(err.Error(), paramgen.ErrOutOfRange.Error()+": ")
	case errors.Is(err, paramgen.ErrKindMismatch):
		return strings.TrimPrefix(err.Error(), paramgen.ErrKindMismatch.Error()+": ")
	}
	return fmt.Sprint(err)
}
