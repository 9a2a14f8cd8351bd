// internal/domain/models/validation.go
package models

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrInvalidProject = errors.New("invalid project")
	ErrInvalidTask    = errors.New("invalid task")
	ErrInvalidRole    = errors.New(`role must be "viewer" or "editor"`)
	ErrInvalidStatus  = errors.New(`status must be "Backlog", "Doing" or "Done"`)
)

// ValidationError carries per-field messages for a rejected entity.
// errors.Is matches it against its Kind (ErrInvalidProject, ErrInvalidTask).
type ValidationError struct {
	Kind   error
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return e.Kind.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return e.Kind }

// fieldErrors collects messages; err returns nil when nothing was added.
type fieldErrors struct {
	kind   error
	fields map[string]string
}

func (f *fieldErrors) add(field, msg string) {
	if f.fields == nil {
		f.fields = make(map[string]string)
	}
	if _, exists := f.fields[field]; !exists {
		f.fields[field] = msg
	}
}

func (f *fieldErrors) err() error {
	if len(f.fields) == 0 {
		return nil
	}
	return &ValidationError{Kind: f.kind, Fields: f.fields}
}
