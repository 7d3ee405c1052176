package store

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when a lookup by id or slug matches nothing.
	ErrNotFound = errors.New("not found")
	// ErrConflict is wrapped by ConflictError.
	ErrConflict = errors.New("conflict")
)

// ValidationError carries every failing field of one write, each with its
// messages, so callers can report them together.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], " ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a message for field.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// OrNil returns e when it holds at least one field error.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// UniquenessError reports a write that would duplicate a unique value.
type UniquenessError struct {
	Field   string
	Message string
}

func (e *UniquenessError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConflictError reports a write refused because other rows depend on the target.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func (e *ConflictError) Unwrap() error { return ErrConflict }

const (
	msgRequired = "This field is required."
	msgBlank    = "This field may not be blank."
)

func msgMaxLength(n int) string {
	return fmt.Sprintf("Ensure this field has no more than %d characters.", n)
}

// checkText validates a required text field against its column size.
func checkText(verr *ValidationError, field, value string, max int) {
	switch {
	case strings.TrimSpace(value) == "":
		verr.Add(field, msgBlank)
	case len([]rune(value)) > max:
		verr.Add(field, msgMaxLength(max))
	}
}
