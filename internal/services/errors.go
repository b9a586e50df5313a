package services

import (
	"fmt"
	"sort"
	"strings"
)

// ServiceError is a sentinel error returned by form operations.
type ServiceError string

func (e ServiceError) Error() string { return string(e) }

const (
	// ErrNotFound means no form matched the ownership or shareURL lookup.
	ErrNotFound ServiceError = "not found"
	// ErrInvalidInput means the input failed schema constraints.
	ErrInvalidInput ServiceError = "invalid input"
	// ErrPersistence means the store did not produce an expected record.
	ErrPersistence ServiceError = "persistence failure"
)

// ValidationError carries per-field messages. It matches ErrInvalidInput
// in errors.Is chains so handlers can branch on the sentinel alone.
type ValidationError struct {
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
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
