package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound indicates an identifier did not resolve to an entity.
var ErrNotFound = errors.New("not found")

// ValidationError reports every field that failed validation, so a caller
// can fix all of them in one round trip.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// fieldErrors accumulates validation failures before building a
// ValidationError.
type fieldErrors map[string]string

func (f fieldErrors) add(field, msg string) {
	f[field] = msg
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}

// UploadError indicates a rejected file upload (wrong type or too large).
type UploadError struct {
	Reason string
}

func (e *UploadError) Error() string {
	return "upload rejected: " + e.Reason
}
