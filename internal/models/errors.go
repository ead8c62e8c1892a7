package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates no application has the requested id.
	ErrNotFound = errors.New("application not found")

	// ErrDuplicate indicates the operation would leave two applications with the same company and position.
	ErrDuplicate = errors.New("duplicate application")

	// ErrValidation indicates the payload was rejected before reaching the store.
	ErrValidation = errors.New("validation failed")

	// ErrStoreUnavailable indicates the store could not serve the request.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// DuplicateError names the (company, position) pair that is already taken.
type DuplicateError struct {
	Company  string
	Position string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("an application for %q at %q already exists", e.Position, e.Company)
}

func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}

// FieldError describes one rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every rejected field of a payload.
type ValidationError struct {
	Fields []FieldError
}

func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// StoreError wraps an infrastructure failure from the persistence layer.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool {
	return target == ErrStoreUnavailable
}
