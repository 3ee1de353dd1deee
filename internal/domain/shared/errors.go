// Package shared contains common domain types, errors and events
// that are used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Input errors: a caller supplied a value of the wrong shape.
	ErrInputValidation = errors.New("input validation failed")

	// Domain errors: well-formed input that breaks a business rule.
	ErrDomainValidation = errors.New("domain validation failed")
	ErrNotFound         = errors.New("entity not found")
	ErrAlreadyExists    = errors.New("entity already exists")
	ErrStateTransition  = errors.New("invalid state transition")
	ErrReferenced       = errors.New("entity is still referenced")
	ErrOutOfWindow      = errors.New("date outside allowed window")

	// Storage errors
	ErrStorage       = errors.New("storage failure")
	ErrCorruptRecord = errors.New("corrupt record")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "student", "course", "enrollment", "storage"
	Op      string // Operation that failed, e.g., "Create", "Enroll"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Message returns the human-readable part of err, without the domain and
// operation prefix. Errors that are not DomainErrors are returned verbatim.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var de *DomainError
	if errors.As(err, &de) {
		if de.Err != nil && errors.Is(de.Kind, ErrStorage) {
			return fmt.Sprintf("%s: %v", de.Message, de.Err)
		}
		return de.Message
	}
	return err.Error()
}

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsInputValidation checks if the error was caused by malformed caller input.
func IsInputValidation(err error) bool {
	return errors.Is(err, ErrInputValidation)
}

// IsDomainValidation checks if the error is a business rule violation.
func IsDomainValidation(err error) bool {
	return errors.Is(err, ErrDomainValidation) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrAlreadyExists) ||
		errors.Is(err, ErrStateTransition) ||
		errors.Is(err, ErrReferenced) ||
		errors.Is(err, ErrOutOfWindow)
}

// IsStorage checks if the error came from the durable store or from
// decoding its content.
func IsStorage(err error) bool {
	return errors.Is(err, ErrStorage) ||
		errors.Is(err, ErrCorruptRecord)
}
