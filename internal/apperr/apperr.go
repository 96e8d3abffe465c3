// Package apperr defines the error taxonomy of the AI pipeline.
//
// The four categories map one-to-one onto how the orchestrator reacts:
// NotFound surfaces as-is, transport and malformed-response failures abort
// the task (or degrade to text for chat), and validation failures reject a
// syntactically valid payload that violates schema bounds.
package apperr

import (
	"errors"
	"fmt"
)

// ErrNotFound marks lookups for orders or clients that do not exist.
var ErrNotFound = errors.New("not found")

// TransportError wraps a failure to complete the inference call:
// network errors, context deadlines, and non-success HTTP statuses.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("inference transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Transport wraps err as a TransportError.
func Transport(err error) error {
	return &TransportError{Err: err}
}

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// MalformedError marks a provider reply whose envelope or embedded JSON
// could not be decoded.
type MalformedError struct {
	Reason string
	Err    error
}

func (e *MalformedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed response: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed response: %s", e.Reason)
}

func (e *MalformedError) Unwrap() error { return e.Err }

// Malformed builds a MalformedError with a short reason.
func Malformed(reason string) error {
	return &MalformedError{Reason: reason}
}

// MalformedWrap builds a MalformedError carrying the underlying cause.
func MalformedWrap(reason string, err error) error {
	return &MalformedError{Reason: reason, Err: err}
}

// IsMalformed reports whether err is (or wraps) a MalformedError.
func IsMalformed(err error) bool {
	var me *MalformedError
	return errors.As(err, &me)
}

// ValidationError marks a well-formed payload whose values violate the
// task schema, e.g. an opportunity score outside [1,10].
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s %s", e.Field, e.Reason)
}

// Validation builds a ValidationError for one field.
func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
