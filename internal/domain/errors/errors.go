package errors

import (
	"errors"
	"fmt"
)

// TransientError is a platform failure that may succeed if tried again later
// (network error, rate limit, server error, context deadline).
type TransientError struct {
	Message string
	Err     error
}

func (e *TransientError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// PermanentError is a platform failure that will not succeed without a change
// on our side (missing access, unknown channel, invalid token).
type PermanentError struct {
	Message string
	Err     error
}

func (e *PermanentError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// NewTransientError wraps err as a transient error.
func NewTransientError(message string, err error) error {
	return &TransientError{Message: message, Err: err}
}

// NewPermanentError wraps err as a permanent error.
func NewPermanentError(message string, err error) error {
	return &PermanentError{Message: message, Err: err}
}

// IsTransient reports whether err (or anything it wraps) is a TransientError.
func IsTransient(err error) bool {
	var t *TransientError
	return errors.As(err, &t)
}

// IsPermanent reports whether err (or anything it wraps) is a PermanentError.
func IsPermanent(err error) bool {
	var p *PermanentError
	return errors.As(err, &p)
}

// Classify returns a short label for logs and metric attributes.
func Classify(err error) string {
	switch {
	case err == nil:
		return "none"
	case IsTransient(err):
		return "transient"
	case IsPermanent(err):
		return "permanent"
	default:
		return "unknown"
	}
}
