package errors

import (
	"errors"
	"fmt"
)

// Type represents different types of errors that can occur during a scan
type Type string

const (
	TypeRateLimited        Type = "rate_limited"
	TypeTransientNetwork   Type = "transient_network"
	TypeAuthentication     Type = "authentication"
	TypeConfigInvalid      Type = "config_invalid"
	TypeStreamUnavailable  Type = "stream_unavailable"
	TypeProfileUnavailable Type = "profile_unavailable"
	TypeOther              Type = "other"
)

// Severity qualifies how aggressively a rate-limit signal should be backed off
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Error represents an upstream or configuration error with type information
type Error struct {
	Type     Type
	Severity Severity
	Message  string
	Code     int
	Err      error
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a typed error with a message
func New(t Type, message string) *Error {
	return &Error{Type: t, Severity: SeverityMedium, Message: message}
}

// Newf creates a typed error with a formatted message
func Newf(t Type, format string, args ...interface{}) *Error {
	return New(t, fmt.Sprintf(format, args...))
}

// Wrap creates a typed error wrapping an underlying cause
func Wrap(t Type, err error, message string) *Error {
	return &Error{Type: t, Severity: SeverityMedium, Message: message, Err: err}
}

// WithCode sets the HTTP status code associated with the error
func (e *Error) WithCode(code int) *Error {
	e.Code = code
	return e
}

// WithSeverity sets the backoff severity for rate-limit errors
func (e *Error) WithSeverity(s Severity) *Error {
	e.Severity = s
	return e
}

// TypeOf classifies an arbitrary error into the scan taxonomy.
// Errors that do not carry type information are classified as Other.
func TypeOf(err error) Type {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return TypeOther
}

// SeverityOf returns the backoff severity of a rate-limit error,
// defaulting to medium for untyped errors.
func SeverityOf(err error) Severity {
	var e *Error
	if errors.As(err, &e) && e.Severity != "" {
		return e.Severity
	}
	return SeverityMedium
}

// IsRateLimited reports whether the error is an upstream throttling signal
func IsRateLimited(err error) bool {
	return TypeOf(err) == TypeRateLimited
}

// IsAuthentication reports whether the error is fatal to the whole run
func IsAuthentication(err error) bool {
	return TypeOf(err) == TypeAuthentication
}

// IsRetryable checks if an error type should consume a retry slot.
// Rate limits are handled separately and never consume a slot.
func IsRetryable(t Type) bool {
	switch t {
	case TypeTransientNetwork, TypeStreamUnavailable, TypeProfileUnavailable, TypeOther:
		return true
	case TypeAuthentication, TypeConfigInvalid, TypeRateLimited:
		return false
	default:
		return false
	}
}

// FromStatusCode maps an HTTP status code to an error type
func FromStatusCode(code int) Type {
	switch {
	case code == 429:
		return TypeRateLimited
	case code == 401 || code == 403:
		return TypeAuthentication
	case code >= 500:
		return TypeTransientNetwork
	default:
		return TypeOther
	}
}
