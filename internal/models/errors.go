package models

import "fmt"

// The error taxonomy for every externally-facing action. Handlers inspect
// these with errors.As and map them to HTTP statuses; anything else is an
// internal error. A failed action never clears previously stored results.

// ValidationError is a recoverable user-input problem (empty required input,
// unknown language or content type). Surfaced inline, no state mutation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for a named field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// ConfigurationError means an external credential or tool the action needs is
// missing. Fatal to the action, never to the process, and never retried.
type ConfigurationError struct {
	Missing string // e.g. "GEMINI_API_KEY"
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing configuration: %s", e.Missing)
}

// ServiceError wraps a failure from an external collaborator (generation,
// speech synthesis, transcription, document parsing, video encoding).
type ServiceError struct {
	Service string // "gemini", "elevenlabs", "ffmpeg", ...
	Err     error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }
