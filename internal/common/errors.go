// Package common defines shared constants and sentinel errors used across
// the cardsmith server layers. Callers should use errors.Is to match these
// values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Extraction errors.
	ErrEmptyInput            = errors.New("empty input")
	ErrUnsupportedFormat     = errors.New("unsupported file format")
	ErrCorruptInput          = errors.New("corrupt input")
	ErrDependencyUnavailable = errors.New("extraction dependency unavailable")

	// Validation / sync errors.
	ErrValidation = errors.New("validation error")

	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrUnauthorized = errors.New("unauthorized")

	// Generic/internal flow control.
	ErrInternal = errors.New("internal error")
)

// ProviderKind classifies a text-completion provider failure.
type ProviderKind string

const (
	ProviderRateLimited ProviderKind = "rate_limited"
	ProviderUpstream    ProviderKind = "upstream"
	ProviderTimeout     ProviderKind = "timeout"
	ProviderUnknown     ProviderKind = "unknown"
)

// ProviderError is a typed failure of the text-completion provider. Kind
// distinguishes retryable classes (rate limiting, upstream faults, timeouts)
// from everything else.
type ProviderError struct {
	Kind ProviderKind
	Err  error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error (%s): %v", e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError wraps err with a provider failure class.
func NewProviderError(kind ProviderKind, err error) *ProviderError {
	return &ProviderError{Kind: kind, Err: err}
}

// ProviderKindOf returns the failure class of err, or ProviderUnknown if err
// is not a ProviderError.
func ProviderKindOf(err error) ProviderKind {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ProviderUnknown
}
