package models

import (
	"errors"
	"fmt"
)

// Error kinds. Concrete errors unwrap to exactly one of these so callers can
// branch with errors.Is.
var (
	ErrInvalidSymbol     = errors.New("invalid symbol")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNotFound          = errors.New("not found")
	ErrTransientUpstream = errors.New("upstream unavailable")
	ErrInsufficientData  = errors.New("insufficient data")
	ErrAIService         = errors.New("ai service failure")
	ErrNotConfigured     = errors.New("service not configured")
)

// UpstreamError describes a failed call to a market-data provider
type UpstreamError struct {
	Provider   string
	Op         string
	StatusCode int
	Kind       error // ErrNotFound or ErrTransientUpstream
	Err        error
}

func (e *UpstreamError) Error() string {
	msg := fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UpstreamError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NotFound builds a non-retryable upstream error
func NotFound(provider, op string, err error) error {
	return &UpstreamError{Provider: provider, Op: op, Kind: ErrNotFound, Err: err}
}

// Transient builds a retryable upstream error
func Transient(provider, op string, status int, err error) error {
	return &UpstreamError{Provider: provider, Op: op, StatusCode: status, Kind: ErrTransientUpstream, Err: err}
}

// InsufficientDataError reports that fetched data lacks a category of fields
// required by the requested analysis.
type InsufficientDataError struct {
	Symbol   string
	Category string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("key %s missing in data for %s", e.Category, e.Symbol)
}

func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrInsufficientData
}

// AIServiceError wraps a text-generation failure. Category is safe to show to
// end users; Err holds the provider detail and is only logged.
type AIServiceError struct {
	Category string
	Err      error
}

func (e *AIServiceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("ai service: %s", e.Category)
	}
	return fmt.Sprintf("ai service: %s: %v", e.Category, e.Err)
}

func (e *AIServiceError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrAIService}
	}
	return []error{ErrAIService, e.Err}
}

// IsRetryable reports whether the caller may safely retry the operation
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransientUpstream)
}
