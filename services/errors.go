package services

import (
	"errors"
	"fmt"
)

// Messages returned to API clients. They are part of the public contract.
const (
	MsgMissingFields   = "Please fill in all required fields."
	MsgUpstreamFailure = "AI evaluation failed. Please try again."
	MsgTooManyRequests = "Too many requests. Please wait and try again."
)

var (
	ErrMissingRequiredFields = errors.New("missing required fields")
	ErrUpstream              = errors.New("upstream completion failed")
)

// ValidationError reports required idea fields that were empty after sanitization.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", ErrMissingRequiredFields, e.Fields)
}

func (e *ValidationError) Unwrap() error { return ErrMissingRequiredFields }

// UpstreamError wraps any failure of the completion call. Its detail is for server logs only.
type UpstreamError struct {
	Provider string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, ErrUpstream, e.Err)
}

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

func (e *UpstreamError) Unwrap() error { return e.Err }
