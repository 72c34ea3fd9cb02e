package trim

import (
	"errors"
	"fmt"
)

// Sentinel errors for trim operations. Parse failures surface
// transcript.ErrMalformedRecord; lock, snapshot, and write failures
// surface the backup package's sentinels. All of them arrive wrapped in a
// *TrimError that names the engine state.
var (
	// ErrInvalidOptions indicates invalid engine options.
	ErrInvalidOptions = errors.New("invalid trim options")

	// ErrNoSafeCut indicates no boundary at or below the requested cut
	// removes anything without splitting a tool pair. The trim is aborted
	// whole; no partial or unsafe trim is ever performed.
	ErrNoSafeCut = errors.New("no safe cut point for requested trim")
)

// TrimError carries the engine state a fatal error occurred in.
type TrimError struct {
	// State is the engine state the operation failed in.
	State State

	// Path is the live transcript file, if known.
	Path string

	// Err is the underlying error.
	Err error

	// Context holds additional key-value pairs for debugging.
	Context map[string]any
}

// Error returns a formatted error message.
func (e *TrimError) Error() string {
	msg := fmt.Sprintf("trim failed in state %s", e.State)
	if e.Path != "" {
		msg += fmt.Sprintf(" for %s", e.Path)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *TrimError) Unwrap() error {
	return e.Err
}

// NewTrimError creates a TrimError for the given state.
func NewTrimError(state State, err error) *TrimError {
	return &TrimError{
		State:   state,
		Err:     err,
		Context: make(map[string]any),
	}
}

// WithPath sets the transcript path on the error and returns it for
// chaining.
func (e *TrimError) WithPath(path string) *TrimError {
	e.Path = path
	return e
}

// WithContext adds a key-value pair to the error context and returns the
// error for chaining.
func (e *TrimError) WithContext(key string, value any) *TrimError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}
