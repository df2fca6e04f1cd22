// Package errors provides error handling for songnet.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints and details
//
// Usage:
//
//	// Wrap with context
//	if err := dataset.Load(path); err != nil {
//	    return errors.Wrap(err, "failed to load dataset")
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "valid layouts are force and radial")
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is            = crdb.Is
	IsAny         = crdb.IsAny
	As            = crdb.As
	Unwrap        = crdb.Unwrap
	UnwrapAll     = crdb.UnwrapAll
	GetAllHints   = crdb.GetAllHints
	GetAllDetails = crdb.GetAllDetails
	FlattenHints  = crdb.FlattenHints
)

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Common sentinel errors for use across songnet.
// Use these with errors.Is() for type-safe error checking.
var (
	// ErrInvalidMode indicates an unknown layout, filter or sort mode string
	ErrInvalidMode = New("invalid mode")

	// ErrNoData indicates an operation needs a loaded dataset
	ErrNoData = New("no dataset loaded")

	// ErrSessionClosed indicates the session event loop has stopped
	ErrSessionClosed = New("session closed")

	// ErrNotFound indicates the requested node or resource does not exist
	ErrNotFound = New("not found")
)

// IsNotFoundError checks if an error is or wraps ErrNotFound
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsInvalidModeError checks if an error is or wraps ErrInvalidMode
func IsInvalidModeError(err error) bool {
	return err != nil && Is(err, ErrInvalidMode)
}

// NewNotFoundError creates a not-found error with a formatted message
func NewNotFoundError(format string, args ...interface{}) error {
	return Wrap(ErrNotFound, Newf(format, args...).Error())
}

// NewInvalidModeError creates an invalid-mode error with a formatted message
func NewInvalidModeError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidMode, Newf(format, args...).Error())
}
