// Marquee - Content-Based Movie and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package query

import "fmt"

// NotFoundError means the query key resolved to nothing. Message is the
// domain's user-facing text.
type NotFoundError struct {
	Domain  string
	Query   string
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// Unwrap returns nil; a not-found result has no underlying cause.
func (e *NotFoundError) Unwrap() error { return nil }

// ValidationError means the caller supplied a missing or malformed
// parameter.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string { return e.Message }

// Unwrap returns the parse failure, if any.
func (e *ValidationError) Unwrap() error { return e.Err }

// InternalError wraps an unexpected failure, including recovered panics.
type InternalError struct {
	Op  string
	Err error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.Op + ": internal error"
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying failure.
func (e *InternalError) Unwrap() error { return e.Err }
