// Marquee - Content-Based Movie and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrShapeMismatch is returned when matrix and entity table do not align.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrMissingColumn is returned when a configured column is absent.
	ErrMissingColumn = errors.New("missing column")

	// ErrUnsupportedMatrix is returned for matrix files in an unknown format.
	ErrUnsupportedMatrix = errors.New("unsupported matrix format")

	// ErrMalformedList is returned when a list cell cannot be parsed.
	ErrMalformedList = errors.New("malformed list literal")

	// ErrDuplicateDataset is returned when two datasets share a name.
	ErrDuplicateDataset = errors.New("duplicate dataset")
)

// LoadError reports a fatal problem with a precomputed artifact. It is only
// ever produced at load time; queries never see it.
type LoadError struct {
	Domain   string
	Artifact string // "entities", "matrix", "aux", "details", "popular"
	Path     string
	Err      error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load %s %s: %v", e.Domain, e.Artifact, e.Err)
	}
	return fmt.Sprintf("load %s %s (%s): %v", e.Domain, e.Artifact, e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error {
	return e.Err
}

func loadErr(domain, artifact, path string, err error) *LoadError {
	return &LoadError{Domain: domain, Artifact: artifact, Path: path, Err: err}
}
