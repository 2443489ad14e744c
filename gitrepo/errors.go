/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package gitrepo

import (
	"errors"
	"fmt"
)

// Kind classifies why a repository could not be opened.
type Kind int

const (
	// OpenFailed is any failure other than a missing repository.
	OpenFailed Kind = iota
	// NotFound means the path does not hold a valid repository.
	NotFound
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not found"
	default:
		return "open failed"
	}
}

// OpenError is returned when a repository session cannot be opened.
type OpenError struct {
	Kind Kind
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("opening repository %s: %s: %v", e.Path, e.Kind, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is an OpenError of kind NotFound.
func IsNotFound(err error) bool {
	var oe *OpenError
	return errors.As(err, &oe) && oe.Kind == NotFound
}
