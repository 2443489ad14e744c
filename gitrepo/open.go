/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package gitrepo

import (
	"errors"

	"github.com/go-git/go-git/v5"
)

// Opener opens repository sessions for local paths.
type Opener interface {
	Open(path string) (Repository, error)
}

// OpenerFunc adapts a function to an Opener.
type OpenerFunc func(path string) (Repository, error)

// Open implements Opener.
func (f OpenerFunc) Open(path string) (Repository, error) { return f(path) }

type opener struct {
	opts options
}

// NewOpener returns an Opener backed by go-git.
func NewOpener(opts ...Option) Opener {
	return &opener{opts: newOptions(opts)}
}

// Open opens the repository rooted at path. Parent directories are not
// searched, so a subdirectory of a checkout is reported as NotFound.
func (o *opener) Open(path string) (Repository, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		kind := OpenFailed
		if errors.Is(err, git.ErrRepositoryNotExists) {
			kind = NotFound
		}
		return nil, &OpenError{Kind: kind, Path: path, Err: err}
	}
	return &repository{repo: repo, path: path, opts: o.opts}, nil
}

// Open opens path with the default options.
func Open(path string) (Repository, error) {
	return NewOpener().Open(path)
}

// IsValid reports whether path holds a repository that can be opened.
func IsValid(path string) bool {
	if path == "" {
		return false
	}
	_, err := git.PlainOpen(path)
	return err == nil
}

// Init creates a repository at path unless one is already there. It reports
// whether a repository was created.
func Init(path string) (bool, error) {
	if IsValid(path) {
		return false, nil
	}
	if _, err := git.PlainInit(path, false); err != nil {
		return false, &OpenError{Kind: OpenFailed, Path: path, Err: err}
	}
	return true, nil
}
