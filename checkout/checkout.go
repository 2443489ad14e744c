/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package checkout

import (
	"errors"
	"sync"
	"sync/atomic"

	"chainguard.dev/repokeeper/gitrepo"
)

// ErrClosed is returned when a closed handle is used.
var ErrClosed = errors.New("checkout is closed")

// Checkout is an exclusively owned handle on a local repository. It is not
// safe for concurrent use.
type Checkout struct {
	path string
	repo func() (gitrepo.Repository, error)

	opened atomic.Bool
	closed atomic.Bool

	closeOnce sync.Once
	closeErr  error
	release   func()
}

func newCheckout(path string, opener gitrepo.Opener, release func()) *Checkout {
	c := &Checkout{path: path, release: release}
	c.repo = sync.OnceValues(func() (gitrepo.Repository, error) {
		repo, err := opener.Open(path)
		if err == nil {
			c.opened.Store(true)
		}
		return repo, err
	})
	return c
}

// Path is the directory the handle was acquired for.
func (c *Checkout) Path() string {
	return c.path
}

// Repository opens the session on first use and returns the same session
// (or error) afterwards. A path that is not a valid repository yields an
// error matched by gitrepo.IsNotFound.
func (c *Checkout) Repository() (gitrepo.Repository, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	return c.repo()
}

// Close releases the handle back to its provider, closing the session if it
// was opened. Only the first call has any effect.
func (c *Checkout) Close() error {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		defer c.release()
		if c.opened.Load() {
			if repo, err := c.repo(); err == nil && repo != nil {
				c.closeErr = repo.Close()
			}
		}
	})
	return c.closeErr
}
