/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package gitrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/chainguard-dev/clog"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Cloner clones remotes into local directories.
type Cloner struct {
	opts options
}

// NewCloner constructs a Cloner. It fails if the configuration is invalid.
func NewCloner(opts ...Option) (*Cloner, error) {
	o := newOptions(opts)
	if err := o.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid git config: %w", err)
	}
	return &Cloner{opts: o}, nil
}

// Clone clones remote into dir and returns the root of the resulting working
// tree, which callers should use instead of dir.
func (c *Cloner) Clone(ctx context.Context, remote, dir string) (string, error) {
	if remote == "" {
		return "", errors.New("remote cannot be empty")
	}
	if dir == "" {
		return "", errors.New("destination cannot be empty")
	}

	auth, err := c.opts.auth()
	if err != nil {
		return "", err
	}

	opts := &git.CloneOptions{
		URL:          remote,
		Auth:         auth,
		Depth:        c.opts.cfg.CloneDepth,
		SingleBranch: c.opts.cfg.SingleBranch,
	}
	if c.opts.cfg.CloneBranch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(c.opts.cfg.CloneBranch)
	}

	clog.FromContext(ctx).Infof("Cloning repository %s into %s", remote, dir)
	repo, err := git.PlainCloneContext(ctx, dir, false, opts)
	if err != nil {
		return "", fmt.Errorf("cloning repository %s: %w", remote, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}
	root := wt.Filesystem.Root()

	if ref, err := repo.Head(); err == nil {
		clog.FromContext(ctx).With("commit", ref.Hash().String()[:8]).Infof("Repository cloned into %s", root)
	} else {
		clog.FromContext(ctx).Infof("Repository cloned into %s", root)
	}
	return root, nil
}
