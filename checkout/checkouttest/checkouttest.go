/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package checkouttest provides test doubles and helpers for code built on
// checkout and gitrepo.
package checkouttest

import (
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"chainguard.dev/repokeeper/checkout"
	"chainguard.dev/repokeeper/gitrepo"
	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// Repository is an in-memory gitrepo.Repository. Only the methods below are
// implemented; any other call panics on the nil embedded interface.
type Repository struct {
	gitrepo.Repository

	// Dir is returned by WorkingDirectory.
	Dir string
	// RemoteURL is returned by MainRemoteURL. An empty value reports no
	// remote.
	RemoteURL string

	mu     sync.Mutex
	closes int
}

// WorkingDirectory implements gitrepo.Repository.
func (r *Repository) WorkingDirectory() string { return r.Dir }

// MainRemoteURL implements gitrepo.Repository.
func (r *Repository) MainRemoteURL() (string, bool) {
	return r.RemoteURL, r.RemoteURL != ""
}

// Close implements gitrepo.Repository.
func (r *Repository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closes++
	return nil
}

// Closes is the number of times Close was called.
func (r *Repository) Closes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closes
}

// Opener serves Repos by path and records every Open call. Paths missing
// from Repos fail with a gitrepo NotFound error unless Err is set, in which
// case Err is returned for every path.
type Opener struct {
	Repos map[string]gitrepo.Repository
	Err   error

	mu    sync.Mutex
	calls []string
}

var _ gitrepo.Opener = (*Opener)(nil)

// Open implements gitrepo.Opener.
func (o *Opener) Open(path string) (gitrepo.Repository, error) {
	o.mu.Lock()
	o.calls = append(o.calls, path)
	o.mu.Unlock()

	if o.Err != nil {
		return nil, o.Err
	}
	if repo, ok := o.Repos[path]; ok {
		return repo, nil
	}
	return nil, &gitrepo.OpenError{Kind: gitrepo.NotFound, Path: path, Err: git.ErrRepositoryNotExists}
}

// Calls returns the paths passed to Open, in order.
func (o *Opener) Calls() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return slices.Clone(o.calls)
}

// NewProvider returns a provider backed by opener that is shut down when the
// test ends. The test fails if handles are still outstanding at that point.
func NewProvider(t testing.TB, opener gitrepo.Opener) *checkout.Provider {
	t.Helper()

	p := checkout.New(checkout.WithOpener(opener))
	t.Cleanup(func() {
		require.Equal(t, 0, p.Outstanding(), "checkouts left open at end of test")
		require.NoError(t, p.Close())
	})
	return p
}

// NewRepo initializes a repository with one commit under a temporary
// directory and returns its path. When remoteURL is non-empty it is
// registered as origin.
func NewRepo(t testing.TB, remoteURL string) string {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err, "initializing repository")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("test\n"), 0o644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("README.md")
	require.NoError(t, err)
	_, err = wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err, "creating initial commit")

	if remoteURL != "" {
		_, err := repo.CreateRemote(&gitconfig.RemoteConfig{Name: git.DefaultRemoteName, URLs: []string{remoteURL}})
		require.NoError(t, err, "adding origin")
	}
	return dir
}
