/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Repository is an open session on a local checkout.
type Repository interface {
	// WorkingDirectory is the root of the checkout's working tree.
	WorkingDirectory() string
	// MainRemoteURL is the fetch URL of the primary remote, if any.
	MainRemoteURL() (string, bool)

	CurrentSHA() (string, error)
	CurrentBranch() (Branch, error)
	// MainBranch is the branch HEAD points at; false when HEAD is detached
	// or unborn.
	MainBranch() (Branch, bool)
	Branches() ([]Branch, error)
	Tags() ([]Tag, error)
	TagSHA(name string) (string, bool)
	// Commit looks up a commit. Malformed or unknown SHAs report false.
	Commit(sha string) (*Commit, bool)

	// CreateBranch creates a branch at HEAD, or returns the existing one.
	CreateBranch(name string) (Branch, error)
	Checkout(branch Branch) error
	Fetch(ctx context.Context) error
	Pull(ctx context.Context) error
	ResetHard() error
	ResetHardTo(commit *Commit) error
	Stage(path string) error
	CommitChanges(message string) error
	HasUncommittedChanges() (bool, error)

	Close() error
}

// Branch is a local or remote-tracking branch.
type Branch struct {
	// Name is the short name, e.g. "main" or "origin/main".
	Name   string
	SHA    string
	Remote bool
}

// Tag is a tag and the SHA of the object it targets.
type Tag struct {
	Name string
	SHA  string
}

// Commit describes a single commit.
type Commit struct {
	SHA     string
	Message string
	When    time.Time
	Parents []string
}

type repository struct {
	repo *git.Repository
	path string
	opts options
}

var _ Repository = (*repository)(nil)

func (r *repository) WorkingDirectory() string {
	wt, err := r.repo.Worktree()
	if err != nil {
		return r.path
	}
	return wt.Filesystem.Root()
}

// MainRemoteURL prefers origin, then the first remote by name.
func (r *repository) MainRemoteURL() (string, bool) {
	remotes, err := r.repo.Remotes()
	if err != nil || len(remotes) == 0 {
		return "", false
	}
	sort.Slice(remotes, func(i, j int) bool {
		return remotes[i].Config().Name < remotes[j].Config().Name
	})
	primary := remotes[0]
	for _, rm := range remotes {
		if rm.Config().Name == git.DefaultRemoteName {
			primary = rm
			break
		}
	}
	urls := primary.Config().URLs
	if len(urls) == 0 {
		return "", false
	}
	return urls[0], true
}

func (r *repository) CurrentSHA() (string, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolving HEAD: %w", err)
	}
	return ref.Hash().String(), nil
}

func (r *repository) CurrentBranch() (Branch, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return Branch{}, fmt.Errorf("resolving HEAD: %w", err)
	}
	if !ref.Name().IsBranch() {
		return Branch{Name: plumbing.HEAD.String(), SHA: ref.Hash().String()}, nil
	}
	return Branch{Name: ref.Name().Short(), SHA: ref.Hash().String()}, nil
}

func (r *repository) MainBranch() (Branch, bool) {
	ref, err := r.repo.Head()
	if err != nil || !ref.Name().IsBranch() {
		return Branch{}, false
	}
	return Branch{Name: ref.Name().Short(), SHA: ref.Hash().String()}, true
}

func (r *repository) Branches() ([]Branch, error) {
	refs, err := r.repo.References()
	if err != nil {
		return nil, fmt.Errorf("listing references: %w", err)
	}
	defer refs.Close()

	var branches []Branch
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		switch {
		case ref.Name().IsBranch():
			branches = append(branches, Branch{Name: ref.Name().Short(), SHA: ref.Hash().String()})
		case ref.Name().IsRemote():
			branches = append(branches, Branch{Name: ref.Name().Short(), SHA: ref.Hash().String(), Remote: true})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating references: %w", err)
	}
	return branches, nil
}

func (r *repository) Tags() ([]Tag, error) {
	iter, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer iter.Close()

	var tags []Tag
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		tags = append(tags, Tag{Name: ref.Name().Short(), SHA: r.tagTarget(ref)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}
	return tags, nil
}

func (r *repository) TagSHA(name string) (string, bool) {
	ref, err := r.repo.Tag(name)
	if err != nil {
		return "", false
	}
	sha := r.tagTarget(ref)
	return sha, sha != ""
}

// tagTarget peels annotated tags down to the object they point at.
func (r *repository) tagTarget(ref *plumbing.Reference) string {
	if tag, err := r.repo.TagObject(ref.Hash()); err == nil {
		return tag.Target.String()
	}
	return ref.Hash().String()
}

func (r *repository) Commit(sha string) (*Commit, bool) {
	if !plumbing.IsHash(sha) {
		return nil, false
	}
	c, err := r.repo.CommitObject(plumbing.NewHash(sha))
	if err != nil {
		return nil, false
	}
	parents := make([]string, 0, len(c.ParentHashes))
	for _, p := range c.ParentHashes {
		parents = append(parents, p.String())
	}
	return &Commit{
		SHA:     c.Hash.String(),
		Message: c.Message,
		When:    c.Author.When,
		Parents: parents,
	}, true
}

func (r *repository) CreateBranch(name string) (Branch, error) {
	if name == "" {
		return Branch{}, errors.New("branch name cannot be empty")
	}
	refName := plumbing.NewBranchReferenceName(name)
	if ref, err := r.repo.Reference(refName, true); err == nil {
		return Branch{Name: name, SHA: ref.Hash().String()}, nil
	}

	head, err := r.repo.Head()
	if err != nil {
		return Branch{}, fmt.Errorf("resolving HEAD: %w", err)
	}
	if err := r.repo.Storer.SetReference(plumbing.NewHashReference(refName, head.Hash())); err != nil {
		return Branch{}, fmt.Errorf("setting branch reference: %w", err)
	}
	return Branch{Name: name, SHA: head.Hash().String()}, nil
}

func (r *repository) Checkout(branch Branch) error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}
	opts := &git.CheckoutOptions{Branch: plumbing.NewBranchReferenceName(branch.Name)}
	if branch.Remote {
		opts = &git.CheckoutOptions{Hash: plumbing.NewHash(branch.SHA)}
	}
	if err := wt.Checkout(opts); err != nil {
		return fmt.Errorf("checking out %s: %w", branch.Name, err)
	}
	return nil
}

// Fetch fetches every configured remote with its own refspecs.
func (r *repository) Fetch(ctx context.Context) error {
	remotes, err := r.repo.Remotes()
	if err != nil {
		return fmt.Errorf("listing remotes: %w", err)
	}
	auth, err := r.opts.auth()
	if err != nil {
		return err
	}
	for _, rm := range remotes {
		err := rm.FetchContext(ctx, &git.FetchOptions{
			RemoteName: rm.Config().Name,
			RefSpecs:   rm.Config().Fetch,
			Auth:       auth,
		})
		if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
			return fmt.Errorf("fetching %s: %w", rm.Config().Name, err)
		}
	}
	return nil
}

func (r *repository) Pull(ctx context.Context) error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}
	auth, err := r.opts.auth()
	if err != nil {
		return err
	}
	err = wt.PullContext(ctx, &git.PullOptions{
		RemoteName: git.DefaultRemoteName,
		Auth:       auth,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("pulling: %w", err)
	}
	return nil
}

func (r *repository) ResetHard() error {
	return r.reset(plumbing.ZeroHash)
}

func (r *repository) ResetHardTo(commit *Commit) error {
	if commit == nil {
		return errors.New("commit cannot be nil")
	}
	return r.reset(plumbing.NewHash(commit.SHA))
}

func (r *repository) reset(hash plumbing.Hash) error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}
	if err := wt.Reset(&git.ResetOptions{Commit: hash, Mode: git.HardReset}); err != nil {
		return fmt.Errorf("resetting worktree: %w", err)
	}
	return nil
}

func (r *repository) Stage(path string) error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}
	if _, err := wt.Add(path); err != nil {
		return fmt.Errorf("staging %s: %w", path, err)
	}
	return nil
}

func (r *repository) CommitChanges(message string) error {
	if message == "" {
		return errors.New("commit message cannot be empty")
	}
	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}
	sig := &object.Signature{
		Name:  r.opts.cfg.CommitName,
		Email: r.opts.cfg.commitEmail(),
		When:  time.Now(),
	}
	if _, err := wt.Commit(message, &git.CommitOptions{Author: sig, Committer: sig}); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// HasUncommittedChanges reports untracked, staged, modified and deleted
// files. Ignored files do not count.
func (r *repository) HasUncommittedChanges() (bool, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("getting worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("getting worktree status: %w", err)
	}
	return !status.IsClean(), nil
}

func (r *repository) Close() error {
	if c, ok := r.repo.Storer.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
