/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package keep decides whether an existing local checkout can be reused for
// a remote address or has to be thrown away.
package keep

import (
	"context"
	"fmt"

	"chainguard.dev/repokeeper/checkout"
	"chainguard.dev/repokeeper/gitrepo"
	"chainguard.dev/repokeeper/verdict"
)

// Reasons reported by ShouldKeep.
const (
	ReasonNoLocal      = "No local repository exists"
	ReasonNoRemote     = "No remote repository"
	ReasonCorrupted    = "Repository corrupted"
	ReasonMatched      = "Remote repository target matched local folder's repo"
	ReasonDifferentURL = "Remote address targeted a different repository"
)

// Exister checks whether a directory exists. *workdir.FS implements it.
type Exister interface {
	Exists(path string) bool
}

// CheckoutProvider hands out checkouts. *checkout.Provider implements it.
type CheckoutProvider interface {
	Get(ctx context.Context, path string) (*checkout.Checkout, error)
}

// Desirability lets callers veto keeping a checkout that otherwise matches.
// A failed Verdict is returned from ShouldKeep unchanged. A nil Desirability
// approves every repository.
type Desirability func(ctx context.Context, repo gitrepo.Repository) verdict.Verdict

// Evaluator makes keep decisions.
type Evaluator struct {
	fs        Exister
	checkouts CheckoutProvider
}

// New returns an Evaluator that checks existence with fs and opens
// repositories through checkouts.
func New(fs Exister, checkouts CheckoutProvider) *Evaluator {
	return &Evaluator{fs: fs, checkouts: checkouts}
}

// ShouldKeep reports whether the checkout at localDir should be kept for
// remote. Expected outcomes, including a directory that is not a valid
// repository, come back as a Verdict. Anything else, such as a shut down
// provider or a repository that fails to open for another reason, is
// returned as an error.
func (e *Evaluator) ShouldKeep(ctx context.Context, localDir string, remote verdict.Value[string], isDesirable Desirability) (verdict.Verdict, error) {
	if !e.fs.Exists(localDir) {
		return verdict.Fail(ReasonNoLocal), nil
	}
	if remote.Failed() {
		return verdict.Fail(ReasonNoRemote), nil
	}

	co, err := e.checkouts.Get(ctx, localDir)
	if err != nil {
		err = fmt.Errorf("checking out %s: %w", localDir, err)
		return verdict.FailErr(err), err
	}
	defer co.Close()

	repo, err := co.Repository()
	if gitrepo.IsNotFound(err) {
		return verdict.Fail(ReasonCorrupted), nil
	} else if err != nil {
		err = fmt.Errorf("opening %s: %w", localDir, err)
		return verdict.FailErr(err), err
	}

	if isDesirable != nil {
		if v := isDesirable(ctx, repo); v.Failed() {
			return v, nil
		}
	}

	if url, ok := repo.MainRemoteURL(); ok && url == remote.Value {
		return verdict.Succeed(ReasonMatched), nil
	}
	return verdict.Fail(ReasonDifferentURL), nil
}
