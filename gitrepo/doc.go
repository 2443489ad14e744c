/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package gitrepo is the version-control backend for repokeeper, built on
// go-git. It opens local checkouts as Repository sessions, clones remotes
// into local directories, and initializes or validates repositories on disk.
//
// Opening reports failures as *OpenError values tagged with a Kind so that
// callers can tell a missing or invalid repository (NotFound) apart from any
// other failure (OpenFailed):
//
//	repo, err := gitrepo.NewOpener().Open(dir)
//	switch {
//	case gitrepo.IsNotFound(err):
//		// not a repository
//	case err != nil:
//		return err
//	}
//	defer repo.Close()
//
// Clone, fetch and pull authenticate with an optional oauth2.TokenSource,
// and behavior is tuned through Config, which can be loaded from the
// environment with LoadConfig.
package gitrepo
