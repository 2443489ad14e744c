/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package reconcile makes a local directory hold a usable checkout of a
// remote repository.
//
// Check first asks a Keeper whether the existing checkout can stay. If it
// cannot, the directory is deleted, and then, if the remote address was
// resolved, the remote is cloned into it. Deletion always finishes before
// the clone starts. The context is checked before each of those steps.
//
// Check never returns an error. Failures of any kind, including cancellation
// and panics in collaborators, are logged and reported as a failed
// verdict.Value whose payload carries the remote address and an empty local
// path.
package reconcile
