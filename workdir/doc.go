/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package workdir provides the filesystem operations repokeeper performs on
// local checkout directories: checking that a directory exists and deleting
// a directory tree, optionally clearing read-only permissions first.
//
// FS works against any go-billy filesystem, so tests can run against memfs
// while production code uses the host filesystem through New.
package workdir
