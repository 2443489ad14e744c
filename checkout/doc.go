/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package checkout hands out Checkout handles on local repository
// directories and tracks how many are outstanding so that shutdown can wait
// for in-flight work to finish.
//
// Each call to Provider.Get returns an independent handle, even for the same
// path. The repository session behind a handle is opened lazily on the first
// call to Checkout.Repository, so acquiring a handle costs nothing when the
// holder never needs the session. Every handle must be closed, and closing it
// is the only way the outstanding count goes down:
//
//	co, err := provider.Get(ctx, dir)
//	if err != nil {
//		return err
//	}
//	defer co.Close()
//
// Provider.Shutdown moves the provider from Active to ShutdownRequested and
// blocks until the last outstanding handle is closed, at which point the
// provider is ShutDown and Get fails with ErrShutdown. Handles may still be
// acquired while shutdown is pending.
package checkout
