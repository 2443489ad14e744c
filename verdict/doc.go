/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package verdict holds the small result types shared by the checkout
// reconciliation packages. A Verdict is a pass/fail outcome with a
// human-readable reason, and a Value pairs a Verdict with a payload so that
// lookups can carry a value and a reason whether or not they succeeded.
//
// A failed Verdict always has a non-empty reason.
package verdict
