/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package reconcile

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcomes of a Check.
const (
	// OutcomeKept means the existing checkout was reused.
	OutcomeKept = "kept"
	// OutcomeRecloned means the directory was deleted and cloned again.
	OutcomeRecloned = "recloned"
	// OutcomeRemoved means the directory was deleted but there was no remote
	// to clone from.
	OutcomeRemoved = "removed"
	// OutcomeFailed means an error stopped the check.
	OutcomeFailed = "failed"
)

var checksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "repokeeper_reconcile_total",
		Help: "Total number of reconcile checks by outcome",
	},
	[]string{"outcome"},
)
