/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package checkout

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "chainguard.dev/repokeeper/checkout"

// metrics degrades to no-op instruments if they cannot be created.
type metrics struct {
	outstanding metric.Int64UpDownCounter
	acquires    metric.Int64Counter
}

func newMetrics(meter metric.Meter) *metrics {
	if meter == nil {
		meter = otel.Meter(meterName, metric.WithInstrumentationVersion("1.0.0"))
	}

	outstanding, err := meter.Int64UpDownCounter("repokeeper.checkout.outstanding",
		metric.WithDescription("The number of checkouts acquired and not yet closed"),
		metric.WithUnit("{checkouts}"))
	if err != nil {
		slog.Warn("Failed to create outstanding checkouts counter, metrics will be disabled", "error", err, "meter", meterName)
		outstanding = noop.Int64UpDownCounter{}
	}

	acquires, err := meter.Int64Counter("repokeeper.checkout.acquired",
		metric.WithDescription("The number of checkouts handed out"),
		metric.WithUnit("{checkouts}"))
	if err != nil {
		slog.Warn("Failed to create acquired checkouts counter, metrics will be disabled", "error", err, "meter", meterName)
		acquires = noop.Int64Counter{}
	}

	return &metrics{outstanding: outstanding, acquires: acquires}
}

func (m *metrics) acquired(ctx context.Context) {
	m.acquires.Add(ctx, 1)
	m.outstanding.Add(ctx, 1)
}

func (m *metrics) released(ctx context.Context) {
	m.outstanding.Add(ctx, -1)
}
