/*
Copyright 2026 The LiveMedBench Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package metrics provides OpenTelemetry instruments for the pipeline's
// external model calls. Token usage is not recorded: the generation and
// judge functions are opaque interfaces that only expose text.
package metrics

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Pipeline counts model and judge calls and records their durations, with
// provider and operation as dimensions. Uses graceful degradation: if an
// instrument fails to initialize it is replaced with a no-op rather than
// failing the run.
type Pipeline struct {
	meter    metric.Meter
	calls    metric.Int64Counter
	duration metric.Float64Histogram
}

// NewPipeline creates a Pipeline instrument set on the given meter name.
// The meter name should be shared across all clients (e.g.
// "livemedbench.bench"), with the provider serving as a dimension.
func NewPipeline(meterName string) *Pipeline {
	meter := otel.Meter(meterName, metric.WithInstrumentationVersion("1.0.0"))

	calls, err := meter.Int64Counter("llm.calls",
		metric.WithDescription("The number of external model calls"),
		metric.WithUnit("{calls}"))
	if err != nil {
		slog.Warn("Failed to create call counter, metrics will be disabled", "error", err, "meter", meterName)
		calls = noop.Int64Counter{}
	}

	duration, err := meter.Float64Histogram("llm.duration",
		metric.WithDescription("The duration of external model calls"),
		metric.WithUnit("s"))
	if err != nil {
		slog.Warn("Failed to create duration histogram, metrics will be disabled", "error", err, "meter", meterName)
		duration = noop.Float64Histogram{}
	}

	return &Pipeline{meter: meter, calls: calls, duration: duration}
}

// RecordCall records one completed call to an external model.
func (p *Pipeline) RecordCall(ctx context.Context, provider, operation string, elapsed time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	attrs := metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	)
	p.calls.Add(ctx, 1, attrs)
	p.duration.Record(ctx, elapsed.Seconds(), attrs)
}
