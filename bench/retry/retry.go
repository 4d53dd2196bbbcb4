/*
Copyright 2026 The LiveMedBench Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package retry implements the shared call policy for the pipeline's two
// external call sites: model generation and judge grading. Both stages wrap
// their provider call in Do and pace consecutive calls with Pause; they
// differ only in which function they wrap.
package retry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chainguard-dev/clog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// CallPolicy configures retry and pacing for one external call site.
type CallPolicy struct {
	// MaxRetries is the total number of attempts (not extra attempts).
	MaxRetries int
	// BackoffUnit scales the linear backoff: the wait after attempt n
	// (1-based) is n * BackoffUnit.
	BackoffUnit time.Duration
	// RateLimitDelay is the unconditional pause applied between calls.
	RateLimitDelay time.Duration
}

// Validate checks that the policy has usable values.
func (p CallPolicy) Validate() error {
	if p.MaxRetries < 1 {
		return errors.New("max retries must be at least 1")
	}
	if p.BackoffUnit < 0 {
		return errors.New("backoff unit cannot be negative")
	}
	if p.RateLimitDelay < 0 {
		return errors.New("rate limit delay cannot be negative")
	}
	return nil
}

// DefaultPolicy mirrors the benchmark's reference settings: three attempts
// with a two-second backoff unit.
func DefaultPolicy(rateLimit time.Duration) CallPolicy {
	return CallPolicy{
		MaxRetries:     3,
		BackoffUnit:    2 * time.Second,
		RateLimitDelay: rateLimit,
	}
}

var (
	retryCounterOnce sync.Once
	retryCounter     metric.Int64Counter
)

func retries() metric.Int64Counter {
	retryCounterOnce.Do(func() {
		meter := otel.Meter("livemedbench.bench", metric.WithInstrumentationVersion("1.0.0"))
		counter, err := meter.Int64Counter("llm.retries",
			metric.WithDescription("The number of retried external model calls"),
			metric.WithUnit("{calls}"))
		if err != nil {
			counter = noop.Int64Counter{}
		}
		retryCounter = counter
	})
	return retryCounter
}

// Do executes fn with bounded retries and linear backoff. Every error is
// treated as transient: the grading and generation stages must make forward
// progress across a large case set, so persistent failures are degraded to
// safe defaults by the caller rather than classified here.
func Do[T any](ctx context.Context, policy CallPolicy, operation string, fn func() (T, error)) (T, error) {
	var result T
	var lastErr error

	for attempt := 1; attempt <= policy.MaxRetries; attempt++ {
		result, lastErr = fn()
		if lastErr == nil {
			return result, nil
		}

		if attempt >= policy.MaxRetries {
			break
		}

		backoff := time.Duration(attempt) * policy.BackoffUnit
		retries().Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation)))
		clog.FromContext(ctx).With("operation", operation).
			With("attempt", attempt).
			With("max_retries", policy.MaxRetries).
			With("backoff", backoff).
			With("error", lastErr.Error()).
			Warn("Call failed, retrying")

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return result, fmt.Errorf("%s failed after %d attempts: %w", operation, policy.MaxRetries, lastErr)
}

// Pause applies the policy's rate-limit delay, returning early if the
// context is cancelled.
func Pause(ctx context.Context, policy CallPolicy) {
	if policy.RateLimitDelay <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(policy.RateLimitDelay):
	}
}
