/*
Copyright 2026 The LiveMedBench Authors
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"context"
	"errors"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/ZhilingYan/LiveMedBench/bench/retry"
)

type fakeJudge struct {
	calls   int
	verdict string
	err     error
}

func (f *fakeJudge) Grade(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.verdict, f.err
}

func testPolicy() retry.CallPolicy {
	return retry.CallPolicy{MaxRetries: 3, BackoffUnit: time.Millisecond}
}

func TestGradeCriterionMet(t *testing.T) {
	t.Parallel()

	fake := &fakeJudge{verdict: `[{"question": "Q", "met": true, "reasoning": "present"}]`}
	g := New(fake, testPolicy())

	score := g.GradeCriterion(context.Background(), "Does the model mention rest?", "Rest and hydrate.", "I have a cold.")
	if score != 1 {
		t.Fatalf("GradeCriterion() = %d, want 1", score)
	}
	if fake.calls != 1 {
		t.Fatalf("judge called %d times, want 1", fake.calls)
	}
}

func TestGradeCriterionNotMet(t *testing.T) {
	t.Parallel()

	fake := &fakeJudge{verdict: `[{"met": false}]`}
	g := New(fake, testPolicy())

	if score := g.GradeCriterion(context.Background(), "C", "Some answer.", "Q"); score != 0 {
		t.Fatalf("GradeCriterion() = %d, want 0", score)
	}
}

func TestGradeCriterionEmptyResponseSkipsJudge(t *testing.T) {
	t.Parallel()

	fake := &fakeJudge{verdict: `[{"met": true}]`}
	g := New(fake, testPolicy())

	if score := g.GradeCriterion(context.Background(), "C", "   ", "Q"); score != 0 {
		t.Fatalf("GradeCriterion() = %d, want 0", score)
	}
	if fake.calls != 0 {
		t.Fatalf("judge called %d times for empty response, want 0", fake.calls)
	}
}

func TestGradeCriterionExhaustedRetriesDefaultsToZero(t *testing.T) {
	t.Parallel()

	fake := &fakeJudge{err: errors.New("429 rate limit")}
	g := New(fake, testPolicy())

	if score := g.GradeCriterion(context.Background(), "C", "Some answer.", "Q"); score != 0 {
		t.Fatalf("GradeCriterion() = %d, want 0 after exhausted retries", score)
	}
	if fake.calls != 3 {
		t.Fatalf("judge called %d times, want 3", fake.calls)
	}
}

func TestTruncateKeepsRuneBoundaries(t *testing.T) {
	t.Parallel()

	got := truncate("标准未满足，因为回答缺少关键信息", 5)
	if got != "标准未满足" {
		t.Fatalf("truncate() = %q, want %q", got, "标准未满足")
	}
	if !utf8.ValidString(got) {
		t.Fatalf("truncate() produced invalid UTF-8: %q", got)
	}
	if got := truncate("short", 160); got != "short" {
		t.Fatalf("truncate() = %q, want input unchanged", got)
	}
}

func TestGradeCriterionUnparseableDefaultsToZero(t *testing.T) {
	t.Parallel()

	fake := &fakeJudge{verdict: "lorem ipsum"}
	g := New(fake, testPolicy())

	if score := g.GradeCriterion(context.Background(), "C", "Some answer.", "Q"); score != 0 {
		t.Fatalf("GradeCriterion() = %d, want 0 for unparseable verdict", score)
	}
	if fake.calls != 1 {
		t.Fatalf("judge called %d times, want 1 (parse failures are not retried)", fake.calls)
	}
}
