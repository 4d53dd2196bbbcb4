/*
Copyright 2026 The LiveMedBench Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package judge issues one grading request per (case, criterion) pair and
// turns the judge model's unstructured reply into a binary score.
package judge

import (
	"context"
	"strings"

	"github.com/chainguard-dev/clog"

	"github.com/ZhilingYan/LiveMedBench/bench/llm"
	"github.com/ZhilingYan/LiveMedBench/bench/retry"
)

// Grader is the grading client: it wraps the external judge with the shared
// call policy and degrades every failure mode to a 0 score so a persistent
// outage on one criterion cannot stall the run.
type Grader struct {
	judge  llm.Judge
	policy retry.CallPolicy
}

// New creates a Grader around the given judge backend.
func New(j llm.Judge, policy retry.CallPolicy) *Grader {
	return &Grader{judge: j, policy: policy}
}

// Policy exposes the call policy so the case loop can pace consecutive
// judge calls with the same configuration.
func (g *Grader) Policy() retry.CallPolicy {
	return g.policy
}

// GradeCriterion judges one criterion against one model response and
// returns 0 or 1. An empty response short-circuits to 0 without calling the
// judge: there is nothing to grade.
func (g *Grader) GradeCriterion(ctx context.Context, criterion, modelResponse, userQuery string) int {
	log := clog.FromContext(ctx)

	if strings.TrimSpace(modelResponse) == "" {
		return 0
	}

	prompt, err := BuildGradingPrompt(criterion, modelResponse, userQuery)
	if err != nil {
		log.With("error", err).Error("Failed to build grading prompt, defaulting to 0")
		return 0
	}

	raw, err := retry.Do(ctx, g.policy, "judge_call", func() (string, error) {
		return g.judge.Grade(ctx, prompt)
	})
	if err != nil {
		log.With("error", err).
			With("transient", llm.IsTransient(err)).
			Warn("Judge call exhausted retries, defaulting to 0")
		return 0
	}

	score, ok := ParseVerdict(raw)
	if !ok {
		log.With("raw_output", truncate(raw, 160)).
			Warn("Could not parse judge output, defaulting to 0")
	}
	return score
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}

// truncate caps s at n runes. Judge output is frequently Chinese, so the cut
// must land on a rune boundary.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
