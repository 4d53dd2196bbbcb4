/*
Copyright 2026 The LiveMedBench Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package report scores graded cases against their rubrics and aggregates
// per-model results into monthly and overall tables.
package report

import (
	"github.com/ZhilingYan/LiveMedBench/bench"
)

// MaxPossibleScore is the best total a response can earn on a rubric: the sum
// of positive points only. Negative items can only subtract, so a perfect
// response never triggers them.
func MaxPossibleScore(items []bench.RubricItem) float64 {
	var max float64
	for _, item := range items {
		if item.Points > 0 {
			max += item.Points
		}
	}
	return max
}

// CaseTotalScore sums the weighted scores of judgments whose criterion text
// exactly matches a current rubric item. Judgments left over from an older
// rubric revision are dropped rather than counted against a rubric they no
// longer belong to.
func CaseTotalScore(evaluations map[string]bench.CriterionJudgment, items []bench.RubricItem) float64 {
	current := make(map[string]bool, len(items))
	for _, item := range items {
		current[item.Criterion] = true
	}

	var total float64
	for _, j := range evaluations {
		if current[j.Criterion] {
			total += j.WeightedScore
		}
	}
	return total
}

// NormalizedScore is the case total divided by the maximum possible score,
// or 0 when the rubric has no positive points.
func NormalizedScore(evaluations map[string]bench.CriterionJudgment, items []bench.RubricItem) float64 {
	max := MaxPossibleScore(items)
	if max <= 0 {
		return 0
	}
	return CaseTotalScore(evaluations, items) / max
}
