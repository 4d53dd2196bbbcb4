/*
Copyright 2026 The LiveMedBench Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package grader drives the grading stage: it walks the rubric case by
// case, grades each criterion through the judge client, and checkpoints
// results so an interrupted run can resume without re-grading.
package grader

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/chainguard-dev/clog"

	"github.com/ZhilingYan/LiveMedBench/bench"
	"github.com/ZhilingYan/LiveMedBench/bench/judge"
	"github.com/ZhilingYan/LiveMedBench/bench/retry"
)

// defaultCheckpointEvery is how many newly graded cases pass between
// checkpoint persists.
const defaultCheckpointEvery = 5

// Config describes one grading run.
type Config struct {
	// Rubric is the ordered case list; its order defines processing order.
	Rubric []bench.RubricCase
	// Responses indexes the graded model's output by case id.
	Responses map[string]map[string]any
	// ResponseFields is the ordered response-text lookup, first non-empty wins.
	ResponseFields []string
	// OutputPath receives the evaluation records, rewritten wholesale at
	// every checkpoint.
	OutputPath string
	// Resume reuses records already present in OutputPath instead of
	// re-grading their cases.
	Resume bool
	// MaxCases stops the run after this many newly graded cases (0 = all).
	MaxCases int
	// CheckpointEvery overrides the checkpoint interval when positive.
	CheckpointEvery int
}

// Runner is the grading-run controller.
type Runner struct {
	grader *judge.Grader
}

// NewRunner creates a Runner around the given grading client.
func NewRunner(g *judge.Grader) *Runner {
	return &Runner{grader: g}
}

// GradeCase grades every non-empty criterion of one case in rubric order.
// Keys are rubric_<position> with positions counted over all items, skipped
// ones included, so keys stay stable across reruns of the same rubric. The
// returned map is complete or the process died trying: an interrupted case
// leaves no record and is re-graded from scratch on resume.
func (r *Runner) GradeCase(ctx context.Context, rc bench.RubricCase, responseText string) map[string]bench.CriterionJudgment {
	userQuery := rc.UserQuery()
	evaluations := make(map[string]bench.CriterionJudgment, len(rc.RubricItems))

	for i, item := range rc.RubricItems {
		if item.Criterion == "" {
			continue
		}
		score := r.grader.GradeCriterion(ctx, item.Criterion, responseText, userQuery)
		evaluations[fmt.Sprintf("rubric_%d", i+1)] = bench.CriterionJudgment{
			Criterion:     item.Criterion,
			Points:        item.Points,
			Axe:           item.Axe,
			Score:         score,
			WeightedScore: item.Points * float64(score),
		}
		retry.Pause(ctx, r.grader.Policy())
	}
	return evaluations
}

// Run executes the grading run. Every case ends in exactly one of: an empty
// record (skip states), a full record (graded), or a reused prior record
// (resume).
func (r *Runner) Run(ctx context.Context, cfg Config) error {
	log := clog.FromContext(ctx)

	checkpointEvery := cfg.CheckpointEvery
	if checkpointEvery <= 0 {
		checkpointEvery = defaultCheckpointEvery
	}

	var resumed []json.RawMessage
	resumedKeys := map[string]bool{}
	if cfg.Resume {
		if _, err := os.Stat(cfg.OutputPath); err == nil {
			records, index, err := bench.LoadExisting(cfg.OutputPath)
			if err != nil {
				log.With("error", err).Warn("Failed to load existing evaluations, starting fresh")
			} else {
				resumed = records
				for key := range index {
					resumedKeys[key] = true
				}
				log.With("count", len(resumed)).Info("Resume: loaded existing evaluations")
			}
		}
	}

	var fresh []bench.EvaluationRecord
	total := len(cfg.Rubric)
	graded := 0

	for idx, rc := range cfg.Rubric {
		if cfg.MaxCases > 0 && graded >= cfg.MaxCases {
			log.With("max_cases", cfg.MaxCases).Info("Reached max cases, stopping early")
			break
		}

		key := bench.CaseKey(rc.CaseID)
		if key == "" {
			continue
		}
		progress := log.With("case_id", key).With("progress", fmt.Sprintf("%d/%d", idx+1, total))

		if len(rc.RubricItems) == 0 {
			progress.Warn("Skip case: no rubric items")
			if !resumedKeys[key] {
				fresh = append(fresh, bench.EvaluationRecord{
					CaseID:      rc.CaseID,
					Evaluations: map[string]bench.CriterionJudgment{},
				})
			}
			continue
		}

		if resumedKeys[key] {
			progress.Info("Skip already evaluated case")
			continue
		}

		item, ok := cfg.Responses[key]
		if !ok {
			progress.Warn("Skip case: model result missing")
			fresh = append(fresh, bench.EvaluationRecord{
				CaseID:      rc.CaseID,
				Evaluations: map[string]bench.CriterionJudgment{},
			})
			continue
		}

		responseText := bench.ResponseText(item, cfg.ResponseFields)
		if responseText == "" {
			progress.Warn("Skip case: model response empty")
			fresh = append(fresh, bench.EvaluationRecord{
				CaseID:      rc.CaseID,
				Evaluations: map[string]bench.CriterionJudgment{},
			})
			continue
		}

		graded++
		progress.With("rubric_items", len(rc.RubricItems)).
			With("new_processed", graded).
			Info("Grading case")

		fresh = append(fresh, bench.EvaluationRecord{
			CaseID:      rc.CaseID,
			Evaluations: r.GradeCase(ctx, rc, responseText),
		})

		if graded%checkpointEvery == 0 {
			if err := persist(cfg.OutputPath, resumed, fresh); err != nil {
				return err
			}
			log.With("progress", fmt.Sprintf("%d/%d", len(resumed)+len(fresh), total)).
				Info("Saved intermediate results")
		}
	}

	if err := persist(cfg.OutputPath, resumed, fresh); err != nil {
		return err
	}
	log.With("total", len(resumed)+len(fresh)).
		With("output", cfg.OutputPath).
		Info("Grading run complete")
	return nil
}

// persist rewrites the output file: resumed records verbatim and in their
// original order, then newly produced records.
func persist(path string, resumed []json.RawMessage, fresh []bench.EvaluationRecord) error {
	out := make([]json.RawMessage, 0, len(resumed)+len(fresh))
	out = append(out, resumed...)
	for _, rec := range fresh {
		raw, err := bench.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode evaluation record %s: %w", bench.CaseKey(rec.CaseID), err)
		}
		out = append(out, raw)
	}
	return bench.SaveJSON(path, out)
}
