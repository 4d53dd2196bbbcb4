/*
Copyright 2026 The LiveMedBench Authors
SPDX-License-Identifier: Apache-2.0
*/

package grader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ZhilingYan/LiveMedBench/bench"
	"github.com/ZhilingYan/LiveMedBench/bench/judge"
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

func testRunner(fake *fakeJudge) *Runner {
	policy := retry.CallPolicy{MaxRetries: 3, BackoffUnit: time.Millisecond}
	return NewRunner(judge.New(fake, policy))
}

func rubricCase(id string, items ...bench.RubricItem) bench.RubricCase {
	return bench.RubricCase{
		CaseID:      bench.StringID(id),
		Narrative:   "Patient narrative.",
		CoreRequest: "What should I do?",
		RubricItems: items,
	}
}

func responses(pairs ...string) map[string]map[string]any {
	out := map[string]map[string]any{}
	for i := 0; i+1 < len(pairs); i += 2 {
		out[pairs[i]] = map[string]any{"model_response": pairs[i+1]}
	}
	return out
}

func loadRecords(t *testing.T, path string) []bench.EvaluationRecord {
	t.Helper()
	records, err := bench.LoadEvaluations(path)
	if err != nil {
		t.Fatalf("LoadEvaluations() = %v", err)
	}
	return records
}

func TestRunGradesWeightedScores(t *testing.T) {
	t.Parallel()

	fake := &fakeJudge{verdict: `[{"met": true}]`}
	out := filepath.Join(t.TempDir(), "eval.json")

	cfg := Config{
		Rubric: []bench.RubricCase{rubricCase("X",
			bench.RubricItem{Criterion: "mentions rest", Points: 10, Axe: "advice"},
			bench.RubricItem{Criterion: "suggests antibiotics", Points: -5, Axe: "safety"},
		)},
		Responses:      responses("X", "Rest up. Antibiotics will help."),
		ResponseFields: bench.ResponseFields("model_response"),
		OutputPath:     out,
	}
	if err := testRunner(fake).Run(context.Background(), cfg); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if fake.calls != 2 {
		t.Fatalf("judge called %d times, want 2", fake.calls)
	}

	records := loadRecords(t, out)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	evals := records[0].Evaluations
	if got := evals["rubric_1"].WeightedScore; got != 10 {
		t.Errorf("rubric_1 weighted score = %v, want 10", got)
	}
	if got := evals["rubric_2"].WeightedScore; got != -5 {
		t.Errorf("rubric_2 weighted score = %v, want -5", got)
	}
}

func TestRunSkipStatesEmitEmptyRecords(t *testing.T) {
	t.Parallel()

	fake := &fakeJudge{verdict: `[{"met": true}]`}
	out := filepath.Join(t.TempDir(), "eval.json")

	cfg := Config{
		Rubric: []bench.RubricCase{
			rubricCase("no-items"),
			rubricCase("no-result", bench.RubricItem{Criterion: "C", Points: 1}),
			rubricCase("empty-response", bench.RubricItem{Criterion: "C", Points: 1}),
		},
		Responses:      responses("empty-response", ""),
		ResponseFields: bench.ResponseFields("model_response"),
		OutputPath:     out,
	}
	if err := testRunner(fake).Run(context.Background(), cfg); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if fake.calls != 0 {
		t.Fatalf("judge called %d times, want 0", fake.calls)
	}

	records := loadRecords(t, out)
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3 (every case gets a record)", len(records))
	}
	for _, rec := range records {
		if len(rec.Evaluations) != 0 {
			t.Errorf("case %s should have an empty evaluations map", bench.CaseKey(rec.CaseID))
		}
	}
}

func TestRunResumeReusesRecordsVerbatim(t *testing.T) {
	t.Parallel()

	fake := &fakeJudge{verdict: `[{"met": true}]`}
	out := filepath.Join(t.TempDir(), "eval.json")
	rubric := []bench.RubricCase{rubricCase("X", bench.RubricItem{Criterion: "C", Points: 2})}
	cfg := Config{
		Rubric:         rubric,
		Responses:      responses("X", "An answer."),
		ResponseFields: bench.ResponseFields("model_response"),
		OutputPath:     out,
		Resume:         true,
	}

	if err := testRunner(fake).Run(context.Background(), cfg); err != nil {
		t.Fatalf("first Run() = %v", err)
	}
	first, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile() = %v", err)
	}

	fake.calls = 0
	if err := testRunner(fake).Run(context.Background(), cfg); err != nil {
		t.Fatalf("second Run() = %v", err)
	}
	if fake.calls != 0 {
		t.Fatalf("resume re-graded: judge called %d times, want 0", fake.calls)
	}

	second, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile() = %v", err)
	}
	if string(first) != string(second) {
		t.Fatalf("resumed output differs from original:\n%s\nvs\n%s", first, second)
	}
}

func TestRunResumedRecordsPrecedeNewOnes(t *testing.T) {
	t.Parallel()

	fake := &fakeJudge{verdict: `[{"met": true}]`}
	out := filepath.Join(t.TempDir(), "eval.json")
	item := bench.RubricItem{Criterion: "C", Points: 1}

	cfg := Config{
		Rubric:         []bench.RubricCase{rubricCase("B", item)},
		Responses:      responses("B", "answer b", "A", "answer a"),
		ResponseFields: bench.ResponseFields("model_response"),
		OutputPath:     out,
		Resume:         true,
	}
	if err := testRunner(fake).Run(context.Background(), cfg); err != nil {
		t.Fatalf("first Run() = %v", err)
	}

	cfg.Rubric = []bench.RubricCase{rubricCase("A", item), rubricCase("B", item)}
	if err := testRunner(fake).Run(context.Background(), cfg); err != nil {
		t.Fatalf("second Run() = %v", err)
	}

	records := loadRecords(t, out)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if got := bench.CaseKey(records[0].CaseID); got != "B" {
		t.Errorf("first record = %q, want resumed case B first", got)
	}
	if got := bench.CaseKey(records[1].CaseID); got != "A" {
		t.Errorf("second record = %q, want new case A after resumed ones", got)
	}
}

func TestGradeCaseKeysSkipEmptyCriteria(t *testing.T) {
	t.Parallel()

	fake := &fakeJudge{verdict: `[{"met": true}]`}
	rc := rubricCase("X",
		bench.RubricItem{Criterion: "first", Points: 1},
		bench.RubricItem{Criterion: "", Points: 1},
		bench.RubricItem{Criterion: "third", Points: 1},
	)

	evals := testRunner(fake).GradeCase(context.Background(), rc, "An answer.")
	if fake.calls != 2 {
		t.Fatalf("judge called %d times, want 2", fake.calls)
	}
	if _, ok := evals["rubric_1"]; !ok {
		t.Error("missing rubric_1")
	}
	if _, ok := evals["rubric_2"]; ok {
		t.Error("rubric_2 should be absent for the empty criterion")
	}
	if _, ok := evals["rubric_3"]; !ok {
		t.Error("missing rubric_3: positions must count skipped items")
	}
}

func TestRunMaxCasesCountsOnlyNewlyGraded(t *testing.T) {
	t.Parallel()

	fake := &fakeJudge{verdict: `[{"met": true}]`}
	out := filepath.Join(t.TempDir(), "eval.json")
	item := bench.RubricItem{Criterion: "C", Points: 1}

	cfg := Config{
		Rubric: []bench.RubricCase{
			rubricCase("skip-no-items"),
			rubricCase("A", item),
			rubricCase("B", item),
		},
		Responses:      responses("A", "a", "B", "b"),
		ResponseFields: bench.ResponseFields("model_response"),
		OutputPath:     out,
		MaxCases:       1,
	}
	if err := testRunner(fake).Run(context.Background(), cfg); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if fake.calls != 1 {
		t.Fatalf("judge called %d times, want 1 (skips must not count)", fake.calls)
	}

	records := loadRecords(t, out)
	// The skipped case still gets its empty record; B is cut off.
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
}

func TestRunJudgeFailureScoresZero(t *testing.T) {
	t.Parallel()

	fake := &fakeJudge{err: errors.New("503 server error")}
	out := filepath.Join(t.TempDir(), "eval.json")

	cfg := Config{
		Rubric:         []bench.RubricCase{rubricCase("X", bench.RubricItem{Criterion: "C", Points: 4})},
		Responses:      responses("X", "An answer."),
		ResponseFields: bench.ResponseFields("model_response"),
		OutputPath:     out,
	}
	if err := testRunner(fake).Run(context.Background(), cfg); err != nil {
		t.Fatalf("Run() = %v", err)
	}

	records := loadRecords(t, out)
	j := records[0].Evaluations["rubric_1"]
	if j.Score != 0 || j.WeightedScore != 0 {
		t.Fatalf("judgment after exhausted retries = %+v, want zero scores", j)
	}
}
