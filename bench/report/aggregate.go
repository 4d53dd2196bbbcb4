/*
Copyright 2026 The LiveMedBench Authors
SPDX-License-Identifier: Apache-2.0
*/

package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ZhilingYan/LiveMedBench/bench"
)

// unknownMonth buckets cases whose post time is missing or unparseable. They
// count toward overall means but never get a monthly row.
const unknownMonth = "Unknown"

// CaseScore is one case's normalized score plus its month bucket.
type CaseScore struct {
	Score     float64
	YearMonth string
}

// YearMonth extracts a "YYYY-MM" bucket from a post timestamp. Both full
// timestamps and bare dates occur in the data.
func YearMonth(postTime string) string {
	s := strings.TrimSpace(postTime)
	if s == "" {
		return unknownMonth
	}
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01")
		}
	}
	return unknownMonth
}

// ScoreCases normalizes one model's evaluation records against the rubric.
// Records without a case id are dropped; records with an empty evaluations
// map score 0. A record whose case is no longer in the rubric also scores 0
// and buckets Unknown: it stays in the model's overall denominator so a
// stale rubric cannot quietly inflate the average.
func ScoreCases(records []bench.EvaluationRecord, rubric map[string]bench.RubricCase) map[string]CaseScore {
	scores := make(map[string]CaseScore, len(records))
	for _, rec := range records {
		key := bench.CaseKey(rec.CaseID)
		if key == "" {
			continue
		}
		rc, ok := rubric[key]
		if !ok {
			scores[key] = CaseScore{Score: 0, YearMonth: unknownMonth}
			continue
		}
		scores[key] = CaseScore{
			Score:     NormalizedScore(rec.Evaluations, rc.RubricItems),
			YearMonth: YearMonth(rc.PostTime),
		}
	}
	return scores
}

// Summary is the aggregated comparison across models.
type Summary struct {
	// Models in sorted order; column order everywhere below.
	Models []string
	// Months in ascending order, Unknown excluded.
	Months []string
	// Monthly maps month then model to the clipped mean score.
	Monthly map[string]map[string]float64
	// CaseCounts maps month to the case count of the first model in sorted
	// order. Counts can differ across models when runs were partial; the
	// first model is the documented reference.
	CaseCounts map[string]int
	// Overall maps model to its clipped mean over all cases, Unknown included.
	Overall map[string]float64
	// TotalCases is the sum of the monthly reference counts.
	TotalCases int
}

// Aggregate builds the cross-model summary from per-model case scores.
func Aggregate(scores map[string]map[string]CaseScore) *Summary {
	s := &Summary{
		Monthly:    map[string]map[string]float64{},
		CaseCounts: map[string]int{},
		Overall:    map[string]float64{},
	}

	for model := range scores {
		s.Models = append(s.Models, model)
	}
	sort.Strings(s.Models)
	if len(s.Models) == 0 {
		return s
	}

	monthSet := map[string]bool{}
	byMonth := map[string]map[string][]float64{}
	for model, cases := range scores {
		for _, cs := range cases {
			if cs.YearMonth != unknownMonth {
				monthSet[cs.YearMonth] = true
			}
			if byMonth[model] == nil {
				byMonth[model] = map[string][]float64{}
			}
			byMonth[model][cs.YearMonth] = append(byMonth[model][cs.YearMonth], cs.Score)
		}
	}

	for month := range monthSet {
		s.Months = append(s.Months, month)
	}
	sort.Strings(s.Months)

	reference := s.Models[0]
	for _, month := range s.Months {
		row := make(map[string]float64, len(s.Models))
		for _, model := range s.Models {
			row[model] = clip(mean(byMonth[model][month]))
		}
		s.Monthly[month] = row
		s.CaseCounts[month] = len(byMonth[reference][month])
		s.TotalCases += s.CaseCounts[month]
	}

	for _, model := range s.Models {
		var all []float64
		for _, cs := range scores[model] {
			all = append(all, cs.Score)
		}
		s.Overall[model] = clip(mean(all))
	}
	return s
}

// WriteTSV writes the summary in the tab-separated layout consumed by the
// plotting notebooks: one row per month ascending, then an Overall row.
func (s *Summary) WriteTSV(w io.Writer) error {
	header := append(append([]string{"Date"}, s.Models...), "# case")
	if _, err := fmt.Fprintln(w, strings.Join(header, "\t")); err != nil {
		return err
	}

	for _, month := range s.Months {
		cells := []string{month}
		for _, model := range s.Models {
			cells = append(cells, fmt.Sprintf("%.4f", s.Monthly[month][model]))
		}
		cells = append(cells, fmt.Sprintf("%d", s.CaseCounts[month]))
		if _, err := fmt.Fprintln(w, strings.Join(cells, "\t")); err != nil {
			return err
		}
	}

	cells := []string{"Overall"}
	for _, model := range s.Models {
		cells = append(cells, fmt.Sprintf("%.4f", s.Overall[model]))
	}
	cells = append(cells, fmt.Sprintf("%d", s.TotalCases))
	_, err := fmt.Fprintln(w, strings.Join(cells, "\t"))
	return err
}

// WriteTSVFile writes the TSV summary to path, creating parent directories
// as needed.
func (s *Summary) WriteTSVFile(path string) error {
	var buf strings.Builder
	if err := s.WriteTSV(&buf); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(buf.String()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// clip bounds a mean to [0, 1]. Negative rubric points can push a single
// case below zero; published means stay in the unit interval.
func clip(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
