/*
Copyright 2026 The LiveMedBench Authors
SPDX-License-Identifier: Apache-2.0
*/

// metrics aggregates graded results across models into a monthly score table.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/chainguard-dev/clog"

	"github.com/ZhilingYan/LiveMedBench/bench"
	"github.com/ZhilingYan/LiveMedBench/bench/report"
)

func main() {
	rubricFile := flag.String("rubric-file", "", "JSON list of cases with rubric_items (required)")
	evalDir := flag.String("evaluation-dir", ".", "directory holding evaluation_results_<model>.json files")
	outputFile := flag.String("output-file", "metric_results.txt", "where to write the TSV summary")
	flag.Parse()

	ctx := context.Background()
	log := clog.FromContext(ctx)

	if *rubricFile == "" {
		clog.FatalContextf(ctx, "--rubric-file is required")
	}

	rubricCases, err := bench.LoadRubric(*rubricFile)
	if err != nil {
		clog.FatalContextf(ctx, "Failed to load rubric: %v", err)
	}
	rubric := bench.RubricIndex(rubricCases)

	files, err := report.DiscoverEvaluations(*evalDir)
	if err != nil {
		clog.FatalContextf(ctx, "Failed to scan evaluation dir: %v", err)
	}
	if len(files) == 0 {
		clog.FatalContextf(ctx, "No evaluation files found in %s", *evalDir)
	}

	scores := make(map[string]map[string]report.CaseScore, len(files))
	for _, f := range files {
		records, err := bench.LoadEvaluations(f.Path)
		if err != nil {
			log.With("model", f.Model).With("error", err).Warn("Skipping unreadable evaluation file")
			continue
		}
		scores[f.Model] = report.ScoreCases(records, rubric)
		log.With("model", f.Model).With("cases", len(scores[f.Model])).Info("Scored model")
	}
	if len(scores) == 0 {
		clog.FatalContextf(ctx, "No evaluation files could be read")
	}

	summary := report.Aggregate(scores)

	if err := summary.WriteTSVFile(*outputFile); err != nil {
		clog.FatalContextf(ctx, "Failed to write summary: %v", err)
	}

	report.RenderTable(os.Stdout, summary)

	log.With("models", len(summary.Models)).
		With("months", len(summary.Months)).
		With("total_cases", summary.TotalCases).
		With("output", *outputFile).
		Info("Wrote metric summary")
}
