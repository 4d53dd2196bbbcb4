/*
Copyright 2026 The LiveMedBench Authors
SPDX-License-Identifier: Apache-2.0
*/

// evaluate grades model responses against a rubric with an LLM judge.
package main

import (
	"context"
	"flag"

	"github.com/chainguard-dev/clog"

	"github.com/ZhilingYan/LiveMedBench/bench"
	"github.com/ZhilingYan/LiveMedBench/bench/grader"
	"github.com/ZhilingYan/LiveMedBench/bench/judge"
	"github.com/ZhilingYan/LiveMedBench/bench/llm"
	"github.com/ZhilingYan/LiveMedBench/internal/config"
)

func main() {
	rubricFile := flag.String("rubric-file", "", "JSON list of cases with rubric_items (required)")
	resultFile := flag.String("model-result-file", "", "model responses to grade (required)")
	outputFile := flag.String("output-file", "", "where to write evaluation records (required)")
	responseField := flag.String("response-field", "model_response", "field holding the response text")
	maxCases := flag.Int("max-cases", 0, "stop after this many newly graded cases (0 = all)")
	resume := flag.Bool("resume", false, "reuse records already present in the output file")
	flag.Parse()

	ctx := context.Background()
	log := clog.FromContext(ctx)

	if *rubricFile == "" || *resultFile == "" || *outputFile == "" {
		clog.FatalContextf(ctx, "--rubric-file, --model-result-file, and --output-file are required")
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		clog.FatalContextf(ctx, "Failed to load configuration: %v", err)
	}
	if err := cfg.ValidateCredentials(); err != nil {
		clog.FatalContextf(ctx, "Invalid credentials: %v", err)
	}

	rubric, err := bench.LoadRubric(*rubricFile)
	if err != nil {
		clog.FatalContextf(ctx, "Failed to load rubric: %v", err)
	}

	responses, err := bench.LoadResponses(*resultFile)
	if err != nil {
		// Grading proceeds so every rubric case still gets a record.
		log.With("error", err).Warn("Failed to load model results, all cases will be skipped")
		responses = map[string]map[string]any{}
	}

	log.With("judge_model", cfg.JudgeModel).
		With("provider", cfg.Provider).
		With("rubric_cases", len(rubric)).
		With("responses", len(responses)).
		With("output", *outputFile).
		With("resume", *resume).
		Info("Starting grading run")

	client, err := llm.New(ctx, cfg.JudgeOptions())
	if err != nil {
		clog.FatalContextf(ctx, "Failed to create judge client: %v", err)
	}

	r := grader.NewRunner(judge.New(client, cfg.JudgePolicy()))
	if err := r.Run(ctx, grader.Config{
		Rubric:         rubric,
		Responses:      responses,
		ResponseFields: bench.ResponseFields(*responseField),
		OutputPath:     *outputFile,
		Resume:         *resume,
		MaxCases:       *maxCases,
	}); err != nil {
		clog.FatalContextf(ctx, "Grading run failed: %v", err)
	}
}
