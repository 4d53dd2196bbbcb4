/*
Copyright 2026 The LiveMedBench Authors
SPDX-License-Identifier: Apache-2.0
*/

// runmodel generates candidate-model responses for a benchmark data file.
package main

import (
	"context"
	"flag"

	"github.com/chainguard-dev/clog"

	"github.com/ZhilingYan/LiveMedBench/bench"
	"github.com/ZhilingYan/LiveMedBench/bench/llm"
	"github.com/ZhilingYan/LiveMedBench/bench/runner"
	"github.com/ZhilingYan/LiveMedBench/internal/config"
)

func main() {
	dataFile := flag.String("data-file", "", "JSON list of benchmark cases (required)")
	outputFile := flag.String("output-file", "", "where to write model responses (required)")
	model := flag.String("model", "", "candidate model name (overrides configuration)")
	maxCases := flag.Int("max-cases", 0, "stop after this many newly generated cases (0 = all)")
	resume := flag.Bool("resume", false, "skip cases already present in the output file")
	flag.Parse()

	ctx := context.Background()
	log := clog.FromContext(ctx)

	if *dataFile == "" || *outputFile == "" {
		clog.FatalContextf(ctx, "--data-file and --output-file are required")
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		clog.FatalContextf(ctx, "Failed to load configuration: %v", err)
	}
	if *model != "" {
		cfg.GenerationModel = *model
	}
	if err := cfg.ValidateCredentials(); err != nil {
		clog.FatalContextf(ctx, "Invalid credentials: %v", err)
	}

	cases, err := bench.LoadCases(*dataFile)
	if err != nil {
		clog.FatalContextf(ctx, "Failed to load cases: %v", err)
	}

	log.With("model", cfg.GenerationModel).
		With("provider", cfg.Provider).
		With("cases", len(cases)).
		With("output", *outputFile).
		With("resume", *resume).
		Info("Starting generation run")

	client, err := llm.New(ctx, cfg.GenerationOptions())
	if err != nil {
		clog.FatalContextf(ctx, "Failed to create model client: %v", err)
	}

	r := runner.New(client, cfg.GenerationPolicy())
	if err := r.Run(ctx, runner.Config{
		Cases:      cases,
		OutputPath: *outputFile,
		Resume:     *resume,
		MaxCases:   *maxCases,
	}); err != nil {
		clog.FatalContextf(ctx, "Generation run failed: %v", err)
	}
}
