/*
Copyright 2026 The LiveMedBench Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package runner drives the generation stage: it sends each case to the
// candidate model and records the answer, persisting after every case so a
// crashed run loses at most the call in flight.
package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/chainguard-dev/clog"

	"github.com/ZhilingYan/LiveMedBench/bench"
	"github.com/ZhilingYan/LiveMedBench/bench/llm"
	"github.com/ZhilingYan/LiveMedBench/bench/retry"
)

// Config describes one generation run.
type Config struct {
	// Cases is the ordered input; processing order follows it.
	Cases []bench.Case
	// OutputPath receives the response records, rewritten after every case.
	OutputPath string
	// Resume keeps records already present in OutputPath and skips their cases.
	Resume bool
	// MaxCases stops the run after this many newly generated answers (0 = all).
	MaxCases int
}

// Runner is the generation-run controller.
type Runner struct {
	gen    llm.Generator
	policy retry.CallPolicy
}

// New creates a Runner around the given candidate-model client.
func New(gen llm.Generator, policy retry.CallPolicy) *Runner {
	return &Runner{gen: gen, policy: policy}
}

// Run executes the generation run. Failed cases are never dropped: a case
// whose call exhausts its retries gets a placeholder record with an "ERROR:"
// response and finish reason "error", so every input case has exactly one
// output record.
func (r *Runner) Run(ctx context.Context, cfg Config) error {
	log := clog.FromContext(ctx)

	var results []json.RawMessage
	processed := map[string]bool{}
	if cfg.Resume {
		if _, err := os.Stat(cfg.OutputPath); err == nil {
			records, index, err := bench.LoadExisting(cfg.OutputPath)
			if err != nil {
				log.With("error", err).Warn("Failed to load existing results, starting fresh")
			} else {
				results = records
				for key := range index {
					processed[key] = true
				}
				log.With("count", len(results)).Info("Resume: loaded existing results")
			}
		}
	}

	total := len(cfg.Cases)
	generated := 0

	for idx, c := range cfg.Cases {
		id := c.CaseID
		key := bench.CaseKey(id)
		if key == "" {
			// Sources without ids get positional ones so resume still works.
			key = fmt.Sprintf("case_%d", idx)
			id = bench.StringID(key)
		}

		progress := log.With("case_id", key).With("progress", fmt.Sprintf("%d/%d", idx+1, total))

		if processed[key] {
			progress.Info("Skip already processed case")
			continue
		}

		generated++
		progress.With("new_processed", generated).Info("Generating response")

		text, finishReason := r.generate(ctx, BuildPrompt(c.Narrative, c.CoreRequest))

		raw, err := bench.Marshal(bench.ModelResponse{
			CaseID:        id,
			PostTime:      c.PostTime,
			Narrative:     c.Narrative,
			CoreRequest:   c.CoreRequest,
			ModelResponse: text,
			FinishReason:  finishReason,
			DoctorAdvice:  c.DoctorAdvice,
		})
		if err != nil {
			return fmt.Errorf("encode response record %s: %w", key, err)
		}
		results = append(results, raw)
		processed[key] = true

		if err := bench.SaveJSON(cfg.OutputPath, results); err != nil {
			return err
		}

		if cfg.MaxCases > 0 && generated >= cfg.MaxCases {
			log.With("max_cases", cfg.MaxCases).Info("Reached max cases, stopping early")
			break
		}
		retry.Pause(ctx, r.policy)
	}

	if err := bench.SaveJSON(cfg.OutputPath, results); err != nil {
		return err
	}
	log.With("total", len(results)).
		With("output", cfg.OutputPath).
		Info("Generation run complete")
	return nil
}

type generation struct {
	text         string
	finishReason string
}

// generate calls the candidate model under the run's call policy. Exhausted
// retries degrade to an error placeholder instead of failing the run.
func (r *Runner) generate(ctx context.Context, prompt string) (text, finishReason string) {
	out, err := retry.Do(ctx, r.policy, "model_call", func() (generation, error) {
		text, finishReason, err := r.gen.Generate(ctx, prompt)
		if err != nil {
			return generation{}, err
		}
		return generation{text: text, finishReason: finishReason}, nil
	})
	if err != nil {
		clog.FromContext(ctx).With("error", err).
			With("transient", llm.IsTransient(err)).
			Warn("Model call exhausted retries, recording error placeholder")
		return "ERROR: " + err.Error(), "error"
	}
	return out.text, out.finishReason
}
