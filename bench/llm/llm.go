/*
Copyright 2026 The LiveMedBench Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package llm wraps the provider SDKs behind the two opaque call shapes the
// pipeline depends on: free-text generation and raw judge verdicts. Retry
// and pacing live with the callers; clients here make exactly one call.
package llm

import (
	"context"
	"fmt"
)

// judgeMaxTokens caps judge completions: the verdict is a single small JSON
// object, and a tight cap keeps malformed rambling short.
const judgeMaxTokens = 64

// Generator produces one free-text completion for a prompt, returning the
// text and the provider's finish reason (e.g. "stop", "length").
type Generator interface {
	Generate(ctx context.Context, prompt string) (text, finishReason string, err error)
}

// Judge returns the raw verdict text for a grading prompt. No structural
// guarantee is made about the text; parsing it is the caller's problem.
type Judge interface {
	Grade(ctx context.Context, prompt string) (string, error)
}

// Client is the full provider surface: one backend serves both stages.
type Client interface {
	Generator
	Judge
}

// Options selects and configures a provider backend.
type Options struct {
	// Provider is one of "openai", "google", "claude".
	Provider string
	// Model is the provider model name.
	Model string
	// MaxCompletionTokens caps generation-stage completions.
	MaxCompletionTokens int64

	OpenAIAPIKey    string
	AnthropicAPIKey string
	GoogleProject   string
	GoogleRegion    string
}

// New constructs the client for the selected provider.
func New(ctx context.Context, opts Options) (Client, error) {
	switch opts.Provider {
	case "openai", "":
		return newOpenAI(opts)
	case "google":
		return newGoogle(ctx, opts)
	case "claude":
		return newClaude(opts)
	default:
		return nil, fmt.Errorf("unsupported provider: %q", opts.Provider)
	}
}
