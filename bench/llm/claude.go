/*
Copyright 2026 The LiveMedBench Authors
SPDX-License-Identifier: Apache-2.0
*/

package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/ZhilingYan/LiveMedBench/bench/metrics"
)

// claudeClient implements Client against the Anthropic messages API.
type claudeClient struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	metrics   *metrics.Pipeline
}

func newClaude(opts Options) (Client, error) {
	if opts.AnthropicAPIKey == "" {
		return nil, errors.New("ANTHROPIC_API_KEY is not set")
	}
	return &claudeClient{
		client:    anthropic.NewClient(option.WithAPIKey(opts.AnthropicAPIKey)),
		model:     opts.Model,
		maxTokens: opts.MaxCompletionTokens,
		metrics:   metrics.NewPipeline("livemedbench.bench"),
	}, nil
}

// Generate implements Generator.
func (c *claudeClient) Generate(ctx context.Context, prompt string) (string, string, error) {
	return c.complete(ctx, "generate", prompt, c.maxTokens)
}

// Grade implements Judge.
func (c *claudeClient) Grade(ctx context.Context, prompt string) (string, error) {
	text, _, err := c.complete(ctx, "grade", prompt, judgeMaxTokens)
	return text, err
}

func (c *claudeClient) complete(ctx context.Context, operation, prompt string, maxTokens int64) (text, finishReason string, err error) {
	start := time.Now()
	defer func() {
		c.metrics.RecordCall(ctx, "claude", operation, time.Since(start), err)
	}()

	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   maxTokens,
		Temperature: anthropic.Float(0),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", "", fmt.Errorf("anthropic message: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	finishReason = string(msg.StopReason)
	if finishReason == "" {
		finishReason = "unknown"
	}
	return strings.TrimSpace(sb.String()), finishReason, nil
}
