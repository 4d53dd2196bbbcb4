/*
Copyright 2026 The LiveMedBench Authors
SPDX-License-Identifier: Apache-2.0
*/

package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/ZhilingYan/LiveMedBench/bench/metrics"
)

// openAIClient implements Client against the OpenAI chat completions API.
type openAIClient struct {
	client    openai.Client
	model     string
	maxTokens int64
	metrics   *metrics.Pipeline
}

func newOpenAI(opts Options) (Client, error) {
	if opts.OpenAIAPIKey == "" {
		return nil, errors.New("OPENAI_API_KEY is not set")
	}
	return &openAIClient{
		client:    openai.NewClient(option.WithAPIKey(opts.OpenAIAPIKey)),
		model:     opts.Model,
		maxTokens: opts.MaxCompletionTokens,
		metrics:   metrics.NewPipeline("livemedbench.bench"),
	}, nil
}

// Generate implements Generator.
func (c *openAIClient) Generate(ctx context.Context, prompt string) (string, string, error) {
	text, finishReason, err := c.complete(ctx, "generate", prompt, c.maxTokens)
	return text, finishReason, err
}

// Grade implements Judge.
func (c *openAIClient) Grade(ctx context.Context, prompt string) (string, error) {
	text, _, err := c.complete(ctx, "grade", prompt, judgeMaxTokens)
	return text, err
}

func (c *openAIClient) complete(ctx context.Context, operation, prompt string, maxTokens int64) (text, finishReason string, err error) {
	start := time.Now()
	defer func() {
		c.metrics.RecordCall(ctx, "openai", operation, time.Since(start), err)
	}()

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature:         openai.Float(0),
		MaxCompletionTokens: openai.Int(maxTokens),
	})
	if err != nil {
		return "", "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", "", errors.New("openai chat completion returned no choices")
	}

	choice := resp.Choices[0]
	finishReason = string(choice.FinishReason)
	if finishReason == "" {
		finishReason = "unknown"
	}
	return choice.Message.Content, finishReason, nil
}
