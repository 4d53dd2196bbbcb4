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

	"google.golang.org/genai"

	"github.com/ZhilingYan/LiveMedBench/bench/metrics"
)

// googleClient implements Client against Gemini via Vertex AI.
type googleClient struct {
	client    *genai.Client
	model     string
	maxTokens int64
	metrics   *metrics.Pipeline
}

func newGoogle(ctx context.Context, opts Options) (Client, error) {
	if opts.GoogleProject == "" {
		return nil, errors.New("GOOGLE_PROJECT_ID is not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend:  genai.BackendVertexAI,
		Project:  opts.GoogleProject,
		Location: opts.GoogleRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &googleClient{
		client:    client,
		model:     opts.Model,
		maxTokens: opts.MaxCompletionTokens,
		metrics:   metrics.NewPipeline("livemedbench.bench"),
	}, nil
}

// Generate implements Generator.
func (c *googleClient) Generate(ctx context.Context, prompt string) (string, string, error) {
	return c.complete(ctx, "generate", prompt, int32(c.maxTokens))
}

// Grade implements Judge.
func (c *googleClient) Grade(ctx context.Context, prompt string) (string, error) {
	text, _, err := c.complete(ctx, "grade", prompt, judgeMaxTokens)
	return text, err
}

func (c *googleClient) complete(ctx context.Context, operation, prompt string, maxTokens int32) (text, finishReason string, err error) {
	start := time.Now()
	defer func() {
		c.metrics.RecordCall(ctx, "google", operation, time.Since(start), err)
	}()

	content := &genai.Content{
		Role: "user",
		Parts: []*genai.Part{
			{Text: prompt},
		},
	}
	resp, err := c.client.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{content},
		&genai.GenerateContentConfig{
			Temperature:     ptr(float32(0)),
			MaxOutputTokens: maxTokens,
		})
	if err != nil {
		return "", "", fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", "", errors.New("no candidates returned")
	}

	candidate := resp.Candidates[0]
	finishReason = strings.ToLower(string(candidate.FinishReason))
	if finishReason == "" {
		finishReason = "unknown"
	}
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", finishReason, errors.New("no parts in response")
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String(), finishReason, nil
}

func ptr[T any](v T) *T {
	return &v
}
