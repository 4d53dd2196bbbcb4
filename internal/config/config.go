/*
Copyright 2026 The LiveMedBench Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package config layers benchmark configuration: code defaults, then an
// optional YAML file named by LIVEMEDBENCH_CONFIG, then environment
// variables. Later layers win; unset layers leave values alone.
package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"

	"github.com/ZhilingYan/LiveMedBench/bench/llm"
	"github.com/ZhilingYan/LiveMedBench/bench/retry"
)

// Config holds everything the three stage binaries need. Flags override
// individual fields after loading.
type Config struct {
	// Provider selects the model backend: openai, google, or claude.
	Provider string `yaml:"provider" env:"LIVEMEDBENCH_PROVIDER"`

	// GenerationModel is the candidate model under evaluation.
	GenerationModel string `yaml:"generationModel" env:"GENERATION_MODEL"`
	// JudgeModel grades responses against the rubric.
	JudgeModel string `yaml:"judgeModel" env:"JUDGE_MODEL"`
	// MaxCompletionTokens bounds generation-stage completions.
	MaxCompletionTokens int64 `yaml:"maxCompletionTokens" env:"MAX_COMPLETION_TOKENS"`

	OpenAIAPIKey    string `yaml:"openaiAPIKey" env:"OPENAI_API_KEY"`
	AnthropicAPIKey string `yaml:"anthropicAPIKey" env:"ANTHROPIC_API_KEY"`
	GoogleProject   string `yaml:"googleProject" env:"GOOGLE_PROJECT_ID"`
	GoogleRegion    string `yaml:"googleRegion" env:"GOOGLE_REGION"`

	// MaxRetries is the attempt budget per model call.
	MaxRetries int `yaml:"maxRetries" env:"MAX_RETRIES"`
	// BackoffUnit scales the linear backoff between attempts.
	BackoffUnit time.Duration `yaml:"backoffUnit" env:"BACKOFF_UNIT"`
	// JudgeRateLimit paces consecutive judge calls.
	JudgeRateLimit time.Duration `yaml:"judgeRateLimit" env:"JUDGE_RATE_LIMIT"`
	// GenerationRateLimit paces consecutive generation calls.
	GenerationRateLimit time.Duration `yaml:"generationRateLimit" env:"GENERATION_RATE_LIMIT"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Provider:            "openai",
		GenerationModel:     "gpt-4o-2024-08-06",
		JudgeModel:          "gpt-4.1-2025-04-14",
		MaxCompletionTokens: 2048,
		MaxRetries:          3,
		BackoffUnit:         2 * time.Second,
		JudgeRateLimit:      200 * time.Millisecond,
		GenerationRateLimit: 500 * time.Millisecond,
	}
}

// Load builds the effective configuration for a run.
func Load(ctx context.Context) (Config, error) {
	cfg := Default()

	if path := os.Getenv("LIVEMEDBENCH_CONFIG"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
		var overlay Config
		if err := yaml.Unmarshal(raw, &overlay); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
		cfg.merge(overlay)
	}

	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, fmt.Errorf("process environment: %w", err)
	}
	return cfg, nil
}

// merge overlays non-zero fields from o.
func (c *Config) merge(o Config) {
	if o.Provider != "" {
		c.Provider = o.Provider
	}
	if o.GenerationModel != "" {
		c.GenerationModel = o.GenerationModel
	}
	if o.JudgeModel != "" {
		c.JudgeModel = o.JudgeModel
	}
	if o.MaxCompletionTokens != 0 {
		c.MaxCompletionTokens = o.MaxCompletionTokens
	}
	if o.OpenAIAPIKey != "" {
		c.OpenAIAPIKey = o.OpenAIAPIKey
	}
	if o.AnthropicAPIKey != "" {
		c.AnthropicAPIKey = o.AnthropicAPIKey
	}
	if o.GoogleProject != "" {
		c.GoogleProject = o.GoogleProject
	}
	if o.GoogleRegion != "" {
		c.GoogleRegion = o.GoogleRegion
	}
	if o.MaxRetries != 0 {
		c.MaxRetries = o.MaxRetries
	}
	if o.BackoffUnit != 0 {
		c.BackoffUnit = o.BackoffUnit
	}
	if o.JudgeRateLimit != 0 {
		c.JudgeRateLimit = o.JudgeRateLimit
	}
	if o.GenerationRateLimit != 0 {
		c.GenerationRateLimit = o.GenerationRateLimit
	}
}

// ValidateCredentials checks that the selected provider has what it needs.
func (c Config) ValidateCredentials() error {
	switch c.Provider {
	case "openai", "":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is not set")
		}
	case "claude":
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is not set")
		}
	case "google":
		if c.GoogleProject == "" {
			return fmt.Errorf("GOOGLE_PROJECT_ID is not set")
		}
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	return nil
}

// GenerationOptions builds client options for the candidate model.
func (c Config) GenerationOptions() llm.Options {
	return llm.Options{
		Provider:            c.Provider,
		Model:               c.GenerationModel,
		MaxCompletionTokens: c.MaxCompletionTokens,
		OpenAIAPIKey:        c.OpenAIAPIKey,
		AnthropicAPIKey:     c.AnthropicAPIKey,
		GoogleProject:       c.GoogleProject,
		GoogleRegion:        c.GoogleRegion,
	}
}

// JudgeOptions builds client options for the judge model.
func (c Config) JudgeOptions() llm.Options {
	opts := c.GenerationOptions()
	opts.Model = c.JudgeModel
	return opts
}

// GenerationPolicy is the call policy for the generation stage.
func (c Config) GenerationPolicy() retry.CallPolicy {
	return retry.CallPolicy{
		MaxRetries:     c.MaxRetries,
		BackoffUnit:    c.BackoffUnit,
		RateLimitDelay: c.GenerationRateLimit,
	}
}

// JudgePolicy is the call policy for the grading stage.
func (c Config) JudgePolicy() retry.CallPolicy {
	return retry.CallPolicy{
		MaxRetries:     c.MaxRetries,
		BackoffUnit:    c.BackoffUnit,
		RateLimitDelay: c.JudgeRateLimit,
	}
}
