/*
Copyright 2026 The LiveMedBench Authors
SPDX-License-Identifier: Apache-2.0
*/

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if cfg.Provider != "openai" {
		t.Errorf("Provider = %q, want openai", cfg.Provider)
	}
	if cfg.JudgeModel != "gpt-4.1-2025-04-14" {
		t.Errorf("JudgeModel = %q", cfg.JudgeModel)
	}
	if cfg.MaxRetries != 3 || cfg.BackoffUnit != 2*time.Second {
		t.Errorf("retry defaults = %d/%v, want 3/2s", cfg.MaxRetries, cfg.BackoffUnit)
	}
	if cfg.JudgeRateLimit != 200*time.Millisecond || cfg.GenerationRateLimit != 500*time.Millisecond {
		t.Errorf("rate limits = %v/%v, want 200ms/500ms", cfg.JudgeRateLimit, cfg.GenerationRateLimit)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("LIVEMEDBENCH_CONFIG", "")
	t.Setenv("JUDGE_MODEL", "judge-override")
	t.Setenv("MAX_RETRIES", "5")
	t.Setenv("JUDGE_RATE_LIMIT", "1s")

	cfg, err := Load(context.Background())
	require.NoError(t, err)
	if cfg.JudgeModel != "judge-override" {
		t.Errorf("JudgeModel = %q, want judge-override", cfg.JudgeModel)
	}
	if cfg.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", cfg.MaxRetries)
	}
	if cfg.JudgeRateLimit != time.Second {
		t.Errorf("JudgeRateLimit = %v, want 1s", cfg.JudgeRateLimit)
	}
	// Untouched fields keep their defaults.
	if cfg.GenerationRateLimit != 500*time.Millisecond {
		t.Errorf("GenerationRateLimit = %v, want default 500ms", cfg.GenerationRateLimit)
	}
}

func TestLoadYAMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider: claude\njudgeModel: yaml-judge\n"), 0o644))
	t.Setenv("LIVEMEDBENCH_CONFIG", path)
	// Environment wins over the file.
	t.Setenv("JUDGE_MODEL", "env-judge")

	cfg, err := Load(context.Background())
	require.NoError(t, err)
	if cfg.Provider != "claude" {
		t.Errorf("Provider = %q, want claude from YAML", cfg.Provider)
	}
	if cfg.JudgeModel != "env-judge" {
		t.Errorf("JudgeModel = %q, want env-judge (env beats YAML)", cfg.JudgeModel)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want default 3", cfg.MaxRetries)
	}
}

func TestLoadBadYAMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(": not yaml"), 0o644))
	t.Setenv("LIVEMEDBENCH_CONFIG", path)

	if _, err := Load(context.Background()); err == nil {
		t.Fatal("Load() should fail on an unparseable config file")
	}
}

func TestValidateCredentials(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{{
		name: "openai with key",
		cfg:  Config{Provider: "openai", OpenAIAPIKey: "sk-x"},
	}, {
		name:    "openai without key",
		cfg:     Config{Provider: "openai"},
		wantErr: true,
	}, {
		name: "empty provider defaults to openai",
		cfg:  Config{OpenAIAPIKey: "sk-x"},
	}, {
		name: "claude with key",
		cfg:  Config{Provider: "claude", AnthropicAPIKey: "sk-ant"},
	}, {
		name:    "claude without key",
		cfg:     Config{Provider: "claude"},
		wantErr: true,
	}, {
		name: "google with project",
		cfg:  Config{Provider: "google", GoogleProject: "proj"},
	}, {
		name:    "google without project",
		cfg:     Config{Provider: "google"},
		wantErr: true,
	}, {
		name:    "unknown provider",
		cfg:     Config{Provider: "other"},
		wantErr: true,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.ValidateCredentials()
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateCredentials() = %v, wantErr %t", err, tt.wantErr)
			}
		})
	}
}

func TestPolicies(t *testing.T) {
	t.Parallel()

	cfg := Default()
	gp := cfg.GenerationPolicy()
	if gp.RateLimitDelay != cfg.GenerationRateLimit {
		t.Errorf("GenerationPolicy delay = %v, want %v", gp.RateLimitDelay, cfg.GenerationRateLimit)
	}
	jp := cfg.JudgePolicy()
	if jp.RateLimitDelay != cfg.JudgeRateLimit {
		t.Errorf("JudgePolicy delay = %v, want %v", jp.RateLimitDelay, cfg.JudgeRateLimit)
	}
	if gp.MaxRetries != 3 || jp.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d/%d, want 3", gp.MaxRetries, jp.MaxRetries)
	}
}

func TestJudgeOptions(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.GenerationModel = "candidate"
	cfg.JudgeModel = "referee"

	if got := cfg.GenerationOptions().Model; got != "candidate" {
		t.Errorf("GenerationOptions().Model = %q", got)
	}
	if got := cfg.JudgeOptions().Model; got != "referee" {
		t.Errorf("JudgeOptions().Model = %q", got)
	}
}
