/*
Copyright 2026 The LiveMedBench Authors
SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewPipeline(t *testing.T) {
	t.Parallel()

	p := NewPipeline("livemedbench.test")
	if p == nil || p.calls == nil || p.duration == nil {
		t.Fatal("NewPipeline() returned incomplete instruments")
	}
}

func TestRecordCall(t *testing.T) {
	t.Parallel()

	p := NewPipeline("livemedbench.test")
	ctx := context.Background()

	// Without a configured meter provider these are no-ops; they must not
	// panic either way.
	p.RecordCall(ctx, "openai", "generate", 250*time.Millisecond, nil)
	p.RecordCall(ctx, "openai", "grade", time.Second, errors.New("boom"))
}
