// Copyright 2026 AgentDev Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package controller

import (
	"context"
	"testing"
	"time"

	"github.com/agentrix/agentdev/internal/engine/model"
)

func TestSweep_DeletesOnlyExpired(t *testing.T) {
	st := newMemStore()
	ctx := context.Background()
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	seed := []*model.Checkpoint{
		{JobID: "job-1", CheckpointType: model.CheckpointTypeManual, ExpiresAt: &past},
		{JobID: "job-1", CheckpointType: model.CheckpointTypeManual, ExpiresAt: &future},
		{JobID: "job-2", CheckpointType: model.CheckpointTypeManual}, // no expiry, kept forever
	}
	for _, one := range seed {
		if err := st.RecordCheckpoint(ctx, one); err != nil {
			t.Fatalf("seed checkpoint: %v", err)
		}
	}
	artifacts := []*model.Artifact{
		{JobID: "job-1", ArtifactPath: "old.log", ExpiresAt: &past},
		{JobID: "job-1", ArtifactPath: "fresh.log", ExpiresAt: &future},
	}
	for _, one := range artifacts {
		if err := st.RecordArtifact(ctx, one); err != nil {
			t.Fatalf("seed artifact: %v", err)
		}
	}

	result, err := Sweep(ctx, st)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if result.Checkpoints != 1 || result.Artifacts != 1 {
		t.Fatalf("expected 1 checkpoint and 1 artifact swept, got %+v", result)
	}
	if len(st.checkpoints) != 2 {
		t.Fatalf("live checkpoints must survive, got %d", len(st.checkpoints))
	}
	remaining, _ := st.ListArtifacts(ctx, "job-1")
	if len(remaining) != 1 || remaining[0].ArtifactPath != "fresh.log" {
		t.Fatalf("unexpected artifacts after sweep: %+v", remaining)
	}
}

func TestSweep_EmptyStore(t *testing.T) {
	result, err := Sweep(context.Background(), newMemStore())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if result.Checkpoints != 0 || result.Artifacts != 0 {
		t.Fatalf("expected nothing swept, got %+v", result)
	}
}
