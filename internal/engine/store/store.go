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

package store

import (
	"context"
	"time"

	"github.com/agentrix/agentdev/internal/engine/model"
	"github.com/google/wire"
)

// ProviderSet provides the state store.
var ProviderSet = wire.NewSet(NewStateStore)

// StateStore is the durable record of jobs, steps, checkpoints, artifacts,
// events and snapshots. It is the single source of truth: the controller is
// the only component that mutates job/step status through it, and a status
// update plus its event are written atomically.
//
// Writes for the same job are serialized to preserve checkpoint and event
// ordering; writes for different jobs never block each other.
type StateStore interface {
	// CreateJob persists a new job and its creation event in one transaction.
	CreateJob(ctx context.Context, job *model.Job, event *model.Event) error
	GetJob(ctx context.Context, jobID string) (*model.Job, error)
	ListActiveJobs(ctx context.Context) ([]*model.Job, error)

	// UpdateJobStatus transitions a job and appends event in one transaction.
	// Regressing a terminal job fails with ErrIllegalTransition.
	UpdateJobStatus(ctx context.Context, jobID, status string, updates map[string]any, event *model.Event) error

	// AppendSteps persists new plan steps. Dependencies must reference steps
	// of the same job (existing or in the batch); otherwise ErrInvalidDependency.
	AppendSteps(ctx context.Context, jobID string, steps []*model.JobStep, event *model.Event) error

	// UpdateStepStatus transitions a step and appends event in one transaction.
	UpdateStepStatus(ctx context.Context, jobID, stepID, status string, updates map[string]any, event *model.Event) error

	// ListStepsOrdered returns a job's steps sorted by order_index, with
	// dependency references validated.
	ListStepsOrdered(ctx context.Context, jobID string) ([]*model.JobStep, error)
	StepSummary(ctx context.Context, jobID string) (*model.JobStepSummary, error)

	RecordCheckpoint(ctx context.Context, checkpoint *model.Checkpoint) error
	LatestCheckpoint(ctx context.Context, jobID string) (*model.Checkpoint, error)
	RecordArtifact(ctx context.Context, artifact *model.Artifact) error
	ListArtifacts(ctx context.Context, jobID string) ([]*model.Artifact, error)
	AppendEvent(ctx context.Context, event *model.Event) error
	ListEvents(ctx context.Context, jobID string) ([]*model.Event, error)
	RecordSnapshot(ctx context.Context, snapshot *model.StateSnapshot) error

	// Garbage-collection views over expired rows.
	ExpiredCheckpoints(ctx context.Context, now time.Time, limit int) ([]*model.Checkpoint, error)
	ExpiredArtifacts(ctx context.Context, now time.Time, limit int) ([]*model.Artifact, error)
	DeleteCheckpoints(ctx context.Context, checkpointIDs []string) (int64, error)
	DeleteArtifacts(ctx context.Context, artifactIDs []string) (int64, error)
}
