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
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/agentrix/agentdev/internal/engine/model"
	"github.com/agentrix/agentdev/internal/engine/repo"
	"github.com/agentrix/agentdev/pkg/database"
)

func newTestStore(t *testing.T) StateStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "state.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, repo.AutoMigrate(db))

	adapter := database.NewRawAdapter(db)
	repos := repo.NewRepositories(
		repo.NewJobRepo(adapter),
		repo.NewStepRepo(adapter),
		repo.NewCheckpointRepo(adapter),
		repo.NewArtifactRepo(adapter),
		repo.NewEventRepo(adapter),
		repo.NewSnapshotRepo(adapter),
	)
	return NewStateStore(adapter, repos)
}

func seedJob(t *testing.T, st StateStore, jobID string) *model.Job {
	t.Helper()
	job := &model.Job{
		JobID:   jobID,
		JobType: "fix",
		Status:  model.JobStatusPending,
		Problem: "widget does not build",
	}
	require.NoError(t, st.CreateJob(context.Background(), job, nil))
	return job
}

func TestCreateJob_WritesCreationEventAtomically(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	job := &model.Job{
		JobID:   "job-1",
		JobType: "fix",
		Status:  model.JobStatusPending,
		Problem: "widget does not build",
	}
	err := st.CreateJob(ctx, job, &model.Event{EventType: model.EventJobCreated})
	require.NoError(t, err)

	events, err := st.ListEvents(ctx, "job-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, model.EventJobCreated, events[0].EventType)
	require.NotEmpty(t, events[0].EventID)
	require.Equal(t, "job-1", events[0].CorrelationID)
}

func TestUpdateJobStatus_WritesEventAtomically(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	seedJob(t, st, "job-1")

	now := time.Now()
	err := st.UpdateJobStatus(ctx, "job-1", model.JobStatusRunning,
		map[string]any{"started_at": now},
		&model.Event{EventType: model.EventJobStarted})
	require.NoError(t, err)

	job, err := st.GetJob(ctx, "job-1")
	require.NoError(t, err)
	require.Equal(t, model.JobStatusRunning, job.Status)
	require.NotNil(t, job.StartedAt)

	events, err := st.ListEvents(ctx, "job-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, model.EventJobStarted, events[0].EventType)
	require.NotEmpty(t, events[0].EventID)
	require.Equal(t, "job-1", events[0].CorrelationID)
}

func TestUpdateJobStatus_TerminalGuard(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	seedJob(t, st, "job-1")

	require.NoError(t, st.UpdateJobStatus(ctx, "job-1", model.JobStatusCompleted, nil, nil))

	err := st.UpdateJobStatus(ctx, "job-1", model.JobStatusRunning, nil, nil)
	require.ErrorIs(t, err, ErrIllegalTransition)
}

func TestUpdateJobStatus_UnknownJob(t *testing.T) {
	st := newTestStore(t)
	err := st.UpdateJobStatus(context.Background(), "nope", model.JobStatusRunning, nil, nil)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAppendSteps_DefaultsAndBatchDependencies(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	seedJob(t, st, "job-1")

	first := &model.JobStep{StepID: "s1", StepName: "build", StepType: model.StepTypeCommand, Command: "make build"}
	second := &model.JobStep{StepID: "s2", StepName: "test", StepType: model.StepTypeTest, Command: "make test", OrderIndex: 1}
	second.SetDependencyIDs([]string{"s1"})
	err := st.AppendSteps(ctx, "job-1", []*model.JobStep{first, second},
		&model.Event{EventType: model.EventPlanProposed})
	require.NoError(t, err)

	steps, err := st.ListStepsOrdered(ctx, "job-1")
	require.NoError(t, err)
	require.Len(t, steps, 2)
	require.Equal(t, model.StepStatusPending, steps[0].Status)
	require.Equal(t, model.DefaultMaxRetries, steps[0].MaxRetries)
	require.Equal(t, model.DefaultTimeoutSeconds, steps[0].TimeoutSeconds)
}

func TestAppendSteps_UnknownDependency(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	seedJob(t, st, "job-1")

	step := &model.JobStep{StepID: "s1", StepName: "test", StepType: model.StepTypeCommand, Command: "make test"}
	step.SetDependencyIDs([]string{"ghost"})
	err := st.AppendSteps(ctx, "job-1", []*model.JobStep{step}, nil)
	require.ErrorIs(t, err, ErrInvalidDependency)

	// The rejected batch must not be partially persisted.
	steps, err := st.ListStepsOrdered(ctx, "job-1")
	require.NoError(t, err)
	require.Empty(t, steps)
}

func TestUpdateStepStatus_Transitions(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	seedJob(t, st, "job-1")
	step := &model.JobStep{StepID: "s1", StepName: "fix", StepType: model.StepTypeCommand, Command: "apply"}
	require.NoError(t, st.AppendSteps(ctx, "job-1", []*model.JobStep{step}, nil))

	require.NoError(t, st.UpdateStepStatus(ctx, "job-1", "s1", model.StepStatusRunning, nil, nil))
	// Same-status update carries retry bookkeeping.
	err := st.UpdateStepStatus(ctx, "job-1", "s1", model.StepStatusRunning,
		map[string]any{"retry_count": 1}, &model.Event{EventType: model.EventStepRetried})
	require.NoError(t, err)
	require.NoError(t, st.UpdateStepStatus(ctx, "job-1", "s1", model.StepStatusFailed, nil, nil))

	// Failed may only return to pending.
	err = st.UpdateStepStatus(ctx, "job-1", "s1", model.StepStatusRunning, nil, nil)
	require.ErrorIs(t, err, ErrIllegalTransition)
	require.NoError(t, st.UpdateStepStatus(ctx, "job-1", "s1", model.StepStatusPending, nil, nil))

	// Completed is final.
	require.NoError(t, st.UpdateStepStatus(ctx, "job-1", "s1", model.StepStatusCompleted, nil, nil))
	err = st.UpdateStepStatus(ctx, "job-1", "s1", model.StepStatusPending, nil, nil)
	require.ErrorIs(t, err, ErrIllegalTransition)
}

func TestLatestCheckpoint_SkipsExpired(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	seedJob(t, st, "job-1")

	future := time.Now().Add(time.Hour)
	past := time.Now().Add(-time.Hour)
	live := &model.Checkpoint{JobID: "job-1", CheckpointType: model.CheckpointTypeJobStart, ExpiresAt: &future}
	require.NoError(t, st.RecordCheckpoint(ctx, live))
	expired := &model.Checkpoint{JobID: "job-1", CheckpointType: model.CheckpointTypeManual, ExpiresAt: &past}
	require.NoError(t, st.RecordCheckpoint(ctx, expired))

	latest, err := st.LatestCheckpoint(ctx, "job-1")
	require.NoError(t, err)
	require.NotNil(t, latest)
	require.Equal(t, live.CheckpointID, latest.CheckpointID)
}

func TestLatestCheckpoint_NoneUsable(t *testing.T) {
	st := newTestStore(t)
	seedJob(t, st, "job-1")
	latest, err := st.LatestCheckpoint(context.Background(), "job-1")
	require.NoError(t, err)
	require.Nil(t, latest)
}

func TestGC_DeletesExpiredRows(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	seedJob(t, st, "job-1")

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)
	expired := &model.Checkpoint{JobID: "job-1", CheckpointType: model.CheckpointTypeManual, ExpiresAt: &past}
	require.NoError(t, st.RecordCheckpoint(ctx, expired))
	require.NoError(t, st.RecordCheckpoint(ctx, &model.Checkpoint{
		JobID: "job-1", CheckpointType: model.CheckpointTypeManual, ExpiresAt: &future,
	}))
	old := &model.Artifact{JobID: "job-1", ArtifactPath: "old.log", ExpiresAt: &past}
	require.NoError(t, st.RecordArtifact(ctx, old))

	candidates, err := st.ExpiredCheckpoints(ctx, time.Now(), 100)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	deleted, err := st.DeleteCheckpoints(ctx, []string{candidates[0].CheckpointID})
	require.NoError(t, err)
	require.EqualValues(t, 1, deleted)

	arts, err := st.ExpiredArtifacts(ctx, time.Now(), 100)
	require.NoError(t, err)
	require.Len(t, arts, 1)
	deleted, err = st.DeleteArtifacts(ctx, []string{arts[0].ArtifactID})
	require.NoError(t, err)
	require.EqualValues(t, 1, deleted)

	remaining, err := st.ListArtifacts(ctx, "job-1")
	require.NoError(t, err)
	require.Empty(t, remaining)
}

func TestRecordSnapshot_VersionsPerEntity(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	first := &model.StateSnapshot{EntityType: model.SnapshotEntityJob, EntityID: "job-1", SnapshotData: []byte(`{}`), CreatedBy: "test"}
	require.NoError(t, st.RecordSnapshot(ctx, first))
	second := &model.StateSnapshot{EntityType: model.SnapshotEntityJob, EntityID: "job-1", SnapshotData: []byte(`{}`), CreatedBy: "test"}
	require.NoError(t, st.RecordSnapshot(ctx, second))

	require.Equal(t, 1, first.Version)
	require.Equal(t, 2, second.Version)
}

func TestListActiveJobs(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	seedJob(t, st, "job-1")
	seedJob(t, st, "job-2")
	require.NoError(t, st.UpdateJobStatus(ctx, "job-2", model.JobStatusCompleted, nil, nil))

	active, err := st.ListActiveJobs(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, "job-1", active[0].JobID)
}
