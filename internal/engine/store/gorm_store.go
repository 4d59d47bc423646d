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
	"fmt"
	"sync"
	"time"

	"github.com/agentrix/agentdev/internal/engine/model"
	"github.com/agentrix/agentdev/internal/engine/repo"
	"github.com/agentrix/agentdev/pkg/database"
	"github.com/rs/xid"
	"gorm.io/gorm"
)

type gormStore struct {
	db    database.IDatabase
	repos *repo.Repositories

	// jobLocks serializes writes per job id. Cross-job writes do not contend.
	jobLocks sync.Map
}

// NewStateStore creates the gorm-backed state store.
func NewStateStore(db database.IDatabase, repos *repo.Repositories) StateStore {
	return &gormStore{db: db, repos: repos}
}

func (s *gormStore) lockJob(jobID string) func() {
	v, _ := s.jobLocks.LoadOrStore(jobID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func persistErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrPersistence, err)
}

func fillEvent(event *model.Event, jobID string) {
	if event == nil {
		return
	}
	if event.EventID == "" {
		event.EventID = xid.New().String()
	}
	if event.JobID == "" {
		event.JobID = jobID
	}
	if event.CorrelationID == "" {
		event.CorrelationID = jobID
	}
}

func (s *gormStore) CreateJob(ctx context.Context, job *model.Job, event *model.Event) error {
	unlock := s.lockJob(job.JobID)
	defer unlock()

	fillEvent(event, job.JobID)
	err := s.db.Database().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repos.Jobs.CreateTx(tx, job); err != nil {
			return err
		}
		if event != nil {
			return s.repos.Events.AppendTx(tx, event)
		}
		return nil
	})
	return persistErr(err)
}

func (s *gormStore) GetJob(ctx context.Context, jobID string) (*model.Job, error) {
	job, err := s.repos.Jobs.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, fmt.Errorf("%w: job %s", ErrNotFound, jobID)
	}
	return job, nil
}

func (s *gormStore) ListActiveJobs(ctx context.Context) ([]*model.Job, error) {
	return s.repos.Jobs.ListActive(ctx)
}

func (s *gormStore) UpdateJobStatus(ctx context.Context, jobID, status string, updates map[string]any, event *model.Event) error {
	unlock := s.lockJob(jobID)
	defer unlock()

	job, err := s.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	if model.JobTerminal(job.Status) && job.Status != status {
		return fmt.Errorf("%w: job %s is %s, cannot become %s",
			ErrIllegalTransition, jobID, job.Status, status)
	}

	if updates == nil {
		updates = map[string]any{}
	}
	updates["status"] = status
	fillEvent(event, jobID)

	err = s.db.Database().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repos.Jobs.UpdateTx(tx, jobID, updates); err != nil {
			return err
		}
		if event != nil {
			return s.repos.Events.AppendTx(tx, event)
		}
		return nil
	})
	return persistErr(err)
}

func (s *gormStore) AppendSteps(ctx context.Context, jobID string, steps []*model.JobStep, event *model.Event) error {
	unlock := s.lockJob(jobID)
	defer unlock()

	existing, err := s.repos.Steps.ListByJob(ctx, jobID)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(existing)+len(steps))
	for _, one := range existing {
		known[one.StepID] = true
	}
	for _, one := range steps {
		known[one.StepID] = true
	}
	for _, one := range steps {
		one.JobID = jobID
		if one.Status == "" {
			one.Status = model.StepStatusPending
		}
		if one.MaxRetries <= 0 {
			one.MaxRetries = model.DefaultMaxRetries
		}
		if one.TimeoutSeconds <= 0 {
			one.TimeoutSeconds = model.DefaultTimeoutSeconds
		}
		for _, dep := range one.DependencyIDs() {
			if !known[dep] {
				return fmt.Errorf("%w: step %s depends on unknown step %s",
					ErrInvalidDependency, one.StepID, dep)
			}
		}
	}
	fillEvent(event, jobID)

	err = s.db.Database().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repos.Steps.CreateBatch(tx, steps); err != nil {
			return err
		}
		if event != nil {
			return s.repos.Events.AppendTx(tx, event)
		}
		return nil
	})
	return persistErr(err)
}

func (s *gormStore) UpdateStepStatus(ctx context.Context, jobID, stepID, status string, updates map[string]any, event *model.Event) error {
	unlock := s.lockJob(jobID)
	defer unlock()

	step, err := s.repos.Steps.Get(ctx, stepID)
	if err != nil {
		return err
	}
	if step == nil || step.JobID != jobID {
		return fmt.Errorf("%w: step %s in job %s", ErrNotFound, stepID, jobID)
	}
	if err := checkStepTransition(step.Status, status); err != nil {
		return err
	}

	if updates == nil {
		updates = map[string]any{}
	}
	updates["status"] = status
	fillEvent(event, jobID)
	if event != nil && event.StepID == "" {
		event.StepID = stepID
	}

	err = s.db.Database().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repos.Steps.UpdateTx(tx, stepID, updates); err != nil {
			return err
		}
		if event != nil {
			return s.repos.Events.AppendTx(tx, event)
		}
		return nil
	})
	return persistErr(err)
}

// checkStepTransition enforces the step state machine: completed is final,
// failed may only move back to pending (refine-and-retry), running may not
// be re-entered from a terminal state directly.
func checkStepTransition(from, to string) error {
	if from == to {
		return nil
	}
	switch from {
	case model.StepStatusCompleted:
		return fmt.Errorf("%w: step is completed, cannot become %s", ErrIllegalTransition, to)
	case model.StepStatusFailed:
		if to != model.StepStatusPending {
			return fmt.Errorf("%w: failed step may only return to pending, not %s", ErrIllegalTransition, to)
		}
	}
	return nil
}

func (s *gormStore) ListStepsOrdered(ctx context.Context, jobID string) ([]*model.JobStep, error) {
	steps, err := s.repos.Steps.ListByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(steps))
	for _, one := range steps {
		known[one.StepID] = true
	}
	for _, one := range steps {
		for _, dep := range one.DependencyIDs() {
			if !known[dep] {
				return nil, fmt.Errorf("%w: step %s depends on unknown step %s",
					ErrInvalidDependency, one.StepID, dep)
			}
		}
	}
	return steps, nil
}

func (s *gormStore) StepSummary(ctx context.Context, jobID string) (*model.JobStepSummary, error) {
	return s.repos.Steps.Summary(ctx, jobID)
}

func (s *gormStore) RecordCheckpoint(ctx context.Context, checkpoint *model.Checkpoint) error {
	unlock := s.lockJob(checkpoint.JobID)
	defer unlock()

	if checkpoint.CheckpointID == "" {
		checkpoint.CheckpointID = xid.New().String()
	}
	if err := s.repos.Checkpoints.Create(ctx, checkpoint); err != nil {
		return persistErr(err)
	}
	return nil
}

func (s *gormStore) LatestCheckpoint(ctx context.Context, jobID string) (*model.Checkpoint, error) {
	return s.repos.Checkpoints.Latest(ctx, jobID)
}

func (s *gormStore) RecordArtifact(ctx context.Context, artifact *model.Artifact) error {
	if artifact.ArtifactID == "" {
		artifact.ArtifactID = xid.New().String()
	}
	if err := s.repos.Artifacts.Create(ctx, artifact); err != nil {
		return persistErr(err)
	}
	return nil
}

func (s *gormStore) ListArtifacts(ctx context.Context, jobID string) ([]*model.Artifact, error) {
	return s.repos.Artifacts.ListByJob(ctx, jobID)
}

func (s *gormStore) AppendEvent(ctx context.Context, event *model.Event) error {
	unlock := s.lockJob(event.JobID)
	defer unlock()

	fillEvent(event, event.JobID)
	if err := s.repos.Events.Append(ctx, event); err != nil {
		return persistErr(err)
	}
	return nil
}

func (s *gormStore) ListEvents(ctx context.Context, jobID string) ([]*model.Event, error) {
	return s.repos.Events.ListByJob(ctx, jobID)
}

func (s *gormStore) RecordSnapshot(ctx context.Context, snapshot *model.StateSnapshot) error {
	if snapshot.SnapshotID == "" {
		snapshot.SnapshotID = xid.New().String()
	}
	if err := s.repos.Snapshots.Create(ctx, snapshot); err != nil {
		return persistErr(err)
	}
	return nil
}

func (s *gormStore) ExpiredCheckpoints(ctx context.Context, now time.Time, limit int) ([]*model.Checkpoint, error) {
	return s.repos.Checkpoints.ListExpired(ctx, now, limit)
}

func (s *gormStore) ExpiredArtifacts(ctx context.Context, now time.Time, limit int) ([]*model.Artifact, error) {
	return s.repos.Artifacts.ListExpired(ctx, now, limit)
}

func (s *gormStore) DeleteCheckpoints(ctx context.Context, checkpointIDs []string) (int64, error) {
	return s.repos.Checkpoints.DeleteByIDs(ctx, checkpointIDs)
}

func (s *gormStore) DeleteArtifacts(ctx context.Context, artifactIDs []string) (int64, error) {
	return s.repos.Artifacts.DeleteByIDs(ctx, artifactIDs)
}
