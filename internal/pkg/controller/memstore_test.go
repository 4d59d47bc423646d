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
	"fmt"
	"sync"
	"time"

	"github.com/agentrix/agentdev/internal/engine/model"
	"github.com/agentrix/agentdev/internal/engine/store"
)

// memStore is an in-process StateStore with the same transition guards
// as the gorm-backed store.
type memStore struct {
	mu          sync.Mutex
	jobs        map[string]*model.Job
	steps       map[string][]*model.JobStep
	checkpoints []*model.Checkpoint
	artifacts   []*model.Artifact
	events      []*model.Event
	snapshots   []*model.StateSnapshot
	seq         int
}

func newMemStore() *memStore {
	return &memStore{
		jobs:  map[string]*model.Job{},
		steps: map[string][]*model.JobStep{},
	}
}

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func (s *memStore) appendEventLocked(event *model.Event, jobID string) {
	if event == nil {
		return
	}
	if event.EventID == "" {
		event.EventID = s.nextID("evt")
	}
	if event.JobID == "" {
		event.JobID = jobID
	}
	event.CreatedAt = time.Now()
	s.events = append(s.events, event)
}

func (s *memStore) CreateJob(ctx context.Context, job *model.Job, event *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.JobID] = job
	s.appendEventLocked(event, job.JobID)
	return nil
}

func (s *memStore) GetJob(ctx context.Context, jobID string) (*model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return nil, fmt.Errorf("%w: job %s", store.ErrNotFound, jobID)
	}
	copied := *job
	return &copied, nil
}

func (s *memStore) ListActiveJobs(ctx context.Context) ([]*model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var active []*model.Job
	for _, job := range s.jobs {
		if !model.JobTerminal(job.Status) {
			copied := *job
			active = append(active, &copied)
		}
	}
	return active, nil
}

func (s *memStore) UpdateJobStatus(ctx context.Context, jobID, status string, updates map[string]any, event *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return fmt.Errorf("%w: job %s", store.ErrNotFound, jobID)
	}
	if model.JobTerminal(job.Status) && job.Status != status {
		return fmt.Errorf("%w: job %s is %s", store.ErrIllegalTransition, jobID, job.Status)
	}
	job.Status = status
	for key, value := range updates {
		switch key {
		case "started_at":
			if ts, ok := value.(time.Time); ok {
				job.StartedAt = &ts
			}
		case "completed_at":
			if ts, ok := value.(time.Time); ok {
				job.CompletedAt = &ts
			}
		case "duration":
			if d, ok := value.(int64); ok {
				job.Duration = d
			}
		case "branch":
			job.Branch = value.(string)
		case "refine_count":
			job.RefineCount = value.(int)
		case "final_reason":
			job.FinalReason = value.(string)
		}
	}
	s.appendEventLocked(event, jobID)
	return nil
}

func (s *memStore) AppendSteps(ctx context.Context, jobID string, steps []*model.JobStep, event *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	known := map[string]bool{}
	for _, one := range s.steps[jobID] {
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
		for _, dep := range one.DependencyIDs() {
			if !known[dep] {
				return fmt.Errorf("%w: step %s depends on %s", store.ErrInvalidDependency, one.StepID, dep)
			}
		}
	}
	s.steps[jobID] = append(s.steps[jobID], steps...)
	s.appendEventLocked(event, jobID)
	return nil
}

func (s *memStore) findStepLocked(jobID, stepID string) (*model.JobStep, error) {
	for _, one := range s.steps[jobID] {
		if one.StepID == stepID {
			return one, nil
		}
	}
	return nil, fmt.Errorf("%w: step %s", store.ErrNotFound, stepID)
}

func (s *memStore) UpdateStepStatus(ctx context.Context, jobID, stepID, status string, updates map[string]any, event *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	step, err := s.findStepLocked(jobID, stepID)
	if err != nil {
		return err
	}
	if step.Status != status {
		switch step.Status {
		case model.StepStatusCompleted:
			return fmt.Errorf("%w: step is completed", store.ErrIllegalTransition)
		case model.StepStatusFailed:
			if status != model.StepStatusPending {
				return fmt.Errorf("%w: failed step may only return to pending", store.ErrIllegalTransition)
			}
		}
	}
	step.Status = status
	for key, value := range updates {
		switch key {
		case "started_at":
			if ts, ok := value.(time.Time); ok {
				step.StartedAt = &ts
			} else {
				step.StartedAt = nil
			}
		case "completed_at":
			if ts, ok := value.(time.Time); ok {
				step.CompletedAt = &ts
			} else {
				step.CompletedAt = nil
			}
		case "duration":
			step.Duration = value.(int64)
		case "retry_count":
			step.RetryCount = value.(int)
		case "error":
			step.Error = value.(string)
		case "superseded":
			step.Superseded = value.(int)
		}
	}
	if event != nil && event.StepID == "" {
		event.StepID = stepID
	}
	s.appendEventLocked(event, jobID)
	return nil
}

func (s *memStore) ListStepsOrdered(ctx context.Context, jobID string) ([]*model.JobStep, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.JobStep, 0, len(s.steps[jobID]))
	for _, one := range s.steps[jobID] {
		copied := *one
		out = append(out, &copied)
	}
	return out, nil
}

func (s *memStore) StepSummary(ctx context.Context, jobID string) (*model.JobStepSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	summary := &model.JobStepSummary{}
	for _, one := range s.steps[jobID] {
		if one.Superseded != 0 {
			continue
		}
		summary.Total++
		switch one.Status {
		case model.StepStatusPending:
			summary.Pending++
		case model.StepStatusRunning:
			summary.Running++
		case model.StepStatusCompleted:
			summary.Completed++
		case model.StepStatusFailed:
			summary.Failed++
		}
	}
	return summary, nil
}

func (s *memStore) RecordCheckpoint(ctx context.Context, checkpoint *model.Checkpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if checkpoint.CheckpointID == "" {
		checkpoint.CheckpointID = s.nextID("cp")
	}
	s.checkpoints = append(s.checkpoints, checkpoint)
	return nil
}

func (s *memStore) LatestCheckpoint(ctx context.Context, jobID string) (*model.Checkpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for i := len(s.checkpoints) - 1; i >= 0; i-- {
		one := s.checkpoints[i]
		if one.JobID != jobID {
			continue
		}
		if one.ExpiresAt != nil && one.ExpiresAt.Before(now) {
			continue
		}
		copied := *one
		return &copied, nil
	}
	return nil, nil
}

func (s *memStore) RecordArtifact(ctx context.Context, artifact *model.Artifact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if artifact.ArtifactID == "" {
		artifact.ArtifactID = s.nextID("art")
	}
	s.artifacts = append(s.artifacts, artifact)
	return nil
}

func (s *memStore) ListArtifacts(ctx context.Context, jobID string) ([]*model.Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Artifact
	for _, one := range s.artifacts {
		if one.JobID == jobID {
			copied := *one
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *memStore) AppendEvent(ctx context.Context, event *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendEventLocked(event, event.JobID)
	return nil
}

func (s *memStore) ListEvents(ctx context.Context, jobID string) ([]*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Event
	for _, one := range s.events {
		if one.JobID == jobID {
			copied := *one
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *memStore) RecordSnapshot(ctx context.Context, snapshot *model.StateSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if snapshot.SnapshotID == "" {
		snapshot.SnapshotID = s.nextID("snap")
	}
	snapshot.Version = 1
	for _, one := range s.snapshots {
		if one.EntityType == snapshot.EntityType && one.EntityID == snapshot.EntityID {
			snapshot.Version++
		}
	}
	s.snapshots = append(s.snapshots, snapshot)
	return nil
}

func (s *memStore) ExpiredCheckpoints(ctx context.Context, now time.Time, limit int) ([]*model.Checkpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Checkpoint
	for _, one := range s.checkpoints {
		if one.ExpiresAt != nil && one.ExpiresAt.Before(now) {
			copied := *one
			out = append(out, &copied)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (s *memStore) ExpiredArtifacts(ctx context.Context, now time.Time, limit int) ([]*model.Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Artifact
	for _, one := range s.artifacts {
		if one.ExpiresAt != nil && one.ExpiresAt.Before(now) {
			copied := *one
			out = append(out, &copied)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (s *memStore) DeleteCheckpoints(ctx context.Context, checkpointIDs []string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	drop := map[string]bool{}
	for _, id := range checkpointIDs {
		drop[id] = true
	}
	var kept []*model.Checkpoint
	var deleted int64
	for _, one := range s.checkpoints {
		if drop[one.CheckpointID] {
			deleted++
			continue
		}
		kept = append(kept, one)
	}
	s.checkpoints = kept
	return deleted, nil
}

func (s *memStore) DeleteArtifacts(ctx context.Context, artifactIDs []string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	drop := map[string]bool{}
	for _, id := range artifactIDs {
		drop[id] = true
	}
	var kept []*model.Artifact
	var deleted int64
	for _, one := range s.artifacts {
		if drop[one.ArtifactID] {
			deleted++
			continue
		}
		kept = append(kept, one)
	}
	s.artifacts = kept
	return deleted, nil
}
