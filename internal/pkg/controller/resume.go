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

	"github.com/bytedance/sonic"

	"github.com/agentrix/agentdev/internal/engine/model"
	"github.com/agentrix/agentdev/pkg/log"
)

// Resume restarts an interrupted job from its latest non-expired
// checkpoint. Completed steps are trusted and never re-run; steps the
// checkpoint saw as running or pending run again. The resumed job
// produces the same outcome a never-interrupted run would have.
func (c *Controller) Resume(ctx context.Context, jobID string) error {
	job, err := c.store.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	if model.JobTerminal(job.Status) {
		return fmt.Errorf("%w: job %s is %s", ErrJobNotRunnable, jobID, job.Status)
	}

	checkpoint, err := c.store.LatestCheckpoint(ctx, jobID)
	if err != nil {
		return err
	}
	if checkpoint == nil {
		return fmt.Errorf("%w: job %s", ErrNoCheckpoint, jobID)
	}
	var data model.CheckpointData
	if err := sonic.Unmarshal(checkpoint.Data, &data); err != nil {
		return fmt.Errorf("decode checkpoint %s: %w", checkpoint.CheckpointID, err)
	}
	log.Infow("resuming job from checkpoint",
		"job", jobID,
		"checkpoint", checkpoint.CheckpointID,
		"type", checkpoint.CheckpointType,
		"completed", len(data.Completed),
		"pending", len(data.Pending),
		"refineCount", data.RefineCount)

	if err := c.reconcile(ctx, job, data); err != nil {
		return err
	}
	return c.Run(ctx, jobID)
}

// ResumeAll resumes every non-terminal job, used at process start.
func (c *Controller) ResumeAll(ctx context.Context) error {
	jobs, err := c.store.ListActiveJobs(ctx)
	if err != nil {
		return err
	}
	for _, job := range jobs {
		if err := c.Resume(ctx, job.JobID); err != nil {
			log.Errorw("resume job", "job", job.JobID, "err", err)
		}
	}
	return nil
}

// reconcile aligns persisted step rows with the checkpoint view. Rows
// that advanced past the checkpoint keep their progress; failed rows
// return to pending so the attempt loop re-runs them with their
// persisted retry count.
func (c *Controller) reconcile(ctx context.Context, job *model.Job, data model.CheckpointData) error {
	steps, err := c.store.ListStepsOrdered(ctx, job.JobID)
	if err != nil {
		return err
	}
	failedInCheckpoint := make(map[string]bool, len(data.Failed))
	for _, id := range data.Failed {
		failedInCheckpoint[id] = true
	}
	for _, one := range activeSteps(steps) {
		// Failed rows the checkpoint did not see as failed were
		// interrupted mid-retry; give them back to the loop.
		if one.Status == model.StepStatusFailed && !failedInCheckpoint[one.StepID] {
			err := c.store.UpdateStepStatus(ctx, job.JobID, one.StepID, model.StepStatusPending,
				map[string]any{"started_at": nil, "completed_at": nil}, nil)
			if err != nil {
				return err
			}
		}
	}
	return nil
}
