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

// Package controller drives the fix loop: it owns every job and step
// state transition, asks the planner for plans, dispatches steps to the
// executor and records checkpoints so an interrupted job can resume.
package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"github.com/agentrix/agentdev/internal/engine/model"
	"github.com/agentrix/agentdev/internal/engine/store"
	"github.com/agentrix/agentdev/internal/pkg/bugmemory"
	"github.com/agentrix/agentdev/internal/pkg/executor"
	"github.com/agentrix/agentdev/internal/pkg/gitsvc"
	"github.com/agentrix/agentdev/internal/pkg/planner"
	"github.com/agentrix/agentdev/pkg/event"
	"github.com/agentrix/agentdev/pkg/log"
	"github.com/agentrix/agentdev/pkg/metrics"
)

// maxStoredOutput caps stdout/stderr persisted per step.
const maxStoredOutput = 64 * 1024

// Controller is the only component that mutates job and step status.
type Controller struct {
	store    store.StateStore
	proposer planner.Proposer
	exec     *executor.Manager
	memory   bugmemory.Memory
	git      gitsvc.Service
	bus      *event.Bus
	metrics  *metrics.EngineMetrics
	opts     Options

	// cancels maps job ids driven by this process to their cancel funcs.
	cancels sync.Map
	// globalSlots bounds step execution across jobs; nil means unlimited.
	globalSlots chan struct{}
}

// NewController wires the fix-loop collaborators together.
func NewController(
	st store.StateStore,
	proposer planner.Proposer,
	exec *executor.Manager,
	memory bugmemory.Memory,
	git gitsvc.Service,
	bus *event.Bus,
	m *metrics.EngineMetrics,
	opts Options,
) *Controller {
	c := &Controller{
		store:    st,
		proposer: proposer,
		exec:     exec,
		memory:   memory,
		git:      git,
		bus:      bus,
		metrics:  m,
		opts:     opts.Normalize(),
	}
	if c.opts.GlobalConcurrency > 0 {
		c.globalSlots = make(chan struct{}, c.opts.GlobalConcurrency)
	}
	return c
}

// CreateJobRequest describes a new remediation request.
type CreateJobRequest struct {
	Problem        string
	JobType        string
	CreatedBy      string
	MaxRefinements int
	Variables      map[string]any
}

// CreateJob persists a pending job and its creation event.
func (c *Controller) CreateJob(ctx context.Context, req CreateJobRequest) (*model.Job, error) {
	if strings.TrimSpace(req.Problem) == "" {
		return nil, fmt.Errorf("problem description is required")
	}
	if req.JobType == "" {
		req.JobType = "fix"
	}
	job := &model.Job{
		JobID:          uuid.NewString(),
		JobType:        req.JobType,
		Status:         model.JobStatusPending,
		Problem:        req.Problem,
		CreatedBy:      req.CreatedBy,
		MaxRefinements: req.MaxRefinements,
	}
	if job.MaxRefinements <= 0 {
		job.MaxRefinements = c.opts.MaxRefinements
	}
	if len(req.Variables) > 0 {
		raw, err := sonic.Marshal(req.Variables)
		if err != nil {
			return nil, fmt.Errorf("encode variables: %w", err)
		}
		job.Variables = raw
	}
	err := c.store.CreateJob(ctx, job, &model.Event{
		EventType: model.EventJobCreated,
		EventData: jsonData(map[string]any{"jobType": job.JobType, "createdBy": job.CreatedBy}),
	})
	if err != nil {
		return nil, err
	}
	log.Infow("job created", "job", job.JobID, "type", job.JobType)
	return job, nil
}

// Run drives one job to a terminal state. It returns an error when the
// job could not reach completed, including the persisted failure reason.
func (c *Controller) Run(ctx context.Context, jobID string) error {
	job, err := c.store.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	if model.JobTerminal(job.Status) {
		return fmt.Errorf("%w: job %s is %s", ErrJobNotRunnable, jobID, job.Status)
	}

	runCtx, cancelRun := context.WithTimeout(ctx, c.opts.JobTimeout)
	defer cancelRun()
	// Cancellation is a separate signal from the run context so an
	// in-flight attempt finishes or times out instead of being killed.
	stopCtx, requestStop := context.WithCancel(context.Background())
	defer requestStop()
	if _, loaded := c.cancels.LoadOrStore(jobID, requestStop); loaded {
		return fmt.Errorf("%w: job %s is already being driven", ErrJobNotRunnable, jobID)
	}
	defer c.cancels.Delete(jobID)

	if err := c.resetOrphanRunning(runCtx, job); err != nil {
		return err
	}
	if err := c.startJob(runCtx, job); err != nil {
		return err
	}
	if err := c.ensurePlan(runCtx, job); err != nil {
		return c.failJob(context.WithoutCancel(ctx), job, fmt.Sprintf("planning failed: %v", err))
	}
	return c.loop(runCtx, stopCtx, job)
}

// Cancel stops a job and reverts its work branch. A job driven by this
// process stops once in-flight attempts finish; an idle job is moved to
// cancelled directly.
func (c *Controller) Cancel(ctx context.Context, jobID string) error {
	if v, ok := c.cancels.Load(jobID); ok {
		v.(context.CancelFunc)()
		return nil
	}
	job, err := c.store.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	if model.JobTerminal(job.Status) {
		return fmt.Errorf("%w: job %s is already %s", store.ErrIllegalTransition, jobID, job.Status)
	}
	if c.opts.UseGit {
		if err := c.git.Revert(ctx, job.JobID); err != nil {
			log.Warnw("revert workspace", "job", job.JobID, "err", err)
		}
	}
	return c.finishJob(ctx, job, model.JobStatusCancelled, "cancelled by caller")
}

// resetOrphanRunning returns steps left in running by a crashed process
// to pending so they are re-executed. The loop never leaves a step in
// running between waves.
func (c *Controller) resetOrphanRunning(ctx context.Context, job *model.Job) error {
	steps, err := c.store.ListStepsOrdered(ctx, job.JobID)
	if err != nil {
		return err
	}
	for _, one := range activeSteps(steps) {
		if one.Status != model.StepStatusRunning {
			continue
		}
		log.Warnw("resetting orphaned running step", "job", job.JobID, "step", one.StepID)
		err := c.store.UpdateStepStatus(ctx, job.JobID, one.StepID, model.StepStatusPending,
			map[string]any{"started_at": nil}, nil)
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) startJob(ctx context.Context, job *model.Job) error {
	updates := map[string]any{}
	if job.StartedAt == nil {
		now := time.Now()
		updates["started_at"] = now
		job.StartedAt = &now
	}
	if c.opts.UseGit && job.Branch == "" {
		branch, err := c.git.CreateBranch(ctx, job.JobID)
		if err != nil {
			return fmt.Errorf("create work branch: %w", err)
		}
		if branch != "" {
			updates["branch"] = branch
			job.Branch = branch
		}
	}
	err := c.store.UpdateJobStatus(ctx, job.JobID, model.JobStatusRunning, updates,
		&model.Event{EventType: model.EventJobStarted})
	if err != nil {
		return err
	}
	job.Status = model.JobStatusRunning
	c.metrics.JobsStarted.Inc()
	c.publish(JobStarted{JobID: job.JobID})
	return c.checkpoint(ctx, job, model.CheckpointTypeJobStart, "")
}

// ensurePlan asks the proposer for an initial plan when the job has no
// active steps yet. Resumed jobs keep their persisted plan.
func (c *Controller) ensurePlan(ctx context.Context, job *model.Job) error {
	steps, err := c.store.ListStepsOrdered(ctx, job.JobID)
	if err != nil {
		return err
	}
	if len(activeSteps(steps)) > 0 {
		return nil
	}
	proposed, err := c.proposeValidated(ctx, job, nil)
	if err != nil {
		return err
	}
	return c.acceptPlan(ctx, job, proposed, nextOrderIndex(steps), model.EventPlanProposed)
}

// proposeValidated validates the proposer's plan and grants exactly one
// re-proposal when the first plan is rejected.
func (c *Controller) proposeValidated(ctx context.Context, job *model.Job, failure *planner.FailureContext) ([]planner.ProposedStep, error) {
	req := planner.ProposalRequest{Problem: job.Problem, JobType: job.JobType, Failure: failure}
	var lastErr error
	for attempt := 1; attempt <= 2; attempt++ {
		proposed, err := c.proposer.Propose(ctx, req)
		if err != nil {
			return nil, err
		}
		if err := planner.ValidatePlan(proposed); err != nil {
			lastErr = err
			log.Warnw("rejected invalid plan", "job", job.JobID, "attempt", attempt, "err", err)
			appendErr := c.store.AppendEvent(ctx, &model.Event{
				JobID:     job.JobID,
				EventType: model.EventPlanRejected,
				EventData: jsonData(map[string]any{"reason": err.Error(), "attempt": attempt}),
			})
			if appendErr != nil {
				return nil, appendErr
			}
			continue
		}
		return proposed, nil
	}
	return nil, lastErr
}

// acceptPlan resolves name dependencies to step ids and persists the
// steps with their plan event.
func (c *Controller) acceptPlan(ctx context.Context, job *model.Job, proposed []planner.ProposedStep, orderBase int, eventType string) error {
	idByName := make(map[string]string, len(proposed))
	for _, one := range proposed {
		idByName[one.Name] = uuid.NewString()
	}
	steps := make([]*model.JobStep, 0, len(proposed))
	for i, one := range proposed {
		step := &model.JobStep{
			StepID:           idByName[one.Name],
			JobID:            job.JobID,
			StepName:         one.Name,
			StepType:         one.Type,
			Status:           model.StepStatusPending,
			OrderIndex:       orderBase + i,
			Command:          one.Command,
			WorkingDirectory: one.WorkingDirectory,
			TimeoutSeconds:   one.TimeoutSeconds,
			MaxRetries:       one.MaxRetries,
		}
		if step.StepType == "" {
			step.StepType = model.StepTypeCommand
		}
		if len(one.Environment) > 0 {
			raw, err := sonic.Marshal(one.Environment)
			if err != nil {
				return fmt.Errorf("encode step environment: %w", err)
			}
			step.Environment = raw
		}
		deps := make([]string, 0, len(one.DependsOn))
		for _, name := range one.DependsOn {
			deps = append(deps, idByName[name])
		}
		step.SetDependencyIDs(deps)
		steps = append(steps, step)
	}
	err := c.store.AppendSteps(ctx, job.JobID, steps, &model.Event{
		EventType: eventType,
		EventData: jsonData(map[string]any{"steps": len(steps)}),
	})
	if err != nil {
		return err
	}
	log.Infow("plan accepted", "job", job.JobID, "steps", len(steps), "event", eventType)
	return nil
}

// loop runs waves of eligible steps until the plan completes, fails
// past its budgets, is cancelled or hits the wall-clock ceiling.
func (c *Controller) loop(ctx, stop context.Context, job *model.Job) error {
	persist := context.WithoutCancel(ctx)
	for {
		if err := ctx.Err(); err != nil {
			return c.interrupt(persist, job, err)
		}
		if stop.Err() != nil {
			return c.interrupt(persist, job, context.Canceled)
		}
		steps, err := c.store.ListStepsOrdered(ctx, job.JobID)
		if err != nil {
			return err
		}
		progress := progressOf(steps)
		if progress.done() {
			return c.completeJob(persist, job)
		}
		if failed := firstFailed(steps); failed != nil {
			refined, err := c.refine(ctx, job, failed)
			if err != nil {
				if ctx.Err() != nil {
					return c.interrupt(persist, job, ctx.Err())
				}
				return c.failJob(persist, job, err.Error())
			}
			if !refined {
				return c.failJob(persist, job, fmt.Sprintf(
					"step %q failed after %d attempts, refinement budget exhausted",
					failed.StepName, failed.RetryCount+1))
			}
			continue
		}
		eligible := eligibleSteps(steps)
		if len(eligible) == 0 {
			return c.failJob(persist, job, "no runnable steps remain")
		}

		g, waveCtx := errgroup.WithContext(ctx)
		g.SetLimit(c.opts.StepConcurrency)
		for _, one := range eligible {
			one := one
			g.Go(func() error {
				return c.runStep(waveCtx, stop, job, one)
			})
		}
		if err := g.Wait(); err != nil {
			if ctx.Err() != nil {
				return c.interrupt(persist, job, ctx.Err())
			}
			return err
		}
	}
}

// runStep drives one step through its attempt loop. A failed verdict is
// persisted and handled by the caller; the error return is reserved for
// persistence problems and cancellation.
func (c *Controller) runStep(ctx, stop context.Context, job *model.Job, step *model.JobStep) error {
	// A cancel request keeps queued steps pending; the loop converts it
	// into the terminal transition after the wave drains.
	if stop.Err() != nil {
		return nil
	}
	// Cross-job bound: the step stays pending until a slot is free.
	if c.globalSlots != nil {
		select {
		case c.globalSlots <- struct{}{}:
			defer func() { <-c.globalSlots }()
		case <-stop.Done():
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	now := time.Now()
	err := c.store.UpdateStepStatus(ctx, job.JobID, step.StepID, model.StepStatusRunning,
		map[string]any{"started_at": now},
		&model.Event{EventType: model.EventStepStarted,
			EventData: jsonData(map[string]any{"name": step.StepName, "type": step.StepType})})
	if err != nil {
		return err
	}
	step.Status = model.StepStatusRunning
	if err := c.checkpoint(ctx, job, model.CheckpointTypeStepStart, step.StepID); err != nil {
		return err
	}

	maxRetries := step.MaxRetries
	if maxRetries <= 0 {
		maxRetries = model.DefaultMaxRetries
	}
	retries := step.RetryCount
	infraRetries := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if stop.Err() != nil {
			// Cancelled between attempts; hand the step back as pending.
			return c.store.UpdateStepStatus(ctx, job.JobID, step.StepID, model.StepStatusPending,
				map[string]any{"started_at": nil}, nil)
		}
		result, err := c.exec.Execute(ctx, &executor.ExecutionRequest{
			Job:       job,
			Step:      step,
			Workspace: c.opts.Workspace,
			Attempt:   retries + 1,
		})
		if err != nil {
			result = &executor.StepResult{Outcome: executor.OutcomeInfraError, ExitCode: -1, Reason: err.Error()}
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		switch result.Outcome {
		case executor.OutcomeSuccess:
			return c.completeStep(ctx, job, step, result, retries)

		case executor.OutcomeInfraError:
			// Sandbox breakage is not the plan's fault; re-run without
			// consuming the step retry budget.
			infraRetries++
			if infraRetries <= c.opts.InfraRetryLimit {
				c.metrics.InfraRetries.Inc()
				log.Warnw("sandbox error, re-running step",
					"job", job.JobID, "step", step.StepID, "infraAttempt", infraRetries, "reason", result.Reason)
				continue
			}
			return c.failStep(ctx, job, step, result, retries)

		default:
			c.recordAttempt(ctx, job, step, result)
			// Re-run only while budget remains; the persisted retry count
			// never exceeds max_retries.
			if retries < maxRetries {
				retries++
				c.metrics.StepRetries.Inc()
				err := c.store.UpdateStepStatus(ctx, job.JobID, step.StepID, model.StepStatusRunning,
					map[string]any{"retry_count": retries, "error": result.Reason},
					&model.Event{EventType: model.EventStepRetried,
						EventData: jsonData(map[string]any{"retry": retries, "reason": result.Reason})})
				if err != nil {
					return err
				}
				step.RetryCount = retries
				continue
			}
			return c.failStep(ctx, job, step, result, retries)
		}
	}
}

func (c *Controller) completeStep(ctx context.Context, job *model.Job, step *model.JobStep, result *executor.StepResult, retries int) error {
	now := time.Now()
	updates := map[string]any{
		"completed_at": now,
		"duration":     result.Duration.Milliseconds(),
		"retry_count":  retries,
		"error":        "",
		"output": jsonData(map[string]any{
			"stdout":   truncate(result.Stdout, maxStoredOutput),
			"stderr":   truncate(result.Stderr, maxStoredOutput),
			"exitCode": result.ExitCode,
		}),
	}
	err := c.store.UpdateStepStatus(ctx, job.JobID, step.StepID, model.StepStatusCompleted, updates,
		&model.Event{EventType: model.EventStepCompleted,
			EventData: jsonData(map[string]any{"durationMs": result.Duration.Milliseconds(), "retries": retries})})
	if err != nil {
		return err
	}
	step.Status = model.StepStatusCompleted
	step.RetryCount = retries
	c.metrics.StepsCompleted.WithLabelValues(model.StepStatusCompleted).Inc()
	c.metrics.StepDuration.Observe(result.Duration.Seconds())
	c.publish(StepFinished{JobID: job.JobID, StepID: step.StepID, Status: model.StepStatusCompleted})

	for _, one := range result.Artifacts {
		expires := time.Now().Add(c.opts.ArtifactTTL)
		err := c.store.RecordArtifact(ctx, &model.Artifact{
			JobID:        job.JobID,
			StepID:       step.StepID,
			ArtifactPath: one.Path,
			ArtifactType: one.Type,
			SizeBytes:    one.Size,
			Checksum:     one.Checksum,
			ExpiresAt:    &expires,
		})
		if err != nil {
			log.Warnw("record artifact", "job", job.JobID, "step", step.StepID, "path", one.Path, "err", err)
		}
	}
	return c.checkpoint(ctx, job, model.CheckpointTypeStepComplete, step.StepID)
}

func (c *Controller) failStep(ctx context.Context, job *model.Job, step *model.JobStep, result *executor.StepResult, retries int) error {
	now := time.Now()
	updates := map[string]any{
		"completed_at": now,
		"retry_count":  retries,
		"error":        result.Reason,
		"output": jsonData(map[string]any{
			"stdout":   truncate(result.Stdout, maxStoredOutput),
			"stderr":   truncate(result.Stderr, maxStoredOutput),
			"exitCode": result.ExitCode,
		}),
	}
	if result.Duration > 0 {
		updates["duration"] = result.Duration.Milliseconds()
	}
	err := c.store.UpdateStepStatus(ctx, job.JobID, step.StepID, model.StepStatusFailed, updates,
		&model.Event{EventType: model.EventStepFailed,
			EventData: jsonData(map[string]any{"reason": result.Reason, "exitCode": result.ExitCode, "retries": retries})})
	if err != nil {
		return err
	}
	step.Status = model.StepStatusFailed
	step.RetryCount = retries
	step.Error = result.Reason
	c.metrics.StepsCompleted.WithLabelValues(model.StepStatusFailed).Inc()
	if result.Duration > 0 {
		c.metrics.StepDuration.Observe(result.Duration.Seconds())
	}
	c.publish(StepFinished{JobID: job.JobID, StepID: step.StepID, Status: model.StepStatusFailed})
	log.Errorw("step failed", "job", job.JobID, "step", step.StepID, "name", step.StepName,
		"attempts", retries+1, "reason", result.Reason)
	return c.checkpoint(ctx, job, model.CheckpointTypeStepComplete, step.StepID)
}

// recordAttempt stores the failed approach in bug memory. Memory is
// advisory, so errors only warn.
func (c *Controller) recordAttempt(ctx context.Context, job *model.Job, step *model.JobStep, result *executor.StepResult) {
	signature := bugmemory.Signature(job.JobType, step.Command, result.Reason)
	err := c.memory.Record(ctx, signature, bugmemory.PriorAttempt{
		Command:  step.Command,
		StepType: step.StepType,
		Outcome:  "failed",
		Reason:   result.Reason,
		At:       time.Now(),
	})
	if err != nil {
		log.Warnw("record bug memory", "job", job.JobID, "step", step.StepID, "err", err)
	}
}

// refine asks the proposer for a replacement plan after a step exhausted
// its retry budget. Returns false when the refinement budget is spent.
func (c *Controller) refine(ctx context.Context, job *model.Job, failed *model.JobStep) (bool, error) {
	maxRefinements := job.MaxRefinements
	if maxRefinements <= 0 {
		maxRefinements = c.opts.MaxRefinements
	}
	if job.RefineCount >= maxRefinements {
		return false, nil
	}

	signature := bugmemory.Signature(job.JobType, failed.Command, failed.Error)
	history, err := c.memory.Lookup(ctx, signature)
	if err != nil {
		log.Warnw("bug memory lookup", "job", job.JobID, "err", err)
		history = nil
	}
	proposed, err := c.proposeValidated(ctx, job, &planner.FailureContext{
		StepName: failed.StepName,
		StepType: failed.StepType,
		Command:  failed.Command,
		Reason:   failed.Error,
		History:  history,
	})
	if err != nil {
		return false, fmt.Errorf("plan refinement: %w", err)
	}

	steps, err := c.store.ListStepsOrdered(ctx, job.JobID)
	if err != nil {
		return false, err
	}
	// Completed work is kept; everything else is replaced by the
	// refined plan and stays in history as superseded.
	for _, one := range activeSteps(steps) {
		if one.Status == model.StepStatusCompleted {
			continue
		}
		err := c.store.UpdateStepStatus(ctx, job.JobID, one.StepID, one.Status,
			map[string]any{"superseded": 1}, nil)
		if err != nil {
			return false, err
		}
	}
	if err := c.acceptPlan(ctx, job, proposed, nextOrderIndex(steps), model.EventPlanRefined); err != nil {
		return false, err
	}

	job.RefineCount++
	err = c.store.UpdateJobStatus(ctx, job.JobID, model.JobStatusRunning,
		map[string]any{"refine_count": job.RefineCount}, nil)
	if err != nil {
		return false, err
	}
	c.metrics.Refinements.Inc()
	log.Infow("plan refined", "job", job.JobID, "round", job.RefineCount, "failedStep", failed.StepName)
	return true, c.checkpoint(ctx, job, model.CheckpointTypeManual, "")
}

func (c *Controller) completeJob(ctx context.Context, job *model.Job) error {
	if c.opts.UseGit {
		message := fmt.Sprintf("agentdev: %s", truncate(job.Problem, 72))
		if err := c.git.Commit(ctx, job.JobID, message); err != nil {
			log.Warnw("commit work branch", "job", job.JobID, "err", err)
		}
	}
	if err := c.finishJob(ctx, job, model.JobStatusCompleted, "all steps completed"); err != nil {
		return err
	}
	c.metrics.JobsCompleted.Inc()
	log.Infow("job completed", "job", job.JobID, "duration", job.Duration)
	return nil
}

func (c *Controller) failJob(ctx context.Context, job *model.Job, reason string) error {
	if c.opts.UseGit {
		if err := c.git.Revert(ctx, job.JobID); err != nil {
			log.Warnw("revert workspace", "job", job.JobID, "err", err)
		}
	}
	if err := c.finishJob(ctx, job, model.JobStatusFailed, reason); err != nil {
		return err
	}
	c.metrics.JobsFailed.Inc()
	log.Errorw("job failed", "job", job.JobID, "reason", reason)
	return fmt.Errorf("job %s failed: %s", job.JobID, reason)
}

// interrupt converts a context error into the matching terminal state.
func (c *Controller) interrupt(ctx context.Context, job *model.Job, cause error) error {
	if errors.Is(cause, context.DeadlineExceeded) {
		return c.failJob(ctx, job, fmt.Sprintf("wall-clock ceiling of %s exceeded", c.opts.JobTimeout))
	}
	if c.opts.UseGit {
		if err := c.git.Revert(ctx, job.JobID); err != nil {
			log.Warnw("revert workspace", "job", job.JobID, "err", err)
		}
	}
	if err := c.finishJob(ctx, job, model.JobStatusCancelled, "cancelled"); err != nil {
		return err
	}
	c.metrics.JobsCancelled.Inc()
	log.Infow("job cancelled", "job", job.JobID)
	return cause
}

// finishJob persists the terminal transition, a final checkpoint and a
// job snapshot for rollback analysis.
func (c *Controller) finishJob(ctx context.Context, job *model.Job, status, reason string) error {
	now := time.Now()
	updates := map[string]any{
		"completed_at": now,
		"final_reason": reason,
	}
	if job.StartedAt != nil {
		job.Duration = now.Sub(*job.StartedAt).Milliseconds()
		updates["duration"] = job.Duration
	}
	eventType := model.EventJobSucceeded
	switch status {
	case model.JobStatusFailed:
		eventType = model.EventJobFailed
	case model.JobStatusCancelled:
		eventType = model.EventJobCancelled
	}
	err := c.store.UpdateJobStatus(ctx, job.JobID, status, updates,
		&model.Event{EventType: eventType, EventData: jsonData(map[string]any{"reason": reason})})
	if err != nil {
		return err
	}
	job.Status = status
	job.CompletedAt = &now
	job.FinalReason = reason
	c.publish(JobFinished{JobID: job.JobID, Status: status, Reason: reason})

	if err := c.checkpoint(ctx, job, model.CheckpointTypeManual, ""); err != nil {
		return err
	}
	raw, err := sonic.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job snapshot: %w", err)
	}
	return c.store.RecordSnapshot(ctx, &model.StateSnapshot{
		EntityType:   model.SnapshotEntityJob,
		EntityID:     job.JobID,
		SnapshotData: raw,
		CreatedBy:    "controller",
	})
}

// checkpoint records the current plan position so the job can resume.
func (c *Controller) checkpoint(ctx context.Context, job *model.Job, kind, stepID string) error {
	steps, err := c.store.ListStepsOrdered(ctx, job.JobID)
	if err != nil {
		return err
	}
	data := model.CheckpointData{JobStatus: job.Status, RefineCount: job.RefineCount}
	for _, one := range activeSteps(steps) {
		switch one.Status {
		case model.StepStatusCompleted:
			data.Completed = append(data.Completed, one.StepID)
		case model.StepStatusFailed:
			data.Failed = append(data.Failed, one.StepID)
		default:
			data.Pending = append(data.Pending, one.StepID)
		}
	}
	raw, err := sonic.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode checkpoint: %w", err)
	}
	expires := time.Now().Add(c.opts.CheckpointTTL)
	return c.store.RecordCheckpoint(ctx, &model.Checkpoint{
		JobID:          job.JobID,
		StepID:         stepID,
		CheckpointType: kind,
		Data:           raw,
		ExpiresAt:      &expires,
	})
}

func (c *Controller) publish(e event.Event) {
	if c.bus != nil {
		c.bus.Publish(e)
	}
}

func nextOrderIndex(steps []*model.JobStep) int {
	next := 0
	for _, one := range steps {
		if one.OrderIndex >= next {
			next = one.OrderIndex + 1
		}
	}
	return next
}

func jsonData(data map[string]any) datatypes.JSON {
	raw, err := sonic.Marshal(data)
	if err != nil {
		return nil
	}
	return raw
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
