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

// Package executor runs job steps inside the sandbox and reports a
// classified outcome per attempt.
package executor

import (
	"context"
	"time"

	"github.com/agentrix/agentdev/internal/engine/model"
	"github.com/agentrix/agentdev/internal/pkg/sandbox"
)

// Outcome classifies a single execution attempt.
type Outcome string

const (
	// OutcomeSuccess means the command ran, exited zero and passed
	// verification.
	OutcomeSuccess Outcome = "success"
	// OutcomeFailed means the command ran to a verdict and the verdict
	// was failure. Counts against the step retry budget.
	OutcomeFailed Outcome = "failed"
	// OutcomeTimeout means the step exceeded its timeout. Counts
	// against the retry budget like a failure.
	OutcomeTimeout Outcome = "timeout"
	// OutcomeInfraError means the sandbox itself broke before a verdict
	// was possible. Retried without consuming the step budget.
	OutcomeInfraError Outcome = "infra_error"
)

// ExecutionRequest carries one step attempt into an executor.
type ExecutionRequest struct {
	Job       *model.Job
	Step      *model.JobStep
	Workspace string
	Attempt   int
}

// StepResult is the classified result of one execution attempt.
type StepResult struct {
	Outcome   Outcome
	ExitCode  int
	Stdout    string
	Stderr    string
	Reason    string
	Duration  time.Duration
	Artifacts []CollectedArtifact
	// Raw keeps the sandbox result for verification and event payloads.
	Raw *sandbox.ExecResult
}

// CollectedArtifact is a file produced by a step, recorded by reference.
type CollectedArtifact struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	Checksum string `json:"checksum"`
}

// Executor runs a step attempt. An error return is reserved for infra
// failures where no StepResult could be produced.
type Executor interface {
	Name() string
	CanExecute(req *ExecutionRequest) bool
	Execute(ctx context.Context, req *ExecutionRequest) (*StepResult, error)
}
