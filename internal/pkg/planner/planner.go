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

package planner

import (
	"context"
	"errors"

	"github.com/agentrix/agentdev/internal/pkg/bugmemory"
)

// ErrInvalidPlan is returned when a proposed plan is malformed (cycle,
// duplicate names, unknown dependency). The controller grants one
// re-proposal before failing the job.
var ErrInvalidPlan = errors.New("invalid plan")

// ProposedStep is one step of a candidate plan. Dependencies reference
// other proposed steps by name; the controller resolves them to step ids
// when the plan is accepted.
type ProposedStep struct {
	Name             string            `json:"name"`
	Type             string            `json:"type"`
	Command          string            `json:"command"`
	WorkingDirectory string            `json:"workingDirectory,omitempty"`
	Environment      map[string]string `json:"environment,omitempty"`
	DependsOn        []string          `json:"dependsOn,omitempty"`
	TimeoutSeconds   int               `json:"timeoutSeconds,omitempty"`
	MaxRetries       int               `json:"maxRetries,omitempty"`
}

// FailureContext is handed to the proposer when a plan is being refined
// after a step exhausted its retry budget.
type FailureContext struct {
	StepName string
	StepType string
	Command  string
	Reason   string
	// History holds prior attempts recorded for the same failure
	// signature, so the proposer can avoid repeating known-bad fixes.
	History []bugmemory.PriorAttempt
}

// ProposalRequest carries everything a proposer may consider.
type ProposalRequest struct {
	Problem string
	JobType string
	Failure *FailureContext
}

// Proposer returns an ordered list of candidate steps for a problem.
// Implementations may be rule-based or model-based; the engine treats
// them as an effectful black box and validates every returned plan.
type Proposer interface {
	Propose(ctx context.Context, req ProposalRequest) ([]ProposedStep, error)
}
