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

package executor

import (
	"context"

	"github.com/agentrix/agentdev/internal/engine/model"
	"github.com/agentrix/agentdev/internal/pkg/sandbox"
	"github.com/agentrix/agentdev/internal/pkg/verifier"
)

// TestExecutor runs verification test steps. Execution matches the
// command path; the verifier additionally scans test-runner output, so
// a zero exit with failing tests still fails the step.
type TestExecutor struct {
	command *CommandExecutor
}

// NewTestExecutor wires a sandbox runner to the default verifier.
func NewTestExecutor(runner sandbox.Runner, v verifier.Verifier) *TestExecutor {
	return &TestExecutor{command: NewCommandExecutor(runner, v)}
}

func (e *TestExecutor) Name() string {
	return "test"
}

func (e *TestExecutor) CanExecute(req *ExecutionRequest) bool {
	if req == nil || req.Step == nil {
		return false
	}
	return req.Step.StepType == model.StepTypeTest
}

func (e *TestExecutor) Execute(ctx context.Context, req *ExecutionRequest) (*StepResult, error) {
	return e.command.Execute(ctx, req)
}
