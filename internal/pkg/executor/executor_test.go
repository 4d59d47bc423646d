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
	"errors"
	"testing"
	"time"

	"github.com/agentrix/agentdev/internal/engine/model"
	"github.com/agentrix/agentdev/internal/pkg/sandbox"
	"github.com/agentrix/agentdev/internal/pkg/verifier"
	"github.com/agentrix/agentdev/pkg/event"
)

// scriptedRunner returns canned results per command.
type scriptedRunner struct {
	results map[string]*sandbox.ExecResult
	errs    map[string]error
	calls   []string
}

func (r *scriptedRunner) Execute(ctx context.Context, req sandbox.ExecRequest) (*sandbox.ExecResult, error) {
	r.calls = append(r.calls, req.Command)
	if err, ok := r.errs[req.Command]; ok {
		return nil, err
	}
	if result, ok := r.results[req.Command]; ok {
		return result, nil
	}
	return &sandbox.ExecResult{ExitCode: 0}, nil
}

func commandStep(command string) *model.JobStep {
	return &model.JobStep{
		StepID:   "step-1",
		JobID:    "job-1",
		StepName: "step",
		StepType: model.StepTypeCommand,
		Command:  command,
	}
}

func newRequest(step *model.JobStep) *ExecutionRequest {
	return &ExecutionRequest{
		Job:     &model.Job{JobID: "job-1", JobType: "fix"},
		Step:    step,
		Attempt: 1,
	}
}

func TestCommandExecutor_Success(t *testing.T) {
	runner := &scriptedRunner{results: map[string]*sandbox.ExecResult{
		"make build": {ExitCode: 0, Stdout: "done", Duration: 200 * time.Millisecond},
	}}
	e := NewCommandExecutor(runner, verifier.New())

	result, err := e.Execute(context.Background(), newRequest(commandStep("make build")))
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if result.Outcome != OutcomeSuccess {
		t.Fatalf("expected success, got %s (%s)", result.Outcome, result.Reason)
	}
}

func TestCommandExecutor_FailedVerdict(t *testing.T) {
	runner := &scriptedRunner{results: map[string]*sandbox.ExecResult{
		"make build": {ExitCode: 1, Stderr: "compile error"},
	}}
	e := NewCommandExecutor(runner, verifier.New())

	result, err := e.Execute(context.Background(), newRequest(commandStep("make build")))
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if result.Outcome != OutcomeFailed {
		t.Fatalf("expected failed, got %s", result.Outcome)
	}
}

func TestCommandExecutor_Timeout(t *testing.T) {
	runner := &scriptedRunner{results: map[string]*sandbox.ExecResult{
		"slow": {ExitCode: -1, TimedOut: true},
	}}
	e := NewCommandExecutor(runner, verifier.New())

	result, err := e.Execute(context.Background(), newRequest(commandStep("slow")))
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if result.Outcome != OutcomeTimeout {
		t.Fatalf("expected timeout, got %s", result.Outcome)
	}
}

func TestCommandExecutor_InfraError(t *testing.T) {
	runner := &scriptedRunner{errs: map[string]error{
		"make build": errors.New("sandbox unavailable"),
	}}
	e := NewCommandExecutor(runner, verifier.New())

	result, err := e.Execute(context.Background(), newRequest(commandStep("make build")))
	if err != nil {
		t.Fatalf("infra errors are classified, not returned: %v", err)
	}
	if result.Outcome != OutcomeInfraError {
		t.Fatalf("expected infra error, got %s", result.Outcome)
	}
}

func TestManager_SelectsByStepType(t *testing.T) {
	runner := &scriptedRunner{}
	v := verifier.New()
	m := NewManager(event.NewEventBus())
	m.Register(NewCommandExecutor(runner, v))
	m.Register(NewTestExecutor(runner, v))

	cmdExec, err := m.Select(newRequest(commandStep("x")))
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if cmdExec.Name() != "command" {
		t.Fatalf("expected command executor, got %s", cmdExec.Name())
	}

	testStep := commandStep("go test ./...")
	testStep.StepType = model.StepTypeTest
	testExec, err := m.Select(newRequest(testStep))
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if testExec.Name() != "test" {
		t.Fatalf("expected test executor, got %s", testExec.Name())
	}
}

func TestManager_NoExecutor(t *testing.T) {
	m := NewManager(nil)
	step := commandStep("x")
	step.StepType = "unknown"
	if _, err := m.Select(newRequest(step)); err == nil {
		t.Fatalf("expected selection error")
	}
}

func TestManager_PublishesAttemptEvent(t *testing.T) {
	runner := &scriptedRunner{}
	bus := event.NewEventBus()
	var seen []AttemptFinished
	bus.RegisterHandler(AttemptFinished{}.EventName(), event.HandlerFunc(func(e event.Event) {
		seen = append(seen, e.(AttemptFinished))
	}))

	m := NewManager(bus)
	m.Register(NewCommandExecutor(runner, verifier.New()))
	if _, err := m.Execute(context.Background(), newRequest(commandStep("ok"))); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(seen) != 1 || seen[0].Outcome != OutcomeSuccess {
		t.Fatalf("expected one success attempt event, got %+v", seen)
	}
}
