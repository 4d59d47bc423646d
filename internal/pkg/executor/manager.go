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
	"fmt"
	"sync"

	"github.com/agentrix/agentdev/pkg/event"
	"github.com/agentrix/agentdev/pkg/log"
)

// Manager selects and runs the executor for a step. Executors are
// checked in registration order.
type Manager struct {
	mu        sync.RWMutex
	executors []Executor
	bus       *event.Bus
}

// NewManager creates an empty executor registry.
func NewManager(bus *event.Bus) *Manager {
	return &Manager{bus: bus}
}

// Register appends an executor to the selection order.
func (m *Manager) Register(executor Executor) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.executors = append(m.executors, executor)
}

// Select returns the first registered executor that accepts the request.
func (m *Manager) Select(req *ExecutionRequest) (Executor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, executor := range m.executors {
		if executor.CanExecute(req) {
			return executor, nil
		}
	}
	if req.Step != nil {
		return nil, fmt.Errorf("no executor for step type %q", req.Step.StepType)
	}
	return nil, fmt.Errorf("no executor for empty request")
}

// Execute dispatches one step attempt and publishes an attempt event.
func (m *Manager) Execute(ctx context.Context, req *ExecutionRequest) (*StepResult, error) {
	executor, err := m.Select(req)
	if err != nil {
		return nil, err
	}

	result, err := executor.Execute(ctx, req)
	if err != nil {
		log.Errorw("executor failed before producing a result",
			"executor", executor.Name(), "step", req.Step.StepID, "err", err)
		return nil, err
	}

	if m.bus != nil {
		m.bus.Publish(AttemptFinished{
			JobID:   req.Job.JobID,
			StepID:  req.Step.StepID,
			Attempt: req.Attempt,
			Outcome: result.Outcome,
		})
	}
	log.Debugw("step attempt finished",
		"executor", executor.Name(),
		"step", req.Step.StepID,
		"attempt", req.Attempt,
		"outcome", result.Outcome,
		"exitCode", result.ExitCode,
		"duration", result.Duration)
	return result, nil
}

// AttemptFinished is published on the in-process bus after every attempt.
type AttemptFinished struct {
	JobID   string
	StepID  string
	Attempt int
	Outcome Outcome
}

func (AttemptFinished) EventName() string {
	return "executor.attempt_finished"
}
