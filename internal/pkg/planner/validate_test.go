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
	"testing"
	"time"

	"github.com/agentrix/agentdev/internal/pkg/bugmemory"
)

func TestValidatePlan_OK(t *testing.T) {
	steps := []ProposedStep{
		{Name: "build", Command: "make build"},
		{Name: "test", Command: "make test", DependsOn: []string{"build"}},
		{Name: "lint", Command: "make lint", DependsOn: []string{"build"}},
	}
	if err := ValidatePlan(steps); err != nil {
		t.Fatalf("expected valid plan, got %v", err)
	}
}

func TestValidatePlan_Empty(t *testing.T) {
	if err := ValidatePlan(nil); !errors.Is(err, ErrInvalidPlan) {
		t.Fatalf("expected ErrInvalidPlan, got %v", err)
	}
}

func TestValidatePlan_MissingCommand(t *testing.T) {
	err := ValidatePlan([]ProposedStep{{Name: "noop"}})
	if !errors.Is(err, ErrInvalidPlan) {
		t.Fatalf("expected ErrInvalidPlan, got %v", err)
	}
}

func TestValidatePlan_DuplicateName(t *testing.T) {
	steps := []ProposedStep{
		{Name: "build", Command: "make"},
		{Name: "build", Command: "make again"},
	}
	if err := ValidatePlan(steps); !errors.Is(err, ErrInvalidPlan) {
		t.Fatalf("expected ErrInvalidPlan, got %v", err)
	}
}

func TestValidatePlan_UnknownDependency(t *testing.T) {
	steps := []ProposedStep{
		{Name: "test", Command: "make test", DependsOn: []string{"build"}},
	}
	if err := ValidatePlan(steps); !errors.Is(err, ErrInvalidPlan) {
		t.Fatalf("expected ErrInvalidPlan, got %v", err)
	}
}

func TestValidatePlan_Cycle(t *testing.T) {
	steps := []ProposedStep{
		{Name: "a", Command: "a", DependsOn: []string{"c"}},
		{Name: "b", Command: "b", DependsOn: []string{"a"}},
		{Name: "c", Command: "c", DependsOn: []string{"b"}},
	}
	if err := ValidatePlan(steps); !errors.Is(err, ErrInvalidPlan) {
		t.Fatalf("expected cycle to be rejected, got %v", err)
	}
}

func TestRuleProposer_ServesTemplate(t *testing.T) {
	p := NewRuleProposer([]PlanTemplate{{
		JobType: "fix",
		Steps: []ProposedStep{
			{Name: "patch", Command: "apply-patch"},
			{Name: "verify", Command: "make test", DependsOn: []string{"patch"}},
		},
	}}, nil)

	steps, err := p.Propose(context.Background(), ProposalRequest{Problem: "broken build", JobType: "fix"})
	if err != nil {
		t.Fatalf("propose: %v", err)
	}
	if len(steps) != 2 || steps[0].Name != "patch" {
		t.Fatalf("unexpected plan: %+v", steps)
	}
}

func TestRuleProposer_UnknownJobType(t *testing.T) {
	p := NewRuleProposer(nil, nil)
	if _, err := p.Propose(context.Background(), ProposalRequest{JobType: "mystery"}); err == nil {
		t.Fatalf("expected error for unknown job type")
	}
}

func TestRuleProposer_RefinementDropsFailedApproach(t *testing.T) {
	p := NewRuleProposer([]PlanTemplate{{
		JobType: "fix",
		Steps: []ProposedStep{
			{Name: "quick", Command: "quick-fix"},
			{Name: "deep", Command: "deep-fix"},
		},
	}}, nil)

	steps, err := p.Propose(context.Background(), ProposalRequest{
		JobType: "fix",
		Failure: &FailureContext{
			StepName: "quick",
			Command:  "quick-fix",
			History: []bugmemory.PriorAttempt{
				{Command: "quick-fix", Outcome: "failed", At: time.Now()},
			},
		},
	})
	if err != nil {
		t.Fatalf("propose: %v", err)
	}
	if len(steps) != 1 || steps[0].Command != "deep-fix" {
		t.Fatalf("expected refined plan without quick-fix, got %+v", steps)
	}
}
