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
	"fmt"
	"strings"

	"github.com/agentrix/agentdev/pkg/log"
)

// PlanTemplate is a configured plan for one job type.
type PlanTemplate struct {
	JobType string         `mapstructure:"jobType"`
	Steps   []ProposedStep `mapstructure:"steps"`
}

// RuleProposer is the fast-path proposer: it serves configured plan
// templates keyed by job type. A model-based proposer can be layered
// behind it for job types it does not know.
type RuleProposer struct {
	templates map[string]PlanTemplate
	fallback  Proposer
}

// NewRuleProposer builds a proposer from configured templates. fallback
// may be nil; unknown job types then fail the proposal.
func NewRuleProposer(templates []PlanTemplate, fallback Proposer) *RuleProposer {
	byType := make(map[string]PlanTemplate, len(templates))
	for _, one := range templates {
		byType[one.JobType] = one
	}
	return &RuleProposer{templates: byType, fallback: fallback}
}

func (p *RuleProposer) Propose(ctx context.Context, req ProposalRequest) ([]ProposedStep, error) {
	template, ok := p.templates[req.JobType]
	if !ok {
		if p.fallback != nil {
			return p.fallback.Propose(ctx, req)
		}
		return nil, fmt.Errorf("no plan template for job type %q", req.JobType)
	}

	steps := make([]ProposedStep, len(template.Steps))
	copy(steps, template.Steps)

	if req.Failure == nil {
		return steps, nil
	}

	// Refinement: drop approaches already recorded as failed for this
	// signature, keeping the rest of the template in order.
	tried := make(map[string]bool, len(req.Failure.History))
	for _, attempt := range req.Failure.History {
		if attempt.Outcome == "failed" {
			tried[strings.TrimSpace(attempt.Command)] = true
		}
	}
	refined := steps[:0]
	dropped := map[string]bool{}
	for _, one := range steps {
		if tried[strings.TrimSpace(one.Command)] {
			dropped[one.Name] = true
			continue
		}
		refined = append(refined, one)
	}
	if len(dropped) > 0 {
		log.Infow("rule proposer dropped known-bad steps",
			"jobType", req.JobType, "dropped", len(dropped))
		for i := range refined {
			refined[i].DependsOn = pruneDeps(refined[i].DependsOn, dropped)
		}
	}
	if len(refined) == 0 {
		if p.fallback != nil {
			return p.fallback.Propose(ctx, req)
		}
		return nil, fmt.Errorf("all template steps for %q already failed", req.JobType)
	}
	return refined, nil
}

func pruneDeps(deps []string, dropped map[string]bool) []string {
	var kept []string
	for _, dep := range deps {
		if !dropped[dep] {
			kept = append(kept, dep)
		}
	}
	return kept
}
