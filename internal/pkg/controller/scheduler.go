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
	"github.com/agentrix/agentdev/internal/engine/model"
)

// activeSteps filters out rows superseded by a refined plan.
func activeSteps(steps []*model.JobStep) []*model.JobStep {
	var active []*model.JobStep
	for _, one := range steps {
		if one.Superseded == 0 {
			active = append(active, one)
		}
	}
	return active
}

// eligibleSteps returns active pending steps whose dependencies have all
// completed. Order follows the persisted order_index.
func eligibleSteps(steps []*model.JobStep) []*model.JobStep {
	completed := make(map[string]bool, len(steps))
	for _, one := range steps {
		if one.Superseded == 0 && one.Status == model.StepStatusCompleted {
			completed[one.StepID] = true
		}
	}
	var eligible []*model.JobStep
	for _, one := range steps {
		if one.Superseded != 0 || one.Status != model.StepStatusPending {
			continue
		}
		ready := true
		for _, dep := range one.DependencyIDs() {
			if !completed[dep] {
				ready = false
				break
			}
		}
		if ready {
			eligible = append(eligible, one)
		}
	}
	return eligible
}

// planProgress summarizes the active plan for loop decisions.
type planProgress struct {
	total     int
	pending   int
	running   int
	completed int
	failed    int
}

func progressOf(steps []*model.JobStep) planProgress {
	var p planProgress
	for _, one := range steps {
		if one.Superseded != 0 {
			continue
		}
		p.total++
		switch one.Status {
		case model.StepStatusPending:
			p.pending++
		case model.StepStatusRunning:
			p.running++
		case model.StepStatusCompleted:
			p.completed++
		case model.StepStatusFailed:
			p.failed++
		}
	}
	return p
}

func (p planProgress) done() bool {
	return p.total > 0 && p.completed == p.total
}

// firstFailed returns the lowest-order failed active step, if any.
func firstFailed(steps []*model.JobStep) *model.JobStep {
	for _, one := range steps {
		if one.Superseded == 0 && one.Status == model.StepStatusFailed {
			return one
		}
	}
	return nil
}
