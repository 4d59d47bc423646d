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
	"fmt"
	"strings"
)

// ValidatePlan checks that the proposed steps form a valid DAG: non-empty,
// unique names, known dependencies, no cycles. Violations are reported as
// ErrInvalidPlan.
func ValidatePlan(steps []ProposedStep) error {
	if len(steps) == 0 {
		return fmt.Errorf("%w: proposer returned no steps", ErrInvalidPlan)
	}

	byName := make(map[string]int, len(steps))
	for i, one := range steps {
		name := strings.TrimSpace(one.Name)
		if name == "" {
			return fmt.Errorf("%w: step %d has no name", ErrInvalidPlan, i)
		}
		if strings.TrimSpace(one.Command) == "" {
			return fmt.Errorf("%w: step %q has no command", ErrInvalidPlan, name)
		}
		if _, dup := byName[name]; dup {
			return fmt.Errorf("%w: duplicate step name %q", ErrInvalidPlan, name)
		}
		byName[name] = i
	}

	for _, one := range steps {
		for _, dep := range one.DependsOn {
			if _, ok := byName[dep]; !ok {
				return fmt.Errorf("%w: step %q depends on unknown step %q",
					ErrInvalidPlan, one.Name, dep)
			}
		}
	}

	// Kahn's algorithm: if not every step can be ordered, there is a cycle.
	indegree := make(map[string]int, len(steps))
	dependents := make(map[string][]string, len(steps))
	for _, one := range steps {
		indegree[one.Name] += 0
		for _, dep := range one.DependsOn {
			indegree[one.Name]++
			dependents[dep] = append(dependents[dep], one.Name)
		}
	}
	var queue []string
	for name, deg := range indegree {
		if deg == 0 {
			queue = append(queue, name)
		}
	}
	ordered := 0
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		ordered++
		for _, next := range dependents[name] {
			indegree[next]--
			if indegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}
	if ordered != len(steps) {
		return fmt.Errorf("%w: dependency cycle detected", ErrInvalidPlan)
	}
	return nil
}
