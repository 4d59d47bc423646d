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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// EngineMetrics holds the fix-loop engine instrumentation.
type EngineMetrics struct {
	JobsStarted    prometheus.Counter
	JobsCompleted  prometheus.Counter
	JobsFailed     prometheus.Counter
	JobsCancelled  prometheus.Counter
	StepRetries    prometheus.Counter
	Refinements    prometheus.Counter
	InfraRetries   prometheus.Counter
	StepsCompleted *prometheus.CounterVec
	StepDuration   prometheus.Histogram
}

// NewEngineMetrics creates and registers engine metrics on reg.
func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	m := &EngineMetrics{
		JobsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "agentdev_jobs_started_total",
			Help: "Number of jobs that entered the running state",
		}),
		JobsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "agentdev_jobs_completed_total",
			Help: "Number of jobs that completed successfully",
		}),
		JobsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "agentdev_jobs_failed_total",
			Help: "Number of jobs that failed",
		}),
		JobsCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "agentdev_jobs_cancelled_total",
			Help: "Number of jobs cancelled by the caller",
		}),
		StepRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "agentdev_step_retries_total",
			Help: "Number of step re-runs that consumed retry budget",
		}),
		Refinements: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "agentdev_plan_refinements_total",
			Help: "Number of plan refinement rounds requested from the proposer",
		}),
		InfraRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "agentdev_infra_retries_total",
			Help: "Number of step re-runs after sandbox infrastructure errors",
		}),
		StepsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "agentdev_steps_total",
			Help: "Number of step terminal transitions by status",
		}, []string{"status"}),
		StepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "agentdev_step_duration_seconds",
			Help:    "Wall-clock duration of step executions",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.JobsStarted, m.JobsCompleted, m.JobsFailed, m.JobsCancelled,
			m.StepRetries, m.Refinements, m.InfraRetries,
			m.StepsCompleted, m.StepDuration,
		)
	}
	return m
}
