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

// In-process bus notifications. The durable audit trail lives in the
// state store; these exist for live observers like the metrics server
// and CLI progress output.

type JobStarted struct {
	JobID string
}

func (JobStarted) EventName() string { return "controller.job_started" }

type JobFinished struct {
	JobID  string
	Status string
	Reason string
}

func (JobFinished) EventName() string { return "controller.job_finished" }

type StepFinished struct {
	JobID  string
	StepID string
	Status string
}

func (StepFinished) EventName() string { return "controller.step_finished" }
