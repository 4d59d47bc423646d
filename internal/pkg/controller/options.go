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

import "time"

const (
	defaultStepConcurrency = 2
	defaultMaxRefinements  = 2
	defaultInfraRetryLimit = 3
	defaultJobTimeout      = 30 * time.Minute
	defaultCheckpointTTL   = 7 * 24 * time.Hour
	defaultArtifactTTL     = 30 * 24 * time.Hour
)

// Options tune the fix loop. Zero values take engine defaults.
type Options struct {
	// StepConcurrency bounds how many steps of one job run at once.
	StepConcurrency int
	// GlobalConcurrency bounds step execution across all jobs driven by
	// this process. Zero means unlimited.
	GlobalConcurrency int
	// MaxRefinements bounds plan refinement rounds per job.
	MaxRefinements int
	// InfraRetryLimit bounds re-runs after sandbox infrastructure
	// errors. Infra re-runs do not consume the step retry budget.
	InfraRetryLimit int
	// JobTimeout is the wall-clock ceiling for one job run.
	JobTimeout time.Duration
	// Workspace is the default working directory for step commands.
	Workspace string
	// UseGit enables branch/commit/revert around the job lifecycle.
	UseGit        bool
	CheckpointTTL time.Duration
	ArtifactTTL   time.Duration
}

// Normalize fills unset options with engine defaults.
func (o Options) Normalize() Options {
	if o.StepConcurrency <= 0 {
		o.StepConcurrency = defaultStepConcurrency
	}
	if o.GlobalConcurrency < 0 {
		o.GlobalConcurrency = 0
	}
	if o.MaxRefinements == 0 {
		o.MaxRefinements = defaultMaxRefinements
	}
	if o.MaxRefinements < 0 {
		o.MaxRefinements = 0 // negative disables refinement
	}
	if o.InfraRetryLimit <= 0 {
		o.InfraRetryLimit = defaultInfraRetryLimit
	}
	if o.JobTimeout <= 0 {
		o.JobTimeout = defaultJobTimeout
	}
	if o.CheckpointTTL <= 0 {
		o.CheckpointTTL = defaultCheckpointTTL
	}
	if o.ArtifactTTL <= 0 {
		o.ArtifactTTL = defaultArtifactTTL
	}
	return o
}
