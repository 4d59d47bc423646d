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

package model

import (
	"time"

	"github.com/bytedance/sonic"
	"gorm.io/datatypes"
)

// JobStep is one unit of planned work within a job.
//
// Dependencies holds the step_ids that must reach completed before this
// step may start. A step is never deleted; when a refined plan replaces
// it, Superseded is set and the row stays in history.
type JobStep struct {
	BaseModel
	StepID           string         `gorm:"column:step_id;type:VARCHAR(64);uniqueIndex" json:"stepId"`
	JobID            string         `gorm:"column:job_id;type:VARCHAR(64);index" json:"jobId"`
	StepName         string         `gorm:"column:step_name;type:VARCHAR(255)" json:"stepName"`
	StepType         string         `gorm:"column:step_type;type:VARCHAR(64)" json:"stepType"`
	Status           string         `gorm:"column:status;type:VARCHAR(32);index" json:"status"`
	OrderIndex       int            `gorm:"column:order_index" json:"orderIndex"`
	StartedAt        *time.Time     `gorm:"column:started_at" json:"startedAt,omitempty"`
	CompletedAt      *time.Time     `gorm:"column:completed_at" json:"completedAt,omitempty"`
	Duration         int64          `gorm:"column:duration" json:"duration"` // milliseconds
	Command          string         `gorm:"column:command;type:TEXT" json:"command"`
	WorkingDirectory string         `gorm:"column:working_directory;type:VARCHAR(255)" json:"workingDirectory,omitempty"`
	Environment      datatypes.JSON `gorm:"column:environment;type:JSON" json:"environment,omitempty"`
	Output           datatypes.JSON `gorm:"column:output;type:JSON" json:"output,omitempty"`
	Error            string         `gorm:"column:error;type:TEXT" json:"error,omitempty"`
	RetryCount       int            `gorm:"column:retry_count" json:"retryCount"`
	MaxRetries       int            `gorm:"column:max_retries" json:"maxRetries"`
	TimeoutSeconds   int            `gorm:"column:timeout_seconds" json:"timeoutSeconds"`
	Dependencies     datatypes.JSON `gorm:"column:dependencies;type:JSON" json:"dependencies,omitempty"`
	Artifacts        datatypes.JSON `gorm:"column:artifacts;type:JSON" json:"artifacts,omitempty"`
	Superseded       int            `gorm:"column:superseded" json:"superseded"` // 0: active, 1: replaced by refinement
	Metadata         datatypes.JSON `gorm:"column:metadata;type:JSON" json:"metadata,omitempty"`
}

func (JobStep) TableName() string {
	return "t_job_step"
}

const (
	StepStatusPending   = "pending"
	StepStatusRunning   = "running"
	StepStatusCompleted = "completed"
	StepStatusFailed    = "failed"
)

const (
	StepTypeCommand = "command"
	StepTypeTest    = "test"
)

const (
	DefaultMaxRetries     = 3
	DefaultTimeoutSeconds = 300
)

// StepTerminal reports whether status is a terminal step state.
func StepTerminal(status string) bool {
	return status == StepStatusCompleted || status == StepStatusFailed
}

// DependencyIDs decodes the dependencies JSON array.
func (s *JobStep) DependencyIDs() []string {
	if len(s.Dependencies) == 0 {
		return nil
	}
	var ids []string
	if err := sonic.Unmarshal(s.Dependencies, &ids); err != nil {
		return nil
	}
	return ids
}

// SetDependencyIDs encodes ids into the dependencies JSON column.
func (s *JobStep) SetDependencyIDs(ids []string) {
	if len(ids) == 0 {
		s.Dependencies = nil
		return
	}
	raw, err := sonic.Marshal(ids)
	if err != nil {
		return
	}
	s.Dependencies = raw
}

// EnvironmentMap decodes the environment JSON column.
func (s *JobStep) EnvironmentMap() map[string]string {
	if len(s.Environment) == 0 {
		return nil
	}
	env := map[string]string{}
	if err := sonic.Unmarshal(s.Environment, &env); err != nil {
		return nil
	}
	return env
}

// Timeout returns the configured step timeout as a duration.
func (s *JobStep) Timeout() time.Duration {
	secs := s.TimeoutSeconds
	if secs <= 0 {
		secs = DefaultTimeoutSeconds
	}
	return time.Duration(secs) * time.Second
}
