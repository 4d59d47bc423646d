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

	"gorm.io/datatypes"
)

// Job is one end-to-end remediation request with its own plan and lifecycle.
type Job struct {
	BaseModel
	JobID          string         `gorm:"column:job_id;type:VARCHAR(64);uniqueIndex" json:"jobId"`
	JobType        string         `gorm:"column:job_type;type:VARCHAR(64);index" json:"jobType"`
	Status         string         `gorm:"column:status;type:VARCHAR(32);index" json:"status"`
	Problem        string         `gorm:"column:problem;type:TEXT" json:"problem"`
	StartedAt      *time.Time     `gorm:"column:started_at" json:"startedAt,omitempty"`
	CompletedAt    *time.Time     `gorm:"column:completed_at" json:"completedAt,omitempty"`
	Duration       int64          `gorm:"column:duration" json:"duration"` // milliseconds
	Config         datatypes.JSON `gorm:"column:config;type:JSON" json:"config,omitempty"`
	Variables      datatypes.JSON `gorm:"column:variables;type:JSON" json:"variables,omitempty"`
	Metadata       datatypes.JSON `gorm:"column:metadata;type:JSON" json:"metadata,omitempty"`
	CreatedBy      string         `gorm:"column:created_by;type:VARCHAR(64)" json:"createdBy"`
	Branch         string         `gorm:"column:branch;type:VARCHAR(255)" json:"branch,omitempty"`
	RefineCount    int            `gorm:"column:refine_count" json:"refineCount"`
	MaxRefinements int            `gorm:"column:max_refinements" json:"maxRefinements"`
	FinalReason    string         `gorm:"column:final_reason;type:TEXT" json:"finalReason,omitempty"`
}

func (Job) TableName() string {
	return "t_job"
}

const (
	JobStatusPending   = "pending"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
	JobStatusCancelled = "cancelled"
)

// JobTerminal reports whether status is a terminal job state.
func JobTerminal(status string) bool {
	switch status {
	case JobStatusCompleted, JobStatusFailed, JobStatusCancelled:
		return true
	}
	return false
}

// JobStepSummary is the derived per-job step-count view.
type JobStepSummary struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Running   int64 `json:"running"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
}
