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

// Checkpoint is an immutable snapshot of job progress. Rows are append-only;
// resume always selects the most recent non-expired checkpoint for a job.
type Checkpoint struct {
	BaseModel
	CheckpointID   string         `gorm:"column:checkpoint_id;type:VARCHAR(64);uniqueIndex" json:"checkpointId"`
	JobID          string         `gorm:"column:job_id;type:VARCHAR(64);index" json:"jobId"`
	StepID         string         `gorm:"column:step_id;type:VARCHAR(64)" json:"stepId,omitempty"`
	CheckpointType string         `gorm:"column:checkpoint_type;type:VARCHAR(32)" json:"checkpointType"`
	Data           datatypes.JSON `gorm:"column:data;type:JSON" json:"data"`
	ExpiresAt      *time.Time     `gorm:"column:expires_at;index" json:"expiresAt,omitempty"`
	Metadata       datatypes.JSON `gorm:"column:metadata;type:JSON" json:"metadata,omitempty"`
}

func (Checkpoint) TableName() string {
	return "t_checkpoint"
}

const (
	CheckpointTypeJobStart     = "job_start"
	CheckpointTypeStepStart    = "step_start"
	CheckpointTypeStepComplete = "step_complete"
	CheckpointTypeManual       = "manual"
)

// CheckpointData is the resume payload carried by every checkpoint.
type CheckpointData struct {
	JobStatus   string   `json:"jobStatus"`
	Completed   []string `json:"completed"`
	Failed      []string `json:"failed"`
	Pending     []string `json:"pending"`
	RefineCount int      `json:"refineCount"`
}
