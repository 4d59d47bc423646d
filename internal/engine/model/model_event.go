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
	"gorm.io/datatypes"
)

// Event is an immutable audit record emitted on every state transition.
// Events form the event-sourced trail for a job and are never mutated
// or deleted by normal operation.
type Event struct {
	BaseModel
	EventID       string         `gorm:"column:event_id;type:VARCHAR(64);uniqueIndex" json:"eventId"`
	JobID         string         `gorm:"column:job_id;type:VARCHAR(64);index" json:"jobId,omitempty"`
	StepID        string         `gorm:"column:step_id;type:VARCHAR(64);index" json:"stepId,omitempty"`
	EventType     string         `gorm:"column:event_type;type:VARCHAR(64);index" json:"eventType"`
	EventData     datatypes.JSON `gorm:"column:event_data;type:JSON" json:"eventData,omitempty"`
	CorrelationID string         `gorm:"column:correlation_id;type:VARCHAR(64)" json:"correlationId,omitempty"`
	CausationID   string         `gorm:"column:causation_id;type:VARCHAR(64)" json:"causationId,omitempty"`
	Metadata      datatypes.JSON `gorm:"column:metadata;type:JSON" json:"metadata,omitempty"`
}

func (Event) TableName() string {
	return "t_event"
}

const (
	EventJobCreated    = "job_created"
	EventJobStarted    = "job_started"
	EventJobSucceeded  = "job_succeeded"
	EventJobFailed     = "job_failed"
	EventJobCancelled  = "job_cancelled"
	EventStepStarted   = "step_started"
	EventStepCompleted = "step_completed"
	EventStepFailed    = "step_failed"
	EventStepRetried   = "step_retried"
	EventPlanProposed  = "plan_proposed"
	EventPlanRefined   = "plan_refined"
	EventPlanRejected  = "plan_rejected"
)
