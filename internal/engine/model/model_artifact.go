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

// Artifact references output produced by a step. Never mutated after creation.
type Artifact struct {
	BaseModel
	ArtifactID   string         `gorm:"column:artifact_id;type:VARCHAR(64);uniqueIndex" json:"artifactId"`
	JobID        string         `gorm:"column:job_id;type:VARCHAR(64);index" json:"jobId"`
	StepID       string         `gorm:"column:step_id;type:VARCHAR(64);index" json:"stepId,omitempty"`
	ArtifactPath string         `gorm:"column:artifact_path;type:VARCHAR(1024)" json:"artifactPath"`
	ArtifactType string         `gorm:"column:artifact_type;type:VARCHAR(32)" json:"artifactType"`
	SizeBytes    int64          `gorm:"column:size_bytes" json:"sizeBytes"`
	Checksum     string         `gorm:"column:checksum;type:VARCHAR(128)" json:"checksum,omitempty"`
	ExpiresAt    *time.Time     `gorm:"column:expires_at;index" json:"expiresAt,omitempty"`
	Metadata     datatypes.JSON `gorm:"column:metadata;type:JSON" json:"metadata,omitempty"`
}

func (Artifact) TableName() string {
	return "t_artifact"
}

const (
	ArtifactTypeFile      = "file"
	ArtifactTypeDirectory = "directory"
	ArtifactTypeURL       = "url"
	ArtifactTypeData      = "data"
)
