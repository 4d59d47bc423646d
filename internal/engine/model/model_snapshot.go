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

// StateSnapshot is a versioned point-in-time capture of an entity's full
// state, used for diffing and rollback analysis. Versions are assigned
// per (entity_type, entity_id) and rows are append-only.
type StateSnapshot struct {
	BaseModel
	SnapshotID   string         `gorm:"column:snapshot_id;type:VARCHAR(64);uniqueIndex" json:"snapshotId"`
	EntityType   string         `gorm:"column:entity_type;type:VARCHAR(32);index:idx_snapshot_entity" json:"entityType"`
	EntityID     string         `gorm:"column:entity_id;type:VARCHAR(64);index:idx_snapshot_entity" json:"entityId"`
	SnapshotData datatypes.JSON `gorm:"column:snapshot_data;type:JSON" json:"snapshotData"`
	Version      int            `gorm:"column:version" json:"version"`
	CreatedBy    string         `gorm:"column:created_by;type:VARCHAR(64)" json:"createdBy,omitempty"`
	Metadata     datatypes.JSON `gorm:"column:metadata;type:JSON" json:"metadata,omitempty"`
}

func (StateSnapshot) TableName() string {
	return "t_state_snapshot"
}

const (
	SnapshotEntityJob    = "job"
	SnapshotEntityStep   = "step"
	SnapshotEntitySystem = "system"
)
