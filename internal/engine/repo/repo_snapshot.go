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

package repo

import (
	"context"
	"errors"

	"github.com/agentrix/agentdev/internal/engine/model"
	"github.com/agentrix/agentdev/pkg/database"
	"gorm.io/gorm"
)

// ISnapshotRepository defines persistence methods for state snapshots.
type ISnapshotRepository interface {
	Create(ctx context.Context, snapshot *model.StateSnapshot) error
	Latest(ctx context.Context, entityType, entityID string) (*model.StateSnapshot, error)
}

type SnapshotRepo struct {
	database.IDatabase
}

// NewSnapshotRepo creates the snapshot repository.
func NewSnapshotRepo(db database.IDatabase) ISnapshotRepository {
	return &SnapshotRepo{IDatabase: db}
}

// Create appends a snapshot, assigning the next version for the entity.
func (r *SnapshotRepo) Create(ctx context.Context, snapshot *model.StateSnapshot) error {
	return r.Database().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var last model.StateSnapshot
		err := tx.
			Where("entity_type = ? AND entity_id = ?", snapshot.EntityType, snapshot.EntityID).
			Order("version DESC").
			First(&last).Error
		switch {
		case err == nil:
			snapshot.Version = last.Version + 1
		case errors.Is(err, gorm.ErrRecordNotFound):
			snapshot.Version = 1
		default:
			return err
		}
		return tx.Create(snapshot).Error
	})
}

// Latest returns the newest snapshot for an entity. Returns (nil, nil) when absent.
func (r *SnapshotRepo) Latest(ctx context.Context, entityType, entityID string) (*model.StateSnapshot, error) {
	var one model.StateSnapshot
	err := r.Database().WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("version DESC").
		First(&one).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &one, nil
}
