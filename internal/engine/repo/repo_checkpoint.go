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
	"time"

	"github.com/agentrix/agentdev/internal/engine/model"
	"github.com/agentrix/agentdev/pkg/database"
	"gorm.io/gorm"
)

// ICheckpointRepository defines persistence methods for checkpoints.
// Checkpoints are append-only; there is no update method by design.
type ICheckpointRepository interface {
	Create(ctx context.Context, checkpoint *model.Checkpoint) error
	Latest(ctx context.Context, jobID string) (*model.Checkpoint, error)
	ListByJob(ctx context.Context, jobID string) ([]*model.Checkpoint, error)
	ListExpired(ctx context.Context, now time.Time, limit int) ([]*model.Checkpoint, error)
	DeleteByIDs(ctx context.Context, checkpointIDs []string) (int64, error)
}

type CheckpointRepo struct {
	database.IDatabase
}

// NewCheckpointRepo creates the checkpoint repository.
func NewCheckpointRepo(db database.IDatabase) ICheckpointRepository {
	return &CheckpointRepo{IDatabase: db}
}

// Create appends a checkpoint.
func (r *CheckpointRepo) Create(ctx context.Context, checkpoint *model.Checkpoint) error {
	return r.Database().WithContext(ctx).Create(checkpoint).Error
}

// Latest returns the most recent non-expired checkpoint for a job.
// Returns (nil, nil) when the job has no usable checkpoint.
func (r *CheckpointRepo) Latest(ctx context.Context, jobID string) (*model.Checkpoint, error) {
	var one model.Checkpoint
	err := r.Database().WithContext(ctx).
		Where("job_id = ?", jobID).
		Where("expires_at IS NULL OR expires_at > ?", time.Now()).
		Order("id DESC").
		First(&one).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &one, nil
}

// ListByJob returns all checkpoints for a job in creation order.
func (r *CheckpointRepo) ListByJob(ctx context.Context, jobID string) ([]*model.Checkpoint, error) {
	var list []*model.Checkpoint
	err := r.Database().WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("id ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// ListExpired returns garbage-collection candidates whose expires_at has passed.
func (r *CheckpointRepo) ListExpired(ctx context.Context, now time.Time, limit int) ([]*model.Checkpoint, error) {
	if limit <= 0 {
		limit = 100
	}
	var list []*model.Checkpoint
	err := r.Database().WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", now).
		Order("id ASC").
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// DeleteByIDs removes expired checkpoints. Only the GC sweep calls this.
func (r *CheckpointRepo) DeleteByIDs(ctx context.Context, checkpointIDs []string) (int64, error) {
	if len(checkpointIDs) == 0 {
		return 0, nil
	}
	res := r.Database().WithContext(ctx).
		Where("checkpoint_id IN ?", checkpointIDs).
		Delete(&model.Checkpoint{})
	return res.RowsAffected, res.Error
}
