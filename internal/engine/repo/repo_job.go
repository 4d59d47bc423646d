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

// IJobRepository defines persistence methods for jobs.
type IJobRepository interface {
	Create(ctx context.Context, job *model.Job) error
	CreateTx(tx *gorm.DB, job *model.Job) error
	Get(ctx context.Context, jobID string) (*model.Job, error)
	Update(ctx context.Context, jobID string, updates map[string]any) error
	UpdateTx(tx *gorm.DB, jobID string, updates map[string]any) error
	ListActive(ctx context.Context) ([]*model.Job, error)
}

type JobRepo struct {
	database.IDatabase
}

// NewJobRepo creates the job repository.
func NewJobRepo(db database.IDatabase) IJobRepository {
	return &JobRepo{IDatabase: db}
}

// Create persists a new job.
func (r *JobRepo) Create(ctx context.Context, job *model.Job) error {
	return r.CreateTx(r.Database().WithContext(ctx), job)
}

// CreateTx persists a new job inside an existing transaction.
func (r *JobRepo) CreateTx(tx *gorm.DB, job *model.Job) error {
	return tx.Create(job).Error
}

// Get returns the job by jobID. Returns (nil, nil) when not found.
func (r *JobRepo) Get(ctx context.Context, jobID string) (*model.Job, error) {
	var one model.Job
	err := r.Database().WithContext(ctx).
		Where("job_id = ?", jobID).
		First(&one).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &one, nil
}

// Update updates a job by jobID.
func (r *JobRepo) Update(ctx context.Context, jobID string, updates map[string]any) error {
	return r.UpdateTx(r.Database().WithContext(ctx), jobID, updates)
}

// UpdateTx updates a job inside an existing transaction.
func (r *JobRepo) UpdateTx(tx *gorm.DB, jobID string, updates map[string]any) error {
	return tx.Model(&model.Job{}).
		Where("job_id = ?", jobID).
		Updates(updates).Error
}

// ListActive returns jobs that are not in a terminal state.
func (r *JobRepo) ListActive(ctx context.Context) ([]*model.Job, error) {
	var list []*model.Job
	err := r.Database().WithContext(ctx).
		Where("status IN ?", []string{model.JobStatusPending, model.JobStatusRunning}).
		Order("created_at ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
