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

// IStepRepository defines persistence methods for job steps.
type IStepRepository interface {
	CreateBatch(tx *gorm.DB, steps []*model.JobStep) error
	Get(ctx context.Context, stepID string) (*model.JobStep, error)
	Update(ctx context.Context, stepID string, updates map[string]any) error
	UpdateTx(tx *gorm.DB, stepID string, updates map[string]any) error
	ListByJob(ctx context.Context, jobID string) ([]*model.JobStep, error)
	Summary(ctx context.Context, jobID string) (*model.JobStepSummary, error)
}

type StepRepo struct {
	database.IDatabase
}

// NewStepRepo creates the step repository.
func NewStepRepo(db database.IDatabase) IStepRepository {
	return &StepRepo{IDatabase: db}
}

// CreateBatch persists a batch of steps inside an existing transaction.
func (r *StepRepo) CreateBatch(tx *gorm.DB, steps []*model.JobStep) error {
	if len(steps) == 0 {
		return nil
	}
	return tx.Create(steps).Error
}

// Get returns the step by stepID. Returns (nil, nil) when not found.
func (r *StepRepo) Get(ctx context.Context, stepID string) (*model.JobStep, error) {
	var one model.JobStep
	err := r.Database().WithContext(ctx).
		Where("step_id = ?", stepID).
		First(&one).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &one, nil
}

// Update updates a step by stepID.
func (r *StepRepo) Update(ctx context.Context, stepID string, updates map[string]any) error {
	return r.UpdateTx(r.Database().WithContext(ctx), stepID, updates)
}

// UpdateTx updates a step inside an existing transaction.
func (r *StepRepo) UpdateTx(tx *gorm.DB, stepID string, updates map[string]any) error {
	return tx.Model(&model.JobStep{}).
		Where("step_id = ?", stepID).
		Updates(updates).Error
}

// ListByJob returns all steps of a job ordered by order_index.
func (r *StepRepo) ListByJob(ctx context.Context, jobID string) ([]*model.JobStep, error) {
	var list []*model.JobStep
	err := r.Database().WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("order_index ASC, id ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// Summary returns the derived step-count view for a job. Superseded steps
// are excluded; they no longer take part in the plan.
func (r *StepRepo) Summary(ctx context.Context, jobID string) (*model.JobStepSummary, error) {
	type row struct {
		Status string
		N      int64
	}
	var rows []row
	err := r.Database().WithContext(ctx).
		Model(&model.JobStep{}).
		Select("status, COUNT(*) AS n").
		Where("job_id = ? AND superseded = 0", jobID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summary := &model.JobStepSummary{}
	for _, one := range rows {
		summary.Total += one.N
		switch one.Status {
		case model.StepStatusPending:
			summary.Pending = one.N
		case model.StepStatusRunning:
			summary.Running = one.N
		case model.StepStatusCompleted:
			summary.Completed = one.N
		case model.StepStatusFailed:
			summary.Failed = one.N
		}
	}
	return summary, nil
}
