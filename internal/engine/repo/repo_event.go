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

	"github.com/agentrix/agentdev/internal/engine/model"
	"github.com/agentrix/agentdev/pkg/database"
	"gorm.io/gorm"
)

// IEventRepository defines persistence methods for the audit trail.
// Events are append-only.
type IEventRepository interface {
	Append(ctx context.Context, event *model.Event) error
	AppendTx(tx *gorm.DB, event *model.Event) error
	ListByJob(ctx context.Context, jobID string) ([]*model.Event, error)
}

type EventRepo struct {
	database.IDatabase
}

// NewEventRepo creates the event repository.
func NewEventRepo(db database.IDatabase) IEventRepository {
	return &EventRepo{IDatabase: db}
}

// Append records an event.
func (r *EventRepo) Append(ctx context.Context, event *model.Event) error {
	return r.AppendTx(r.Database().WithContext(ctx), event)
}

// AppendTx records an event inside an existing transaction.
func (r *EventRepo) AppendTx(tx *gorm.DB, event *model.Event) error {
	return tx.Create(event).Error
}

// ListByJob returns a job's event trail in emission order.
func (r *EventRepo) ListByJob(ctx context.Context, jobID string) ([]*model.Event, error) {
	var list []*model.Event
	err := r.Database().WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("id ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
