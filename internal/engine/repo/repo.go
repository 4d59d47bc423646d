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
	"github.com/agentrix/agentdev/internal/engine/model"
	"github.com/google/wire"
	"gorm.io/gorm"
)

// ProviderSet provides all repository dependencies.
var ProviderSet = wire.NewSet(
	NewJobRepo,
	NewStepRepo,
	NewCheckpointRepo,
	NewArtifactRepo,
	NewEventRepo,
	NewSnapshotRepo,
	NewRepositories,
)

// Repositories aggregates every repository for injection into the store.
type Repositories struct {
	Jobs        IJobRepository
	Steps       IStepRepository
	Checkpoints ICheckpointRepository
	Artifacts   IArtifactRepository
	Events      IEventRepository
	Snapshots   ISnapshotRepository
}

// NewRepositories bundles the repositories.
func NewRepositories(
	jobs IJobRepository,
	steps IStepRepository,
	checkpoints ICheckpointRepository,
	artifacts IArtifactRepository,
	events IEventRepository,
	snapshots ISnapshotRepository,
) *Repositories {
	return &Repositories{
		Jobs:        jobs,
		Steps:       steps,
		Checkpoints: checkpoints,
		Artifacts:   artifacts,
		Events:      events,
		Snapshots:   snapshots,
	}
}

// AutoMigrate creates or updates the engine schema.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Job{},
		&model.JobStep{},
		&model.Checkpoint{},
		&model.Artifact{},
		&model.Event{},
		&model.StateSnapshot{},
	)
}

// Count runs a count on the current query.
func Count(tx *gorm.DB) (int64, error) {
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
