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
	"time"

	"github.com/agentrix/agentdev/internal/engine/model"
	"github.com/agentrix/agentdev/pkg/database"
)

// IArtifactRepository defines persistence methods for artifacts.
type IArtifactRepository interface {
	Create(ctx context.Context, artifact *model.Artifact) error
	ListByStep(ctx context.Context, stepID string) ([]*model.Artifact, error)
	ListByJob(ctx context.Context, jobID string) ([]*model.Artifact, error)
	ListExpired(ctx context.Context, now time.Time, limit int) ([]*model.Artifact, error)
	DeleteByIDs(ctx context.Context, artifactIDs []string) (int64, error)
}

type ArtifactRepo struct {
	database.IDatabase
}

// NewArtifactRepo creates the artifact repository.
func NewArtifactRepo(db database.IDatabase) IArtifactRepository {
	return &ArtifactRepo{IDatabase: db}
}

// Create records an artifact reference.
func (r *ArtifactRepo) Create(ctx context.Context, artifact *model.Artifact) error {
	return r.Database().WithContext(ctx).Create(artifact).Error
}

// ListByStep returns artifacts produced by a step in creation order.
func (r *ArtifactRepo) ListByStep(ctx context.Context, stepID string) ([]*model.Artifact, error) {
	var list []*model.Artifact
	err := r.Database().WithContext(ctx).
		Where("step_id = ?", stepID).
		Order("id ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// ListByJob returns all artifacts of a job.
func (r *ArtifactRepo) ListByJob(ctx context.Context, jobID string) ([]*model.Artifact, error) {
	var list []*model.Artifact
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
func (r *ArtifactRepo) ListExpired(ctx context.Context, now time.Time, limit int) ([]*model.Artifact, error) {
	if limit <= 0 {
		limit = 100
	}
	var list []*model.Artifact
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

// DeleteByIDs removes expired artifacts. Only the GC sweep calls this.
func (r *ArtifactRepo) DeleteByIDs(ctx context.Context, artifactIDs []string) (int64, error) {
	if len(artifactIDs) == 0 {
		return 0, nil
	}
	res := r.Database().WithContext(ctx).
		Where("artifact_id IN ?", artifactIDs).
		Delete(&model.Artifact{})
	return res.RowsAffected, res.Error
}
