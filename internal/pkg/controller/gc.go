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

package controller

import (
	"context"
	"time"

	"github.com/robfig/cron"

	"github.com/agentrix/agentdev/internal/engine/store"
	"github.com/agentrix/agentdev/pkg/log"
)

const gcBatchSize = 500

// SweepResult counts what one garbage-collection pass removed.
type SweepResult struct {
	Checkpoints int64
	Artifacts   int64
}

// Sweep deletes expired checkpoints and artifact references in batches.
// Events, snapshots and job history are never touched.
func Sweep(ctx context.Context, st store.StateStore) (SweepResult, error) {
	var result SweepResult
	now := time.Now()
	for {
		expired, err := st.ExpiredCheckpoints(ctx, now, gcBatchSize)
		if err != nil {
			return result, err
		}
		if len(expired) == 0 {
			break
		}
		ids := make([]string, 0, len(expired))
		for _, one := range expired {
			ids = append(ids, one.CheckpointID)
		}
		deleted, err := st.DeleteCheckpoints(ctx, ids)
		if err != nil {
			return result, err
		}
		result.Checkpoints += deleted
		if len(expired) < gcBatchSize {
			break
		}
	}
	for {
		expired, err := st.ExpiredArtifacts(ctx, now, gcBatchSize)
		if err != nil {
			return result, err
		}
		if len(expired) == 0 {
			break
		}
		ids := make([]string, 0, len(expired))
		for _, one := range expired {
			ids = append(ids, one.ArtifactID)
		}
		deleted, err := st.DeleteArtifacts(ctx, ids)
		if err != nil {
			return result, err
		}
		result.Artifacts += deleted
		if len(expired) < gcBatchSize {
			break
		}
	}
	return result, nil
}

// GCSweeper runs Sweep on a cron schedule.
type GCSweeper struct {
	store    store.StateStore
	schedule string
	cron     *cron.Cron
}

// NewGCSweeper creates a sweeper; schedule uses standard cron syntax
// and defaults to hourly.
func NewGCSweeper(st store.StateStore, schedule string) *GCSweeper {
	if schedule == "" {
		schedule = "@hourly"
	}
	return &GCSweeper{store: st, schedule: schedule}
}

// Start registers the schedule and begins sweeping in the background.
func (g *GCSweeper) Start() error {
	g.cron = cron.New()
	err := g.cron.AddFunc(g.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		result, err := Sweep(ctx, g.store)
		if err != nil {
			log.Errorw("gc sweep", "err", err)
			return
		}
		if result.Checkpoints > 0 || result.Artifacts > 0 {
			log.Infow("gc sweep finished",
				"checkpoints", result.Checkpoints, "artifacts", result.Artifacts)
		}
	})
	if err != nil {
		return err
	}
	g.cron.Start()
	return nil
}

// Stop halts scheduling. A sweep already in flight finishes on its own.
func (g *GCSweeper) Stop() {
	if g.cron != nil {
		g.cron.Stop()
	}
}
