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

package bootstrap

import (
	"time"

	"github.com/google/wire"

	"github.com/agentrix/agentdev/internal/engine/config"
	"github.com/agentrix/agentdev/internal/engine/store"
	"github.com/agentrix/agentdev/internal/pkg/bugmemory"
	"github.com/agentrix/agentdev/internal/pkg/controller"
	"github.com/agentrix/agentdev/internal/pkg/executor"
	"github.com/agentrix/agentdev/internal/pkg/gitsvc"
	"github.com/agentrix/agentdev/internal/pkg/planner"
	"github.com/agentrix/agentdev/internal/pkg/sandbox"
	"github.com/agentrix/agentdev/internal/pkg/verifier"
	"github.com/agentrix/agentdev/pkg/event"
	"github.com/agentrix/agentdev/pkg/log"
	"github.com/agentrix/agentdev/pkg/metrics"
)

// ProviderSet assembles the engine collaborators around the controller.
var ProviderSet = wire.NewSet(
	ProvideEventBus,
	ProvideMetricsServer,
	ProvideEngineMetrics,
	ProvideMemory,
	ProvideRunner,
	ProvideVerifier,
	ProvideGitService,
	ProvideProposer,
	ProvideExecutorManager,
	ProvideControllerOptions,
	controller.NewController,
	ProvideGCSweeper,
)

func ProvideEventBus() *event.Bus {
	return event.NewEventBus()
}

func ProvideMetricsServer(cfg metrics.MetricsConfig) *metrics.Server {
	return metrics.NewServer(cfg)
}

func ProvideEngineMetrics(server *metrics.Server) *metrics.EngineMetrics {
	return metrics.NewEngineMetrics(server.Registry())
}

// ProvideMemory picks redis-backed bug memory when an address is
// configured, otherwise process-local memory.
func ProvideMemory(cfg bugmemory.RedisConfig) (bugmemory.Memory, func(), error) {
	if cfg.Addr == "" {
		log.Infow("bug memory running in-process, redis not configured")
		return bugmemory.NewInMemory(), func() {}, nil
	}
	mem, err := bugmemory.NewRedis(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := mem.Close(); err != nil {
			log.Errorw("close bug memory redis", "err", err)
		}
	}
	return mem, cleanup, nil
}

func ProvideRunner(cfg config.EngineConfig) sandbox.Runner {
	return &sandbox.LocalRunner{Shell: cfg.Shell}
}

func ProvideVerifier() verifier.Verifier {
	return verifier.New()
}

func ProvideGitService(cfg config.EngineConfig) gitsvc.Service {
	if cfg.UseGit {
		return gitsvc.NewCLIService(cfg.Workspace)
	}
	return gitsvc.Noop{}
}

func ProvideProposer(cfg config.EngineConfig) planner.Proposer {
	return planner.NewRuleProposer(cfg.Plans, nil)
}

func ProvideExecutorManager(runner sandbox.Runner, v verifier.Verifier, bus *event.Bus) *executor.Manager {
	manager := executor.NewManager(bus)
	manager.Register(executor.NewCommandExecutor(runner, v))
	manager.Register(executor.NewTestExecutor(runner, v))
	return manager
}

func ProvideControllerOptions(cfg config.EngineConfig) controller.Options {
	return controller.Options{
		StepConcurrency:   cfg.StepConcurrency,
		GlobalConcurrency: cfg.GlobalConcurrency,
		MaxRefinements:    cfg.MaxRefinements,
		InfraRetryLimit:   cfg.InfraRetryLimit,
		JobTimeout:        time.Duration(cfg.JobTimeoutMinutes) * time.Minute,
		Workspace:         cfg.Workspace,
		UseGit:            cfg.UseGit,
		CheckpointTTL:     time.Duration(cfg.CheckpointTTLHours) * time.Hour,
		ArtifactTTL:       time.Duration(cfg.ArtifactTTLHours) * time.Hour,
	}
}

func ProvideGCSweeper(st store.StateStore, cfg config.EngineConfig) *controller.GCSweeper {
	return controller.NewGCSweeper(st, cfg.GCSchedule)
}
