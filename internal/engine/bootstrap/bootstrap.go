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
	"context"
	"time"

	"github.com/agentrix/agentdev/internal/engine/config"
	"github.com/agentrix/agentdev/internal/engine/repo"
	"github.com/agentrix/agentdev/internal/engine/store"
	"github.com/agentrix/agentdev/internal/pkg/controller"
	"github.com/agentrix/agentdev/pkg/database"
	"github.com/agentrix/agentdev/pkg/event"
	"github.com/agentrix/agentdev/pkg/log"
	"github.com/agentrix/agentdev/pkg/metrics"
)

// App bundles the wired engine for the CLI entrypoints.
type App struct {
	Controller    *controller.Controller
	Store         store.StateStore
	Sweeper       *controller.GCSweeper
	MetricsServer *metrics.Server
	Bus           *event.Bus
	Logger        *log.Logger
	AppConf       *config.AppConfig
}

// InitAppFunc is the wire-generated injector signature.
type InitAppFunc func(configFile string) (*App, func(), error)

// NewApp migrates the schema and assembles the application. The
// returned cleanup stops background workers and closes connections.
func NewApp(
	ctrl *controller.Controller,
	st store.StateStore,
	sweeper *controller.GCSweeper,
	metricsServer *metrics.Server,
	bus *event.Bus,
	logger *log.Logger,
	appConf *config.AppConfig,
	db database.Manager,
) (*App, func(), error) {
	if err := repo.AutoMigrate(db.DB()); err != nil {
		return nil, nil, err
	}

	app := &App{
		Controller:    ctrl,
		Store:         st,
		Sweeper:       sweeper,
		MetricsServer: metricsServer,
		Bus:           bus,
		Logger:        logger,
		AppConf:       appConf,
	}

	cleanup := func() {
		if sweeper != nil {
			sweeper.Stop()
		}
		if metricsServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := metricsServer.Stop(shutdownCtx); err != nil {
				log.Errorw("stop metrics server", "err", err)
			}
		}
		if err := db.Close(); err != nil {
			log.Errorw("close database", "err", err)
		}
		log.Sync()
	}
	return app, cleanup, nil
}

// Start brings up the background pieces: metrics endpoint and the gc
// sweeper when a schedule is configured.
func (a *App) Start() error {
	if a.MetricsServer != nil {
		a.MetricsServer.Start()
	}
	if a.Sweeper != nil && a.AppConf.Engine.GCSchedule != "" {
		if err := a.Sweeper.Start(); err != nil {
			return err
		}
	}
	return nil
}
