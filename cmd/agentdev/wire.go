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

//go:build wireinject
// +build wireinject

package main

import (
	"github.com/agentrix/agentdev/internal/engine/bootstrap"
	"github.com/agentrix/agentdev/internal/engine/config"
	"github.com/agentrix/agentdev/internal/engine/repo"
	"github.com/agentrix/agentdev/internal/engine/store"
	"github.com/agentrix/agentdev/pkg/database"
	"github.com/agentrix/agentdev/pkg/log"
	"github.com/google/wire"
)

func initApp(configFile string) (*bootstrap.App, func(), error) {
	panic(wire.Build(
		config.ProviderSet,
		log.ProviderSet,
		database.ProviderSet,
		repo.ProviderSet,
		store.ProviderSet,
		bootstrap.ProviderSet,
		bootstrap.NewApp,
	))
}
