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

package config

import (
	"github.com/google/wire"

	"github.com/agentrix/agentdev/internal/pkg/bugmemory"
	"github.com/agentrix/agentdev/pkg/database"
	"github.com/agentrix/agentdev/pkg/log"
	"github.com/agentrix/agentdev/pkg/metrics"
)

// ProviderSet loads the configuration and exposes its sections.
var ProviderSet = wire.NewSet(
	NewConf,
	ProvideLogConf,
	ProvideDatabaseConfig,
	ProvideRedisConfig,
	ProvideEngineConfig,
	ProvideMetricsConfig,
)

func ProvideLogConf(c *AppConfig) *log.Conf {
	return &c.Log
}

func ProvideDatabaseConfig(c *AppConfig) database.Config {
	return c.Database
}

func ProvideRedisConfig(c *AppConfig) bugmemory.RedisConfig {
	return c.Redis
}

func ProvideEngineConfig(c *AppConfig) EngineConfig {
	return c.Engine
}

func ProvideMetricsConfig(c *AppConfig) metrics.MetricsConfig {
	return c.Metrics
}
