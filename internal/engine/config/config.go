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
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/agentrix/agentdev/internal/pkg/bugmemory"
	"github.com/agentrix/agentdev/internal/pkg/planner"
	"github.com/agentrix/agentdev/pkg/database"
	"github.com/agentrix/agentdev/pkg/log"
	"github.com/agentrix/agentdev/pkg/metrics"
)

// EngineConfig tunes the fix loop.
type EngineConfig struct {
	// StepConcurrency bounds concurrent steps within one job.
	StepConcurrency int `mapstructure:"stepConcurrency"`
	// GlobalConcurrency bounds step execution across all jobs in this
	// process; zero means unlimited.
	GlobalConcurrency int `mapstructure:"globalConcurrency"`
	// MaxRefinements bounds plan refinement rounds per job.
	MaxRefinements int `mapstructure:"maxRefinements"`
	// InfraRetryLimit bounds re-runs after sandbox errors.
	InfraRetryLimit int `mapstructure:"infraRetryLimit"`
	// JobTimeoutMinutes is the wall-clock ceiling per job run.
	JobTimeoutMinutes int `mapstructure:"jobTimeoutMinutes"`
	// Workspace is the working directory step commands run in.
	Workspace string `mapstructure:"workspace"`
	// UseGit wraps the job in branch/commit/revert operations.
	UseGit bool `mapstructure:"useGit"`
	// Shell runs step commands; defaults to /bin/sh.
	Shell string `mapstructure:"shell"`
	// CheckpointTTLHours and ArtifactTTLHours set row expiry for gc.
	CheckpointTTLHours int `mapstructure:"checkpointTTLHours"`
	ArtifactTTLHours   int `mapstructure:"artifactTTLHours"`
	// GCSchedule is a cron expression for the background sweeper;
	// empty disables it.
	GCSchedule string `mapstructure:"gcSchedule"`
	// Plans are the rule-based plan templates keyed by job type.
	Plans []planner.PlanTemplate `mapstructure:"plans"`
}

// SetDefaults fills zero-valued fields with defaults.
func (c *EngineConfig) SetDefaults() {
	if c.StepConcurrency <= 0 {
		c.StepConcurrency = 2
	}
	if c.MaxRefinements == 0 {
		c.MaxRefinements = 2
	}
	if c.InfraRetryLimit <= 0 {
		c.InfraRetryLimit = 3
	}
	if c.JobTimeoutMinutes <= 0 {
		c.JobTimeoutMinutes = 30
	}
	if c.Workspace == "" {
		c.Workspace = "."
	}
	if c.Shell == "" {
		c.Shell = "/bin/sh"
	}
	if c.CheckpointTTLHours <= 0 {
		c.CheckpointTTLHours = 7 * 24
	}
	if c.ArtifactTTLHours <= 0 {
		c.ArtifactTTLHours = 30 * 24
	}
}

type AppConfig struct {
	Log      log.Conf              `mapstructure:"log"`
	Database database.Config       `mapstructure:"database"`
	Redis    bugmemory.RedisConfig `mapstructure:"redis"`
	Engine   EngineConfig          `mapstructure:"engine"`
	Metrics  metrics.MetricsConfig `mapstructure:"metrics"`
}

var (
	cfg  AppConfig
	mu   sync.RWMutex
	once sync.Once
)

func NewConf(confFile string) *AppConfig {
	once.Do(func() {
		if _, err := LoadConfigFile(confFile); err != nil {
			panic(fmt.Sprintf("load config file error: %s", err))
		}
	})
	mu.RLock()
	defer mu.RUnlock()
	return &cfg
}

// GetConfig returns the current configuration, safe under hot reload.
func GetConfig() AppConfig {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

// LoadConfigFile reads the configuration and watches it for changes.
// Each load decodes into a fresh AppConfig and replaces the package
// snapshot wholesale, so values never leak between loads. Reloads
// update log level and gc tuning; database and redis connections keep
// their boot-time settings.
func LoadConfigFile(confFile string) (AppConfig, error) {
	config := viper.New()
	config.SetConfigFile(confFile)
	if err := config.ReadInConfig(); err != nil {
		return AppConfig{}, fmt.Errorf("failed to read configuration file: %v", err)
	}

	config.WatchConfig()
	config.OnConfigChange(func(e fsnotify.Event) {
		log.Infow("configuration changed, re-reading", "file", e.Name)
		if err := config.ReadInConfig(); err != nil {
			log.Errorw("failed to re-read configuration file", "error", err, "file", e.Name)
			return
		}
		var next AppConfig
		if err := config.Unmarshal(&next); err != nil {
			log.Errorw("failed to unmarshal configuration file", "error", err, "file", e.Name)
			return
		}
		next.Engine.SetDefaults()
		next.Metrics.SetDefaults()
		mu.Lock()
		cfg = next
		mu.Unlock()
		log.SetLevel(next.Log.Level)
		log.Infow("configuration reloaded", "file", e.Name)
	})
	var loaded AppConfig
	if err := config.Unmarshal(&loaded); err != nil {
		return AppConfig{}, fmt.Errorf("failed to unmarshal configuration file: %v", err)
	}
	loaded.Engine.SetDefaults()
	loaded.Metrics.SetDefaults()
	mu.Lock()
	cfg = loaded
	mu.Unlock()
	log.Infow("config file loaded", "path", confFile)
	return loaded, nil
}
