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

package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/agentrix/agentdev/pkg/log"
	"github.com/agentrix/agentdev/pkg/safe"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsConfig defines the metrics endpoint configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
	Path    string `mapstructure:"path"`
}

// SetDefaults fills zero-valued fields with defaults.
func (c *MetricsConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":9090"
	}
	if c.Path == "" {
		c.Path = "/metrics"
	}
}

// Server exposes the prometheus registry over HTTP.
type Server struct {
	registry *prometheus.Registry
	srv      *http.Server
	cfg      MetricsConfig
}

// NewServer creates a metrics server with go runtime collectors pre-registered.
func NewServer(cfg MetricsConfig) *Server {
	cfg.SetDefaults()
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &Server{registry: registry, cfg: cfg}
}

// Registry returns the underlying registry for engine metric registration.
func (s *Server) Registry() *prometheus.Registry {
	return s.registry
}

// Start begins serving the metrics endpoint when enabled.
func (s *Server) Start() {
	if !s.cfg.Enabled {
		return
	}
	mux := http.NewServeMux()
	mux.Handle(s.cfg.Path, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	s.srv = &http.Server{Addr: s.cfg.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	safe.Go(func() {
		log.Infow("metrics server listening", "addr", s.cfg.Addr, "path", s.cfg.Path)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorw("metrics server exited", "error", err)
		}
	})
}

// Stop shuts the metrics endpoint down.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
