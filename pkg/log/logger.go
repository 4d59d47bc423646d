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

package log

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/wire"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu     sync.RWMutex
	global *zap.SugaredLogger
	level  zap.AtomicLevel
)

func init() {
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	core := zapcore.NewCore(newEncoder(), zapcore.AddSync(os.Stdout), level)
	global = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()
}

// ProviderSet is the Wire provider set for the log package.
var ProviderSet = wire.NewSet(ProvideLogger)

// Conf defines logger configuration.
type Conf struct {
	Output     string `mapstructure:"output"` // stdout or file
	Path       string `mapstructure:"path"`
	Filename   string `mapstructure:"filename"`
	Level      string `mapstructure:"level"`
	RotateSize int    `mapstructure:"rotateSize"` // MB
	RotateNum  int    `mapstructure:"rotateNum"`
	KeepDays   int    `mapstructure:"keepDays"`
}

// SetDefaults fills zero-valued fields with defaults.
func (c *Conf) SetDefaults() {
	if c.Output == "" {
		c.Output = "stdout"
	}
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Filename == "" {
		c.Filename = "agentdev.log"
	}
	if c.RotateSize <= 0 {
		c.RotateSize = 100
	}
	if c.RotateNum <= 0 {
		c.RotateNum = 10
	}
	if c.KeepDays <= 0 {
		c.KeepDays = 7
	}
}

// Logger wraps the sugared logger for dependency injection.
type Logger struct {
	*zap.SugaredLogger
}

// ProvideLogger creates a dependency-injected logger and replaces the global one.
func ProvideLogger(conf *Conf) (*Logger, error) {
	l, err := New(conf)
	if err != nil {
		return nil, err
	}
	return &Logger{SugaredLogger: l}, nil
}

// New builds a logger from configuration and installs it as the global logger.
func New(conf *Conf) (*zap.SugaredLogger, error) {
	if conf == nil {
		conf = &Conf{}
	}
	conf.SetDefaults()

	parsed, err := zapcore.ParseLevel(strings.ToLower(conf.Level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", conf.Level, err)
	}
	level.SetLevel(parsed)

	var sink zapcore.WriteSyncer
	switch conf.Output {
	case "file":
		if conf.Path == "" {
			return nil, fmt.Errorf("log path is required when output is 'file'")
		}
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   filepath.Join(conf.Path, conf.Filename),
			MaxSize:    conf.RotateSize,
			MaxBackups: conf.RotateNum,
			MaxAge:     conf.KeepDays,
			Compress:   true,
		})
	default:
		sink = zapcore.AddSync(os.Stdout)
	}

	core := zapcore.NewCore(newEncoder(), sink, level)
	l := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()

	mu.Lock()
	global = l
	mu.Unlock()
	return l, nil
}

// SetLevel updates the global log level at runtime (config hot reload).
func SetLevel(name string) error {
	parsed, err := zapcore.ParseLevel(strings.ToLower(name))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", name, err)
	}
	level.SetLevel(parsed)
	return nil
}

func newEncoder() zapcore.Encoder {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(encCfg)
}

func logger() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// Sync flushes buffered log entries.
func Sync() error {
	return logger().Sync()
}
