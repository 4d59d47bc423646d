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

package bugmemory

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "agentdev:bugmem:"
	maxEntries = 32
)

// RedisConfig defines the redis connection for shared bug memory.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TTLHours int    `mapstructure:"ttlHours"`
}

// Redis shares failure signatures across engine processes.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to redis and verifies the connection.
func NewRedis(cfg RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("bug memory redis ping: %w", err)
	}
	ttl := 7 * 24 * time.Hour
	if cfg.TTLHours > 0 {
		ttl = time.Duration(cfg.TTLHours) * time.Hour
	}
	return &Redis{client: client, ttl: ttl}, nil
}

func (m *Redis) Lookup(ctx context.Context, signature string) ([]PriorAttempt, error) {
	raw, err := m.client.LRange(ctx, keyPrefix+signature, 0, maxEntries-1).Result()
	if err != nil {
		return nil, err
	}
	attempts := make([]PriorAttempt, 0, len(raw))
	for _, one := range raw {
		var attempt PriorAttempt
		if err := sonic.UnmarshalString(one, &attempt); err != nil {
			continue
		}
		attempts = append(attempts, attempt)
	}
	return attempts, nil
}

func (m *Redis) Record(ctx context.Context, signature string, attempt PriorAttempt) error {
	data, err := sonic.MarshalString(attempt)
	if err != nil {
		return err
	}
	key := keyPrefix + signature
	pipe := m.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, maxEntries-1)
	pipe.Expire(ctx, key, m.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

// Close releases the redis connection.
func (m *Redis) Close() error {
	return m.client.Close()
}
