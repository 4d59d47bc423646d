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
	"sync"
)

// InMemory keeps signatures in process memory. Used when redis is not
// configured; contents do not survive a restart.
type InMemory struct {
	mu       sync.RWMutex
	attempts map[string][]PriorAttempt
}

// NewInMemory creates an in-process bug memory.
func NewInMemory() *InMemory {
	return &InMemory{attempts: make(map[string][]PriorAttempt)}
}

func (m *InMemory) Lookup(ctx context.Context, signature string) ([]PriorAttempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stored := m.attempts[signature]
	out := make([]PriorAttempt, len(stored))
	copy(out, stored)
	return out, nil
}

func (m *InMemory) Record(ctx context.Context, signature string, attempt PriorAttempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts[signature] = append(m.attempts[signature], attempt)
	return nil
}
