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

package gitsvc

import "context"

// Service is the version-control collaborator. The engine creates a working
// branch per job, commits when the plan completes and reverts on failure.
type Service interface {
	CreateBranch(ctx context.Context, jobID string) (branch string, err error)
	Commit(ctx context.Context, jobID, message string) error
	Revert(ctx context.Context, jobID string) error
}

// Noop is a Service that does nothing, used when the workspace is not a
// git repository and in tests.
type Noop struct{}

func (Noop) CreateBranch(ctx context.Context, jobID string) (string, error) { return "", nil }
func (Noop) Commit(ctx context.Context, jobID, message string) error        { return nil }
func (Noop) Revert(ctx context.Context, jobID string) error                 { return nil }
