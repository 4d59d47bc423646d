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

package sandbox

import (
	"context"
	"time"
)

// ExecRequest describes one command to run in isolation.
type ExecRequest struct {
	Command string
	Env     map[string]string
	Workdir string
	Timeout time.Duration
}

// ExecResult is the captured outcome of one sandbox execution.
type ExecResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
	TimedOut bool
}

// Runner executes a single command in isolation. An error return means the
// sandbox itself failed (infrastructure); a command that ran and exited
// non-zero is reported through ExecResult, not an error.
type Runner interface {
	Execute(ctx context.Context, req ExecRequest) (*ExecResult, error)
}
