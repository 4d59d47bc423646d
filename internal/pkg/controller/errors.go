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

package controller

import "errors"

var (
	// ErrJobNotRunnable is returned when Run is asked to drive a job
	// that is already terminal or owned by another run.
	ErrJobNotRunnable = errors.New("job is not runnable")

	// ErrNoCheckpoint is returned by Resume when a job has no usable
	// checkpoint to restore from.
	ErrNoCheckpoint = errors.New("no checkpoint to resume from")
)
