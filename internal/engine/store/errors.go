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

package store

import "errors"

var (
	// ErrIllegalTransition is returned when a status write would regress a
	// terminal entity. Never retried.
	ErrIllegalTransition = errors.New("illegal status transition")

	// ErrInvalidDependency is returned when a step declares a dependency on
	// a step id that does not exist within its job.
	ErrInvalidDependency = errors.New("invalid step dependency")

	// ErrPersistence is returned when a write could not be confirmed. The
	// current transition must abort; the job stays at its last confirmed state.
	ErrPersistence = errors.New("state store write not confirmed")

	// ErrNotFound is returned when the referenced entity does not exist.
	ErrNotFound = errors.New("entity not found")
)
