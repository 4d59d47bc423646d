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

package database

import (
	"github.com/agentrix/agentdev/pkg/log"
	"github.com/google/wire"
)

// ProviderSet provides database-related dependencies
var ProviderSet = wire.NewSet(
	ProvideManager,
	ProvideIDatabase,
)

// ProvideManager creates and returns a database Manager instance
func ProvideManager(conf Config, logger *log.Logger) (Manager, error) {
	return NewManager(conf)
}

// ProvideIDatabase provides the IDatabase handle repositories depend on
func ProvideIDatabase(manager Manager) IDatabase {
	return NewDatabaseAdapter(manager)
}
