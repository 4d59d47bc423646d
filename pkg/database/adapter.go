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

import "gorm.io/gorm"

// IDatabase is the narrow handle repositories embed.
type IDatabase interface {
	Database() *gorm.DB
}

type databaseAdapter struct {
	manager Manager
}

// NewDatabaseAdapter wraps a Manager as IDatabase.
func NewDatabaseAdapter(manager Manager) IDatabase {
	return &databaseAdapter{manager: manager}
}

func (a *databaseAdapter) Database() *gorm.DB {
	return a.manager.DB()
}

// NewRawAdapter wraps a bare gorm.DB as IDatabase, for tests.
func NewRawAdapter(db *gorm.DB) IDatabase {
	return &rawAdapter{db: db}
}

type rawAdapter struct {
	db *gorm.DB
}

func (a *rawAdapter) Database() *gorm.DB {
	return a.db
}
