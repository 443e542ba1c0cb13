// Copyright (c) 2024 SAP SE or an SAP affiliate company. All rights reserved. This file is licensed under the Apache Software License, v. 2 except as noted otherwise in the LICENSE file
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

// Package engineid defines the identity of a random-number engine within a
// job: a module label, an instance name and a scope.
package engineid

import "fmt"

// Scope distinguishes module-local engines from job-global ones.
type Scope int

const (
	// Module is the scope of an engine owned by a single processing module.
	Module Scope = iota
	// Global is the scope of an engine not tied to any module.
	Global
)

// ID identifies a random-number engine. It is immutable after construction
// and totally ordered by (moduleLabel, instanceName, scope).
type ID struct {
	moduleLabel  string
	instanceName string
	scope        Scope
}

// New constructs a module-scoped ID. moduleLabel must be non-empty;
// instanceName may be empty, meaning "default instance".
func New(moduleLabel, instanceName string) ID {
	return ID{moduleLabel: moduleLabel, instanceName: instanceName, scope: Module}
}

// NewGlobal constructs a global-scoped ID. Global engines have no module
// label.
func NewGlobal(instanceName string) ID {
	return ID{instanceName: instanceName, scope: Global}
}

// ModuleLabel returns the owning module's label, or "" for a global engine.
func (id ID) ModuleLabel() string { return id.moduleLabel }

// InstanceName returns the instance name, which may be "".
func (id ID) InstanceName() string { return id.instanceName }

// Scope returns whether id is module- or job-scoped.
func (id ID) Scope() Scope { return id.scope }

// IsGlobal reports whether id is a global engine.
func (id ID) IsGlobal() bool { return id.scope == Global }

// String renders id as "<moduleLabel>.<instanceName>", prefixed with
// "<global>" when the scope is global.
func (id ID) String() string {
	if id.scope == Global {
		return fmt.Sprintf("<global>.%s", id.instanceName)
	}
	return fmt.Sprintf("%s.%s", id.moduleLabel, id.instanceName)
}

// Compare returns a negative number if id sorts before other, zero if they
// are equal, and a positive number if id sorts after other. Ordering is by
// the (moduleLabel, instanceName, scope) tuple.
func (id ID) Compare(other ID) int {
	if id.moduleLabel != other.moduleLabel {
		if id.moduleLabel < other.moduleLabel {
			return -1
		}
		return 1
	}
	if id.instanceName != other.instanceName {
		if id.instanceName < other.instanceName {
			return -1
		}
		return 1
	}
	return int(id.scope) - int(other.scope)
}

// Equal reports whether id and other identify the same engine.
func (id ID) Equal(other ID) bool {
	return id.Compare(other) == 0
}

// Less reports whether id sorts strictly before other.
func (id ID) Less(other ID) bool {
	return id.Compare(other) < 0
}
