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

// Package eventdata carries the per-event identity event-dependent
// policies need. It is produced by the service adapter from the host
// framework's current event and consumed only by event-dependent policies.
package eventdata

// EventData is the per-event identity used by event-dependent policies.
type EventData struct {
	RunNumber    int64
	SubRunNumber int64
	EventNumber  int64
	Timestamp    int64
	IsTimeValid  bool
	ProcessName  string
	ModuleLabel  string
}
