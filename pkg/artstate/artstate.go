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

// Package artstate tracks the host framework's current phase and the
// "current module"/"current event" context the adapter qualifies short
// identifiers against. It is deliberately tiny: a closed set of states, a
// table of legal one-way transitions, and two context slots. There is no
// analogue for this in the teacher repo; it is written directly against
// the state machine spec.md describes, using the standard library only
// (see DESIGN.md).
package artstate

import (
	"fmt"

	"github.com/NuSoftHEP/nurandom/pkg/eventdata"
	"github.com/NuSoftHEP/nurandom/pkg/nrerrors"
)

// Phase is one state of the host framework's job lifecycle.
type Phase int

const (
	NotStarted Phase = iota
	InServiceConstructor
	InModuleConstructor
	InModuleBeginRun
	InEvent
	InModuleEvent
	InEndJob
)

func (p Phase) String() string {
	switch p {
	case NotStarted:
		return "notStarted"
	case InServiceConstructor:
		return "inServiceConstructor"
	case InModuleConstructor:
		return "inModuleConstructor"
	case InModuleBeginRun:
		return "inModuleBeginRun"
	case InEvent:
		return "inEvent"
	case InModuleEvent:
		return "inModuleEvent"
	case InEndJob:
		return "inEndJob"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// transition is a one-way pre -> post pairing; attempting the post side
// without having taken the pre side, or taking a pre side twice, is a
// logic error.
type transition struct {
	from, to Phase
}

var legalTransitions = []transition{
	{NotStarted, InServiceConstructor},
	{InServiceConstructor, NotStarted},
	{NotStarted, InModuleConstructor},
	{InModuleConstructor, NotStarted},
	{NotStarted, InModuleBeginRun},
	{InModuleBeginRun, NotStarted},
	{NotStarted, InEvent},
	{InEvent, NotStarted},
	{InEvent, InModuleEvent},
	{InModuleEvent, InEvent},
	{NotStarted, InEndJob},
	{InEndJob, NotStarted},
}

func isLegal(from, to Phase) bool {
	for _, t := range legalTransitions {
		if t.from == from && t.to == to {
			return true
		}
	}
	return false
}

// State is the single-threaded phase tracker. It is mutated only from
// framework callback entry points or the adapter that wraps it.
type State struct {
	phase Phase

	currentModule string
	currentEvent  eventdata.EventData
	hasEvent      bool
}

// New returns a State in NotStarted.
func New() *State {
	return &State{phase: NotStarted}
}

// Phase returns the current phase.
func (s *State) Phase() Phase { return s.phase }

// Enter transitions from the current phase to to, failing with a logic
// error if that pairing is not in the legal transition table.
func (s *State) Enter(to Phase) error {
	if !isLegal(s.phase, to) {
		return nrerrors.Logicf(nil, "illegal phase transition %s -> %s", s.phase, to)
	}
	s.phase = to
	return nil
}

// SetCurrentModule records the module label in scope for InModuleConstructor
// and InModuleEvent. Pass "" when leaving module scope.
func (s *State) SetCurrentModule(moduleLabel string) {
	s.currentModule = moduleLabel
}

// CurrentModule returns the module label in scope, or "" if none.
func (s *State) CurrentModule() string { return s.currentModule }

// HasCurrentModule reports whether a module is currently in scope.
func (s *State) HasCurrentModule() bool { return s.currentModule != "" }

// SetCurrentEvent records the event identity in scope during InEvent and
// InModuleEvent.
func (s *State) SetCurrentEvent(data eventdata.EventData) {
	s.currentEvent = data
	s.hasEvent = true
}

// ClearCurrentEvent drops the event identity in scope, called on
// post-event.
func (s *State) ClearCurrentEvent() {
	s.currentEvent = eventdata.EventData{}
	s.hasEvent = false
}

// CurrentEvent returns the event identity in scope and whether one is set.
func (s *State) CurrentEvent() (eventdata.EventData, bool) { return s.currentEvent, s.hasEvent }
