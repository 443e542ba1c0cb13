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

// Package seedmaster owns the chosen policy, the per-engine record table
// and the three seed caches, and implements the registration, query and
// reseed operations every engine in a job goes through.
package seedmaster

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/go-logr/logr"
	"github.com/hashicorp/go-multierror"

	"github.com/NuSoftHEP/nurandom/pkg/engineid"
	"github.com/NuSoftHEP/nurandom/pkg/eventdata"
	"github.com/NuSoftHEP/nurandom/pkg/metrics"
	"github.com/NuSoftHEP/nurandom/pkg/nrerrors"
	"github.com/NuSoftHEP/nurandom/pkg/policy"
	"github.com/NuSoftHEP/nurandom/pkg/seed"
	"github.com/NuSoftHEP/nurandom/pkg/seeder"
)

// record is the SeedMaster-internal per-engine bookkeeping entry (spec §3).
type record struct {
	seeder  seeder.Seeder
	frozen  bool
	defined bool // true once a seeder has been bound by RegisterSeeder, RegisterNewSeeder or Define; false for a declared-only record
}

// SeedMaster is the policy-driven mapping from a qualified engine identity
// to one or more seed values, plus the registration/query/reseed protocol
// that binds seeders to engines. It is process-lifetime for the life of a
// job (spec §5) and is safe for concurrent use of GetSeed alone, matching
// the one reentrant entry point spec §5 calls out; every other method
// assumes the single-threaded construction/teardown discipline the host
// framework provides.
type SeedMaster struct {
	mu sync.Mutex

	pol policy.Policy
	log logr.Logger

	records    map[engineid.ID]*record
	configured map[engineid.ID]seed.Seed
	knownEvent map[engineid.ID]seed.Seed
	current    map[engineid.ID]seed.Seed
}

// New builds a SeedMaster around pol. log may be the zero logr.Logger
// (logr.Discard()); Print uses it to report how many inconsistent rows the
// end-of-job summary found.
func New(pol policy.Policy, log logr.Logger) *SeedMaster {
	return &SeedMaster{
		pol:        pol,
		log:        log,
		records:    make(map[engineid.ID]*record),
		configured: make(map[engineid.ID]seed.Seed),
		knownEvent: make(map[engineid.ID]seed.Seed),
		current:    make(map[engineid.ID]seed.Seed),
	}
}

// RegisterSeeder binds s to id, creating the record if it does not already
// exist. It does not compute a seed.
func (m *SeedMaster) RegisterSeeder(id engineid.ID, s seeder.Seeder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registerLocked(id, s)
	metrics.EnginesRegistered.Inc()
	return nil
}

// RegisterNewSeeder is like RegisterSeeder but fails if id is already
// registered (spec §4.2, invariant 1).
func (m *SeedMaster) RegisterNewSeeder(id engineid.ID, s seeder.Seeder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.records[id]; exists {
		return nrerrors.Logicf(id, "engine already registered")
	}
	m.registerLocked(id, s)
	metrics.EnginesRegistered.Inc()
	return nil
}

func (m *SeedMaster) registerLocked(id engineid.ID, s seeder.Seeder) {
	if r, exists := m.records[id]; exists {
		r.seeder = s
		r.defined = true
		return
	}
	m.records[id] = &record{seeder: s, defined: true}
}

// IsRegistered reports whether id has an engine record, whether declared
// only or fully defined.
func (m *SeedMaster) IsRegistered(id engineid.ID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, exists := m.records[id]
	return exists
}

// Declare records id with a null seeder and fails if id is already
// registered, the first step of the declare/define protocol (spec §4.3,
// Open Question 3).
func (m *SeedMaster) Declare(id engineid.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.records[id]; exists {
		return nrerrors.Logicf(id, "engine already registered")
	}
	m.records[id] = &record{seeder: seeder.Null}
	metrics.EnginesRegistered.Inc()
	return nil
}

// Define attaches s to a previously declared id, failing if id was never
// declared or has already been defined.
func (m *SeedMaster) Define(id engineid.ID, s seeder.Seeder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, exists := m.records[id]
	if !exists {
		return nrerrors.Logicf(id, "defineEngine called without a prior declareEngine")
	}
	if r.defined {
		return nrerrors.Logicf(id, "engine is already defined")
	}
	r.seeder = s
	r.defined = true
	return nil
}

// FreezeSeed marks id frozen with the given seed, writing both configured
// and current (spec §4.2).
func (m *SeedMaster) FreezeSeed(id engineid.ID, s seed.Seed) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, exists := m.records[id]
	if !exists {
		return nrerrors.Logicf(id, "cannot freeze an unregistered engine")
	}
	r.frozen = true
	m.configured[id] = s
	m.current[id] = s
	metrics.FrozenOverrides.Inc()
	return nil
}

// GetSeed returns configured[id] if present; otherwise computes it via the
// policy, uniqueness-checks it if the policy claims uniqueness, caches it,
// and writes current[id] if valid. GetSeed(id) alone is safe for concurrent
// use (spec §5); it never creates a new engine record under contention
// without locking.
func (m *SeedMaster) GetSeed(id engineid.ID) (seed.Seed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getSeedLocked(id)
}

func (m *SeedMaster) getSeedLocked(id engineid.ID) (seed.Seed, error) {
	if s, ok := m.configured[id]; ok {
		return s, nil
	}
	s, err := m.pol.GetSeed(id)
	if err != nil {
		return seed.InvalidSeed, err
	}
	if m.pol.YieldsUniqueSeeds() {
		if other, collides := findCollision(m.configured, id, s); collides {
			metrics.UniquenessCollisions.Inc()
			return seed.InvalidSeed, nrerrors.Uniquenessf(id, other, "policy %q produced a duplicate seed %d", m.pol.Name(), s)
		}
	}
	m.configured[id] = s
	if seed.IsValid(s) {
		m.current[id] = s
	}
	return s, nil
}

// GetEventSeed returns knownEvent[id] if present; otherwise computes it via
// the policy's event-dependent branch, uniqueness-checks it against
// knownEvent only, caches it, and writes current[id] if valid.
func (m *SeedMaster) GetEventSeed(id engineid.ID, data eventdata.EventData) (seed.Seed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.knownEvent[id]; ok {
		return s, nil
	}

	var (
		s   seed.Seed
		err error
	)
	if ep, ok := m.pol.(policy.EventPolicy); ok {
		s, err = ep.GetEventSeed(id, data)
	} else {
		// Non-event-dependent policies have nothing to vary per event: the
		// per-event seed is just the configured seed, pushed again.
		s, err = m.getSeedLocked(id)
	}
	if err != nil {
		return seed.InvalidSeed, err
	}
	if m.pol.YieldsUniqueSeeds() {
		if other, collides := findCollision(m.knownEvent, id, s); collides {
			metrics.UniquenessCollisions.Inc()
			return seed.InvalidSeed, nrerrors.Uniquenessf(id, other, "policy %q produced a duplicate per-event seed %d", m.pol.Name(), s)
		}
	}
	m.knownEvent[id] = s
	if seed.IsValid(s) {
		m.current[id] = s
	}
	return s, nil
}

// GetCurrentSeed is a non-mutating read of current[id], or InvalidSeed.
func (m *SeedMaster) GetCurrentSeed(id engineid.ID) seed.Seed {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current[id]
}

// Reseed computes GetSeed(id) and invokes its seeder, returning InvalidSeed
// without doing either if id is unregistered, declared only, bound to a nil
// seeder, or frozen.
func (m *SeedMaster) Reseed(id engineid.ID) (seed.Seed, error) {
	m.mu.Lock()
	r, exists := m.records[id]
	if !exists || r.frozen || !r.defined || r.seeder == nil {
		m.mu.Unlock()
		return seed.InvalidSeed, nil
	}
	s, err := m.getSeedLocked(id)
	sdr := r.seeder
	m.mu.Unlock()
	if err != nil {
		return seed.InvalidSeed, err
	}
	sdr.Apply(id, s)
	metrics.Reseeds.Inc()
	return s, nil
}

// ReseedEvent computes GetEventSeed(id, data) and, unless id is frozen,
// invokes its seeder. The event seed is returned either way so callers can
// distinguish "frozen" from "policy returned Invalid" (spec §4.2).
func (m *SeedMaster) ReseedEvent(id engineid.ID, data eventdata.EventData) (seed.Seed, error) {
	m.mu.Lock()
	r, exists := m.records[id]
	m.mu.Unlock()
	if !exists {
		return seed.InvalidSeed, nrerrors.Logicf(id, "cannot reseed an unregistered engine")
	}

	s, err := m.GetEventSeed(id, data)
	if err != nil {
		return seed.InvalidSeed, err
	}
	if !r.frozen && r.defined && r.seeder != nil {
		r.seeder.Apply(id, s)
		metrics.Reseeds.Inc()
	}
	return s, nil
}

// OnNewEvent clears knownEvent (spec invariant 3).
func (m *SeedMaster) OnNewEvent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.knownEvent = make(map[engineid.ID]seed.Seed)
}

// KnownIDs returns every registered or seed-queried engine id, sorted for
// stable iteration (used by print and by the adapter's reseed driver).
func (m *SeedMaster) KnownIDs() []engineid.ID {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[engineid.ID]struct{})
	for id := range m.records {
		seen[id] = struct{}{}
	}
	for id := range m.configured {
		seen[id] = struct{}{}
	}
	for id := range m.current {
		seen[id] = struct{}{}
	}
	ids := make([]engineid.ID, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	return ids
}

// IsFrozen reports whether id has been frozen, for callers that need to
// decide whether to skip a policy-driven reseed outside the methods above.
func (m *SeedMaster) IsFrozen(id engineid.ID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.records[id]; ok {
		return r.frozen
	}
	return false
}

// Print writes the end-of-job summary described in spec §6: for each known
// id, its configured value, its current value, and markers for global
// engines, overridden engines and detected inconsistencies.
func (m *SeedMaster) Print(w io.Writer) error {
	ids := m.KnownIDs()

	m.mu.Lock()
	defer m.mu.Unlock()

	var errs *multierror.Error
	for _, id := range ids {
		configured := m.configured[id]
		current := m.current[id]
		frozen := false
		if r, ok := m.records[id]; ok {
			frozen = r.frozen
		}

		var markers []string
		if id.IsGlobal() {
			markers = append(markers, "(global)")
		}
		if frozen {
			markers = append(markers, "[overridden]")
		}
		switch {
		case configured == seed.InvalidSeed && current == seed.InvalidSeed:
			markers = append(markers, "INVALID!!!")
		case seed.IsValid(configured) && configured != current:
			markers = append(markers, "[[ERROR!!!]]")
			errs = multierror.Append(errs, fmt.Errorf("engine %q: configured %d != current %d", id, configured, current))
		}

		line := fmt.Sprintf("%d | %d | %s", configured, current, id)
		if len(markers) > 0 {
			line += " " + strings.Join(markers, " ")
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if errs != nil {
		m.log.V(0).Info("end-of-job summary recorded inconsistencies", "count", errs.Len())
	}
	return errs.ErrorOrNil()
}

func findCollision(cache map[engineid.ID]seed.Seed, id engineid.ID, s seed.Seed) (engineid.ID, bool) {
	for other, v := range cache {
		if other == id {
			continue
		}
		if v == s {
			return other, true
		}
	}
	return engineid.ID{}, false
}
