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

// Package policy implements the six seed-generation policies plus the
// perEvent composite, and the registry that constructs one from a
// configuration subtree. Policies form a closed set (spec §9): prefer this
// tagged-variant registry over open-ended interfaces implemented elsewhere.
package policy

import (
	"github.com/NuSoftHEP/nurandom/pkg/engineid"
	"github.com/NuSoftHEP/nurandom/pkg/eventdata"
	"github.com/NuSoftHEP/nurandom/pkg/nrerrors"
	"github.com/NuSoftHEP/nurandom/pkg/seed"
)

// Policy is the pure function from an engine identity to a seed, shared by
// every variant.
type Policy interface {
	// Name is the registered name of this policy instance's kind.
	Name() string
	// YieldsUniqueSeeds reports whether SeedMaster must collision-check
	// this policy's output.
	YieldsUniqueSeeds() bool
	// Verbosity is the configured verbosity level (default 0).
	Verbosity() int
	// EndOfJobSummary reports whether an end-of-job summary was requested.
	EndOfJobSummary() bool
	// GetSeed computes the seed for id.
	GetSeed(id engineid.ID) (seed.Seed, error)
}

// EventPolicy is implemented additionally by policies that can compute a
// per-event seed; today only the perEvent composite does.
type EventPolicy interface {
	Policy
	// GetEventSeed computes the per-event seed for id given data.
	GetEventSeed(id engineid.ID, data eventdata.EventData) (seed.Seed, error)
}

// common holds the configuration keys shared by every policy kind:
// policy, verbosity, endOfJobSummary (spec §4.1).
type common struct {
	name            string
	verbosity       int
	endOfJobSummary bool
}

func (c common) Verbosity() int        { return c.verbosity }
func (c common) EndOfJobSummary() bool { return c.endOfJobSummary }

func parseCommon(name string, t Tree) common {
	c := common{name: name}
	if v, ok := t.GetInt("verbosity"); ok {
		c.verbosity = v
	}
	c.endOfJobSummary = t.GetBool("endOfJobSummary", false)
	return c
}

// requireNonNegativeInt fetches a required integer key and rejects
// negative values, the shape every "baseSeed"/"nJob" field shares.
func requireNonNegativeInt(t Tree, key string) (int, error) {
	v, ok := t.GetInt(key)
	if !ok {
		return 0, nrerrors.Configurationf(nil, "missing required key %q", key)
	}
	if v < 0 {
		return 0, nrerrors.Configurationf(nil, "key %q must be >= 0, got %d", key, v)
	}
	return v, nil
}
