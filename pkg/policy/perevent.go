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

package policy

import (
	"github.com/NuSoftHEP/nurandom/pkg/engineid"
	"github.com/NuSoftHEP/nurandom/pkg/eventdata"
	"github.com/NuSoftHEP/nurandom/pkg/nrerrors"
	"github.com/NuSoftHEP/nurandom/pkg/seed"
)

const defaultAlgorithm = "EventTimestamp_v1"

// perEvent is the one composite policy: it delegates the pre-event seed to
// an optional nested policy, and computes the per-event seed by hashing
// the event's identity. Recursion is depth-bounded to one: nesting perEvent
// inside its own initSeedPolicy is a configuration error (spec §4.1, §9).
type perEvent struct {
	common
	algorithm string
	offset    int64
	initSeed  Policy // nil if no initSeedPolicy was configured
}

func newPerEvent(t Tree) (Policy, error) {
	p := &perEvent{
		common:    parseCommon(PolicyName(PerEvent), t),
		algorithm: defaultAlgorithm,
	}
	if alg, ok := t.GetString("algorithm"); ok {
		p.algorithm = alg
	}
	if off, ok := t.GetInt("offset"); ok {
		p.offset = int64(off)
	}

	if sub, ok := t.Sub("initSeedPolicy"); ok {
		inner, err := New(sub)
		if err != nil {
			return nil, err
		}
		if _, isEventPolicy := inner.(EventPolicy); isEventPolicy {
			return nil, nrerrors.Configurationf(nil, "initSeedPolicy may not itself be %q", PolicyName(PerEvent))
		}
		p.initSeed = inner
	}

	switch p.algorithm {
	case "EventTimestamp_v1":
	default:
		return nil, nrerrors.Configurationf(nil, "perEvent: unknown algorithm %q", p.algorithm)
	}

	return p, nil
}

func (p *perEvent) Name() string           { return p.common.name }
func (p *perEvent) YieldsUniqueSeeds() bool { return false }

// GetSeed returns the pre-event seed: the nested initSeedPolicy's value if
// configured, else InvalidSeed.
func (p *perEvent) GetSeed(id engineid.ID) (seed.Seed, error) {
	if p.initSeed == nil {
		return seed.InvalidSeed, nil
	}
	return p.initSeed.GetSeed(id)
}

// GetEventSeed runs the configured algorithm on (id, data) and adds offset.
func (p *perEvent) GetEventSeed(id engineid.ID, data eventdata.EventData) (seed.Seed, error) {
	var (
		s   seed.Seed
		err error
	)
	switch p.algorithm {
	case "EventTimestamp_v1":
		s, err = eventTimestampV1(id, data)
	default:
		return seed.InvalidSeed, nrerrors.Configurationf(id, "perEvent: unknown algorithm %q", p.algorithm)
	}
	if err != nil {
		return seed.InvalidSeed, err
	}

	result := seed.Seed(int64(uint32(s)) + p.offset)
	if !seed.IsValid(result) {
		result = seed.Seed(1)
	}
	return result, nil
}
