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
	"sync"

	"github.com/NuSoftHEP/nurandom/pkg/engineid"
	"github.com/NuSoftHEP/nurandom/pkg/nrerrors"
	"github.com/NuSoftHEP/nurandom/pkg/seed"
)

// autoIncrement assigns seed = baseSeed + k, where k is the 0-based count
// of distinct EngineIds seen so far (spec §4.1).
type autoIncrement struct {
	common
	baseSeed         int
	checkRange       bool
	maxUniqueEngines int

	mu       sync.Mutex
	assigned map[engineid.ID]seed.Seed
	count    int
}

func newAutoIncrement(t Tree) (Policy, error) {
	baseSeed, err := requireNonNegativeInt(t, "baseSeed")
	if err != nil {
		return nil, err
	}
	checkRange := t.GetBool("checkRange", true)

	p := &autoIncrement{
		common:     parseCommon(PolicyName(AutoIncrement), t),
		baseSeed:   baseSeed,
		checkRange: checkRange,
		assigned:   make(map[engineid.ID]seed.Seed),
	}
	if checkRange {
		max, ok := t.GetInt("maxUniqueEngines")
		if !ok {
			return nil, nrerrors.Configurationf(nil, "%q requires %q when checkRange is true", p.Name(), "maxUniqueEngines")
		}
		if max < 0 {
			return nil, nrerrors.Configurationf(nil, "%q must be >= 0, got %d", "maxUniqueEngines", max)
		}
		p.maxUniqueEngines = max
	}
	return p, nil
}

func (p *autoIncrement) Name() string             { return p.common.name }
func (p *autoIncrement) YieldsUniqueSeeds() bool   { return true }

func (p *autoIncrement) GetSeed(id engineid.ID) (seed.Seed, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if s, ok := p.assigned[id]; ok {
		return s, nil
	}
	if p.checkRange && p.count >= p.maxUniqueEngines {
		return seed.InvalidSeed, nrerrors.Configurationf(id, "autoIncrement: maxUniqueEngines (%d) exceeded", p.maxUniqueEngines)
	}
	s := seed.Seed(p.baseSeed + p.count)
	p.assigned[id] = s
	p.count++
	return s, nil
}
