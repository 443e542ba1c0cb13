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

// lookupEngineTree resolves the offset/seed tabulated for id in t, per the
// moduleLabel -> (int | {instanceName -> int}) shape of spec §4.1.
func lookupEngineTree(t Tree, id engineid.ID) (int, bool) {
	v, ok := t[id.ModuleLabel()]
	if !ok {
		return 0, false
	}
	switch m := v.(type) {
	case int:
		return m, true
	case int64:
		return int(m), true
	case map[string]any:
		iv, ok := Tree(m).GetInt(id.InstanceName())
		return iv, ok
	case Tree:
		iv, ok := m.GetInt(id.InstanceName())
		return iv, ok
	}
	return 0, false
}

// preDefinedOffset assigns seed = baseSeed + offset, where offset is
// tabulated per engine. It range-checks and guarantees uniqueness like
// autoIncrement.
type preDefinedOffset struct {
	common
	baseSeed         int
	checkRange       bool
	maxUniqueEngines int
	tree             Tree

	mu       sync.Mutex
	assigned map[engineid.ID]seed.Seed
	count    int
}

func newPreDefinedOffset(t Tree) (Policy, error) {
	baseSeed, err := requireNonNegativeInt(t, "baseSeed")
	if err != nil {
		return nil, err
	}
	checkRange := t.GetBool("checkRange", true)

	p := &preDefinedOffset{
		common:     parseCommon(PolicyName(PreDefinedOffset), t),
		baseSeed:   baseSeed,
		checkRange: checkRange,
		tree:       t,
		assigned:   make(map[engineid.ID]seed.Seed),
	}
	if checkRange {
		max, ok := t.GetInt("maxUniqueEngines")
		if !ok {
			return nil, nrerrors.Configurationf(nil, "%q requires %q when checkRange is true", p.Name(), "maxUniqueEngines")
		}
		p.maxUniqueEngines = max
	}
	return p, nil
}

func (p *preDefinedOffset) Name() string           { return p.common.name }
func (p *preDefinedOffset) YieldsUniqueSeeds() bool { return true }

func (p *preDefinedOffset) GetSeed(id engineid.ID) (seed.Seed, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if s, ok := p.assigned[id]; ok {
		return s, nil
	}
	offset, ok := lookupEngineTree(p.tree, id)
	if !ok {
		return seed.InvalidSeed, nrerrors.Configurationf(id, "preDefinedOffset: no offset defined for engine")
	}
	if p.checkRange && p.count >= p.maxUniqueEngines {
		return seed.InvalidSeed, nrerrors.Configurationf(id, "preDefinedOffset: maxUniqueEngines (%d) exceeded", p.maxUniqueEngines)
	}
	s := seed.Seed(p.baseSeed + offset)
	p.assigned[id] = s
	p.count++
	return s, nil
}
