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
	"time"

	"golang.org/x/exp/rand"

	"github.com/NuSoftHEP/nurandom/pkg/engineid"
	"github.com/NuSoftHEP/nurandom/pkg/seed"
)

// random draws successive values from a private PRNG seeded once at
// construction. x/exp/rand is used instead of math/rand so that the
// generator's algorithm is pinned independent of the Go toolchain version
// running the job — the same "platform-stable" determinism concern spec
// §4.1's EventTimestamp_v1 algorithm calls out explicitly.
type random struct {
	common

	mu  sync.Mutex
	rng *rand.Rand
}

func newRandom(t Tree) (Policy, error) {
	var masterSeed uint64
	if v, ok := t.GetInt("masterSeed"); ok {
		masterSeed = uint64(v)
	} else {
		masterSeed = uint64(time.Now().UnixNano())
	}

	return &random{
		common: parseCommon(PolicyName(Random), t),
		rng:    rand.New(rand.NewSource(masterSeed)),
	}, nil
}

func (p *random) Name() string           { return p.common.name }
func (p *random) YieldsUniqueSeeds() bool { return true }

func (p *random) GetSeed(_ engineid.ID) (seed.Seed, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return seed.Seed(p.rng.Uint32()), nil
}
