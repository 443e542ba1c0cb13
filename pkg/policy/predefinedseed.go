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
	"github.com/NuSoftHEP/nurandom/pkg/nrerrors"
	"github.com/NuSoftHEP/nurandom/pkg/seed"
)

// preDefinedSeed returns the tabulated seed verbatim, with no uniqueness or
// range check. It exists for debugging: an operator who wants to pin exact
// seeds on exact engines (spec §4.1).
type preDefinedSeed struct {
	common
	tree Tree
}

func newPreDefinedSeed(t Tree) (Policy, error) {
	return &preDefinedSeed{
		common: parseCommon(PolicyName(PreDefinedSeed), t),
		tree:   t,
	}, nil
}

func (p *preDefinedSeed) Name() string           { return p.common.name }
func (p *preDefinedSeed) YieldsUniqueSeeds() bool { return false }

func (p *preDefinedSeed) GetSeed(id engineid.ID) (seed.Seed, error) {
	v, ok := lookupEngineTree(p.tree, id)
	if !ok {
		return seed.InvalidSeed, nrerrors.Configurationf(id, "preDefinedSeed: no seed defined for engine")
	}
	return seed.Seed(v), nil
}
