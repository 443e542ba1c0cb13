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

// Package seeder defines the callback SeedMaster uses to push a computed
// seed into a real random-number engine, plus canned wrappers for the two
// engine families the adapter cares about.
package seeder

import (
	"github.com/NuSoftHEP/nurandom/pkg/engineid"
	"github.com/NuSoftHEP/nurandom/pkg/seed"
)

// Seeder pushes a seed into a real engine. Implementations must be cheap
// and must not block; SeedMaster invokes them synchronously.
type Seeder interface {
	Apply(id engineid.ID, s seed.Seed)
}

// Func adapts a plain function to Seeder.
type Func func(id engineid.ID, s seed.Seed)

// Apply implements Seeder.
func (f Func) Apply(id engineid.ID, s seed.Seed) { f(id, s) }

// Null is the explicit "declared only" seeder: it does nothing. Use this,
// not a nil Seeder, to represent "no real engine attached yet".
var Null Seeder = Func(func(engineid.ID, seed.Seed) {})

// CLHEPEngine is the minimal surface of a CLHEP-style engine that
// NewCLHEPSeeder needs.
type CLHEPEngine interface {
	SetSeed(seed int64, lux int)
}

// NewCLHEPSeeder wraps a CLHEP-style engine, whose setSeed takes a
// secondary "luxury level" argument always passed as 0 here (spec §6).
func NewCLHEPSeeder(engine CLHEPEngine) Seeder {
	return Func(func(_ engineid.ID, s seed.Seed) {
		engine.SetSeed(int64(s), 0)
	})
}

// ROOTEngine is the minimal surface of a ROOT-style engine that
// NewROOTSeeder needs.
type ROOTEngine interface {
	SetSeed(seed uint32)
}

// NewROOTSeeder wraps a ROOT-style engine, whose SetSeed takes the seed
// alone (spec §6).
func NewROOTSeeder(engine ROOTEngine) Seeder {
	return Func(func(_ engineid.ID, s seed.Seed) {
		engine.SetSeed(uint32(s))
	})
}
