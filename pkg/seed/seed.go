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

// Package seed defines the fixed-width seed value shared by every policy,
// the seed master and the service adapter.
package seed

// Seed is the value pushed into a concrete random-number engine. It is a
// fixed-width unsigned integer, matching the 32-bit engines pkg/seeder's
// canned Seeder implementations target.
type Seed uint32

// InvalidSeed is the distinguished value meaning "no seed". It never names
// a valid computed seed.
const InvalidSeed Seed = 0

// IsValid is the single authoritative predicate for seed validity.
func IsValid(s Seed) bool {
	return s != InvalidSeed
}
