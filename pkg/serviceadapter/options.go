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

package serviceadapter

import "github.com/NuSoftHEP/nurandom/pkg/seed"

// RegisterOptions collects the override resolution requested for a single
// Register/RegisterGlobal call (spec §4.3's three override overloads).
type RegisterOptions struct {
	explicitSeed *seed.Seed
	paramNames   []string
}

// RegisterOption configures a RegisterOptions, the same interface-plus-
// ApplyTo shape the teacher uses for patch options.
type RegisterOption interface {
	ApplyToRegisterOptions(*RegisterOptions)
}

type explicitSeedOption struct{ value seed.Seed }

func (o explicitSeedOption) ApplyToRegisterOptions(in *RegisterOptions) {
	v := o.value
	in.explicitSeed = &v
}

// WithSeed overrides the engine's seed with an explicit value supplied by
// the caller directly, case (a) of spec §4.3.
func WithSeed(s seed.Seed) RegisterOption { return explicitSeedOption{value: s} }

type validatedSeedOption struct{ value *seed.Seed }

func (o validatedSeedOption) ApplyToRegisterOptions(in *RegisterOptions) {
	if o.value != nil {
		in.explicitSeed = o.value
	}
}

// WithValidatedSeed overrides the engine's seed with a value already
// resolved by the configuration validation layer, case (b) of spec §4.3. A
// nil s means "no override was configured".
func WithValidatedSeed(s *seed.Seed) RegisterOption { return validatedSeedOption{value: s} }

type paramNamesOption struct{ names []string }

func (o paramNamesOption) ApplyToRegisterOptions(in *RegisterOptions) {
	in.paramNames = append(in.paramNames, o.names...)
}

// WithParameterNames resolves the override by looking up each name in
// order against the adapter's configuration tree, case (c) of spec §4.3.
// The first name whose value is present and non-zero wins; a present but
// zero value is the documented escape hatch and is skipped in favor of the
// next candidate.
func WithParameterNames(names ...string) RegisterOption { return paramNamesOption{names: names} }
