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
	"sort"

	"github.com/texttheater/golang-levenshtein/levenshtein"

	"github.com/NuSoftHEP/nurandom/pkg/nrerrors"
)

// Kind enumerates the closed set of policy variants.
type Kind int

const (
	// Undefined is never produced by PolicyFromName on a known name; it is
	// the zero value and the one kind policyName/policyFromName need not
	// round-trip (spec §8, "Round-trips").
	Undefined Kind = iota
	AutoIncrement
	LinearMapping
	PreDefinedOffset
	PreDefinedSeed
	Random
	PerEvent
)

var kindNames = map[Kind]string{
	AutoIncrement:    "autoIncrement",
	LinearMapping:    "linearMapping",
	PreDefinedOffset: "preDefinedOffset",
	PreDefinedSeed:   "preDefinedSeed",
	Random:           "random",
	PerEvent:         "perEvent",
}

var namesToKind = func() map[string]Kind {
	out := make(map[string]Kind, len(kindNames))
	for k, n := range kindNames {
		out[n] = k
	}
	return out
}()

// PolicyName returns the registered configuration name for kind, or "" for
// Undefined.
func PolicyName(kind Kind) string {
	return kindNames[kind]
}

// PolicyFromName resolves a configured policy name to its Kind. On an
// unrecognized name it suggests the closest registered name by Levenshtein
// distance, the same courtesy a CLI gives a mistyped subcommand.
func PolicyFromName(name string) (Kind, error) {
	if kind, ok := namesToKind[name]; ok {
		return kind, nil
	}
	return Undefined, unknownPolicyError(name)
}

func unknownPolicyError(name string) error {
	best, bestDist := "", -1
	names := make([]string, 0, len(kindNames))
	for _, n := range kindNames {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		dist := levenshtein.DistanceForStrings([]rune(name), []rune(n), levenshtein.DefaultOptions)
		if bestDist == -1 || dist < bestDist {
			bestDist, best = dist, n
		}
	}
	if best != "" && bestDist <= 3 {
		return nrerrors.Configurationf(nil, "unknown policy %q, did you mean %q?", name, best)
	}
	return nrerrors.Configurationf(nil, "unknown policy %q", name)
}

type constructor func(t Tree) (Policy, error)

var constructors = map[Kind]constructor{
	AutoIncrement:    newAutoIncrement,
	LinearMapping:    newLinearMapping,
	PreDefinedOffset: newPreDefinedOffset,
	PreDefinedSeed:   newPreDefinedSeed,
	Random:           newRandom,
	PerEvent:         newPerEvent,
}

// New constructs a Policy from a configuration tree whose "policy" key
// names one of the registered kinds.
func New(t Tree) (Policy, error) {
	name, ok := t.GetString("policy")
	if !ok {
		return nil, nrerrors.Configurationf(nil, "missing required key %q", "policy")
	}
	kind, ok := namesToKind[name]
	if !ok {
		return nil, unknownPolicyError(name)
	}
	return constructors[kind](t)
}
