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

// Package metrics exposes the seed master's observability surface as
// Prometheus counters, the same way the teacher wires a metrics package
// into its admission handlers.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "nurandom"

var (
	// EnginesRegistered counts every successful registerSeeder /
	// registerNewSeeder / declareEngine call.
	EnginesRegistered = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "engines_registered_total",
		Help:      "Total number of engines registered with the seed master.",
	})

	// Reseeds counts every reseed/reseedEvent call that actually invoked a
	// seeder (frozen engines and no-seeder engines are not counted).
	Reseeds = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reseeds_total",
		Help:      "Total number of engines reseeded via a framework phase callback.",
	})

	// UniquenessCollisions counts every UniquenessError raised by a
	// unique-yielding policy.
	UniquenessCollisions = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uniqueness_collisions_total",
		Help:      "Total number of seed collisions detected for unique-yielding policies.",
	})

	// FrozenOverrides counts every engine whose seed was frozen via an
	// explicit override.
	FrozenOverrides = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "frozen_overrides_total",
		Help:      "Total number of engines whose seed was frozen by an explicit override.",
	})
)

// MustRegister registers every collector in this package with reg. The
// demo CLI's app.Run calls it on a fresh registry each run; unit tests
// construct their own registry via NewRegistry to avoid double-registration
// panics across test runs.
func MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(EnginesRegistered, Reseeds, UniquenessCollisions, FrozenOverrides)
}
