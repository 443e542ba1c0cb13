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

// Package config defines the job-wide configuration for the seed-master
// core, the way the teacher's pkg/.../apis/config packages define a plain,
// doc-commented configuration struct read once at process startup.
package config

import (
	"github.com/NuSoftHEP/nurandom/pkg/logger"
	"github.com/NuSoftHEP/nurandom/pkg/policy"
)

// NuRandomServiceConfiguration is the root configuration for a job's seed
// master, addressed in the on-disk document as services.NuRandomService.*
// (spec §6).
type NuRandomServiceConfiguration struct {
	// Policy is the raw configuration subtree handed to policy.New: the
	// union of the common keys (policy, verbosity, endOfJobSummary) and
	// whichever policy-specific keys the chosen "policy" name requires.
	Policy policy.Tree
	// LogLevel selects the zap logger's severity.
	LogLevel logger.Level
	// LogFormat selects the zap logger's encoder.
	LogFormat logger.Format
}
