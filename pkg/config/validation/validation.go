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

// Package validation validates a decoded NuRandomServiceConfiguration
// before it reaches policy.New, aggregating every problem found rather
// than failing on the first one.
package validation

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/NuSoftHEP/nurandom/pkg/config"
	"github.com/NuSoftHEP/nurandom/pkg/logger"
)

// knownKeys is the union of every key any policy kind recognizes, used
// only to warn (not reject) on a typo'd key, per spec §6: "implementations
// should at least warn on unknown keys".
var knownKeys = map[string]struct{}{
	"policy": {}, "verbosity": {}, "endOfJobSummary": {},
	"baseSeed": {}, "maxUniqueEngines": {}, "checkRange": {}, "nJob": {},
	"masterSeed": {}, "algorithm": {}, "offset": {}, "initSeedPolicy": {},
}

// Validate checks cfg and returns every error found, or nil if cfg is
// usable as-is. Unknown keys produce a warning message via warn (which may
// be nil to discard warnings) rather than an error.
func Validate(cfg *config.NuRandomServiceConfiguration, warn func(string)) error {
	var errs *multierror.Error

	if cfg == nil {
		return multierror.Append(errs, fmt.Errorf("configuration is nil")).ErrorOrNil()
	}

	if _, ok := cfg.Policy.GetString("policy"); !ok {
		errs = multierror.Append(errs, fmt.Errorf("services.NuRandomService.policy is required"))
	}

	switch cfg.LogLevel {
	case logger.DebugLevel, logger.InfoLevel, logger.ErrorLevel, "":
	default:
		errs = multierror.Append(errs, fmt.Errorf("invalid logLevel %q", cfg.LogLevel))
	}

	switch cfg.LogFormat {
	case logger.FormatJSON, logger.FormatText, "":
	default:
		errs = multierror.Append(errs, fmt.Errorf("invalid logFormat %q", cfg.LogFormat))
	}

	if warn != nil {
		for key := range cfg.Policy {
			if _, known := knownKeys[key]; !known {
				warn(fmt.Sprintf("unrecognized configuration key %q", key))
			}
		}
	}

	return errs.ErrorOrNil()
}
