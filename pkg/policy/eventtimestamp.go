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
	"fmt"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/NuSoftHEP/nurandom/pkg/engineid"
	"github.com/NuSoftHEP/nurandom/pkg/eventdata"
	"github.com/NuSoftHEP/nurandom/pkg/nrerrors"
	"github.com/NuSoftHEP/nurandom/pkg/seed"
)

// eventTimestampV1 implements the "EventTimestamp_v1" algorithm (spec
// §4.1): build an identity string combining every enumerated field, then
// hash it. hashstructure.Hash is deterministic within one build of this
// program (the bar spec §9 Open Question 2 sets), the same library the
// teacher uses in pkg/utils/secrets/manager/manager.go to turn a struct
// into a stable cache key.
func eventTimestampV1(id engineid.ID, data eventdata.EventData) (seed.Seed, error) {
	if !data.IsTimeValid {
		return seed.InvalidSeed, nrerrors.InvalidInputf(id, "EventTimestamp_v1: timestamp is not valid for this event")
	}

	s := fmt.Sprintf("Run: %d Subrun: %d Event: %d Timestamp: %d Process: %s Module: %s",
		data.RunNumber, data.SubRunNumber, data.EventNumber, data.Timestamp, data.ProcessName, data.ModuleLabel)
	if id.InstanceName() != "" {
		s += fmt.Sprintf(" Instance: %s", id.InstanceName())
	}

	hash, err := hashstructure.Hash(s, hashstructure.FormatV2, nil)
	if err != nil {
		return seed.InvalidSeed, nrerrors.InvalidInputf(id, "EventTimestamp_v1: hashing identity string: %v", err)
	}

	result := seed.Seed(uint32(hash))
	if !seed.IsValid(result) {
		result = seed.Seed(1)
	}
	return result, nil
}
