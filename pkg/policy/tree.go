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

// Tree is one node of the hierarchical configuration tree addressed as
// services.NuRandomService.* (spec §6). It is produced by pkg/config/loader
// unmarshalling YAML via gopkg.in/yaml.v3 into nested
// map[string]interface{}, which is the one decoder in the pack that keeps a
// scalar ("7") and a map ("{x: 9}") distinguishable at the same key without
// extra type hints — exactly what preDefinedOffset/preDefinedSeed's
// moduleLabel -> (int | {instanceName -> int}) shape needs.
type Tree map[string]any

// GetString returns the string at key, if present and of string type.
func (t Tree) GetString(key string) (string, bool) {
	v, ok := t[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetInt returns the integer at key, if present and numeric. YAML decodes
// unsuffixed integers as int; this also accepts int64 defensively.
func (t Tree) GetInt(key string) (int, bool) {
	v, ok := t[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	}
	return 0, false
}

// GetBool returns the boolean at key, or def if absent or not a bool.
func (t Tree) GetBool(key string, def bool) bool {
	v, ok := t[key]
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		return def
	}
	return b
}

// Has reports whether key is present in t, regardless of value.
func (t Tree) Has(key string) bool {
	_, ok := t[key]
	return ok
}

// Sub returns the nested Tree at key, if present and map-shaped.
func (t Tree) Sub(key string) (Tree, bool) {
	v, ok := t[key]
	if !ok {
		return nil, false
	}
	switch m := v.(type) {
	case Tree:
		return m, true
	case map[string]any:
		return Tree(m), true
	}
	return nil, false
}
