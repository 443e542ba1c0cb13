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

// Package loader reads a NuRandomServiceConfiguration from a YAML document
// on an afero filesystem, overlaying ambient settings from environment
// variables and CLI flags via viper.
package loader

import (
	"bytes"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/NuSoftHEP/nurandom/pkg/config"
	"github.com/NuSoftHEP/nurandom/pkg/logger"
	"github.com/NuSoftHEP/nurandom/pkg/policy"
)

// rawDocument mirrors just enough of the on-disk shape to split out the
// services.NuRandomService subtree.
type rawDocument struct {
	Services struct {
		NuRandomService map[string]any `yaml:"NuRandomService"`
	} `yaml:"services"`
}

// NewViper builds a *viper.Viper configured for the ambient settings this
// loader reads: environment variables prefixed NURANDOM_, and whatever CLI
// flags the caller binds before calling Load.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("nurandom")
	v.AutomaticEnv()
	v.SetDefault("logLevel", string(logger.InfoLevel))
	v.SetDefault("logFormat", string(logger.FormatText))
	return v
}

// Load reads path off fs and decodes it into a NuRandomServiceConfiguration.
//
// The services.NuRandomService subtree is decoded directly from the YAML
// bytes with yaml.v3 rather than through v, because viper lower-cases
// every map key it loads (including nested maps) and would silently turn
// "baseSeed" into "baseseed", breaking every policy that depends on exact
// key casing. Ambient settings (logLevel, logFormat) go through v instead,
// so they can be overridden by NURANDOM_LOGLEVEL or a bound --log-level
// flag.
func Load(fs afero.Fs, v *viper.Viper, path string) (*config.NuRandomServiceConfiguration, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var doc rawDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	v.SetConfigType("yaml")
	if err := v.MergeConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("loading ambient settings from %s: %w", path, err)
	}

	return &config.NuRandomServiceConfiguration{
		Policy:    policy.Tree(doc.Services.NuRandomService),
		LogLevel:  logger.Level(v.GetString("logLevel")),
		LogFormat: logger.Format(v.GetString("logFormat")),
	}, nil
}
