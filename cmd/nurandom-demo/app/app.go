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

// Package app wires the seed-master core into a small CLI that drives one
// simulated batch job: construct a module, run a handful of events, print
// the end-of-job summary. The Options/AddFlags/validate/NewCommand/
// runCommand shape is lifted from
// cmd/gardener-scheduler/app/gardener_scheduler.go, trimmed of every
// Kubernetes-manager concern it has no use for here.
package app

import (
	"errors"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/NuSoftHEP/nurandom/pkg/artstate"
	"github.com/NuSoftHEP/nurandom/pkg/config/loader"
	"github.com/NuSoftHEP/nurandom/pkg/config/validation"
	"github.com/NuSoftHEP/nurandom/pkg/engineid"
	"github.com/NuSoftHEP/nurandom/pkg/eventdata"
	"github.com/NuSoftHEP/nurandom/pkg/logger"
	"github.com/NuSoftHEP/nurandom/pkg/metrics"
	"github.com/NuSoftHEP/nurandom/pkg/policy"
	"github.com/NuSoftHEP/nurandom/pkg/seed"
	"github.com/NuSoftHEP/nurandom/pkg/seedmaster"
	"github.com/NuSoftHEP/nurandom/pkg/seeder"
	"github.com/NuSoftHEP/nurandom/pkg/serviceadapter"
)

// Options has all the context and parameters needed to run the demo.
type Options struct {
	// ConfigFile is the location of the demo's configuration file.
	ConfigFile string
	// NumEvents is how many simulated events the job processes.
	NumEvents int
}

// AddFlags adds flags for the demo to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.ConfigFile, "config", o.ConfigFile, "The path to the configuration file.")
	fs.IntVar(&o.NumEvents, "events", 3, "The number of simulated events to process.")
}

func (o *Options) validate(args []string) error {
	if o.ConfigFile == "" {
		return fmt.Errorf("missing configuration file")
	}
	if o.NumEvents < 0 {
		return fmt.Errorf("events must be >= 0")
	}
	if len(args) != 0 {
		return errors.New("arguments are not supported")
	}
	return nil
}

// NewCommand creates a *cobra.Command object with default parameters.
func NewCommand() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:   "nurandom-demo",
		Short: "Run a simulated batch job through the seed master",
		Long:  "nurandom-demo loads a NuRandomService configuration, constructs one module with a handful of engines, drives a few simulated events through it, and prints the end-of-job seed summary.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(args); err != nil {
				return err
			}
			return Run(afero.NewOsFs(), opts)
		},
	}

	flags := cmd.Flags()
	opts.AddFlags(flags)
	return cmd
}

// Run executes the demo job against fs; the command built by NewCommand
// calls it with the real filesystem. It is factored out so tests can
// substitute an in-memory afero.Fs instead of touching disk.
func Run(fs afero.Fs, opts *Options) error {
	if _, err := maxprocs.Set(); err != nil {
		return fmt.Errorf("failed to set GOMAXPROCS: %w", err)
	}

	v := loader.NewViper()
	cfg, err := loader.Load(fs, v, opts.ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	var warnings []string
	if err := validation.Validate(cfg, func(msg string) { warnings = append(warnings, msg) }); err != nil {
		return fmt.Errorf("configuration is invalid: %w", err)
	}

	zapLogger, err := logger.NewZapLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	log := logger.NewZapLogr(zapLogger)
	for _, w := range warnings {
		log.Info(w)
	}

	registry := prometheus.NewRegistry()
	metrics.MustRegister(registry)

	pol, err := policy.New(cfg.Policy)
	if err != nil {
		return fmt.Errorf("failed to construct policy: %w", err)
	}

	master := seedmaster.New(pol, log)
	state := artstate.New()
	adapter := serviceadapter.New(master, state, cfg.Policy, log)

	if err := state.Enter(artstate.InModuleConstructor); err != nil {
		return err
	}
	state.SetCurrentModule("demoProducer")
	generatorSeeder := seeder.Func(func(id engineid.ID, s seed.Seed) {
		log.V(1).Info("seeding generator", "engine", id.String(), "seed", s)
	})
	if _, err := adapter.Register("generator", generatorSeeder, serviceadapter.WithParameterNames("Seed")); err != nil {
		return err
	}
	if err := state.Enter(artstate.NotStarted); err != nil {
		return err
	}

	for i := 0; i < opts.NumEvents; i++ {
		data := eventdata.EventData{
			RunNumber: 1, SubRunNumber: 1, EventNumber: int64(i + 1),
			Timestamp: int64(1700000000 + i), IsTimeValid: true,
			ProcessName: "nurandom-demo", ModuleLabel: "demoProducer",
		}
		if err := adapter.PreEvent(data); err != nil {
			return err
		}
		if err := adapter.PreModule("demoProducer"); err != nil {
			return err
		}
		if err := adapter.PostModule(); err != nil {
			return err
		}
		if err := adapter.PostEvent(); err != nil {
			return err
		}
	}

	if err := adapter.PostEndJob(os.Stdout, pol.Verbosity(), pol.EndOfJobSummary()); err != nil {
		return fmt.Errorf("failed to print end-of-job summary: %w", err)
	}

	return nil
}
