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

// Package serviceadapter is the glue between the seed-master core and the
// host processing framework: it qualifies short identifiers against the
// current module, polices phase-legal operations, resolves seed overrides,
// and drives reseeding from the framework's phase callbacks.
package serviceadapter

import (
	"io"

	"github.com/go-logr/logr"

	"github.com/NuSoftHEP/nurandom/pkg/artstate"
	"github.com/NuSoftHEP/nurandom/pkg/engineid"
	"github.com/NuSoftHEP/nurandom/pkg/eventdata"
	"github.com/NuSoftHEP/nurandom/pkg/nrerrors"
	"github.com/NuSoftHEP/nurandom/pkg/policy"
	"github.com/NuSoftHEP/nurandom/pkg/seed"
	"github.com/NuSoftHEP/nurandom/pkg/seedmaster"
	"github.com/NuSoftHEP/nurandom/pkg/seeder"
)

// Adapter owns a SeedMaster and an ArtState and exposes the registration
// and reseeding vocabulary module code and the host framework drive.
type Adapter struct {
	master     *seedmaster.SeedMaster
	state      *artstate.State
	configTree policy.Tree
	log        logr.Logger
}

// New builds an Adapter around an existing SeedMaster and ArtState.
// configTree is consulted only by WithParameterNames overrides.
func New(master *seedmaster.SeedMaster, state *artstate.State, configTree policy.Tree, log logr.Logger) *Adapter {
	return &Adapter{master: master, state: state, configTree: configTree, log: log}
}

func resolveOverride(opts RegisterOptions, configTree policy.Tree) (seed.Seed, bool) {
	if opts.explicitSeed != nil {
		v := *opts.explicitSeed
		if seed.IsValid(v) {
			return v, true
		}
		return seed.InvalidSeed, false
	}
	for _, name := range opts.paramNames {
		v, ok := configTree.GetInt(name)
		if !ok {
			continue
		}
		sv := seed.Seed(uint32(v))
		if seed.IsValid(sv) {
			return sv, true
		}
		// present but zero: the documented escape hatch, keep looking.
	}
	return seed.InvalidSeed, false
}

func (a *Adapter) qualifyModule(instanceName string) (engineid.ID, error) {
	if !a.state.HasCurrentModule() {
		return engineid.ID{}, nrerrors.Logicf(nil, "module-scoped operation requested with no current module")
	}
	return engineid.New(a.state.CurrentModule(), instanceName), nil
}

// PreServiceConstructor transitions into the global-engine construction
// phase; the host calls this before any RegisterGlobal call is legal.
func (a *Adapter) PreServiceConstructor() error {
	return a.state.Enter(artstate.InServiceConstructor)
}

// PostServiceConstructor closes the global-engine construction phase.
func (a *Adapter) PostServiceConstructor() error {
	return a.state.Enter(artstate.NotStarted)
}

// PreModuleConstructor transitions into the per-module construction phase
// for moduleLabel; the host calls this before any Register call for that
// module is legal.
func (a *Adapter) PreModuleConstructor(moduleLabel string) error {
	if err := a.state.Enter(artstate.InModuleConstructor); err != nil {
		return err
	}
	a.state.SetCurrentModule(moduleLabel)
	return nil
}

// PostModuleConstructor closes the per-module construction phase and
// clears the current module.
func (a *Adapter) PostModuleConstructor() error {
	if err := a.state.Enter(artstate.NotStarted); err != nil {
		return err
	}
	a.state.SetCurrentModule("")
	return nil
}

// PreModuleBeginRun transitions into a module's begin-run phase.
func (a *Adapter) PreModuleBeginRun() error {
	return a.state.Enter(artstate.InModuleBeginRun)
}

// PostModuleBeginRun closes a module's begin-run phase.
func (a *Adapter) PostModuleBeginRun() error {
	return a.state.Enter(artstate.NotStarted)
}

// PreModuleEndJob transitions into a module's end-job phase.
func (a *Adapter) PreModuleEndJob() error {
	return a.state.Enter(artstate.InEndJob)
}

// PostModuleEndJob closes a module's end-job phase.
func (a *Adapter) PostModuleEndJob() error {
	return a.state.Enter(artstate.NotStarted)
}

// Register binds sdr to a module-scoped engine named instanceName, legal
// only during InModuleConstructor.
func (a *Adapter) Register(instanceName string, sdr seeder.Seeder, opts ...RegisterOption) (seed.Seed, error) {
	if a.state.Phase() != artstate.InModuleConstructor {
		return seed.InvalidSeed, nrerrors.Logicf(nil, "registerSeeder is only legal in inModuleConstructor, current phase is %s", a.state.Phase())
	}
	id, err := a.qualifyModule(instanceName)
	if err != nil {
		return seed.InvalidSeed, err
	}
	return a.registerWithOverride(id, sdr, opts...)
}

// RegisterGlobal binds sdr to a global engine named instanceName, legal
// only during InServiceConstructor.
func (a *Adapter) RegisterGlobal(instanceName string, sdr seeder.Seeder, opts ...RegisterOption) (seed.Seed, error) {
	if a.state.Phase() != artstate.InServiceConstructor {
		return seed.InvalidSeed, nrerrors.Logicf(nil, "registerSeeder is only legal in inServiceConstructor for a global engine, current phase is %s", a.state.Phase())
	}
	id := engineid.NewGlobal(instanceName)
	return a.registerWithOverride(id, sdr, opts...)
}

func (a *Adapter) registerWithOverride(id engineid.ID, sdr seeder.Seeder, opts ...RegisterOption) (seed.Seed, error) {
	var ro RegisterOptions
	for _, o := range opts {
		o.ApplyToRegisterOptions(&ro)
	}

	if err := a.master.Declare(id); err != nil {
		return seed.InvalidSeed, err
	}
	if err := a.master.Define(id, sdr); err != nil {
		return seed.InvalidSeed, err
	}

	if override, ok := resolveOverride(ro, a.configTree); ok {
		if err := a.master.FreezeSeed(id, override); err != nil {
			return seed.InvalidSeed, err
		}
		sdr.Apply(id, override)
		return override, nil
	}

	s, err := a.master.GetSeed(id)
	if err != nil {
		return seed.InvalidSeed, err
	}
	sdr.Apply(id, s)
	return s, nil
}

// DeclareEngine records id with a null seeder and returns its configured
// seed, the first step of the declare/define registration protocol
// (paired with DefineEngine).
func (a *Adapter) DeclareEngine(instanceName string) (engineid.ID, seed.Seed, error) {
	if a.state.Phase() != artstate.InModuleConstructor && a.state.Phase() != artstate.InServiceConstructor {
		return engineid.ID{}, seed.InvalidSeed, nrerrors.Logicf(nil, "declareEngine is only legal during construction, current phase is %s", a.state.Phase())
	}

	var id engineid.ID
	if a.state.Phase() == artstate.InModuleConstructor {
		qualified, err := a.qualifyModule(instanceName)
		if err != nil {
			return engineid.ID{}, seed.InvalidSeed, err
		}
		id = qualified
	} else {
		id = engineid.NewGlobal(instanceName)
	}

	if err := a.master.Declare(id); err != nil {
		return engineid.ID{}, seed.InvalidSeed, err
	}
	s, err := a.master.GetSeed(id)
	if err != nil {
		return engineid.ID{}, seed.InvalidSeed, err
	}
	return id, s, nil
}

// DefineEngine attaches sdr to a previously declared id and pushes its
// current seed into it immediately.
func (a *Adapter) DefineEngine(id engineid.ID, sdr seeder.Seeder) error {
	if err := a.master.Define(id, sdr); err != nil {
		return err
	}
	sdr.Apply(id, a.master.GetCurrentSeed(id))
	return nil
}

// GetSeed queries the pre-event seed for a module-scoped engine,
// lazy-declaring it with no seeder if it was never registered. That lazy
// declaration freezes the engine out of any subsequent Register call:
// kept intentionally even though it is surprising.
func (a *Adapter) GetSeed(instanceName string) (seed.Seed, error) {
	id, err := a.qualifyModule(instanceName)
	if err != nil {
		return seed.InvalidSeed, err
	}
	return a.getSeedLazy(id)
}

// GetSeedGlobal is GetSeed for a global engine.
func (a *Adapter) GetSeedGlobal(instanceName string) (seed.Seed, error) {
	return a.getSeedLazy(engineid.NewGlobal(instanceName))
}

func (a *Adapter) getSeedLazy(id engineid.ID) (seed.Seed, error) {
	if !a.master.IsRegistered(id) {
		a.log.V(1).Info("lazily registering an engine via a seed query; this engine can no longer be explicitly registered", "engine", id.String())
		if err := a.master.Declare(id); err != nil {
			return seed.InvalidSeed, err
		}
	}
	return a.master.GetSeed(id)
}

// GetSeedFor is the reentrant, thread-safe query overload that takes an
// explicit module label instead of qualifying against the current module.
// Unlike GetSeed, it never lazily declares a missing engine: the
// lazy-declare path is allowed to assume single-threaded access, so this
// entry point simply requires the engine to already be known.
func (a *Adapter) GetSeedFor(moduleLabel, instanceName string) (seed.Seed, error) {
	return a.master.GetSeed(engineid.New(moduleLabel, instanceName))
}

// GetEventSeed queries the per-event seed for a module-scoped engine.
func (a *Adapter) GetEventSeed(instanceName string, data eventdata.EventData) (seed.Seed, error) {
	id, err := a.qualifyModule(instanceName)
	if err != nil {
		return seed.InvalidSeed, err
	}
	return a.master.GetEventSeed(id, data)
}

// PreEvent clears the per-event cache and reseeds every global engine
// before any per-module callback fires for this event.
func (a *Adapter) PreEvent(data eventdata.EventData) error {
	a.master.OnNewEvent()
	a.state.SetCurrentEvent(data)
	if err := a.state.Enter(artstate.InEvent); err != nil {
		return err
	}
	for _, id := range a.master.KnownIDs() {
		if !id.IsGlobal() {
			continue
		}
		if _, err := a.master.ReseedEvent(id, data); err != nil {
			return err
		}
	}
	return nil
}

// PreModule reseeds every module-scoped engine belonging to moduleLabel,
// ordering guarantee 3 of spec §5.
func (a *Adapter) PreModule(moduleLabel string) error {
	a.state.SetCurrentModule(moduleLabel)
	if err := a.state.Enter(artstate.InModuleEvent); err != nil {
		return err
	}
	data, _ := a.state.CurrentEvent()
	for _, id := range a.master.KnownIDs() {
		if id.IsGlobal() || id.ModuleLabel() != moduleLabel {
			continue
		}
		if _, err := a.master.ReseedEvent(id, data); err != nil {
			return err
		}
	}
	return nil
}

// PostModule resets the module slot in the state tracker.
func (a *Adapter) PostModule() error {
	if err := a.state.Enter(artstate.InEvent); err != nil {
		return err
	}
	a.state.SetCurrentModule("")
	return nil
}

// PostEvent resets the event slot in the state tracker.
func (a *Adapter) PostEvent() error {
	if err := a.state.Enter(artstate.NotStarted); err != nil {
		return err
	}
	a.state.ClearCurrentEvent()
	return nil
}

// PostEndJob prints the end-of-job summary if verbosity or a policy's
// endOfJobSummary flag asks for it (spec §4.3).
func (a *Adapter) PostEndJob(w io.Writer, verbosity int, endOfJobSummary bool) error {
	if verbosity < 1 && !endOfJobSummary {
		return nil
	}
	return a.master.Print(w)
}
