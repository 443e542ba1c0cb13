package serviceadapter_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/go-logr/logr"

	"github.com/NuSoftHEP/nurandom/pkg/artstate"
	"github.com/NuSoftHEP/nurandom/pkg/engineid"
	"github.com/NuSoftHEP/nurandom/pkg/eventdata"
	"github.com/NuSoftHEP/nurandom/pkg/policy"
	"github.com/NuSoftHEP/nurandom/pkg/seed"
	"github.com/NuSoftHEP/nurandom/pkg/seedmaster"
	"github.com/NuSoftHEP/nurandom/pkg/seeder"
	"github.com/NuSoftHEP/nurandom/pkg/serviceadapter"
)

func newFixture(configTree policy.Tree) (*serviceadapter.Adapter, *artstate.State) {
	pol, err := policy.New(policy.Tree{"policy": "autoIncrement", "baseSeed": 100, "checkRange": false})
	Expect(err).NotTo(HaveOccurred())
	master := seedmaster.New(pol, logr.Discard())
	state := artstate.New()
	return serviceadapter.New(master, state, configTree, logr.Discard()), state
}

var _ = Describe("Adapter.Register", func() {
	It("pushes the policy seed into the seeder when there is no override", func() {
		a, state := newFixture(policy.Tree{})
		Expect(state.Enter(artstate.InModuleConstructor)).To(Succeed())
		state.SetCurrentModule("modA")

		sdr := &captureSeeder{}
		s, err := a.Register("inst", sdr)
		Expect(err).NotTo(HaveOccurred())
		Expect(sdr.last).To(Equal(s))
	})

	It("fails outside inModuleConstructor (Scenario F)", func() {
		a, state := newFixture(policy.Tree{})
		Expect(state.Enter(artstate.InEvent)).To(Succeed())

		_, err := a.Register("inst", &captureSeeder{})
		Expect(err).To(HaveOccurred())
	})

	It("requires a current module", func() {
		a, state := newFixture(policy.Tree{})
		Expect(state.Enter(artstate.InModuleConstructor)).To(Succeed())

		_, err := a.Register("inst", &captureSeeder{})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("override resolution (Scenario E)", func() {
	It("freezes the engine to an explicit WithSeed override", func() {
		a, state := newFixture(policy.Tree{})
		Expect(state.Enter(artstate.InModuleConstructor)).To(Succeed())
		state.SetCurrentModule("M")

		sdr := &captureSeeder{}
		s, err := a.Register("", sdr, serviceadapter.WithSeed(seed.Seed(42)))
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(Equal(seed.Seed(42)))
		Expect(sdr.last).To(Equal(seed.Seed(42)))
	})

	It("resolves the first non-zero candidate in WithParameterNames, skipping a zero escape hatch", func() {
		a, state := newFixture(policy.Tree{"Seed": 0, "MySeed": 7})
		Expect(state.Enter(artstate.InModuleConstructor)).To(Succeed())
		state.SetCurrentModule("M")

		sdr := &captureSeeder{}
		s, err := a.Register("", sdr, serviceadapter.WithParameterNames("Seed", "MySeed"))
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(Equal(seed.Seed(7)))
	})

	It("uses Seed directly when it is non-zero", func() {
		a, state := newFixture(policy.Tree{"Seed": 42})
		Expect(state.Enter(artstate.InModuleConstructor)).To(Succeed())
		state.SetCurrentModule("M")

		sdr := &captureSeeder{}
		s, err := a.Register("", sdr, serviceadapter.WithParameterNames("Seed", "MySeed"))
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(Equal(seed.Seed(42)))
	})

	It("falls back to the policy's value with no configured override", func() {
		a, state := newFixture(policy.Tree{})
		Expect(state.Enter(artstate.InModuleConstructor)).To(Succeed())
		state.SetCurrentModule("M")

		sdr := &captureSeeder{}
		s, err := a.Register("", sdr, serviceadapter.WithParameterNames("Seed", "MySeed"))
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(Equal(seed.Seed(100)))
	})
})

var _ = Describe("three-step declare/define", func() {
	It("defines a previously declared engine and pushes its current seed", func() {
		a, state := newFixture(policy.Tree{})
		Expect(state.Enter(artstate.InModuleConstructor)).To(Succeed())
		state.SetCurrentModule("M")

		id, declaredSeed, err := a.DeclareEngine("inst")
		Expect(err).NotTo(HaveOccurred())

		sdr := &captureSeeder{}
		Expect(a.DefineEngine(id, sdr)).To(Succeed())
		Expect(sdr.last).To(Equal(declaredSeed))
	})

	It("fails to define an undeclared engine", func() {
		a, _ := newFixture(policy.Tree{})
		err := a.DefineEngine(engineid.New("M", "inst"), &captureSeeder{})
		Expect(err).To(HaveOccurred())
	})

	It("fails to define an already-defined engine", func() {
		a, state := newFixture(policy.Tree{})
		Expect(state.Enter(artstate.InModuleConstructor)).To(Succeed())
		state.SetCurrentModule("M")

		id, _, err := a.DeclareEngine("inst")
		Expect(err).NotTo(HaveOccurred())
		Expect(a.DefineEngine(id, &captureSeeder{})).To(Succeed())
		Expect(a.DefineEngine(id, &captureSeeder{})).To(HaveOccurred())
	})
})

var _ = Describe("lazy registration freezes out future registration (Open Question 1)", func() {
	It("registers a queried-but-unregistered engine, then rejects an explicit Register", func() {
		a, state := newFixture(policy.Tree{})
		Expect(state.Enter(artstate.InModuleConstructor)).To(Succeed())
		state.SetCurrentModule("M")

		_, err := a.GetSeed("inst")
		Expect(err).NotTo(HaveOccurred())

		_, err = a.Register("inst", &captureSeeder{})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("the reseeding driver", func() {
	It("reseeds global engines on pre-event and module engines on pre-module", func() {
		a, state := newFixture(policy.Tree{})
		Expect(state.Enter(artstate.InServiceConstructor)).To(Succeed())

		globalSeeder := &captureSeeder{}
		_, err := a.RegisterGlobal("clock", globalSeeder)
		Expect(err).NotTo(HaveOccurred())
		Expect(state.Enter(artstate.NotStarted)).To(Succeed())

		Expect(state.Enter(artstate.InModuleConstructor)).To(Succeed())
		state.SetCurrentModule("M")
		moduleSeeder := &captureSeeder{}
		_, err = a.Register("gen", moduleSeeder)
		Expect(err).NotTo(HaveOccurred())
		Expect(state.Enter(artstate.NotStarted)).To(Succeed())

		data := eventdata.EventData{RunNumber: 1, EventNumber: 1, IsTimeValid: true}
		// one call from registration, one from the reseed under test.
		Expect(a.PreEvent(data)).To(Succeed())
		Expect(globalSeeder.calls).To(Equal(2))

		Expect(a.PreModule("M")).To(Succeed())
		Expect(moduleSeeder.calls).To(Equal(2))

		Expect(a.PostModule()).To(Succeed())
		Expect(a.PostEvent()).To(Succeed())

		var buf bytes.Buffer
		Expect(a.PostEndJob(&buf, 1, false)).To(Succeed())
		Expect(buf.String()).NotTo(BeEmpty())
	})
})

type captureSeeder struct {
	last  seed.Seed
	calls int
}

func (c *captureSeeder) Apply(_ engineid.ID, s seed.Seed) {
	c.last = s
	c.calls++
}

var _ seeder.Seeder = (*captureSeeder)(nil)
