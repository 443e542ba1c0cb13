package policy_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/NuSoftHEP/nurandom/pkg/engineid"
	"github.com/NuSoftHEP/nurandom/pkg/eventdata"
	"github.com/NuSoftHEP/nurandom/pkg/policy"
	"github.com/NuSoftHEP/nurandom/pkg/seed"
)

var _ = Describe("Scenario A: autoIncrement, three engines", func() {
	It("assigns 100, 101, 102 and is idempotent", func() {
		p, err := policy.New(policy.Tree{
			"policy":     "autoIncrement",
			"baseSeed":   100,
			"checkRange": false,
		})
		Expect(err).NotTo(HaveOccurred())

		modA := engineid.New("modA", "")
		modBx := engineid.New("modB", "x")
		modBy := engineid.New("modB", "y")

		s1, err := p.GetSeed(modA)
		Expect(err).NotTo(HaveOccurred())
		Expect(s1).To(Equal(seed.Seed(100)))

		s2, err := p.GetSeed(modBx)
		Expect(err).NotTo(HaveOccurred())
		Expect(s2).To(Equal(seed.Seed(101)))

		s3, err := p.GetSeed(modBy)
		Expect(err).NotTo(HaveOccurred())
		Expect(s3).To(Equal(seed.Seed(102)))

		Expect([]seed.Seed{s1, s2, s3}).To(ConsistOf(seed.Seed(100), seed.Seed(101), seed.Seed(102)))

		again, err := p.GetSeed(modA)
		Expect(err).NotTo(HaveOccurred())
		Expect(again).To(Equal(s1))
	})
})

var _ = Describe("Scenario B: linearMapping range check", func() {
	It("fails the third registration and succeeds for the first two", func() {
		p, err := policy.New(policy.Tree{
			"policy":           "linearMapping",
			"nJob":             5,
			"maxUniqueEngines": 2,
			"checkRange":       true,
		})
		Expect(err).NotTo(HaveOccurred())

		first, err := p.GetSeed(engineid.New("modA", ""))
		Expect(err).NotTo(HaveOccurred())
		Expect(first).To(Equal(seed.Seed(10)))

		second, err := p.GetSeed(engineid.New("modB", "x"))
		Expect(err).NotTo(HaveOccurred())
		Expect(second).To(Equal(seed.Seed(11)))

		_, err = p.GetSeed(engineid.New("modB", "y"))
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Scenario C: preDefinedSeed override", func() {
	It("returns tabulated values and fails on a missing one", func() {
		p, err := policy.New(policy.Tree{
			"policy": "preDefinedSeed",
			"modA":   7,
			"modB":   map[string]any{"x": 9},
		})
		Expect(err).NotTo(HaveOccurred())

		s, err := p.GetSeed(engineid.New("modA", ""))
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(Equal(seed.Seed(7)))

		s, err = p.GetSeed(engineid.New("modB", "x"))
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(Equal(seed.Seed(9)))

		_, err = p.GetSeed(engineid.New("modB", "y"))
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Scenario D: perEvent EventTimestamp_v1 determinism", func() {
	var p policy.EventPolicy

	BeforeEach(func() {
		raw, err := policy.New(policy.Tree{"policy": "perEvent"})
		Expect(err).NotTo(HaveOccurred())
		var ok bool
		p, ok = raw.(policy.EventPolicy)
		Expect(ok).To(BeTrue())
	})

	It("is deterministic, sensitive to its inputs, and rejects an invalid timestamp", func() {
		id := engineid.New("M", "i")
		data := eventdata.EventData{
			RunNumber: 1, SubRunNumber: 2, EventNumber: 3,
			Timestamp: 12345, IsTimeValid: true,
			ProcessName: "P", ModuleLabel: "M",
		}

		v1, err := p.GetEventSeed(id, data)
		Expect(err).NotTo(HaveOccurred())

		v2, err := p.GetEventSeed(id, data)
		Expect(err).NotTo(HaveOccurred())
		Expect(v2).To(Equal(v1))

		other := data
		other.Timestamp = 12346
		v3, err := p.GetEventSeed(id, other)
		Expect(err).NotTo(HaveOccurred())
		Expect(v3).NotTo(Equal(v1))

		invalid := data
		invalid.IsTimeValid = false
		_, err = p.GetEventSeed(id, invalid)
		Expect(err).To(HaveOccurred())
	})

	It("uses the nested initSeedPolicy's value before any event", func() {
		raw, err := policy.New(policy.Tree{
			"policy": "perEvent",
			"initSeedPolicy": map[string]any{
				"policy":     "preDefinedSeed",
				"modA":       42,
			},
		})
		Expect(err).NotTo(HaveOccurred())

		s, err := raw.GetSeed(engineid.New("modA", ""))
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(Equal(seed.Seed(42)))
	})

	It("returns InvalidSeed with no nested policy", func() {
		raw, err := policy.New(policy.Tree{"policy": "perEvent"})
		Expect(err).NotTo(HaveOccurred())

		s, err := raw.GetSeed(engineid.New("modA", ""))
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(Equal(seed.InvalidSeed))
	})

	It("refuses to nest perEvent inside its own initSeedPolicy", func() {
		_, err := policy.New(policy.Tree{
			"policy": "perEvent",
			"initSeedPolicy": map[string]any{
				"policy": "perEvent",
			},
		})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("random policy", func() {
	It("produces distinct draws and is reproducible from the same masterSeed", func() {
		p1, err := policy.New(policy.Tree{"policy": "random", "masterSeed": 7})
		Expect(err).NotTo(HaveOccurred())
		p2, err := policy.New(policy.Tree{"policy": "random", "masterSeed": 7})
		Expect(err).NotTo(HaveOccurred())

		a1, _ := p1.GetSeed(engineid.New("modA", ""))
		a2, _ := p2.GetSeed(engineid.New("modA", ""))
		Expect(a1).To(Equal(a2))

		b1, _ := p1.GetSeed(engineid.New("modB", ""))
		Expect(b1).NotTo(Equal(a1))
	})
})
