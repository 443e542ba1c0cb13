package seedmaster_test

import (
	"bytes"
	"strconv"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/go-logr/logr"
	"go.uber.org/mock/gomock"

	"github.com/NuSoftHEP/nurandom/pkg/engineid"
	"github.com/NuSoftHEP/nurandom/pkg/eventdata"
	"github.com/NuSoftHEP/nurandom/pkg/policy"
	"github.com/NuSoftHEP/nurandom/pkg/seed"
	"github.com/NuSoftHEP/nurandom/pkg/seedmaster"
	"github.com/NuSoftHEP/nurandom/pkg/seeder"
	"github.com/NuSoftHEP/nurandom/pkg/seeder/mock"
)

func mustPolicy(t policy.Tree) policy.Policy {
	p, err := policy.New(t)
	Expect(err).NotTo(HaveOccurred())
	return p
}

// constantPolicy is a fake unique-yielding Policy used only to exercise the
// uniqueness-collision path directly, independent of any real variant.
type constantPolicy struct{ value seed.Seed }

func (constantPolicy) Name() string              { return "constant" }
func (constantPolicy) YieldsUniqueSeeds() bool    { return true }
func (constantPolicy) Verbosity() int             { return 0 }
func (constantPolicy) EndOfJobSummary() bool      { return false }
func (p constantPolicy) GetSeed(engineid.ID) (seed.Seed, error) { return p.value, nil }

type recordingSeeder struct {
	mu    sync.Mutex
	calls []seed.Seed
}

func (r *recordingSeeder) Apply(_ engineid.ID, s seed.Seed) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, s)
}

func (r *recordingSeeder) last() seed.Seed {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return seed.InvalidSeed
	}
	return r.calls[len(r.calls)-1]
}

var _ = Describe("SeedMaster", func() {
	var (
		m  *seedmaster.SeedMaster
		id engineid.ID
	)

	BeforeEach(func() {
		id = engineid.New("modA", "")
		m = seedmaster.New(mustPolicy(policy.Tree{
			"policy": "autoIncrement", "baseSeed": 100, "checkRange": false,
		}), logr.Discard())
	})

	It("computes a seed once and caches it idempotently (invariant 5)", func() {
		s1, err := m.GetSeed(id)
		Expect(err).NotTo(HaveOccurred())
		s2, err := m.GetSeed(id)
		Expect(err).NotTo(HaveOccurred())
		Expect(s2).To(Equal(s1))
	})

	It("rejects a duplicate RegisterNewSeeder (invariant 1)", func() {
		Expect(m.RegisterNewSeeder(id, seeder.Null)).To(Succeed())
		Expect(m.RegisterNewSeeder(id, seeder.Null)).To(HaveOccurred())
	})

	It("freezes a seed so current never changes and reseed returns Invalid (invariant 2)", func() {
		Expect(m.RegisterSeeder(id, seeder.Null)).To(Succeed())
		Expect(m.FreezeSeed(id, seed.Seed(7))).To(Succeed())
		Expect(m.GetCurrentSeed(id)).To(Equal(seed.Seed(7)))

		s, err := m.Reseed(id)
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(Equal(seed.InvalidSeed))
		Expect(m.GetCurrentSeed(id)).To(Equal(seed.Seed(7)))
	})

	It("reseed pushes the computed seed through the bound seeder", func() {
		sdr := &recordingSeeder{}
		Expect(m.RegisterSeeder(id, sdr)).To(Succeed())
		s, err := m.Reseed(id)
		Expect(err).NotTo(HaveOccurred())
		Expect(sdr.last()).To(Equal(s))
	})

	It("reseed pushes the computed seed through a gomock-recorded seeder", func() {
		ctrl := gomock.NewController(GinkgoT())
		defer ctrl.Finish()

		mockSdr := mock.NewMockSeeder(ctrl)
		mockSdr.EXPECT().Apply(id, gomock.Any()).Times(1)

		Expect(m.RegisterSeeder(id, mockSdr)).To(Succeed())
		_, err := m.Reseed(id)
		Expect(err).NotTo(HaveOccurred())
	})

	It("detects uniqueness collisions for a unique-yielding policy", func() {
		m = seedmaster.New(constantPolicy{value: seed.Seed(5)}, logr.Discard())

		_, err := m.GetSeed(engineid.New("modA", ""))
		Expect(err).NotTo(HaveOccurred())

		_, err = m.GetSeed(engineid.New("modB", ""))
		Expect(err).To(HaveOccurred())
	})

	It("clears knownEvent on OnNewEvent (invariant 3)", func() {
		raw, err := policy.New(policy.Tree{"policy": "perEvent"})
		Expect(err).NotTo(HaveOccurred())
		m = seedmaster.New(raw, logr.Discard())

		data := eventdata.EventData{RunNumber: 1, SubRunNumber: 1, EventNumber: 1, Timestamp: 10, IsTimeValid: true, ProcessName: "P", ModuleLabel: "modA"}
		_, err = m.GetEventSeed(id, data)
		Expect(err).NotTo(HaveOccurred())

		m.OnNewEvent()
		// after clearing, a fresh call must recompute rather than read a stale cache.
		s2, err := m.GetEventSeed(id, data)
		Expect(err).NotTo(HaveOccurred())
		Expect(seed.IsValid(s2)).To(BeTrue())
	})

	It("perEvent with a nested initSeedPolicy: getSeed before any event equals the nested value (invariant 6)", func() {
		raw, err := policy.New(policy.Tree{
			"policy": "perEvent",
			"initSeedPolicy": map[string]any{
				"policy": "preDefinedSeed",
				"modA":   42,
			},
		})
		Expect(err).NotTo(HaveOccurred())
		m = seedmaster.New(raw, logr.Discard())

		s, err := m.GetSeed(id)
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(Equal(seed.Seed(42)))
	})

	It("prints a tabular summary with markers", func() {
		Expect(m.RegisterSeeder(id, seeder.Null)).To(Succeed())
		_, err := m.GetSeed(id)
		Expect(err).NotTo(HaveOccurred())

		var buf bytes.Buffer
		Expect(m.Print(&buf)).To(Succeed())
		Expect(buf.String()).To(ContainSubstring(id.String()))
	})

	It("is safe for concurrent GetSeed calls on distinct ids", func() {
		var wg sync.WaitGroup
		errs := make(chan error, 50)
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := m.GetSeed(engineid.New("modA", strconv.Itoa(i)))
				errs <- err
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			Expect(err).NotTo(HaveOccurred())
		}
	})
})
