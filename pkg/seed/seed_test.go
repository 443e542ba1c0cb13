package seed_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/NuSoftHEP/nurandom/pkg/seed"
)

var _ = Describe("Seed", func() {
	DescribeTable("IsValid",
		func(s seed.Seed, expected bool) {
			Expect(seed.IsValid(s)).To(Equal(expected))
		},
		Entry("the invalid seed", seed.InvalidSeed, false),
		Entry("zero", seed.Seed(0), false),
		Entry("one", seed.Seed(1), true),
		Entry("a large value", seed.Seed(4294967295), true),
	)
})
