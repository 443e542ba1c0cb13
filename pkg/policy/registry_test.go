package policy_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/NuSoftHEP/nurandom/pkg/policy"
)

var allKinds = []policy.Kind{
	policy.AutoIncrement,
	policy.LinearMapping,
	policy.PreDefinedOffset,
	policy.PreDefinedSeed,
	policy.Random,
	policy.PerEvent,
}

var _ = Describe("the policy name registry", func() {
	It("round-trips policyFromName(policyName(p)) = p for every kind but unDefined", func() {
		for _, k := range allKinds {
			name := policy.PolicyName(k)
			Expect(name).NotTo(BeEmpty())

			got, err := policy.PolicyFromName(name)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(k))
		}
	})

	It("suggests the closest name for a typo", func() {
		_, err := policy.PolicyFromName("autoIncrment")
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("autoIncrement"))
	})

	It("fails without a suggestion for a name nothing is close to", func() {
		_, err := policy.PolicyFromName("xyz")
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).NotTo(ContainSubstring("did you mean"))
	})

	It("rejects an unknown policy name in New", func() {
		_, err := policy.New(policy.Tree{"policy": "bogus"})
		Expect(err).To(HaveOccurred())
	})

	It("requires the policy key", func() {
		_, err := policy.New(policy.Tree{})
		Expect(err).To(HaveOccurred())
	})
})
