package rt_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/shadcore/shad/rt"
)

var _ = Describe("Locality", func() {
	BeforeEach(func() { rt.Initialize(5) })
	AfterEach(func() { rt.Finalize() })

	It("reports the fixed membership size for the process lifetime", func() {
		Expect(rt.NumLocalities()).To(Equal(5))
		Expect(rt.AllLocalities()).To(HaveLen(5))
	})

	It("enumerates localities in ascending order", func() {
		all := rt.AllLocalities()
		for i, l := range all {
			Expect(int(l)).To(Equal(i))
		}
	})

	It("rejects dispatch to an out-of-range locality", func() {
		err := rt.ExecuteAt(rt.Locality(99), func(_ struct{}) {}, struct{}{})
		Expect(err).To(HaveOccurred())
	})

	Describe("LocalityRange", func() {
		It("is empty exactly when Hi <= Lo", func() {
			Expect(rt.LocalityRangeOf(2, 2).Empty()).To(BeTrue())
			Expect(rt.LocalityRangeOf(2, 3).Empty()).To(BeFalse())
		})

		It("All() enumerates exactly [Lo, Hi)", func() {
			r := rt.LocalityRangeOf(1, 4)
			Expect(r.All()).To(Equal(rt.Localities{1, 2, 3}))
		})
	})
})
