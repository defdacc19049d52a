package extraction

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Reconcile", func() {
	var (
		text       string
		preference PaymentMethod
		prompt     PromptFunc
		strict     bool
		totals     Totals
		notes      []string
		err        error
	)

	BeforeEach(func() {
		preference = PaymentCash
		prompt = nil
		strict = false
	})

	JustBeforeEach(func() {
		totals, notes, err = Reconcile(text, preference, prompt, strict)
	})

	When("only a subtotal is present", func() {
		BeforeEach(func() {
			text = "SubTotal: $500.00"
		})

		It("does not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("defaults the cash total to the subtotal", func() {
			Expect(totals.CashTotal).NotTo(BeNil())
			Expect(totals.CashTotal.StringFixed(2)).To(Equal("500.00"))
		})

		It("resolves the total to the subtotal", func() {
			Expect(totals.Total.StringFixed(2)).To(Equal("500.00"))
		})
	})

	When("a subtotal and convenience fee are present", func() {
		BeforeEach(func() {
			preference = PaymentCredit
			text = "SubTotal: $500.00 Convenience Fee $15.00 Credit Total Due: $520.00"
		})

		It("computes credit as subtotal plus fee, overriding the captured value", func() {
			Expect(totals.CreditTotal).NotTo(BeNil())
			Expect(totals.CreditTotal.StringFixed(2)).To(Equal("515.00"))
		})

		It("resolves the total to the computed credit total", func() {
			Expect(totals.Total.StringFixed(2)).To(Equal("515.00"))
		})
	})

	When("the amount has no thousands separators", func() {
		BeforeEach(func() {
			text = "SubTotal: $1234.56"
		})

		It("captures the bare digit run", func() {
			Expect(totals.Subtotal).NotTo(BeNil())
			Expect(totals.Subtotal.StringFixed(2)).To(Equal("1234.56"))
		})

		It("resolves the total from it", func() {
			Expect(totals.Total.StringFixed(2)).To(Equal("1234.56"))
		})
	})

	When("non-ASCII text precedes the label", func() {
		BeforeEach(func() {
			// Dotted capital I lowers to two runes, shifting byte offsets.
			text = strings.Repeat("İ", 90) + " SubTotal: $500.00"
		})

		It("still captures the amount next to the label", func() {
			Expect(totals.Subtotal).NotTo(BeNil())
			Expect(totals.Subtotal.StringFixed(2)).To(Equal("500.00"))
		})
	})

	When("the amount sits beyond the label window", func() {
		BeforeEach(func() {
			text = "SubTotal: " + strings.Repeat("x", 90) + " $500.00"
		})

		It("does not capture it", func() {
			Expect(totals.Subtotal).To(BeNil())
		})
	})

	When("an amount from an unrelated column follows within the window", func() {
		BeforeEach(func() {
			text = "SubTotal: $1,234.56 Balance $9.99"
		})

		It("captures the first amount after the label", func() {
			Expect(totals.Subtotal).NotTo(BeNil())
			Expect(totals.Subtotal.StringFixed(2)).To(Equal("1234.56"))
		})
	})

	When("the captured cash total is below the subtotal", func() {
		BeforeEach(func() {
			text = "SubTotal: $500.00 Cash Total Due: $50.00"
		})

		It("uses the subtotal instead", func() {
			Expect(totals.CashTotal.StringFixed(2)).To(Equal("500.00"))
			Expect(totals.Total.StringFixed(2)).To(Equal("500.00"))
		})

		It("reports the correction as a note", func() {
			Expect(notes).To(HaveLen(1))
			Expect(notes[0]).To(ContainSubstring("below subtotal"))
		})
	})

	When("the captured cash total equals the convenience fee", func() {
		BeforeEach(func() {
			text = "SubTotal: $500.00 Convenience Fee $15.00 Cash Total Due: $15.00"
		})

		It("uses the subtotal instead", func() {
			Expect(totals.CashTotal.StringFixed(2)).To(Equal("500.00"))
		})

		It("reports the correction as a note", func() {
			Expect(notes).To(HaveLen(1))
			Expect(notes[0]).To(ContainSubstring("convenience fee"))
		})
	})

	When("no fee is present but a grand total is", func() {
		BeforeEach(func() {
			text = "Grand Total: $742.50"
		})

		It("falls back to the grand total for cash", func() {
			Expect(totals.CashTotal).NotTo(BeNil())
			Expect(totals.CashTotal.StringFixed(2)).To(Equal("742.50"))
			Expect(totals.Total.StringFixed(2)).To(Equal("742.50"))
		})
	})

	When("the credit path resolves below the subtotal", func() {
		BeforeEach(func() {
			preference = PaymentCredit
			text = "SubTotal: $500.00 Credit Total Due: $450.00"
		})

		It("clamps the total to the subtotal", func() {
			Expect(totals.Total.StringFixed(2)).To(Equal("500.00"))
			Expect(totals.CashTotal.StringFixed(2)).To(Equal("500.00"))
		})

		It("reports the clamp as a note", func() {
			Expect(notes).To(ContainElement(ContainSubstring("clamping")))
		})
	})

	When("the text has no amounts at all", func() {
		BeforeEach(func() {
			text = "No dollar figures anywhere"
		})

		It("returns a zero total without error", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(totals.Total.IsZero()).To(BeTrue())
			Expect(totals.Subtotal).To(BeNil())
		})
	})

	Describe("payment prompt", func() {
		var promptCalled bool

		BeforeEach(func() {
			promptCalled = false
			prompt = func() (PaymentMethod, bool) {
				promptCalled = true
				return PaymentCredit, true
			}
		})

		When("both cash-like and credit-like totals are present", func() {
			BeforeEach(func() {
				text = "SubTotal: $500.00 Convenience Fee $15.00"
			})

			It("consults the prompt", func() {
				Expect(promptCalled).To(BeTrue())
			})

			It("uses the prompted method", func() {
				Expect(totals.Total.StringFixed(2)).To(Equal("515.00"))
			})
		})

		When("only a cash-like total is present", func() {
			BeforeEach(func() {
				text = "SubTotal: $500.00"
			})

			It("does not consult the prompt", func() {
				Expect(promptCalled).To(BeFalse())
			})
		})

		When("the prompt declines to answer", func() {
			BeforeEach(func() {
				prompt = func() (PaymentMethod, bool) {
					return "", false
				}
				text = "SubTotal: $500.00 Convenience Fee $15.00"
			})

			It("keeps the caller's preference", func() {
				Expect(totals.Total.StringFixed(2)).To(Equal("500.00"))
			})
		})
	})

	Describe("strict mode", func() {
		BeforeEach(func() {
			strict = true
		})

		When("the subtotal is missing", func() {
			BeforeEach(func() {
				text = "Cash Total Due: $500.00"
			})

			It("fails", func() {
				var ambiguous *AmbiguousTotalsError
				Expect(err).To(HaveOccurred())
				Expect(err).To(BeAssignableToTypeOf(ambiguous))
			})
		})

		When("the captured cash total matches the convenience fee", func() {
			BeforeEach(func() {
				text = "SubTotal: $500.00 Convenience Fee $15.00 Cash Total Due: $15.00"
			})

			It("fails with the ambiguous-layout reason", func() {
				var ambiguous *AmbiguousTotalsError
				Expect(err).To(HaveOccurred())
				Expect(err).To(BeAssignableToTypeOf(ambiguous))
				Expect(err.(*AmbiguousTotalsError).Reason).To(Equal(ReasonAmbiguousLayout))
			})
		})

		When("the captured cash total disagrees with the subtotal", func() {
			BeforeEach(func() {
				text = "SubTotal: $500.00 Cash Total Due: $300.00"
			})

			It("fails with the captured and expected values", func() {
				Expect(err).To(HaveOccurred())
				ambiguous := err.(*AmbiguousTotalsError)
				Expect(ambiguous.Captured.StringFixed(2)).To(Equal("300.00"))
				Expect(ambiguous.Expected.StringFixed(2)).To(Equal("500.00"))
			})
		})

		When("the captured cash total agrees with the subtotal", func() {
			BeforeEach(func() {
				text = "SubTotal: $500.00 Cash Total Due: $500.00"
			})

			It("succeeds", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(totals.Total.StringFixed(2)).To(Equal("500.00"))
			})
		})

		When("a credit selection has a fee and a disagreeing captured credit total", func() {
			BeforeEach(func() {
				preference = PaymentCredit
				text = "SubTotal: $500.00 Convenience Fee $15.00 Credit Total Due: $520.00"
			})

			It("fails", func() {
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("disagrees"))
			})
		})

		When("a credit selection has a fee and an agreeing captured credit total", func() {
			BeforeEach(func() {
				preference = PaymentCredit
				text = "SubTotal: $500.00 Convenience Fee $15.00 Credit Total Due: $515.00"
			})

			It("succeeds with the computed credit total", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(totals.Total.StringFixed(2)).To(Equal("515.00"))
			})
		})

		When("a credit selection has no fee and no captured credit total", func() {
			BeforeEach(func() {
				preference = PaymentCredit
				text = "SubTotal: $500.00"
			})

			It("fails", func() {
				Expect(err).To(HaveOccurred())
			})
		})

		When("a credit selection has no fee but a captured credit total", func() {
			BeforeEach(func() {
				preference = PaymentCredit
				text = "SubTotal: $500.00 Credit Total Due: $515.00"
			})

			It("uses the captured credit total", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(totals.Total.StringFixed(2)).To(Equal("515.00"))
			})
		})
	})
})
