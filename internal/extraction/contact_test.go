package extraction

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ExtractPhones", func() {
	var (
		text   string
		phones []string
	)

	JustBeforeEach(func() {
		phones = ExtractPhones(text, nil)
	})

	When("the text contains a valid phone number", func() {
		BeforeEach(func() {
			text = "Call us at 614-555-1234 for pickup scheduling"
		})

		It("formats it as (NNN) NNN-NNNN", func() {
			Expect(phones).To(Equal([]string{"(614) 555-1234"}))
		})
	})

	When("the area code is below 200", func() {
		BeforeEach(func() {
			text = "Fax: 100-123-4567"
		})

		It("rejects the candidate", func() {
			Expect(phones).To(BeEmpty())
		})
	})

	When("the exchange is below 200", func() {
		BeforeEach(func() {
			text = "Phone: 614-123-4567"
		})

		It("rejects the candidate", func() {
			Expect(phones).To(BeEmpty())
		})
	})

	When("the same number appears in different formats", func() {
		BeforeEach(func() {
			text = "Office: (513) 771-1700. Questions? Call 513.771.1700 anytime."
		})

		It("deduplicates by formatted value", func() {
			Expect(phones).To(Equal([]string{"(513) 771-1700"}))
		})
	})

	When("multiple distinct numbers appear", func() {
		BeforeEach(func() {
			text = "Main: 513-771-1700 Warehouse: 614-555-1234"
		})

		It("preserves first-seen order", func() {
			Expect(phones).To(Equal([]string{"(513) 771-1700", "(614) 555-1234"}))
		})
	})

	When("the text contains no phone-shaped substrings", func() {
		BeforeEach(func() {
			text = "No contact information on this invoice"
		})

		It("returns an empty slice", func() {
			Expect(phones).To(BeEmpty())
		})
	})
})

var _ = Describe("ExtractEmails", func() {
	var (
		text   string
		emails []string
	)

	JustBeforeEach(func() {
		emails = ExtractEmails(text, nil)
	})

	When("the text contains mixed-case email addresses", func() {
		BeforeEach(func() {
			text = "Contact Sales@Example.com or support@example.com"
		})

		It("lower-cases them", func() {
			Expect(emails).To(ContainElement("sales@example.com"))
		})

		It("preserves first-seen order", func() {
			Expect(emails).To(Equal([]string{"sales@example.com", "support@example.com"}))
		})
	})

	When("the same address appears twice with different casing", func() {
		BeforeEach(func() {
			text = "Email INFO@CIA-AUCTION.COM or info@cia-auction.com"
		})

		It("deduplicates", func() {
			Expect(emails).To(Equal([]string{"info@cia-auction.com"}))
		})
	})
})
