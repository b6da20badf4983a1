package extract

import (
	"strings"
	"unicode/utf8"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"smart-invoice-extractor/constants"
)

var _ = Describe("FieldExtractor", func() {
	var x *FieldExtractor

	BeforeEach(func() {
		x = NewFieldExtractor(nil)
	})

	Describe("Dates", func() {
		It("lists ISO matches before day-first matches regardless of position", func() {
			text := "paid 15/03/2024, issued 2024-01-01"
			Expect(x.Dates(text)).To(Equal([]string{"2024-01-01", "15/03/2024", "24-01-01"}))
		})

		It("returns an empty, non-nil slice when nothing matches", func() {
			Expect(x.Dates("no dates here")).To(BeEmpty())
			Expect(x.Dates("no dates here")).NotTo(BeNil())
		})
	})

	Describe("Amounts", func() {
		It("keeps natural left-to-right order", func() {
			Expect(x.Amounts("a 1.00 b 2.00")).To(Equal([]string{"1.00", "2.00"}))
		})

		It("returns an empty, non-nil slice when nothing matches", func() {
			Expect(x.Amounts("")).To(BeEmpty())
			Expect(x.Amounts("")).NotTo(BeNil())
		})
	})

	Describe("Vendor", func() {
		It("takes the first non-empty line", func() {
			Expect(x.Vendor("\n\n  Acme Corp  \nInvoice #123\n")).To(Equal("Acme Corp"))
		})

		It("returns the sentinel for empty text", func() {
			Expect(x.Vendor("")).To(Equal(constants.UnknownVendor))
		})

		It("returns the sentinel for whitespace-only text", func() {
			Expect(x.Vendor("  \n \t \n")).To(Equal(constants.UnknownVendor))
		})

		It("truncates long lines to 100 characters plus an ellipsis", func() {
			vendor := x.Vendor(strings.Repeat("A", 150) + "\nrest")
			Expect(vendor).To(HaveLen(103))
			Expect(vendor).To(Equal(strings.Repeat("A", 100) + "..."))
		})

		It("truncates multibyte lines on character boundaries", func() {
			vendor := x.Vendor(strings.Repeat("日", 150) + "\nrest")
			Expect(utf8.ValidString(vendor)).To(BeTrue())
			Expect(utf8.RuneCountInString(vendor)).To(Equal(103))
			Expect(vendor).To(Equal(strings.Repeat("日", 100) + "..."))
		})

		It("keeps a line of exactly 100 characters untouched", func() {
			line := strings.Repeat("B", 100)
			Expect(x.Vendor(line)).To(Equal(line))
		})
	})
})
