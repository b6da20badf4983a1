package extract

import (
	"context"
	"encoding/json"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"smart-invoice-extractor/internal/textsource"
)

var _ = Describe("Analyzer", func() {
	var (
		source   *fakeSource
		analyzer *Analyzer
	)

	BeforeEach(func() {
		source = newFakeSource()
		analyzer = NewAnalyzer(source, nil)
	})

	Describe("AnalyzeInvoice", func() {
		When("the document has a vendor, dates and amounts", func() {
			var res *InvoiceResult

			BeforeEach(func() {
				source.texts["inv.pdf"] = "Acme Corp\nInvoice #123\nDate: 2024-03-15\nSubtotal: 100.00\nTotal: 1,200.50\n"
			})

			JustBeforeEach(func() {
				var err error
				res, err = analyzer.AnalyzeInvoice(context.Background(), "inv.pdf")
				Expect(err).NotTo(HaveOccurred())
			})

			It("extracts the vendor from the first line", func() {
				Expect(res.Vendor).To(Equal("Acme Corp"))
			})

			It("promotes the first date candidate", func() {
				Expect(res.InvoiceDate).To(HaveValue(Equal("2024-03-15")))
			})

			It("promotes the last amount as the total", func() {
				Expect(res.TotalAmount).To(Equal("1,200.50"))
			})

			It("retains all amount candidates", func() {
				Expect(res.DetectedAmounts).To(Equal([]string{"100.00", "1,200.50"}))
			})

			It("scores full confidence", func() {
				Expect(res.Confidence).To(Equal(1.0))
			})

			It("reports the raw text length", func() {
				Expect(res.RawTextLength).To(Equal(len(source.texts["inv.pdf"])))
			})

			It("produces a record that validates against the invoice schema", func() {
				Expect(ValidateResult(res)).To(Succeed())
			})
		})

		When("the document has no text layer", func() {
			var res *InvoiceResult

			JustBeforeEach(func() {
				var err error
				res, err = analyzer.AnalyzeInvoice(context.Background(), "empty.pdf")
				Expect(err).NotTo(HaveOccurred())
			})

			It("falls back to the vendor sentinel", func() {
				Expect(res.Vendor).To(Equal("Unknown Vendor"))
			})

			It("leaves the invoice date absent", func() {
				Expect(res.InvoiceDate).To(BeNil())
			})

			It("defaults the total to 0.00", func() {
				Expect(res.TotalAmount).To(Equal("0.00"))
			})

			It("scores base confidence", func() {
				Expect(res.Confidence).To(Equal(0.5))
			})

			It("serializes invoice_date as JSON null and the lists as empty arrays", func() {
				data, err := json.Marshal(res)
				Expect(err).NotTo(HaveOccurred())
				Expect(string(data)).To(ContainSubstring(`"invoice_date":null`))
				Expect(string(data)).To(ContainSubstring(`"detected_amounts":[]`))
				Expect(string(data)).To(ContainSubstring(`"detected_dates":[]`))
			})

			It("produces a record that validates against the invoice schema", func() {
				Expect(ValidateResult(res)).To(Succeed())
			})
		})

		When("the text source fails", func() {
			BeforeEach(func() {
				source.err = &textsource.ExtractionError{Path: "bad.pdf", Reason: "corrupt file"}
			})

			It("propagates the failure unmodified with no partial result", func() {
				res, err := analyzer.AnalyzeInvoice(context.Background(), "bad.pdf")
				Expect(res).To(BeNil())

				var xe *textsource.ExtractionError
				Expect(errors.As(err, &xe)).To(BeTrue())
				Expect(xe.Reason).To(Equal("corrupt file"))
			})
		})
	})

	Describe("AnalyzeReceipt", func() {
		When("the document has a merchant, a date and amounts", func() {
			var res *ReceiptResult

			BeforeEach(func() {
				source.texts["rcpt.pdf"] = "StoreX\n15/03/2024\nItem 5.00\nItem 3.00\nTotal 8.00\n"
			})

			JustBeforeEach(func() {
				var err error
				res, err = analyzer.AnalyzeReceipt(context.Background(), "rcpt.pdf")
				Expect(err).NotTo(HaveOccurred())
			})

			It("extracts the merchant", func() {
				Expect(res.Merchant).To(Equal("StoreX"))
			})

			It("promotes the first date candidate", func() {
				Expect(res.PurchaseDate).To(HaveValue(Equal("15/03/2024")))
			})

			It("promotes the last amount as the total", func() {
				Expect(res.Total).To(Equal("8.00"))
			})

			It("counts the amount candidates instead of listing them", func() {
				Expect(res.ItemsDetected).To(Equal(3))
			})

			It("scores 0.8 when both classes are present", func() {
				Expect(res.Confidence).To(Equal(0.8))
			})

			It("produces a record that validates against the receipt schema", func() {
				Expect(ValidateResult(res)).To(Succeed())
			})
		})

		When("only amounts are present", func() {
			It("scores 0.5", func() {
				source.texts["r.pdf"] = "Shop\nItem 4.00\n"
				res, err := analyzer.AnalyzeReceipt(context.Background(), "r.pdf")
				Expect(err).NotTo(HaveOccurred())
				Expect(res.Confidence).To(Equal(0.5))
			})
		})
	})

	Describe("idempotence", func() {
		It("yields byte-identical results for the same text", func() {
			source.texts["doc.pdf"] = "Acme\n2024-01-02\nTotal 10.00\n"

			first, err := analyzer.AnalyzeInvoice(context.Background(), "doc.pdf")
			Expect(err).NotTo(HaveOccurred())
			second, err := analyzer.AnalyzeInvoice(context.Background(), "doc.pdf")
			Expect(err).NotTo(HaveOccurred())

			a, _ := json.Marshal(first)
			b, _ := json.Marshal(second)
			Expect(a).To(Equal(b))
		})
	})

	Describe("confidence bounds", func() {
		texts := []string{
			"",
			"Vendor only\n",
			"Vendor\n2024-01-01\n",
			"Vendor\nTotal 3.00\n",
			"Vendor\n2024-01-01\nTotal 3.00\n",
		}

		It("keeps invoice confidence within [0.5, 1.0]", func() {
			for _, text := range texts {
				res := analyzer.InvoiceFromText(text)
				Expect(res.Confidence).To(BeNumerically(">=", 0.5))
				Expect(res.Confidence).To(BeNumerically("<=", 1.0))
			}
		})

		It("keeps receipt confidence two-valued", func() {
			for _, text := range texts {
				res := analyzer.ReceiptFromText(text)
				Expect(res.Confidence).To(BeElementOf(0.5, 0.8))
			}
		})
	})
})
