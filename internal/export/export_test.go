package export

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"

	"smart-invoice-extractor/internal/extract"
)

func TestExport(t *testing.T) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))

	RegisterFailHandler(Fail)
	RunSpecs(t, "Export Suite")
}

func sampleInvoice() *extract.InvoiceResult {
	date := "2024-03-15"
	return &extract.InvoiceResult{
		DocumentType:    "invoice",
		Vendor:          "Acme Corp",
		InvoiceDate:     &date,
		TotalAmount:     "1,200.50",
		DetectedAmounts: []string{"100.00", "1,200.50"},
		DetectedDates:   []string{"2024-03-15"},
		Confidence:      1.0,
		RawTextLength:   72,
	}
}

var _ = Describe("Service", func() {
	var svc *Service

	BeforeEach(func() {
		svc = NewService(nil)
	})

	Describe("InvoiceCSV", func() {
		It("renders a header line and one data row", func() {
			data, err := svc.InvoiceCSV(sampleInvoice())
			Expect(err).NotTo(HaveOccurred())

			lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))
			Expect(lines).To(HaveLen(2))
			Expect(string(lines[0])).To(Equal("document_type,vendor,invoice_date,total_amount,detected_amounts,detected_dates,confidence,raw_text_length"))
			Expect(string(lines[1])).To(Equal(`invoice,Acme Corp,2024-03-15,"1,200.50","100.00; 1,200.50",2024-03-15,1,72`))
		})

		It("leaves the date column empty when no date was detected", func() {
			inv := sampleInvoice()
			inv.InvoiceDate = nil
			data, err := svc.InvoiceCSV(inv)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring("invoice,Acme Corp,,"))
		})
	})

	Describe("InvoicesCSV", func() {
		It("renders one row per file with a leading filename column", func() {
			rows := []InvoiceRow{
				{Filename: "a.pdf", Result: sampleInvoice()},
				{Filename: "b.pdf", Result: sampleInvoice()},
			}
			data, err := svc.InvoicesCSV(rows)
			Expect(err).NotTo(HaveOccurred())

			lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))
			Expect(lines).To(HaveLen(3))
			Expect(string(lines[0])).To(Equal("file,document_type,vendor,invoice_date,total_amount,detected_amounts,detected_dates,confidence,raw_text_length"))
			Expect(string(lines[1])).To(HavePrefix("a.pdf,invoice,Acme Corp,2024-03-15,"))
			Expect(string(lines[2])).To(HavePrefix("b.pdf,invoice,"))
		})
	})

	Describe("InvoicesXLSX", func() {
		It("writes one row per invoice under a header row", func() {
			rows := []InvoiceRow{
				{Filename: "a.pdf", Result: sampleInvoice()},
				{Filename: "b.pdf", Result: sampleInvoice()},
			}
			data, err := svc.InvoicesXLSX(rows)
			Expect(err).NotTo(HaveOccurred())

			f, err := excelize.OpenReader(bytes.NewReader(data))
			Expect(err).NotTo(HaveOccurred())
			defer f.Close()

			got, err := f.GetRows("Invoices")
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(HaveLen(3))
			Expect(got[0][0]).To(Equal("File"))
			Expect(got[1][0]).To(Equal("a.pdf"))
			Expect(got[1][1]).To(Equal("Acme Corp"))
			Expect(got[1][3]).To(Equal("1,200.50"))
			Expect(got[2][0]).To(Equal("b.pdf"))
		})
	})
})
