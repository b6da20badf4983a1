package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"smart-invoice-extractor/internal/extract"
)

// Service renders extraction records into tabular downloads. It is a thin
// rendering layer: all decision logic lives upstream in the analyzer.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// InvoiceRow pairs a source filename with its analyzed record for multi-row
// exports.
type InvoiceRow struct {
	Filename string
	Result   *extract.InvoiceResult
}

var csvHeader = []string{
	"document_type",
	"vendor",
	"invoice_date",
	"total_amount",
	"detected_amounts",
	"detected_dates",
	"confidence",
	"raw_text_length",
}

// InvoiceCSV returns a comma-separated UTF-8 rendering of one flattened
// invoice record: a header line and a single data row.
func (s *Service) InvoiceCSV(res *extract.InvoiceResult) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("csv header: %w", err)
	}
	if err := w.Write(invoiceRecord(res)); err != nil {
		return nil, fmt.Errorf("csv row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv write: %w", err)
	}
	return buf.Bytes(), nil
}

// InvoicesCSV returns a comma-separated UTF-8 rendering of many invoice
// records, one row per analyzed file with a leading filename column.
func (s *Service) InvoicesCSV(rows []InvoiceRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := append([]string{"file"}, csvHeader...)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("csv header: %w", err)
	}
	for _, r := range rows {
		record := append([]string{r.Filename}, invoiceRecord(r.Result)...)
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv write: %w", err)
	}
	return buf.Bytes(), nil
}

// InvoicesXLSX returns an XLSX workbook (as bytes) with one row per analyzed
// invoice.
func (s *Service) InvoicesXLSX(rows []InvoiceRow) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Invoices"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		_, err := f.NewSheet(sheet)
		if err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"File",
		"Vendor",
		"Invoice Date",
		"Total Amount",
		"Detected Amounts",
		"Detected Dates",
		"Confidence",
		"Raw Text Length",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	rowIdx := 2
	for _, r := range rows {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, rowIdx)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, r.Filename)
		write(2, r.Result.Vendor)
		if r.Result.InvoiceDate != nil {
			write(3, *r.Result.InvoiceDate)
		} else {
			write(3, "")
		}
		write(4, r.Result.TotalAmount)
		write(5, strings.Join(r.Result.DetectedAmounts, "; "))
		write(6, strings.Join(r.Result.DetectedDates, "; "))
		write(7, r.Result.Confidence)
		write(8, r.Result.RawTextLength)

		rowIdx++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 32) // file
	_ = f.SetColWidth(sheet, "B", "B", 28) // vendor
	_ = f.SetColWidth(sheet, "C", "C", 14) // date
	_ = f.SetColWidth(sheet, "D", "D", 14) // total
	_ = f.SetColWidth(sheet, "E", "F", 32) // candidate lists
	_ = f.SetColWidth(sheet, "G", "H", 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func invoiceRecord(res *extract.InvoiceResult) []string {
	invoiceDate := ""
	if res.InvoiceDate != nil {
		invoiceDate = *res.InvoiceDate
	}
	return []string{
		res.DocumentType,
		res.Vendor,
		invoiceDate,
		res.TotalAmount,
		strings.Join(res.DetectedAmounts, "; "),
		strings.Join(res.DetectedDates, "; "),
		strconv.FormatFloat(res.Confidence, 'f', -1, 64),
		strconv.Itoa(res.RawTextLength),
	}
}
