package extract

import "smart-invoice-extractor/constants"

// Result is implemented by both document-kind records.
type Result interface {
	Kind() constants.DocumentKind
	Score() float64
}

// InvoiceResult is the invoice record shape. Field names are part of the
// output contract. InvoiceDate is nil when no date candidate exists and
// serializes as JSON null; TotalAmount always carries a value ("0.00" when
// nothing matched) — the asymmetry is intentional.
type InvoiceResult struct {
	DocumentType    string   `json:"document_type"`
	Vendor          string   `json:"vendor"`
	InvoiceDate     *string  `json:"invoice_date"`
	TotalAmount     string   `json:"total_amount"`
	DetectedAmounts []string `json:"detected_amounts"`
	DetectedDates   []string `json:"detected_dates"`
	Confidence      float64  `json:"confidence"`
	RawTextLength   int      `json:"raw_text_length"`
}

func (r *InvoiceResult) Kind() constants.DocumentKind { return constants.KindInvoice }
func (r *InvoiceResult) Score() float64               { return r.Confidence }

// ReceiptResult is the receipt record shape. Receipts report the count of
// amount candidates, not the list.
type ReceiptResult struct {
	DocumentType  string  `json:"document_type"`
	Merchant      string  `json:"merchant"`
	PurchaseDate  *string `json:"purchase_date"`
	Total         string  `json:"total"`
	ItemsDetected int     `json:"items_detected"`
	Confidence    float64 `json:"confidence"`
}

func (r *ReceiptResult) Kind() constants.DocumentKind { return constants.KindReceipt }
func (r *ReceiptResult) Score() float64               { return r.Confidence }
