package extract

// BuildInvoiceJSONSchema returns a JSON-Schema (draft 2020-12 subset) for the
// invoice record as a generic map. We use it locally to validate assembled
// records before they leave the service.
func BuildInvoiceJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"document_type": map[string]any{"const": "invoice"},
			"vendor":        map[string]any{"type": "string", "minLength": 1},
			"invoice_date":  map[string]any{"type": []string{"string", "null"}},
			"total_amount":  amountProp(),
			"detected_amounts": map[string]any{
				"type":  "array",
				"items": amountProp(),
			},
			"detected_dates": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"confidence":      map[string]any{"type": "number", "minimum": 0.5, "maximum": 1.0},
			"raw_text_length": map[string]any{"type": "integer", "minimum": 0},
		},
		"required": []string{
			"document_type", "vendor", "invoice_date", "total_amount",
			"detected_amounts", "detected_dates", "confidence", "raw_text_length",
		},
	}
}

// BuildReceiptJSONSchema returns the schema for the receipt record. Receipts
// carry a candidate count instead of lists and a two-valued confidence.
func BuildReceiptJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"document_type":  map[string]any{"const": "receipt"},
			"merchant":       map[string]any{"type": "string", "minLength": 1},
			"purchase_date":  map[string]any{"type": []string{"string", "null"}},
			"total":          amountProp(),
			"items_detected": map[string]any{"type": "integer", "minimum": 0},
			"confidence":     map[string]any{"enum": []float64{0.5, 0.8}},
		},
		"required": []string{
			"document_type", "merchant", "purchase_date", "total",
			"items_detected", "confidence",
		},
	}
}

func amountProp() map[string]any {
	return map[string]any{
		"type":    "string",
		"pattern": `^\d{1,3}(,\d{3})*\.\d{2}$`,
	}
}
