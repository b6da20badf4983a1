package extract

// invoiceConfidence scores an invoice extraction: base 0.5, +0.25 for each
// candidate class found, capped at 1.0.
func invoiceConfidence(dates, amounts []string) float64 {
	score := 0.5 // base
	if len(dates) > 0 {
		score += 0.25
	}
	if len(amounts) > 0 {
		score += 0.25
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// receiptConfidence is deliberately simpler than the invoice formula: 0.8
// when both classes are present, 0.5 otherwise. The two kinds diverge on
// purpose; do not unify them.
func receiptConfidence(dates, amounts []string) float64 {
	if len(dates) > 0 && len(amounts) > 0 {
		return 0.8
	}
	return 0.5
}
