// Package patterns holds the surface-syntax matchers for dates and monetary
// amounts. Matching is purely syntactic: no calendar validation and no
// currency normalization, so "32-13-9999" is a perfectly good date candidate.
package patterns

import "regexp"

var (
	reDateISO      = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)           // YYYY-MM-DD
	reDateDayFirst = regexp.MustCompile(`\d{2}[/-]\d{2}[/-]\d{2,4}`)   // DD/MM/YYYY or DD-MM-YY
	reAmount       = regexp.MustCompile(`\b\d{1,3}(,\d{3})*\.\d{2}\b`) // 1,200.50
)

// Library exposes the fixed pattern sets. It carries no state beyond the
// compiled expressions and is safe for concurrent use.
type Library struct {
	dateISO      *regexp.Regexp
	dateDayFirst *regexp.Regexp
	amount       *regexp.Regexp
}

func NewLibrary() *Library {
	return &Library{
		dateISO:      reDateISO,
		dateDayFirst: reDateDayFirst,
		amount:       reAmount,
	}
}

// ISODates returns every YYYY-MM-DD shaped substring in textual order.
func (l *Library) ISODates(text string) []string {
	return l.dateISO.FindAllString(text, -1)
}

// DayFirstDates returns every DD[/-]MM[/-]YY(YY) shaped substring in textual
// order. The two pattern sets are not mutually exclusive: an ISO date also
// contains a day-first shaped tail, and both matches are retained.
func (l *Library) DayFirstDates(text string) []string {
	return l.dateDayFirst.FindAllString(text, -1)
}

// Amounts returns every token shaped like a comma-grouped amount with exactly
// two fractional digits, in textual order. Token boundaries keep a match from
// being a substring of a longer digit run.
func (l *Library) Amounts(text string) []string {
	return l.amount.FindAllString(text, -1)
}
