package extract

import (
	"strings"
	"unicode/utf8"

	"smart-invoice-extractor/constants"
	"smart-invoice-extractor/internal/patterns"
)

// FieldExtractor turns raw document text into candidate lists. Absence of
// matches is a valid outcome, never an error.
type FieldExtractor struct {
	lib *patterns.Library
}

func NewFieldExtractor(lib *patterns.Library) *FieldExtractor {
	if lib == nil {
		lib = patterns.NewLibrary()
	}
	return &FieldExtractor{lib: lib}
}

// Dates returns every date candidate: ISO-shaped matches first, then
// day-first matches, each group in textual order. Callers treating index 0 as
// the primary date therefore prefer ISO dates regardless of position.
func (x *FieldExtractor) Dates(text string) []string {
	dates := make([]string, 0, 4)
	dates = append(dates, x.lib.ISODates(text)...)
	dates = append(dates, x.lib.DayFirstDates(text)...)
	return dates
}

// Amounts returns every amount candidate in textual order, original
// formatting retained.
func (x *FieldExtractor) Amounts(text string) []string {
	amounts := make([]string, 0, 4)
	return append(amounts, x.lib.Amounts(text)...)
}

// Vendor guesses the vendor from the first line of the text. Long lines are
// cut at the display limit with an ellipsis; blank text yields the sentinel.
func (x *FieldExtractor) Vendor(text string) string {
	stripped := strings.TrimSpace(text)
	if stripped == "" {
		return constants.UnknownVendor
	}
	line, _, _ := strings.Cut(stripped, "\n")
	vendor := strings.TrimSpace(line)
	if vendor == "" {
		return constants.UnknownVendor
	}
	// Cut on runes, not bytes: a multibyte vendor line must never be
	// severed mid-character.
	if utf8.RuneCountInString(vendor) > constants.VendorMaxLen {
		vendor = string([]rune(vendor)[:constants.VendorMaxLen]) + "..."
	}
	return vendor
}
