package constants

import "strings"

// DocumentKind tags the two supported document pipelines.
type DocumentKind string

// Stable values (these exact strings appear in API responses).
const (
	KindInvoice DocumentKind = "invoice"
	KindReceipt DocumentKind = "receipt"
)

const (
	// UnknownVendor is returned when a document has no extractable first line.
	UnknownVendor = "Unknown Vendor"

	// ZeroAmount is the placeholder total when no amount candidate exists.
	ZeroAmount = "0.00"

	// VendorMaxLen is the display cutoff for vendor names; longer names get
	// an ellipsis suffix.
	VendorMaxLen = 100
)

// AllowedExtensions holds the file extensions accepted for analysis.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsAllowedExt reports whether a (possibly dotted, mixed-case) extension is accepted.
func IsAllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}

// KindForFilename picks the pipeline for a batch upload: files with "invoice"
// in the name go through the invoice pipeline, everything else is treated as
// a receipt.
func KindForFilename(name string) DocumentKind {
	if strings.Contains(strings.ToLower(name), "invoice") {
		return KindInvoice
	}
	return KindReceipt
}
