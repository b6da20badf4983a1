package textsource

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"smart-invoice-extractor/constants"
)

// PDFToText extracts the text layer of a PDF by shelling out to Poppler's
// pdftotext. No OCR happens here: a scanned PDF without a text layer yields
// an empty string, which is a valid result.
type PDFToText struct {
	bin    string
	runner Runner
	logger *slog.Logger
}

func NewPDFToText(bin string, logger *slog.Logger) *PDFToText {
	if bin == "" {
		bin = "pdftotext"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFToText{bin: bin, runner: newExecRunner(logger), logger: logger}
}

// WithRunner swaps the command runner; used by tests to stub the binary.
func (p *PDFToText) WithRunner(r Runner) *PDFToText {
	p.runner = r
	return p
}

func (p *PDFToText) Text(ctx context.Context, path string) (string, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	if !constants.IsAllowedExt(ext) {
		return "", newExtractionError(path, "unsupported extension "+ext, nil)
	}

	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := p.runner.Run(ctx, p.bin, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return "", newExtractionError(path, "pdftotext failed: "+truncate(string(errb), 512), err)
	}

	p.logger.Debug("pdf text extracted",
		"path", path,
		"bytes", len(out),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return string(out), nil
}
