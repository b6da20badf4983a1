package textsource

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/gen2brain/go-fitz"
)

// FitzSource extracts PDF text in-process via MuPDF (go-fitz), avoiding the
// external pdftotext dependency. Per-page text is joined with newlines.
type FitzSource struct {
	maxPages int
	logger   *slog.Logger
}

func NewFitzSource(maxPages int, logger *slog.Logger) *FitzSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &FitzSource{maxPages: maxPages, logger: logger}
}

func (f *FitzSource) Text(ctx context.Context, path string) (string, error) {
	start := time.Now()

	doc, err := fitz.New(path)
	if err != nil {
		return "", newExtractionError(path, "opening PDF", err)
	}
	defer doc.Close()

	pages := doc.NumPage()
	if f.maxPages > 0 && pages > f.maxPages {
		pages = f.maxPages
	}

	var b strings.Builder
	for i := 0; i < pages; i++ {
		if err := ctx.Err(); err != nil {
			return "", newExtractionError(path, "cancelled", err)
		}
		txt, err := doc.Text(i)
		if err != nil {
			return "", newExtractionError(path, "rendering page text", err)
		}
		if txt != "" {
			b.WriteString(txt)
			b.WriteString("\n")
		}
	}

	f.logger.Debug("pdf text extracted",
		"path", path,
		"pages", pages,
		"bytes", b.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return b.String(), nil
}
