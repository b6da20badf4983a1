package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"smart-invoice-extractor/constants"
	"smart-invoice-extractor/internal/async"
	"smart-invoice-extractor/internal/common"
	"smart-invoice-extractor/internal/export"
	"smart-invoice-extractor/internal/extract"
	"smart-invoice-extractor/internal/textsource"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir     = flag.String("dir", "", "directory of PDF documents to process (required)")
		out     = flag.String("out", "", "output XLSX path for invoice records (defaults to parent directory)")
		csvOut  = flag.String("csv", "", "optional CSV output path for invoice records")
		backend = flag.String("source", "", "text source backend, overrides EXTRACTOR_SOURCE_BACKEND")
		workers = flag.Int("workers", 0, "worker count, overrides EXTRACTOR_BATCH_WORKERS")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if *out == "" {
		parentDir := filepath.Dir(*dir)
		*out = filepath.Join(parentDir, "invoices.xlsx")
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if *backend != "" {
		cfg.Source.Backend = *backend
	}
	if *workers > 0 {
		cfg.Batch.Workers = *workers
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	var source textsource.Source
	switch cfg.Source.Backend {
	case "fitz":
		source = textsource.NewFitzSource(cfg.Source.MaxPages, logger)
	default:
		source = textsource.NewPDFToText(cfg.Source.Pdftotext, logger)
	}
	analyzer := extract.NewAnalyzer(source, logger)

	// Collect PDFs from the directory
	entries, err := os.ReadDir(*dir)
	if err != nil {
		logger.Error("failed to read directory", "dir", *dir, "error", err)
		os.Exit(1)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if constants.IsAllowedExt(filepath.Ext(e.Name())) {
			paths = append(paths, filepath.Join(*dir, e.Name()))
		}
	}
	sort.Strings(paths)
	if len(paths) == 0 {
		printError("Error: no PDF files found in %s\n", *dir)
		os.Exit(1)
	}
	logger.Info("starting batch analysis", "dir", *dir, "files", len(paths), "workers", cfg.Batch.Workers)

	// Fan the documents out to the worker queue; one file's failure never
	// stops the rest of the batch.
	var (
		mu      sync.Mutex
		rows    []export.InvoiceRow
		done    = make(map[string]bool)
		failed  int
		started = time.Now()
	)
	queue := async.NewAnalyzerQueue(analyzer, logger,
		async.WithWorkers(cfg.Batch.Workers),
		async.WithQueueSize(cfg.Batch.QueueSize),
		async.WithItemTimeout(cfg.Batch.ItemTimeout),
		async.WithResultHandler(func(r async.JobResult) {
			mu.Lock()
			defer mu.Unlock()
			if r.Err != nil {
				failed++
				done[r.Job.Path] = false
				return
			}
			done[r.Job.Path] = true
			if inv, ok := r.Result.(*extract.InvoiceResult); ok {
				rows = append(rows, export.InvoiceRow{
					Filename: filepath.Base(r.Job.Path),
					Result:   inv,
				})
			}
		}),
	)

	ctx := context.Background()
	for _, p := range paths {
		_ = queue.Enqueue(ctx, async.Job{
			Path: p,
			Kind: constants.KindForFilename(filepath.Base(p)),
		})
	}

	drainCtx, cancel := context.WithTimeout(ctx, time.Duration(len(paths))*cfg.Batch.ItemTimeout)
	queue.Shutdown(drainCtx)
	cancel()

	mu.Lock()
	processed := 0
	for _, ok := range done {
		if ok {
			processed++
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Filename < rows[j].Filename })
	invoiceRows := rows
	failures := failed
	mu.Unlock()

	// Export invoice records to XLSX
	exporter := export.NewService(logger)
	if len(invoiceRows) > 0 {
		xlsxBytes, err := exporter.InvoicesXLSX(invoiceRows)
		if err != nil {
			logger.Error("failed to render XLSX", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*out, xlsxBytes, 0644); err != nil {
			logger.Error("failed to write output file", "path", *out, "error", err)
			os.Exit(1)
		}
	}
	if *csvOut != "" && len(invoiceRows) > 0 {
		csvBytes, err := exporter.InvoicesCSV(invoiceRows)
		if err != nil {
			logger.Error("failed to render CSV", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*csvOut, csvBytes, 0644); err != nil {
			logger.Error("failed to write output file", "path", *csvOut, "error", err)
			os.Exit(1)
		}
	}

	logger.Info("batch analysis complete",
		"files", len(paths),
		"processed", processed,
		"failures", failures,
		"invoices_exported", len(invoiceRows),
		"output_file", *out,
		"elapsed_ms", time.Since(started).Milliseconds(),
	)

	fmt.Printf("Batch analysis complete!\n")
	fmt.Printf("- Files found: %d\n", len(paths))
	fmt.Printf("- Processed: %d\n", processed)
	fmt.Printf("- Failures: %d\n", failures)
	if len(invoiceRows) > 0 {
		fmt.Printf("- Invoice export: %s\n", *out)
		if *csvOut != "" {
			fmt.Printf("- CSV export: %s\n", *csvOut)
		}
	}
}
