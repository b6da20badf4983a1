package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"smart-invoice-extractor/internal/common"
	"smart-invoice-extractor/internal/export"
	"smart-invoice-extractor/internal/extract"
	"smart-invoice-extractor/internal/server"
	"smart-invoice-extractor/internal/textsource"
)

func main() {
	cfg := common.LoadConfig()

	fs := ff.NewFlagSet("extractord")
	var (
		addr      = fs.StringLong("addr", cfg.Server.Addr, "HTTP listen address")
		backend   = fs.StringLong("source", cfg.Source.Backend, "Text source backend: 'pdftotext' or 'fitz'")
		pdftotext = fs.StringLong("pdftotext", cfg.Source.Pdftotext, "pdftotext binary name or path")
		maxPages  = fs.IntLong("max-pages", cfg.Source.MaxPages, "Page limit for the fitz backend (0 = no limit)")
		strict    = fs.BoolLong("strict", "Validate every record against its JSON schema before responding")
		verbose   = fs.BoolLong("verbose", "Enable debug logging")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("EXTRACTOR"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	cfg.Server.Addr = *addr
	cfg.Server.StrictValidate = cfg.Server.StrictValidate || *strict
	cfg.Source.Backend = *backend
	cfg.Source.Pdftotext = *pdftotext
	cfg.Source.MaxPages = *maxPages
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
	logger.Info("text source ready", "backend", cfg.Source.Backend)

	analyzer := extract.NewAnalyzer(source, logger)
	exporter := export.NewService(logger)
	srv := server.New(analyzer, exporter, cfg.Server, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(cfg.Server.Addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		logger.Error("http serve failed", "error", err)
		os.Exit(1)
	case <-ctx.Done():
	}

	logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
		os.Exit(1)
	}
	fmt.Println("stopped.")
}
