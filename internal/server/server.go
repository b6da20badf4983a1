package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"smart-invoice-extractor/internal/common"
	"smart-invoice-extractor/internal/export"
	"smart-invoice-extractor/internal/extract"
	"smart-invoice-extractor/internal/textsource"
)

// Server is the thin HTTP transport over the extraction engine. All decision
// logic stays in the analyzer; handlers only move bytes and map errors.
type Server struct {
	e        *echo.Echo
	analyzer *extract.Analyzer
	exporter *export.Service
	cfg      common.ServerConfig
	logger   *slog.Logger
}

func New(analyzer *extract.Analyzer, exporter *export.Service, cfg common.ServerConfig, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))

	s := &Server{e: e, analyzer: analyzer, exporter: exporter, cfg: cfg, logger: logger}

	// Unified HTTP error handler with structured JSON and logging
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()

		var he *echo.HTTPError
		var xe *textsource.ExtractionError
		switch {
		case errors.As(err, &he):
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		case errors.As(err, &xe):
			msg = fmt.Sprintf("Processing error: %s", xe.Reason)
		}

		req := c.Request()
		logger.Error("request failed", "status", code, "method", req.Method, "path", req.URL.Path, "error", err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]any{"error": msg})
		}
	}

	e.GET("/", s.root)
	e.GET("/health", s.health)

	api := e.Group("/api/v1")
	api.POST("/extract/invoice", s.extractInvoice)
	api.POST("/extract/invoice/csv", s.extractInvoiceCSV)
	api.POST("/extract/receipt", s.extractReceipt)
	api.POST("/extract/batch", s.extractBatch)

	return s
}

// Start blocks serving on addr until Shutdown or a listener error.
func (s *Server) Start(addr string) error {
	s.logger.Info("http serving", "addr", addr)
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.e
}
