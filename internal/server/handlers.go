package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"

	"github.com/labstack/echo/v4"

	"smart-invoice-extractor/constants"
	"smart-invoice-extractor/internal/extract"
)

const maxBatchFiles = 10

func (s *Server) root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"message": "Smart Invoice Extractor API",
		"version": s.cfg.Version,
		"endpoints": map[string]string{
			"health":              "/health",
			"extract_invoice":     "/api/v1/extract/invoice",
			"extract_invoice_csv": "/api/v1/extract/invoice/csv",
			"extract_receipt":     "/api/v1/extract/receipt",
			"extract_batch":       "/api/v1/extract/batch",
		},
	})
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": s.cfg.Version,
		"message": "Smart Invoice Extractor API is running",
	})
}

// extractionResponse is the envelope for single-document extractions.
type extractionResponse struct {
	Status     string         `json:"status"`
	Data       extract.Result `json:"data"`
	Confidence float64        `json:"confidence"`
}

func (s *Server) extractInvoice(c echo.Context) error {
	res, err := s.analyzeUpload(c, constants.KindInvoice)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, extractionResponse{
		Status:     "success",
		Data:       res,
		Confidence: res.Score(),
	})
}

func (s *Server) extractReceipt(c echo.Context) error {
	res, err := s.analyzeUpload(c, constants.KindReceipt)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, extractionResponse{
		Status:     "success",
		Data:       res,
		Confidence: res.Score(),
	})
}

// extractInvoiceCSV returns the flattened invoice record as a CSV download.
func (s *Server) extractInvoiceCSV(c echo.Context) error {
	res, err := s.analyzeUpload(c, constants.KindInvoice)
	if err != nil {
		return err
	}
	data, err := s.exporter.InvoiceCSV(res.(*extract.InvoiceResult))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "CSV rendering failed")
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="invoice_extract.csv"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", data)
}

// batchEntry reports one file of a batch request. A failed file carries an
// error message instead of a record; it never aborts its siblings.
type batchEntry struct {
	Filename string         `json:"filename"`
	Status   string         `json:"status"`
	Data     extract.Result `json:"data,omitempty"`
	Error    string         `json:"error,omitempty"`
}

func (s *Server) extractBatch(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "files are required")
	}
	files := form.File["files"]
	if len(files) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "files are required")
	}
	if len(files) > maxBatchFiles {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Maximum %d files per batch", maxBatchFiles))
	}

	results := make([]batchEntry, 0, len(files))
	for _, fh := range files {
		kind := constants.KindForFilename(fh.Filename)
		res, err := s.analyzeFileHeader(c, fh, kind)
		if err != nil {
			results = append(results, batchEntry{
				Filename: fh.Filename,
				Status:   "error",
				Error:    errorDetail(err),
			})
			continue
		}
		results = append(results, batchEntry{
			Filename: fh.Filename,
			Status:   "success",
			Data:     res,
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"results": results,
		"total":   len(files),
	})
}

// errorDetail strips the HTTP envelope from an echo error so batch entries
// carry only the detail string.
func errorDetail(err error) string {
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Message != nil {
		return fmt.Sprint(he.Message)
	}
	return err.Error()
}

// analyzeUpload pulls the single "file" part, spools it, and runs the
// analyzer for the given kind.
func (s *Server) analyzeUpload(c echo.Context, kind constants.DocumentKind) (extract.Result, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	return s.analyzeFileHeader(c, fh, kind)
}

func (s *Server) analyzeFileHeader(c echo.Context, fh *multipart.FileHeader, kind constants.DocumentKind) (extract.Result, error) {
	if !strings.HasSuffix(strings.ToLower(fh.Filename), ".pdf") {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Only PDF files are supported")
	}

	tmpPath, err := spoolUpload(fh)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "could not read upload")
	}
	defer func() {
		if rmErr := os.Remove(tmpPath); rmErr != nil {
			s.logger.Warn("temp file cleanup failed", "path", tmpPath, "error", rmErr)
		}
	}()

	s.logger.Info("processing upload", "filename", fh.Filename, "kind", kind, "bytes", fh.Size)

	res, err := s.analyzer.Analyze(c.Request().Context(), tmpPath, kind)
	if err != nil {
		return nil, err
	}
	if s.cfg.StrictValidate {
		if verr := extract.ValidateResult(res); verr != nil {
			s.logger.Error("result failed schema validation", "filename", fh.Filename, "error", verr)
			return nil, echo.NewHTTPError(http.StatusInternalServerError, "extraction produced an invalid record")
		}
	}
	return res, nil
}

// spoolUpload copies a multipart part to a temp .pdf file and returns its path.
func spoolUpload(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	tmp, err := os.CreateTemp("", "upload-*.pdf")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}
