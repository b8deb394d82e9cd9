package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"driftwatch/internal/analysis"
	"driftwatch/internal/logging"
	"driftwatch/internal/table"
)

// maxSampleRows bounds the row preview included in analyze responses.
const maxSampleRows = 20

// multipartMemoryLimit is how much of a parsed form is held in memory
// before spilling to temp files.
const multipartMemoryLimit = 32 << 20

// analyzeResponse is the Report plus a small dataset preview.
type analyzeResponse struct {
	*analysis.Report
	SampleColumns []string         `json:"sampleColumns"`
	SampleRows    []map[string]any `json:"sampleRows"`
}

// handleDashboard serves the embedded single-page dashboard.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	page, err := staticFiles.ReadFile("static/index.html")
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

// handleHealth reports liveness and limiter occupancy.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status":   "ok",
		"analyses": s.limiter.Status(),
	})
}

// handleAnalyze accepts a multipart upload with a required dataset CSV
// and an optional baseline CSV, runs the analysis, and returns the
// report with a short dataset preview.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	// Cap the request body before any form parsing happens
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize)

	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	if err := s.limiter.Acquire(r.Context()); err != nil {
		status := http.StatusServiceUnavailable
		if !errors.Is(err, analysis.ErrTooManyAnalyses) {
			status = http.StatusBadRequest
		}
		s.respondError(w, r, err, status)
		return
	}
	defer s.limiter.Release()

	dataset, err := loadCSVField(r, "dataset")
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	var baseline *table.Table
	switch file, _, err := r.FormFile("baseline"); {
	case err == nil:
		baseline, err = table.LoadCSV(file)
		file.Close()
		if err != nil {
			s.respondError(w, r, err, http.StatusBadRequest)
			return
		}
	case !errors.Is(err, http.ErrMissingFile):
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Upload.Timeout)
	defer cancel()

	start := time.Now()
	report, err := analysis.Analyze(ctx, dataset, baseline, s.cfg.Analysis)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, table.ErrInvalidTable) {
			status = http.StatusBadRequest
		} else if errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
		s.respondError(w, r, err, status)
		return
	}
	report.ID = uuid.NewString()

	logger.Info("analysis completed",
		"report_id", report.ID,
		"rows", report.RowCount,
		"columns", report.ColumnCount,
		"score", report.QualityScore,
		"duration_ms", time.Since(start).Milliseconds(),
		"has_baseline", baseline != nil,
	)

	writeJSON(w, analyzeResponse{
		Report:        report,
		SampleColumns: dataset.Columns(),
		SampleRows:    sampleRows(dataset, maxSampleRows),
	})
}

// loadCSVField reads one multipart file field into a Table.
func loadCSVField(r *http.Request, field string) (*table.Table, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return table.LoadCSV(file)
}

// sampleRows materializes the first n rows for the response preview.
func sampleRows(t *table.Table, n int) []map[string]any {
	if t.NumRows() < n {
		n = t.NumRows()
	}
	rows := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, t.Row(i))
	}
	return rows
}
