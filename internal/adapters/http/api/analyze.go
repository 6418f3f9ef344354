package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/okian/bestxi/internal/adapters/loader"
	"github.com/okian/bestxi/internal/domain/analysis"
	"github.com/okian/bestxi/internal/domain/types"
	"github.com/okian/bestxi/pkg/logger"
	"github.com/okian/bestxi/pkg/metrics"
	"gopkg.in/yaml.v3"
)

// Multipart form field names.
const (
	FieldDeliveries = "deliveries"
	FieldMatches    = "matches"

	headerRunID        = "X-Run-ID"
	multipartMaxMemory = 8 << 20
)

// AnalyzeDependencies defines the interface for running an analysis.
type AnalyzeDependencies interface {
	Analyze(ctx context.Context, deliveries, matches io.Reader) (types.Report, error)
}

// AnalyzeHandler handles dataset uploads.
type AnalyzeHandler struct {
	deps     AnalyzeDependencies
	maxBytes int64
	logger   logger.Logger
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(deps AnalyzeDependencies, maxBytes int64, l logger.Logger) *AnalyzeHandler {
	if l == nil {
		l = logger.Discard()
	}
	return &AnalyzeHandler{deps: deps, maxBytes: maxBytes, logger: l}
}

// HandleAnalyze handles POST /analyze requests carrying a multipart form with
// deliveries and matches files. An empty body or a form missing either file
// answers 202.
func (h *AnalyzeHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if r.ContentLength == 0 {
		h.analyze(w, r, nil, nil)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	if err := r.ParseMultipartForm(multipartMaxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.reject(r, http.StatusRequestEntityTooLarge, err)
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large",
				fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, tooLarge.Limit))
			return
		}
		h.reject(r, http.StatusBadRequest, err)
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()
	metrics.RecordUploadBytes(uploadSize(r.MultipartForm))

	deliveries, err := openPart(r.MultipartForm, FieldDeliveries)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if deliveries != nil {
		defer deliveries.Close()
	}
	matches, err := openPart(r.MultipartForm, FieldMatches)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if matches != nil {
		defer matches.Close()
	}

	h.analyze(w, r, deliveries, matches)
}

// analyze runs the service; a nil file is reported as missing.
func (h *AnalyzeHandler) analyze(w http.ResponseWriter, r *http.Request, deliveries, matches multipart.File) {
	report, err := h.deps.Analyze(r.Context(), asReader(deliveries), asReader(matches))
	if report.RunID != "" {
		w.Header().Set(headerRunID, report.RunID)
	}
	if err != nil {
		h.writeAnalyzeError(w, r, report, err, deliveries == nil, matches == nil)
		return
	}
	writeReport(w, r, http.StatusOK, report)
}

// uploadSize sums the sizes of every file in the form.
func uploadSize(form *multipart.Form) int64 {
	var n int64
	for _, files := range form.File {
		for _, f := range files {
			n += f.Size
		}
	}
	return n
}

func (h *AnalyzeHandler) writeAnalyzeError(w http.ResponseWriter, r *http.Request, report types.Report, err error, noDeliveries, noMatches bool) {
	var se *analysis.SchemaError
	switch {
	case errors.Is(err, loader.ErrAwaitingInput):
		missing := []string{}
		if noDeliveries {
			missing = append(missing, FieldDeliveries)
		}
		if noMatches {
			missing = append(missing, FieldMatches)
		}
		writeJSON(w, http.StatusAccepted, awaitingResponse{
			Status:  types.StatusAwaitingInput,
			RunID:   report.RunID,
			Missing: missing,
		})
	case errors.As(err, &se):
		h.reject(r, http.StatusUnprocessableEntity, err)
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Code:    "schema",
			Message: err.Error(),
			RunID:   report.RunID,
			Missing: se.Missing,
		})
	case errors.Is(err, analysis.ErrInvalidValue),
		errors.Is(err, loader.ErrEmptyInput),
		errors.Is(err, loader.ErrMalformedCSV):
		h.reject(r, http.StatusBadRequest, err)
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Code:    "invalid_input",
			Message: err.Error(),
			RunID:   report.RunID,
		})
	default:
		h.logger.Error(r.Context(), "analysis failed", logger.String("run_id", report.RunID), logger.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Code:    "internal",
			Message: http.StatusText(http.StatusInternalServerError),
			RunID:   report.RunID,
		})
	}
}

func (h *AnalyzeHandler) reject(r *http.Request, status int, err error) {
	h.logger.Warn(r.Context(), "analyze request rejected",
		logger.Int("status", status),
		logger.String("remote", r.RemoteAddr),
		logger.Error(err),
	)
}

// openPart returns the first file under field, or nil when none was sent.
func openPart(form *multipart.Form, field string) (multipart.File, error) {
	files := form.File[field]
	if len(files) == 0 {
		return nil, nil
	}
	f, err := files[0].Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrBadRequest, field, err)
	}
	return f, nil
}

// asReader keeps a missing file as an untyped nil reader.
func asReader(f multipart.File) io.Reader {
	if f == nil {
		return nil
	}
	return f
}

// writeReport encodes the report as YAML when the client asks for it, JSON otherwise.
func writeReport(w http.ResponseWriter, r *http.Request, status int, report types.Report) {
	if wantsYAML(r) {
		b, err := yaml.Marshal(report)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal", err)
			return
		}
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		w.WriteHeader(status)
		_, _ = w.Write(b)
		return
	}
	writeJSON(w, status, report)
}

func wantsYAML(r *http.Request) bool {
	if f := r.URL.Query().Get("format"); f != "" {
		return f == "yaml"
	}
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/yaml") || strings.Contains(accept, "text/yaml")
}
