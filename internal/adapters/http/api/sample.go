package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/okian/bestxi/internal/domain/types"
	"github.com/okian/bestxi/internal/sample"
	"github.com/okian/bestxi/pkg/logger"
)

// maxSampleMatches bounds the work a single GET /sample can request.
const maxSampleMatches = 200

// SampleDependencies defines the interface for analyzing generated data.
type SampleDependencies interface {
	Analyze(ctx context.Context, deliveries, matches io.Reader) (types.Report, error)
}

// SampleHandler analyzes a generated season.
type SampleHandler struct {
	deps   SampleDependencies
	logger logger.Logger
}

// NewSampleHandler creates a new sample handler.
func NewSampleHandler(deps SampleDependencies, l logger.Logger) *SampleHandler {
	if l == nil {
		l = logger.Discard()
	}
	return &SampleHandler{deps: deps, logger: l}
}

// HandleSample handles GET /sample?seed=N&matches=M requests.
func (h *SampleHandler) HandleSample(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	cfg, err := sampleConfig(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	ds, err := sample.Generate(r.Context(), cfg)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err)
		return
	}
	report, err := h.deps.Analyze(r.Context(), ds.DeliveriesReader(), ds.MatchesReader())
	if report.RunID != "" {
		w.Header().Set(headerRunID, report.RunID)
	}
	if err != nil {
		h.logger.Error(r.Context(), "sample analysis failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", nil)
		return
	}
	writeReport(w, r, http.StatusOK, report)
}

func sampleConfig(r *http.Request) (sample.Config, error) {
	cfg := sample.DefaultConfig()
	q := r.URL.Query()
	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("%w: seed must be a non-negative integer", ErrBadRequest)
		}
		cfg.Seed = seed
	}
	if v := q.Get("matches"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return cfg, fmt.Errorf("%w: matches must be a positive integer", ErrBadRequest)
		}
		if n > maxSampleMatches {
			return cfg, fmt.Errorf("%w: matches must be at most %d", ErrBadRequest, maxSampleMatches)
		}
		cfg.Matches = n
	}
	if v := q.Get("batter_column"); v != "" {
		if v != "batter" && v != "batsman" {
			return cfg, fmt.Errorf("%w: batter_column must be batter or batsman", ErrBadRequest)
		}
		cfg.BatterColumn = v
	}
	return cfg, nil
}
