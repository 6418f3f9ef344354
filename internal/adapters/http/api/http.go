// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/okian/bestxi/internal/domain/types"
	"github.com/okian/bestxi/pkg/logger"
)

// Dependencies required by HTTP handlers.
type Dependencies interface {
	// Analyze runs one analysis over the uploaded datasets. A nil reader
	// means the dataset was not supplied.
	Analyze(ctx context.Context, deliveries, matches io.Reader) (types.Report, error)

	// Limits returns the shortlist sizes used for table titles.
	Limits() (batsmen, bowlers, allRounders int)
}

// Report mirrors the response shape of a successful analysis.
type Report = types.Report

// Defaults for Server options.
const (
	defaultMaxUploadBytes = 64 << 20
	defaultRateLimitRPS   = 5
	defaultRateLimitBurst = 10
)

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	analyzeHandler   *AnalyzeHandler
	sampleHandler    *SampleHandler
	dashboardHandler *dashboardHandler

	limiter *RateLimiter
	logger  logger.Logger

	maxUploadBytes int64
	rps            float64
	burst          int
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithMaxUploadBytes caps the size of an /analyze request body.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUploadBytes = n
		}
	}
}

// WithRateLimit sets the /analyze token bucket. A non-positive rps disables it.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		s.rps = rps
		if burst > 0 {
			s.burst = burst
		}
	}
}

// WithLogger sets the logger used for rejected requests.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		logger:         logger.Discard(),
		maxUploadBytes: defaultMaxUploadBytes,
		rps:            defaultRateLimitRPS,
		burst:          defaultRateLimitBurst,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.analyzeHandler = NewAnalyzeHandler(deps, s.maxUploadBytes, s.logger)
	s.sampleHandler = NewSampleHandler(deps, s.logger)
	s.dashboardHandler = newDashboardHandler(deps)
	s.limiter = NewRateLimiter(s.rps, s.burst)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/analyze", MetricsMiddleware(s.limiter.Middleware(s.analyzeHandler.HandleAnalyze, "analyze"), "analyze"))
	mux.HandleFunc("/sample", MetricsMiddleware(s.limiter.Middleware(s.sampleHandler.HandleSample, "sample"), "sample"))

	s.logger.Debug(ctx, "api routes registered",
		logger.Int("max_upload_bytes", int(s.maxUploadBytes)),
		logger.Float64("rate_limit_rps", s.rps),
		logger.Int("rate_limit_burst", s.burst),
	)
}

type errorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	RunID   string   `json:"run_id,omitempty"`
	Missing []string `json:"missing,omitempty"`
}

type awaitingResponse struct {
	Status  string   `json:"status"`
	RunID   string   `json:"run_id,omitempty"`
	Missing []string `json:"missing"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
