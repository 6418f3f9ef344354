// Package service wires the loader and the analyzer into the single entry
// point used by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okian/bestxi/internal/adapters/loader"
	"github.com/okian/bestxi/internal/domain/analysis"
	"github.com/okian/bestxi/internal/domain/types"
	"github.com/okian/bestxi/pkg/logger"
	"github.com/okian/bestxi/pkg/metrics"
)

// Failure kinds reported to metrics and stats.
const (
	KindAwaiting     = "awaiting_input"
	KindEmpty        = "empty_input"
	KindMalformed    = "malformed_csv"
	KindSchema       = "schema"
	KindInvalidValue = "invalid_value"
	KindCancelled    = "cancelled"
	KindUnknown      = "unknown"
)

// Service runs analyses and keeps running totals for monitoring.
type Service struct {
	mu sync.RWMutex

	// Core components
	loader   loader.Loader
	analyzer analysis.Analyzer

	// Configuration
	topBatsmen     int
	topBowlers     int
	topAllRounders int
	rule           analysis.DismissalRule
	strict         bool
	newRunID       func() string

	// State
	analyses     int64
	failures     map[string]int64
	lastRunID    string
	lastDuration time.Duration

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithLoader replaces the CSV loader.
func WithLoader(l loader.Loader) Option {
	return func(s *Service) {
		if l != nil {
			s.loader = l
		}
	}
}

// WithLimits sets the shortlist sizes. Non-positive values keep the default.
func WithLimits(batsmen, bowlers, allRounders int) Option {
	return func(s *Service) {
		if batsmen > 0 {
			s.topBatsmen = batsmen
		}
		if bowlers > 0 {
			s.topBowlers = bowlers
		}
		if allRounders > 0 {
			s.topAllRounders = allRounders
		}
	}
}

// WithDismissalRule selects the dismissal indicator column.
func WithDismissalRule(rule string) Option {
	return func(s *Service) {
		switch r := analysis.DismissalRule(rule); r {
		case analysis.RulePlayerDismissed, analysis.RuleIsWicket:
			s.rule = r
		}
	}
}

// WithStrictSchema also requires the is_super_over column.
func WithStrictSchema(strict bool) Option {
	return func(s *Service) {
		s.strict = strict
	}
}

// WithRunIDFunc overrides run id generation.
func WithRunIDFunc(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newRunID = fn
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		topBatsmen:     4,
		topBowlers:     4,
		topAllRounders: 3,
		rule:           analysis.RulePlayerDismissed,
		newRunID:       uuid.NewString,
		failures:       make(map[string]int64),
		logger:         logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.loader == nil {
		s.loader = loader.New(loader.WithLogger(s.logger.Named("loader")))
	}
	s.analyzer = analysis.New(
		analysis.WithDismissalRule(s.rule),
		analysis.WithLimits(s.topBatsmen, s.topBowlers, s.topAllRounders),
		analysis.WithStrictSchema(s.strict),
	)
	return s
}

// Limits returns the configured shortlist sizes.
func (s *Service) Limits() (batsmen, bowlers, allRounders int) {
	return s.topBatsmen, s.topBowlers, s.topAllRounders
}

// Analyze loads both datasets and ranks players. A nil reader yields a report
// with StatusAwaitingInput and loader.ErrAwaitingInput. On every other error
// the report still carries the run id.
func (s *Service) Analyze(ctx context.Context, deliveries, matches io.Reader) (types.Report, error) {
	runID := s.newRunID()
	ctx = logger.ContextWithRunID(ctx, runID)
	report := types.Report{RunID: runID}
	start := time.Now()

	tables, err := s.loader.Load(ctx, deliveries, matches)
	if errors.Is(err, loader.ErrAwaitingInput) {
		metrics.RecordAwaitingInput()
		s.logger.Info(ctx, "awaiting input")
		report.Status = types.StatusAwaitingInput
		return report, err
	}
	if err != nil {
		return report, s.fail(ctx, fmt.Errorf("load datasets: %w", err))
	}
	metrics.RecordLoadLatency(msSince(start))

	res, err := s.analyzer.Analyze(ctx, tables.Deliveries)
	if err != nil {
		return report, s.fail(ctx, fmt.Errorf("analyze deliveries: %w", err))
	}
	matchRows := loader.ParseMatches(tables.Matches)

	report.Status = types.StatusOK
	report.Summary = types.Summary{
		DeliveriesRows: tables.Deliveries.Len(),
		MatchesRows:    tables.Matches.Len(),
		Matches:        loader.DistinctMatches(matchRows),
		Batters:        res.Summary.Batters,
		Bowlers:        res.Summary.Bowlers,
		AllRounders:    res.Summary.AllRounders,
		BatterColumn:   res.Summary.BatterColumn,
		DismissalRule:  string(s.rule),
		TopBatsmen:     s.topBatsmen,
		TopBowlers:     s.topBowlers,
		TopAllRounders: s.topAllRounders,
	}
	report.Batsmen = types.Batsmen(res.Batsmen)
	report.Bowlers = types.Bowlers(res.Bowlers)
	report.AllRounders = types.AllRounders(res.AllRounders)

	elapsed := time.Since(start)
	metrics.RecordAnalysis(float64(elapsed.Microseconds())/1000,
		report.Summary.DeliveriesRows, report.Summary.MatchesRows,
		report.Summary.Batters, report.Summary.Bowlers, report.Summary.AllRounders)

	s.mu.Lock()
	s.analyses++
	s.lastRunID = runID
	s.lastDuration = elapsed
	s.mu.Unlock()

	s.logger.Info(ctx, "analysis completed",
		logger.Int("deliveries", report.Summary.DeliveriesRows),
		logger.Int("matches", report.Summary.Matches),
		logger.Int("batters", report.Summary.Batters),
		logger.Int("bowlers", report.Summary.Bowlers),
		logger.Duration("duration", elapsed),
	)
	return report, nil
}

func (s *Service) fail(ctx context.Context, err error) error {
	kind := FailureKind(err)
	metrics.RecordAnalysisFailure(kind)
	metrics.RecordErrorByComponent("service", kind)

	s.mu.Lock()
	s.failures[kind]++
	s.mu.Unlock()

	s.logger.Warn(ctx, "analysis failed",
		logger.String("kind", kind),
		logger.Error(err),
	)
	return err
}

// FailureKind classifies an Analyze error.
func FailureKind(err error) string {
	var se *analysis.SchemaError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, loader.ErrAwaitingInput):
		return KindAwaiting
	case errors.As(err, &se):
		return KindSchema
	case errors.Is(err, analysis.ErrInvalidValue):
		return KindInvalidValue
	case errors.Is(err, loader.ErrEmptyInput):
		return KindEmpty
	case errors.Is(err, loader.ErrMalformedCSV):
		return KindMalformed
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCancelled
	default:
		return KindUnknown
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	failures := make(map[string]int64, len(s.failures))
	var failed int64
	for k, v := range s.failures {
		failures[k] = v
		failed += v
	}
	return map[string]interface{}{
		"analyses":       s.analyses,
		"failures":       failed,
		"failuresByKind": failures,
		"lastRunId":      s.lastRunID,
		"lastDurationMs": float64(s.lastDuration.Microseconds()) / 1000,
		"dismissalRule":  string(s.rule),
		"strictSchema":   s.strict,
		"limits": map[string]int{
			"batsmen":     s.topBatsmen,
			"bowlers":     s.topBowlers,
			"allRounders": s.topAllRounders,
		},
	}
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000
}
