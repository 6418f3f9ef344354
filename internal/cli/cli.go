package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/okian/bestxi/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// AwaitingMessage is printed when one or both datasets were not supplied.
const AwaitingMessage = "Awaiting input: supply both a deliveries CSV and a matches CSV."

// SetupLogging routes logs to stderr, and to logFile too when it is set.
// Output stays on stdout untouched. The returned func closes the log file.
func SetupLogging(logFile string, verbose bool) (func(), error) {
	var (
		w       io.Writer = os.Stderr
		closeFn           = func() {}
	)
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return closeFn, fmt.Errorf("failed to create log file: %w", err)
		}
		w = io.MultiWriter(os.Stderr, file)
		closeFn = func() { _ = file.Close() }
	}

	if err := logger.Init(logger.WithWriter(w)); err != nil {
		closeFn()
		return func() {}, fmt.Errorf("failed to initialize logger: %w", err)
	}
	level := "warn"
	if verbose {
		level = "debug"
	}
	_ = logger.SetLevelString(level)
	if logFile != "" {
		logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	}
	return closeFn, nil
}

// ShowHelp prints usage information for the analyze tool.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `Best XI Analyzer
================

Ranks the top batsmen, bowlers and all-rounders from a deliveries CSV and a
matches CSV.

Usage:
  go run ./cmd/analyze [options]

Options:
  -deliveries string
        Path to the ball-by-ball deliveries CSV
  -matches string
        Path to the match metadata CSV
  -format string
        Output format: text, csv, json or yaml (default "text")
  -sample
        Analyze a generated season instead of files
  -seed uint
        Seed for -sample (default 2017)
  -sample-matches int
        Matches in the generated season (default 8)
  -save-sample string
        Directory to write the generated deliveries.csv and matches.csv to
  -url string
        Upload to a running server instead of analyzing locally
  -timeout duration
        HTTP request timeout for -url (default 30s)
  -top-batsmen, -top-bowlers, -top-all-rounders int
        Shortlist sizes (default 4, 4, 3)
  -dismissal-rule string
        player_dismissed or is_wicket (default "player_dismissed")
  -strict-schema
        Also require the is_super_over column
  -log string
        Also write logs to this file
  -verbose
        Enable debug logging
  -help
        Show this help message

Defaults come from BESTXI_* environment variables and the BESTXI_CONFIG file.

Examples:
  # Analyze local files
  go run ./cmd/analyze -deliveries deliveries.csv -matches matches.csv

  # Generated season as YAML, keeping the CSVs
  go run ./cmd/analyze -sample -seed 7 -format yaml -save-sample ./data

  # Let a running server do the work
  go run ./cmd/analyze -deliveries deliveries.csv -matches matches.csv -url http://localhost:9080
`)
}
