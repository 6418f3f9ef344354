// Package cli implements the analyze command: it reads or generates the two
// datasets, analyzes them locally or on a server, and renders the shortlists.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/bestxi/internal/adapters/loader"
	app "github.com/okian/bestxi/internal/app"
	"github.com/okian/bestxi/internal/domain/types"
	"github.com/okian/bestxi/internal/render"
	"github.com/okian/bestxi/internal/sample"
	"github.com/okian/bestxi/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0640
)

// Run executes one analysis and writes the rendered report to out.
// Missing inputs print AwaitingMessage and return nil.
func Run(ctx context.Context, config *Config, out io.Writer) error {
	start := time.Now()
	if err := config.Validate(); err != nil {
		return err
	}

	renderer, err := render.New(render.Format(config.Format),
		render.WithLimits(config.TopBatsmen, config.TopBowlers, config.TopAllRounders))
	if err != nil {
		return err
	}

	logger.Get().Debug(ctx, "starting analysis",
		logger.String("deliveries", config.DeliveriesPath),
		logger.String("matches", config.MatchesPath),
		logger.Bool("sample", config.Sample),
		logger.String("url", config.BaseURL),
		logger.String("format", string(renderer.Format())))

	deliveries, matches, closeInputs, err := openInputs(ctx, config)
	if err != nil {
		return err
	}
	defer closeInputs()

	report, awaiting, err := analyze(ctx, config, deliveries, matches)
	if err != nil {
		return err
	}
	if awaiting {
		_, err := fmt.Fprintln(out, AwaitingMessage)
		return err
	}

	if err := renderer.Render(out, report); err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	logger.Get().Info(ctx, "analysis completed",
		logger.String("run_id", report.RunID),
		logger.Int("deliveries_rows", report.Summary.DeliveriesRows),
		logger.Int("matches", report.Summary.Matches),
		logger.Duration("duration", time.Since(start)))
	return nil
}

// openInputs resolves the two readers. An unset path yields a nil reader.
func openInputs(ctx context.Context, config *Config) (io.Reader, io.Reader, func(), error) {
	noop := func() {}
	if config.SaveSampleDir != "" && !config.Sample {
		return nil, nil, noop, ErrNoSample
	}

	if config.Sample {
		if config.DeliveriesPath != "" || config.MatchesPath != "" {
			return nil, nil, noop, ErrBothInputs
		}
		cfg := sample.DefaultConfig()
		cfg.Seed = config.Seed
		if config.SampleMatches > 0 {
			cfg.Matches = config.SampleMatches
		}
		ds, err := sample.Generate(ctx, cfg)
		if err != nil {
			return nil, nil, noop, fmt.Errorf("generate sample: %w", err)
		}
		if config.SaveSampleDir != "" {
			if err := saveSample(ctx, config.SaveSampleDir, ds); err != nil {
				logger.Get().Warn(ctx, "failed to save sample", logger.Error(err))
			}
		}
		return ds.DeliveriesReader(), ds.MatchesReader(), noop, nil
	}

	var files []*os.File
	closeAll := func() {
		for _, f := range files {
			_ = f.Close()
		}
	}
	open := func(path string) (io.Reader, error) {
		if path == "" {
			return nil, nil
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		files = append(files, f)
		return f, nil
	}

	deliveries, err := open(config.DeliveriesPath)
	if err != nil {
		closeAll()
		return nil, nil, noop, err
	}
	matches, err := open(config.MatchesPath)
	if err != nil {
		closeAll()
		return nil, nil, noop, err
	}
	return deliveries, matches, closeAll, nil
}

func analyze(ctx context.Context, config *Config, deliveries, matches io.Reader) (types.Report, bool, error) {
	if config.BaseURL != "" {
		client := NewHTTPClient(config.BaseURL, config.Timeout)
		if err := client.CheckHealth(ctx); err != nil {
			return types.Report{}, false, fmt.Errorf("service health check failed: %w", err)
		}
		return client.Analyze(ctx, deliveries, matches)
	}

	svc := app.New(
		app.WithLogger(logger.Named("service")),
		app.WithLimits(config.TopBatsmen, config.TopBowlers, config.TopAllRounders),
		app.WithDismissalRule(config.DismissalRule),
		app.WithStrictSchema(config.StrictSchema),
	)
	report, err := svc.Analyze(ctx, deliveries, matches)
	if errors.Is(err, loader.ErrAwaitingInput) {
		return report, true, nil
	}
	if err != nil {
		return report, false, err
	}
	return report, false, nil
}

// saveSample writes the generated datasets as deliveries.csv and matches.csv.
func saveSample(ctx context.Context, dir string, ds sample.Dataset) error {
	if err := os.MkdirAll(dir, directoryPermission); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	for name, records := range map[string][][]string{
		"deliveries.csv": ds.Deliveries,
		"matches.csv":    ds.Matches,
	} {
		path := filepath.Join(dir, name)
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePermission)
		if err != nil {
			return fmt.Errorf("failed to create file: %w", err)
		}
		werr := sample.Write(f, records)
		if cerr := f.Close(); werr == nil {
			werr = cerr
		}
		if werr != nil {
			return fmt.Errorf("write %s: %w", path, werr)
		}
		logger.Get().Info(ctx, "sample saved to file", logger.String("filename", path))
	}
	return nil
}
