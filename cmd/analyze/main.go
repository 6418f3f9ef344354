package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/okian/bestxi/internal/cli"
	"github.com/okian/bestxi/internal/config"
	"github.com/okian/bestxi/internal/sample"
	"github.com/okian/bestxi/pkg/logger"
)

// Default configuration constants.
const (
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// BESTXI_* env and BESTXI_CONFIG seed the flag defaults.
	base, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return 1
	}
	defaults := sample.DefaultConfig()

	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	var (
		deliveries     = fs.String("deliveries", "", "Path to the deliveries CSV")
		matches        = fs.String("matches", "", "Path to the matches CSV")
		format         = fs.String("format", "text", "Output format: text, csv, json or yaml")
		useSample      = fs.Bool("sample", false, "Analyze a generated season instead of files")
		seed           = fs.Uint64("seed", defaults.Seed, "Seed for -sample")
		sampleMatches  = fs.Int("sample-matches", defaults.Matches, "Matches in the generated season")
		saveSample     = fs.String("save-sample", "", "Directory to write the generated CSVs to")
		baseURL        = fs.String("url", "", "Upload to a running server instead of analyzing locally")
		timeout        = fs.Duration("timeout", defaultTimeout, "HTTP request timeout")
		topBatsmen     = fs.Int("top-batsmen", base.TopBatsmen, "Number of batsmen to shortlist")
		topBowlers     = fs.Int("top-bowlers", base.TopBowlers, "Number of bowlers to shortlist")
		topAllRounders = fs.Int("top-all-rounders", base.TopAllRounders, "Number of all-rounders to shortlist")
		dismissalRule  = fs.String("dismissal-rule", base.DismissalRule, "player_dismissed or is_wicket")
		strictSchema   = fs.Bool("strict-schema", base.StrictSchema, "Also require the is_super_over column")
		logFile        = fs.String("log", "", "Also write logs to this file")
		verbose        = fs.Bool("verbose", false, "Enable debug logging")
		help           = fs.Bool("help", false, "Show help")
	)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *help {
		cli.ShowHelp(os.Stdout)
		return 0
	}

	base.TopBatsmen = *topBatsmen
	base.TopBowlers = *topBowlers
	base.TopAllRounders = *topAllRounders
	base.DismissalRule = *dismissalRule
	base.StrictSchema = *strictSchema
	if err := base.Validate(); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		return 2
	}

	closeLog, err := cli.SetupLogging(*logFile, *verbose)
	if err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return 1
	}
	defer closeLog()

	if *baseURL != "" {
		if ignored := rankingFlags(fs); len(ignored) > 0 {
			logger.Get().Warn(ctx, "ranking flags are ignored with -url; the server's settings apply",
				logger.String("flags", strings.Join(ignored, " ")))
		}
	}

	ctx, cancel := context.WithTimeout(ctx, defaultRunTimeout)
	defer cancel()

	cfg := &cli.Config{
		DeliveriesPath: *deliveries,
		MatchesPath:    *matches,
		Format:         *format,
		Sample:         *useSample,
		Seed:           *seed,
		SampleMatches:  *sampleMatches,
		SaveSampleDir:  *saveSample,
		BaseURL:        *baseURL,
		Timeout:        *timeout,
		TopBatsmen:     base.TopBatsmen,
		TopBowlers:     base.TopBowlers,
		TopAllRounders: base.TopAllRounders,
		DismissalRule:  base.DismissalRule,
		StrictSchema:   base.StrictSchema,
		LogFile:        *logFile,
		Verbose:        *verbose,
	}

	if err := cli.Run(ctx, cfg, os.Stdout); err != nil {
		os.Stderr.WriteString("Analysis failed: " + err.Error() + "\n")
		return 1
	}
	return 0
}

// rankingFlags lists the explicitly set flags that only apply to a local run.
func rankingFlags(fs *flag.FlagSet) []string {
	var set []string
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "top-batsmen", "top-bowlers", "top-all-rounders", "dismissal-rule", "strict-schema":
			set = append(set, "-"+f.Name)
		}
	})
	return set
}
