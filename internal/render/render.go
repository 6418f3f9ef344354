// Package render writes analysis reports as text tables, CSV, JSON or YAML.
package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/okian/bestxi/internal/domain/types"
	"gopkg.in/yaml.v3"
)

// Format names an output encoding.
type Format string

// Supported formats.
const (
	FormatText Format = "text"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Default caps for table titles.
const (
	defaultBatsmen     = 4
	defaultBowlers     = 4
	defaultAllRounders = 3
)

// Section names used as the first CSV column.
const (
	sectionBatsmen     = "batsmen"
	sectionBowlers     = "bowlers"
	sectionAllRounders = "all_rounders"
)

var (
	batsmanColumns    = []string{"player", "total_runs", "strike_rate", "batting_avg"}
	bowlerColumns     = []string{"player", "wickets", "economy_rate", "bowling_avg"}
	allRounderColumns = []string{"player", "total_runs", "strike_rate", "wickets", "economy_rate"}
)

// ParseFormat maps a flag value onto a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatCSV, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Renderer writes reports in a single format.
type Renderer struct {
	format      Format
	batsmen     int
	bowlers     int
	allRounders int
	summary     bool
}

// New creates a renderer for format.
func New(format Format, opts ...Option) (*Renderer, error) {
	f, err := ParseFormat(string(format))
	if err != nil {
		return nil, err
	}
	r := &Renderer{
		format:      f,
		batsmen:     defaultBatsmen,
		bowlers:     defaultBowlers,
		allRounders: defaultAllRounders,
		summary:     true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Format returns the renderer's encoding.
func (r *Renderer) Format() Format { return r.format }

// Render writes report to w.
func (r *Renderer) Render(w io.Writer, report types.Report) error {
	switch r.format {
	case FormatCSV:
		return r.csv(w, report)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case FormatYAML:
		b, err := yaml.Marshal(report)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		_, err = w.Write(b)
		return err
	default:
		return r.text(w, report)
	}
}

// limits returns the shortlist sizes for the titles. Sizes the report
// carries win over the renderer's own, since a remote server ranked it.
func (r *Renderer) limits(s types.Summary) (batsmen, bowlers, allRounders int) {
	pick := func(reported, local int) int {
		if reported > 0 {
			return reported
		}
		return local
	}
	return pick(s.TopBatsmen, r.batsmen), pick(s.TopBowlers, r.bowlers), pick(s.TopAllRounders, r.allRounders)
}

func (r *Renderer) text(w io.Writer, report types.Report) error {
	bt, wt, at := types.Titles(r.limits(report.Summary))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if r.summary {
		s := report.Summary
		fmt.Fprintf(tw, "Files uploaded successfully: %d deliveries, %d matches rows (%d distinct matches)\n\n",
			s.DeliveriesRows, s.MatchesRows, s.Matches)
	}

	fmt.Fprintln(tw, bt)
	fmt.Fprintln(tw, strings.Join(batsmanColumns, "\t"))
	for _, b := range report.Batsmen {
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%.2f\n", b.Player, b.TotalRuns, b.StrikeRate, b.BattingAvg)
	}

	fmt.Fprintln(tw)
	fmt.Fprintln(tw, wt)
	fmt.Fprintln(tw, strings.Join(bowlerColumns, "\t"))
	for _, b := range report.Bowlers {
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%.2f\n", b.Player, b.Wickets, b.EconomyRate, b.BowlingAvg)
	}

	fmt.Fprintln(tw)
	fmt.Fprintln(tw, at)
	fmt.Fprintln(tw, strings.Join(allRounderColumns, "\t"))
	for _, a := range report.AllRounders {
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%d\t%.2f\n", a.Player, a.TotalRuns, a.StrikeRate, a.Wickets, a.EconomyRate)
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	return nil
}

// csv writes each table as a header row and its records, all prefixed with
// the table name.
func (r *Renderer) csv(w io.Writer, report types.Report) error {
	cw := csv.NewWriter(w)

	write := func(record ...string) {
		_ = cw.Write(record)
	}

	write(append([]string{"table"}, batsmanColumns...)...)
	for _, b := range report.Batsmen {
		write(sectionBatsmen, b.Player, strconv.Itoa(b.TotalRuns), ftoa(b.StrikeRate), ftoa(b.BattingAvg))
	}
	write(append([]string{"table"}, bowlerColumns...)...)
	for _, b := range report.Bowlers {
		write(sectionBowlers, b.Player, strconv.Itoa(b.Wickets), ftoa(b.EconomyRate), ftoa(b.BowlingAvg))
	}
	write(append([]string{"table"}, allRounderColumns...)...)
	for _, a := range report.AllRounders {
		write(sectionAllRounders, a.Player, strconv.Itoa(a.TotalRuns), ftoa(a.StrikeRate), strconv.Itoa(a.Wickets), ftoa(a.EconomyRate))
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
