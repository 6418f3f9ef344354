// Package analysis computes batting and bowling aggregates from a deliveries
// table and selects the ranked shortlists.
package analysis

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/okian/bestxi/internal/domain/model"
	"github.com/okian/bestxi/internal/domain/table"
)

// Default shortlist sizes.
const (
	defaultTopBatsmen     = 4
	defaultTopBowlers     = 4
	defaultTopAllRounders = 3

	ballsPerHundred = 100
	ballsPerOver    = 6
)

// Option applies a configuration option to the DeliveryAnalyzer.
type Option func(*DeliveryAnalyzer)

// WithDismissalRule selects how dismissal events are detected.
// Unknown rules are ignored.
func WithDismissalRule(rule DismissalRule) Option {
	return func(a *DeliveryAnalyzer) {
		switch rule {
		case RulePlayerDismissed, RuleIsWicket:
			a.rule = rule
		}
	}
}

// WithLimits sets the shortlist sizes. Non-positive values keep the default.
func WithLimits(batsmen, bowlers, allRounders int) Option {
	return func(a *DeliveryAnalyzer) {
		if batsmen > 0 {
			a.topBatsmen = batsmen
		}
		if bowlers > 0 {
			a.topBowlers = bowlers
		}
		if allRounders > 0 {
			a.topAllRounders = allRounders
		}
	}
}

// WithStrictSchema also requires the is_super_over column.
func WithStrictSchema(strict bool) Option {
	return func(a *DeliveryAnalyzer) {
		a.strict = strict
	}
}

// Summary describes the population an analysis ran over.
type Summary struct {
	Deliveries   int
	Batters      int
	Bowlers      int
	AllRounders  int
	BatterColumn string
}

// Result holds the ranked shortlists of one analysis.
type Result struct {
	Batsmen     []model.BattingStat
	Bowlers     []model.BowlingStat
	AllRounders []model.AllRounder
	Summary     Summary
}

// Analyzer turns a deliveries table into ranked shortlists.
type Analyzer interface {
	// Analyze validates the schema and ranks players. It returns a
	// *SchemaError and an empty Result when required columns are absent.
	Analyze(ctx context.Context, deliveries *table.Table) (Result, error)
}

// DeliveryAnalyzer implements Analyzer over delivery-level rows. It holds
// only configuration and is safe for concurrent use.
type DeliveryAnalyzer struct {
	rule           DismissalRule
	strict         bool
	topBatsmen     int
	topBowlers     int
	topAllRounders int
}

// New creates an analyzer with the given options.
func New(opts ...Option) *DeliveryAnalyzer {
	a := &DeliveryAnalyzer{
		rule:           RulePlayerDismissed,
		topBatsmen:     defaultTopBatsmen,
		topBowlers:     defaultTopBowlers,
		topAllRounders: defaultTopAllRounders,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Rule returns the active dismissal rule.
func (a *DeliveryAnalyzer) Rule() DismissalRule { return a.rule }

// Analyze implements Analyzer.
func (a *DeliveryAnalyzer) Analyze(ctx context.Context, deliveries *table.Table) (Result, error) {
	if deliveries == nil {
		return Result{}, &SchemaError{Missing: RequiredColumns(a.rule, a.strict)}
	}
	cols, err := resolveColumns(deliveries, a.rule, a.strict)
	if err != nil {
		return Result{}, err
	}

	rows, err := a.decode(ctx, deliveries, cols)
	if err != nil {
		return Result{}, err
	}

	batting := Batting(rows)
	bowling := Bowling(rows)
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("analysis cancelled: %w", err)
	}
	allRounders := Join(batting, bowling)

	return Result{
		Batsmen:     TopBatsmen(batting, a.topBatsmen),
		Bowlers:     TopBowlers(bowling, a.topBowlers),
		AllRounders: TopAllRounders(allRounders, a.topAllRounders),
		Summary: Summary{
			Deliveries:   len(rows),
			Batters:      len(batting),
			Bowlers:      len(bowling),
			AllRounders:  len(allRounders),
			BatterColumn: cols.batterName,
		},
	}, nil
}

// decode converts raw rows into deliveries.
func (a *DeliveryAnalyzer) decode(ctx context.Context, t *table.Table, c columns) ([]model.Delivery, error) {
	const ctxCheckEvery = 4096

	out := make([]model.Delivery, t.Len())
	for i := range out {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("analysis cancelled: %w", err)
			}
		}
		d := &out[i]
		if v, ok := t.Cell(i, c.batter); ok {
			d.Batter = v
		}
		if v, ok := t.Cell(i, c.bowler); ok {
			d.Bowler = v
		}
		_, d.HasBall = t.Cell(i, c.ball)

		var err error
		if d.BatsmanRuns, err = intCell(t, i, c.batsmanRuns, ColBatsmanRuns); err != nil {
			return nil, err
		}
		if d.TotalRuns, err = intCell(t, i, c.totalRuns, ColTotalRuns); err != nil {
			return nil, err
		}
		switch a.rule {
		case RuleIsWicket:
			flag, err := intCell(t, i, c.dismissal, ColIsWicket)
			if err != nil {
				return nil, err
			}
			d.Dismissal = flag != 0
		default:
			_, d.Dismissal = t.Cell(i, c.dismissal)
		}
	}
	return out, nil
}

// intCell parses an integer cell. Null reads as 0; integral floats such as
// "4.0" are accepted. Counts are non-negative and at most math.MaxInt32.
func intCell(t *table.Table, row, col int, name string) (int, error) {
	v, ok := t.Cell(row, col)
	if !ok {
		return 0, nil
	}
	invalid := func() error {
		// +2: one for the header line, one for 1-based numbering.
		return fmt.Errorf("%w: line %d column %q value %q", ErrInvalidValue, row+2, name, v)
	}
	if n, err := strconv.Atoi(v); err == nil {
		if n < 0 || n > math.MaxInt32 {
			return 0, invalid()
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || f != math.Trunc(f) || f < 0 || f > math.MaxInt32 {
		return 0, invalid()
	}
	return int(f), nil
}

// safeDiv divides by d, substituting 1 for a zero denominator.
func safeDiv(n, d int) float64 {
	if d == 0 {
		d = 1
	}
	return float64(n) / float64(d)
}

// Batting groups deliveries by batter. The result is ordered by player name.
func Batting(rows []model.Delivery) []model.BattingStat {
	idx := make(map[string]int)
	var stats []model.BattingStat
	for _, d := range rows {
		if d.Batter == "" {
			continue
		}
		i, ok := idx[d.Batter]
		if !ok {
			i = len(stats)
			idx[d.Batter] = i
			stats = append(stats, model.BattingStat{Player: d.Batter})
		}
		s := &stats[i]
		s.TotalRuns += d.BatsmanRuns
		if d.HasBall {
			s.BallsFaced++
		}
		if d.Dismissal {
			s.Dismissals++
		}
	}
	for i := range stats {
		s := &stats[i]
		s.StrikeRate = safeDiv(s.TotalRuns, s.BallsFaced) * ballsPerHundred
		s.BattingAvg = safeDiv(s.TotalRuns, s.Dismissals)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Player < stats[j].Player })
	return stats
}

// Bowling groups deliveries by bowler. The result is ordered by player name.
func Bowling(rows []model.Delivery) []model.BowlingStat {
	idx := make(map[string]int)
	var stats []model.BowlingStat
	for _, d := range rows {
		if d.Bowler == "" {
			continue
		}
		i, ok := idx[d.Bowler]
		if !ok {
			i = len(stats)
			idx[d.Bowler] = i
			stats = append(stats, model.BowlingStat{Player: d.Bowler})
		}
		s := &stats[i]
		s.RunsConceded += d.TotalRuns
		if d.HasBall {
			s.BallsBowled++
		}
		if d.Dismissal {
			s.Wickets++
		}
	}
	for i := range stats {
		s := &stats[i]
		s.EconomyRate = safeDiv(s.RunsConceded, s.BallsBowled) * ballsPerOver
		s.BowlingAvg = safeDiv(s.RunsConceded, s.Wickets)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Player < stats[j].Player })
	return stats
}

// Join pairs batting and bowling aggregates of players present in both,
// keeping the batting order.
func Join(batting []model.BattingStat, bowling []model.BowlingStat) []model.AllRounder {
	byPlayer := make(map[string]model.BowlingStat, len(bowling))
	for _, b := range bowling {
		byPlayer[b.Player] = b
	}
	var out []model.AllRounder
	for _, bat := range batting {
		bowl, ok := byPlayer[bat.Player]
		if !ok {
			continue
		}
		out = append(out, model.AllRounder{Player: bat.Player, Batting: bat, Bowling: bowl})
	}
	return out
}

// TopBatsmen ranks by total runs desc then strike rate desc, keeping input
// order on ties, and returns at most n entries.
func TopBatsmen(stats []model.BattingStat, n int) []model.BattingStat {
	ranked := append([]model.BattingStat(nil), stats...)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.TotalRuns != b.TotalRuns {
			return a.TotalRuns > b.TotalRuns
		}
		return a.StrikeRate > b.StrikeRate
	})
	return head(ranked, n)
}

// TopBowlers ranks by wickets desc then economy rate asc.
func TopBowlers(stats []model.BowlingStat, n int) []model.BowlingStat {
	ranked := append([]model.BowlingStat(nil), stats...)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Wickets != b.Wickets {
			return a.Wickets > b.Wickets
		}
		return a.EconomyRate < b.EconomyRate
	})
	return head(ranked, n)
}

// TopAllRounders ranks by wickets desc then total runs desc.
func TopAllRounders(players []model.AllRounder, n int) []model.AllRounder {
	ranked := append([]model.AllRounder(nil), players...)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Bowling.Wickets != b.Bowling.Wickets {
			return a.Bowling.Wickets > b.Bowling.Wickets
		}
		return a.Batting.TotalRuns > b.Batting.TotalRuns
	})
	return head(ranked, n)
}

func head[T any](s []T, n int) []T {
	if n < len(s) {
		s = s[:n]
	}
	if s == nil {
		return []T{}
	}
	return s
}
