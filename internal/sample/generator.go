// Package sample generates synthetic ball-by-ball datasets for demos and tests.
package sample

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/okian/bestxi/pkg/logger"
)

// Generation defaults.
const (
	DefaultMatches        = 8
	DefaultPlayersPerTeam = 11
	DefaultOvers          = 20
	DefaultSeed           = 2017

	ballsPerOver   = 6
	bowlersPerSide = 5
	firstSeason    = 2017
)

// Outcome weights out of 100 for one legal delivery.
const (
	weightDot    = 34
	weightSingle = 32
	weightDouble = 9
	weightThree  = 1
	weightFour   = 12
	weightSix    = 6
	weightWicket = 4
	weightWide   = 2
)

var teams = []string{ //nolint:gochecknoglobals // fixed roster
	"Mumbai Indians",
	"Chennai Super Kings",
	"Royal Challengers Bangalore",
	"Kolkata Knight Riders",
	"Sunrisers Hyderabad",
	"Delhi Daredevils",
}

var cities = []string{"Mumbai", "Chennai", "Bangalore", "Kolkata", "Hyderabad", "Delhi"} //nolint:gochecknoglobals // fixed roster

var dismissalKinds = []string{"caught", "bowled", "lbw", "run out", "stumped"} //nolint:gochecknoglobals // fixed roster

// Config controls the size and shape of a generated dataset.
type Config struct {
	Matches        int    // Number of matches
	PlayersPerTeam int    // Squad size; everyone bats, number three and the last four bowl
	Overs          int    // Overs per innings
	Seed           uint64 // Equal seeds give byte-identical output
	BatterColumn   string // "batter" or "batsman"
}

// DefaultConfig returns the settings used by the analyze -sample flag.
func DefaultConfig() Config {
	return Config{
		Matches:        DefaultMatches,
		PlayersPerTeam: DefaultPlayersPerTeam,
		Overs:          DefaultOvers,
		Seed:           DefaultSeed,
		BatterColumn:   "batter",
	}
}

// Dataset holds generated records, header first.
type Dataset struct {
	Deliveries [][]string
	Matches    [][]string
}

// DeliveriesCSV encodes the deliveries records.
func (d Dataset) DeliveriesCSV() []byte { return encode(d.Deliveries) }

// MatchesCSV encodes the matches records.
func (d Dataset) MatchesCSV() []byte { return encode(d.Matches) }

// DeliveriesReader returns a reader over the encoded deliveries.
func (d Dataset) DeliveriesReader() io.Reader { return bytes.NewReader(d.DeliveriesCSV()) }

// MatchesReader returns a reader over the encoded matches.
func (d Dataset) MatchesReader() io.Reader { return bytes.NewReader(d.MatchesCSV()) }

func encode(records [][]string) []byte {
	var buf bytes.Buffer
	_ = Write(&buf, records)
	return buf.Bytes()
}

// Write writes records as CSV.
func Write(w io.Writer, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// Generate builds a dataset. Invalid sizes fall back to the defaults.
func Generate(ctx context.Context, cfg Config) (Dataset, error) {
	cfg = normalize(cfg)
	logger.Get().Debug(ctx, "generating sample dataset",
		logger.Int("matches", cfg.Matches),
		logger.Int("overs", cfg.Overs),
		logger.Any("seed", cfg.Seed),
	)

	g := &generator{
		cfg: cfg,
		rng: rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
	}
	ds := Dataset{
		Deliveries: [][]string{g.deliveriesHeader()},
		Matches: [][]string{{
			"id", "season", "city", "date", "team1", "team2",
			"toss_winner", "winner", "player_of_match", "venue",
		}},
	}
	for id := 1; id <= cfg.Matches; id++ {
		if err := ctx.Err(); err != nil {
			return Dataset{}, fmt.Errorf("sample generation cancelled: %w", err)
		}
		rows, match := g.match(id)
		ds.Deliveries = append(ds.Deliveries, rows...)
		ds.Matches = append(ds.Matches, match)
	}

	logger.Get().Debug(ctx, "generated sample dataset",
		logger.Int("deliveries", len(ds.Deliveries)-1),
		logger.Int("matches", len(ds.Matches)-1),
	)
	return ds, nil
}

func normalize(cfg Config) Config {
	def := DefaultConfig()
	if cfg.Matches <= 0 {
		cfg.Matches = def.Matches
	}
	if cfg.PlayersPerTeam < bowlersPerSide+1 {
		cfg.PlayersPerTeam = def.PlayersPerTeam
	}
	if cfg.Overs <= 0 {
		cfg.Overs = def.Overs
	}
	if cfg.BatterColumn != "batsman" {
		cfg.BatterColumn = def.BatterColumn
	}
	return cfg
}

type generator struct {
	cfg Config
	rng *rand.Rand
}

func (g *generator) deliveriesHeader() []string {
	return []string{
		"match_id", "inning", "batting_team", "bowling_team", "over", "ball",
		g.cfg.BatterColumn, "bowler", "non_striker", "is_super_over",
		"wide_runs", "batsman_runs", "extra_runs", "total_runs",
		"is_wicket", "player_dismissed", "dismissal_kind",
	}
}

// player names a squad member, e.g. "Mumbai Indians 07".
func player(team string, n int) string {
	return fmt.Sprintf("%s %02d", team, n+1)
}

// match plays two innings and returns the delivery rows and the match row.
func (g *generator) match(id int) ([][]string, []string) {
	i := g.rng.IntN(len(teams))
	j := (i + 1 + g.rng.IntN(len(teams)-1)) % len(teams)
	home, away := teams[i], teams[j]

	runsByPlayer := make(map[string]int)
	var rows [][]string
	first := g.innings(id, 1, home, away, runsByPlayer, &rows)
	second := g.innings(id, 2, away, home, runsByPlayer, &rows)

	winner := home
	if second > first {
		winner = away
	}
	toss := home
	if g.rng.IntN(2) == 1 {
		toss = away
	}

	date := time.Date(firstSeason, time.April, 5, 0, 0, 0, 0, time.UTC).AddDate(0, 0, id-1)
	return rows, []string{
		strconv.Itoa(id),
		strconv.Itoa(firstSeason),
		cities[i],
		date.Format(time.DateOnly),
		home,
		away,
		toss,
		winner,
		topScorer(runsByPlayer),
		cities[i] + " Stadium",
	}
}

// innings appends one innings to rows and returns its total.
func (g *generator) innings(id, inning int, batting, bowling string, runsByPlayer map[string]int, rows *[][]string) int {
	var (
		striker    = 0
		nonStriker = 1
		nextIn     = 2
		wickets    = 0
		total      = 0
		squad      = g.cfg.PlayersPerTeam
	)

	for over := 1; over <= g.cfg.Overs && wickets < squad-1; over++ {
		bowler := player(bowling, bowlerSlot(squad, over))
		for ball := 1; ball <= ballsPerOver && wickets < squad-1; {
			o := g.outcome()
			batter := player(batting, striker)
			row := []string{
				strconv.Itoa(id), strconv.Itoa(inning), batting, bowling,
				strconv.Itoa(over), strconv.Itoa(ball),
				batter, bowler, player(batting, nonStriker), "0",
				strconv.Itoa(o.wide), strconv.Itoa(o.runs), strconv.Itoa(o.wide),
				strconv.Itoa(o.runs + o.wide),
				"0", "", "",
			}
			if o.wicket {
				row[14] = "1"
				row[15] = batter
				row[16] = dismissalKinds[g.rng.IntN(len(dismissalKinds))]
			}
			*rows = append(*rows, row)

			total += o.runs + o.wide
			runsByPlayer[batter] += o.runs
			if o.wide > 0 {
				continue
			}
			ball++
			if o.wicket {
				wickets++
				striker = nextIn
				nextIn++
				continue
			}
			if o.runs%2 == 1 {
				striker, nonStriker = nonStriker, striker
			}
		}
		striker, nonStriker = nonStriker, striker
	}
	return total
}

// bowlerSlot rotates the five bowlers: number three, then the last four.
func bowlerSlot(squad, over int) int {
	slot := (over - 1) % bowlersPerSide
	if slot == 0 {
		return 2
	}
	return squad - bowlersPerSide + slot
}

type outcome struct {
	runs   int
	wide   int
	wicket bool
}

func (g *generator) outcome() outcome {
	r := g.rng.IntN(100)
	for _, c := range []struct {
		weight int
		out    outcome
	}{
		{weightDot, outcome{}},
		{weightSingle, outcome{runs: 1}},
		{weightDouble, outcome{runs: 2}},
		{weightThree, outcome{runs: 3}},
		{weightFour, outcome{runs: 4}},
		{weightSix, outcome{runs: 6}},
		{weightWicket, outcome{wicket: true}},
		{weightWide, outcome{wide: 1}},
	} {
		if r < c.weight {
			return c.out
		}
		r -= c.weight
	}
	return outcome{}
}

// topScorer picks the highest run scorer, lowest name on ties.
func topScorer(runs map[string]int) string {
	best, bestRuns := "", -1
	for name, r := range runs {
		if r > bestRuns || (r == bestRuns && name < best) {
			best, bestRuns = name, r
		}
	}
	return best
}
