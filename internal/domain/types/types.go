// Package types contains the report shapes shared by the HTTP and CLI outputs.
package types

import (
	"fmt"

	"github.com/okian/bestxi/internal/domain/model"
)

// Status values carried by a Report.
const (
	StatusOK            = "ok"
	StatusAwaitingInput = "awaiting_input"
)

// BatsmanRow is one line of the top batsmen table.
type BatsmanRow struct {
	Player     string  `json:"player" yaml:"player"`
	TotalRuns  int     `json:"total_runs" yaml:"total_runs"`
	StrikeRate float64 `json:"strike_rate" yaml:"strike_rate"`
	BattingAvg float64 `json:"batting_avg" yaml:"batting_avg"`
}

// BowlerRow is one line of the top bowlers table.
type BowlerRow struct {
	Player      string  `json:"player" yaml:"player"`
	Wickets     int     `json:"wickets" yaml:"wickets"`
	EconomyRate float64 `json:"economy_rate" yaml:"economy_rate"`
	BowlingAvg  float64 `json:"bowling_avg" yaml:"bowling_avg"`
}

// AllRounderRow is one line of the top all-rounders table.
type AllRounderRow struct {
	Player      string  `json:"player" yaml:"player"`
	TotalRuns   int     `json:"total_runs" yaml:"total_runs"`
	StrikeRate  float64 `json:"strike_rate" yaml:"strike_rate"`
	Wickets     int     `json:"wickets" yaml:"wickets"`
	EconomyRate float64 `json:"economy_rate" yaml:"economy_rate"`
}

// Summary describes what a run read.
type Summary struct {
	DeliveriesRows int    `json:"deliveries_rows" yaml:"deliveries_rows"`
	MatchesRows    int    `json:"matches_rows" yaml:"matches_rows"`
	Matches        int    `json:"matches" yaml:"matches"`
	Batters        int    `json:"batters" yaml:"batters"`
	Bowlers        int    `json:"bowlers" yaml:"bowlers"`
	AllRounders    int    `json:"all_rounders" yaml:"all_rounders"`
	BatterColumn   string `json:"batter_column" yaml:"batter_column"`
	DismissalRule  string `json:"dismissal_rule" yaml:"dismissal_rule"`
	TopBatsmen     int    `json:"top_batsmen" yaml:"top_batsmen"`
	TopBowlers     int    `json:"top_bowlers" yaml:"top_bowlers"`
	TopAllRounders int    `json:"top_all_rounders" yaml:"top_all_rounders"`
}

// Report is the full outcome of one analysis run.
type Report struct {
	RunID       string          `json:"run_id" yaml:"run_id"`
	Status      string          `json:"status" yaml:"status"`
	Summary     Summary         `json:"summary" yaml:"summary"`
	Batsmen     []BatsmanRow    `json:"batsmen" yaml:"batsmen"`
	Bowlers     []BowlerRow     `json:"bowlers" yaml:"bowlers"`
	AllRounders []AllRounderRow `json:"all_rounders" yaml:"all_rounders"`
}

// Titles returns the headings of the three result tables for the given caps.
func Titles(batsmen, bowlers, allRounders int) (string, string, string) {
	return fmt.Sprintf("Top %d Batsmen", batsmen),
		fmt.Sprintf("Top %d Bowlers", bowlers),
		fmt.Sprintf("Top %d All-rounders", allRounders)
}

// Batsmen projects batting aggregates onto report rows.
func Batsmen(stats []model.BattingStat) []BatsmanRow {
	out := make([]BatsmanRow, len(stats))
	for i, s := range stats {
		out[i] = BatsmanRow{
			Player:     s.Player,
			TotalRuns:  s.TotalRuns,
			StrikeRate: s.StrikeRate,
			BattingAvg: s.BattingAvg,
		}
	}
	return out
}

// Bowlers projects bowling aggregates onto report rows.
func Bowlers(stats []model.BowlingStat) []BowlerRow {
	out := make([]BowlerRow, len(stats))
	for i, s := range stats {
		out[i] = BowlerRow{
			Player:      s.Player,
			Wickets:     s.Wickets,
			EconomyRate: s.EconomyRate,
			BowlingAvg:  s.BowlingAvg,
		}
	}
	return out
}

// AllRounders projects joined aggregates onto report rows.
func AllRounders(players []model.AllRounder) []AllRounderRow {
	out := make([]AllRounderRow, len(players))
	for i, p := range players {
		out[i] = AllRounderRow{
			Player:      p.Player,
			TotalRuns:   p.Batting.TotalRuns,
			StrikeRate:  p.Batting.StrikeRate,
			Wickets:     p.Bowling.Wickets,
			EconomyRate: p.Bowling.EconomyRate,
		}
	}
	return out
}
