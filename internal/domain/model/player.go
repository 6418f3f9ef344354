// Package model contains domain models passed between layers.
package model

// Delivery is one ball bowled, reduced to the fields the analyzer reads.
type Delivery struct {
	Batter      string // empty when the source cell was null
	Bowler      string // empty when the source cell was null
	BatsmanRuns int    // runs off the bat
	TotalRuns   int    // runs conceded including extras
	HasBall     bool   // ball cell was non-null; counts toward balls faced/bowled
	Dismissal   bool   // row marks a dismissal event under the active rule
}

// BattingStat aggregates every delivery a batter faced.
type BattingStat struct {
	Player     string
	TotalRuns  int
	BallsFaced int
	Dismissals int
	StrikeRate float64 // runs per 100 balls
	BattingAvg float64 // runs per dismissal; equals TotalRuns when never dismissed
}

// BowlingStat aggregates every delivery a bowler sent down.
type BowlingStat struct {
	Player       string
	Wickets      int
	BallsBowled  int
	RunsConceded int
	EconomyRate  float64 // runs per six balls
	BowlingAvg   float64 // runs per wicket; equals RunsConceded when wicketless
}

// AllRounder joins a player's batting and bowling aggregates.
type AllRounder struct {
	Player  string
	Batting BattingStat
	Bowling BowlingStat
}

// Match is one row of the match metadata table.
type Match struct {
	ID            string
	Season        string
	City          string
	Date          string
	Team1         string
	Team2         string
	Winner        string
	PlayerOfMatch string
	Venue         string
}
