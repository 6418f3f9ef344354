package analysis

import (
	"github.com/okian/bestxi/internal/domain/table"
)

// Column names read from the deliveries table.
const (
	ColBatter          = "batter"
	ColBatsman         = "batsman"
	ColBowler          = "bowler"
	ColBatsmanRuns     = "batsman_runs"
	ColTotalRuns       = "total_runs"
	ColBall            = "ball"
	ColPlayerDismissed = "player_dismissed"
	ColIsWicket        = "is_wicket"
	ColIsSuperOver     = "is_super_over"
)

// DismissalRule selects the column that marks a delivery as a dismissal event.
// Under either rule the event is credited to the row's batter as a dismissal
// and to the row's bowler as a wicket.
type DismissalRule string

// Supported dismissal rules.
const (
	// RulePlayerDismissed treats any non-null player_dismissed cell as an event.
	RulePlayerDismissed DismissalRule = ColPlayerDismissed
	// RuleIsWicket treats a non-zero is_wicket flag as an event.
	RuleIsWicket DismissalRule = ColIsWicket
)

// columns resolves the positions of the fields the analyzer reads.
type columns struct {
	batter      int
	bowler      int
	batsmanRuns int
	totalRuns   int
	ball        int
	dismissal   int
	batterName  string
}

// resolveColumns checks the required column set and returns their positions.
// batter wins over batsman when a table carries both.
func resolveColumns(t *table.Table, rule DismissalRule, strict bool) (columns, error) {
	var (
		c       columns
		missing []string
		ok      bool
	)

	switch {
	case t.Has(ColBatter):
		c.batterName = ColBatter
	case t.Has(ColBatsman):
		c.batterName = ColBatsman
	default:
		missing = append(missing, ColBatter+"|"+ColBatsman)
	}
	if c.batterName != "" {
		c.batter, _ = t.Index(c.batterName)
	}

	need := func(name string, dst *int) {
		if *dst, ok = t.Index(name); !ok {
			missing = append(missing, name)
		}
	}
	need(ColBatsmanRuns, &c.batsmanRuns)
	need(ColBall, &c.ball)
	need(string(rule), &c.dismissal)
	need(ColBowler, &c.bowler)
	need(ColTotalRuns, &c.totalRuns)
	if strict {
		var superOver int
		need(ColIsSuperOver, &superOver)
	}

	if len(missing) > 0 {
		return columns{}, &SchemaError{Missing: missing}
	}
	return c, nil
}

// RequiredColumns lists the columns a deliveries table must carry under rule.
func RequiredColumns(rule DismissalRule, strict bool) []string {
	cols := []string{ColBatter + "|" + ColBatsman, ColBatsmanRuns, ColBall, string(rule), ColBowler, ColTotalRuns}
	if strict {
		cols = append(cols, ColIsSuperOver)
	}
	return cols
}
