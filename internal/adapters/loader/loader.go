// Package loader reads the deliveries and matches CSV streams into tables.
package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/okian/bestxi/internal/domain/model"
	"github.com/okian/bestxi/internal/domain/table"
	"github.com/okian/bestxi/pkg/logger"
)

// Tables is the pair of datasets one analysis runs over.
type Tables struct {
	Deliveries *table.Table
	Matches    *table.Table
}

// Loader turns raw CSV streams into tables.
type Loader interface {
	// Load returns ErrAwaitingInput when either reader is nil.
	Load(ctx context.Context, deliveries, matches io.Reader) (Tables, error)
}

// CSVLoader implements Loader with encoding/csv. It keeps no state between
// calls and is safe for concurrent use.
type CSVLoader struct {
	logger logger.Logger
	comma  rune
}

// New creates a CSV loader with the given options.
func New(opts ...Option) *CSVLoader {
	c := &CSVLoader{
		logger: logger.Discard(),
		comma:  ',',
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load implements Loader.
func (c *CSVLoader) Load(ctx context.Context, deliveries, matches io.Reader) (Tables, error) {
	if deliveries == nil || matches == nil {
		c.logger.Debug(ctx, "dataset missing",
			logger.Bool("deliveries", deliveries != nil),
			logger.Bool("matches", matches != nil))
		return Tables{}, ErrAwaitingInput
	}

	d, err := c.read(ctx, "deliveries", deliveries)
	if err != nil {
		return Tables{}, err
	}
	m, err := c.read(ctx, "matches", matches)
	if err != nil {
		return Tables{}, err
	}

	c.logger.Debug(ctx, "datasets loaded",
		logger.Int("deliveries_rows", d.Len()),
		logger.Int("matches_rows", m.Len()))
	return Tables{Deliveries: d, Matches: m}, nil
}

// Read parses a single CSV stream.
func (c *CSVLoader) Read(ctx context.Context, r io.Reader) (*table.Table, error) {
	return c.read(ctx, "input", r)
}

func (c *CSVLoader) read(ctx context.Context, name string, r io.Reader) (*table.Table, error) {
	const ctxCheckEvery = 4096

	cr := csv.NewReader(r)
	cr.Comma = c.comma
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w", name, ErrEmptyInput)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", name, ErrMalformedCSV, err)
	}

	var rows [][]string
	for n := 0; ; n++ {
		if n%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("%s: load cancelled: %w", name, err)
			}
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			c.logger.Warn(ctx, "csv parse failed", logger.String("dataset", name), logger.Error(err))
			return nil, fmt.Errorf("%s: %w: %w", name, ErrMalformedCSV, err)
		}
		rows = append(rows, rec)
	}
	return table.New(header, rows), nil
}

// Match table column names.
const (
	colMatchID       = "id"
	colSeason        = "season"
	colCity          = "city"
	colDate          = "date"
	colTeam1         = "team1"
	colTeam2         = "team2"
	colWinner        = "winner"
	colPlayerOfMatch = "player_of_match"
	colVenue         = "venue"
)

// ParseMatches maps the matches table by column name. Absent columns and
// null cells read as empty strings.
func ParseMatches(t *table.Table) []model.Match {
	out := make([]model.Match, t.Len())
	for i := range out {
		out[i] = model.Match{
			ID:            t.Value(i, colMatchID),
			Season:        t.Value(i, colSeason),
			City:          t.Value(i, colCity),
			Date:          t.Value(i, colDate),
			Team1:         t.Value(i, colTeam1),
			Team2:         t.Value(i, colTeam2),
			Winner:        t.Value(i, colWinner),
			PlayerOfMatch: t.Value(i, colPlayerOfMatch),
			Venue:         t.Value(i, colVenue),
		}
	}
	return out
}

// DistinctMatches counts the distinct non-empty match ids.
func DistinctMatches(matches []model.Match) int {
	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		if m.ID != "" {
			seen[m.ID] = struct{}{}
		}
	}
	return len(seen)
}
