package loader_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/okian/bestxi/internal/adapters/loader"
	. "github.com/smartystreets/goconvey/convey"
)

const matchesCSV = `id,season,city,date,team1,team2,winner,player_of_match,venue
1,2017,Hyderabad,2017-04-05,SRH,RCB,SRH,Yuvraj Singh,Rajiv Gandhi Intl
2,2017,Pune,2017-04-06,MI,RPS,RPS,SPD Smith,MCA Stadium
2,2017,Pune,2017-04-06,MI,RPS,RPS,SPD Smith,MCA Stadium
`

func TestLoad(t *testing.T) {
	ctx := context.Background()

	Convey("Given a CSV loader", t, func() {
		l := loader.New()

		Convey("When either stream is missing", func() {
			_, errD := l.Load(ctx, nil, strings.NewReader(matchesCSV))
			_, errM := l.Load(ctx, strings.NewReader("a,b\n"), nil)
			_, errBoth := l.Load(ctx, nil, nil)

			Convey("Then it reports awaiting input", func() {
				So(errors.Is(errD, loader.ErrAwaitingInput), ShouldBeTrue)
				So(errors.Is(errM, loader.ErrAwaitingInput), ShouldBeTrue)
				So(errors.Is(errBoth, loader.ErrAwaitingInput), ShouldBeTrue)
			})
		})

		Convey("When headers carry padding and a byte-order mark", func() {
			deliveries := "\ufeffmatch_id , batsman,bowler ,ball\n1,A,X,1\n1,B,Y\n"
			tables, err := l.Load(ctx, strings.NewReader(deliveries), strings.NewReader(matchesCSV))

			Convey("Then column names are normalized", func() {
				So(err, ShouldBeNil)
				So(tables.Deliveries.Columns(), ShouldResemble, []string{"match_id", "batsman", "bowler", "ball"})
				So(tables.Deliveries.Len(), ShouldEqual, 2)
				So(tables.Matches.Len(), ShouldEqual, 3)
			})

			Convey("Then ragged rows read as null past their end", func() {
				So(tables.Deliveries.Value(1, "bowler"), ShouldEqual, "Y")
				So(tables.Deliveries.Value(1, "ball"), ShouldEqual, "")
			})
		})

		Convey("When a stream is empty", func() {
			_, err := l.Load(ctx, strings.NewReader(""), strings.NewReader(matchesCSV))

			Convey("Then it reports empty input with the dataset name", func() {
				So(errors.Is(err, loader.ErrEmptyInput), ShouldBeTrue)
				So(err.Error(), ShouldStartWith, "deliveries:")
			})
		})

		Convey("When a stream is malformed", func() {
			bad := "a,b\n1,\"unterminated\n"
			_, err := l.Load(ctx, strings.NewReader("a\n1\n"), strings.NewReader(bad))

			Convey("Then it reports malformed csv", func() {
				So(errors.Is(err, loader.ErrMalformedCSV), ShouldBeTrue)
				So(err.Error(), ShouldStartWith, "matches:")
			})
		})

		Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := l.Load(cctx, strings.NewReader("a\n1\n"), strings.NewReader(matchesCSV))

			Convey("Then loading stops", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})

	Convey("Given a semicolon loader", t, func() {
		l := loader.New(loader.WithComma(';'))
		tbl, err := l.Read(ctx, strings.NewReader("batter;bowler\nA;X\n"))

		Convey("Then fields split on semicolons", func() {
			So(err, ShouldBeNil)
			So(tbl.Value(0, "bowler"), ShouldEqual, "X")
		})
	})
}

func TestParseMatches(t *testing.T) {
	Convey("Given a matches table", t, func() {
		tbl, err := loader.New().Read(context.Background(), strings.NewReader(matchesCSV))
		So(err, ShouldBeNil)

		matches := loader.ParseMatches(tbl)

		Convey("Then every row maps by column name", func() {
			So(matches, ShouldHaveLength, 3)
			So(matches[0].ID, ShouldEqual, "1")
			So(matches[0].City, ShouldEqual, "Hyderabad")
			So(matches[1].PlayerOfMatch, ShouldEqual, "SPD Smith")
			So(matches[1].Venue, ShouldEqual, "MCA Stadium")
		})

		Convey("Then duplicate ids count once", func() {
			So(loader.DistinctMatches(matches), ShouldEqual, 2)
		})
	})

	Convey("Given a matches table without the optional columns", t, func() {
		tbl, err := loader.New().Read(context.Background(), strings.NewReader("id,umpire1\n7,NA\n"))
		So(err, ShouldBeNil)

		matches := loader.ParseMatches(tbl)

		Convey("Then absent fields are empty", func() {
			So(matches[0].ID, ShouldEqual, "7")
			So(matches[0].Winner, ShouldEqual, "")
		})
	})

	Convey("Given no table", t, func() {
		So(loader.ParseMatches(nil), ShouldBeEmpty)
	})
}
