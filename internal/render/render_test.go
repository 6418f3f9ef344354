package render

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/okian/bestxi/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
	"gopkg.in/yaml.v3"
)

func sampleReport() types.Report {
	return types.Report{
		RunID:  "run-1",
		Status: types.StatusOK,
		Summary: types.Summary{
			DeliveriesRows: 3,
			MatchesRows:    1,
			Matches:        1,
			Batters:        2,
			Bowlers:        2,
			AllRounders:    2,
		},
		Batsmen: []types.BatsmanRow{
			{Player: "A", TotalRuns: 4, StrikeRate: 200, BattingAvg: 4},
			{Player: "X", TotalRuns: 1, StrikeRate: 100, BattingAvg: 1},
		},
		Bowlers: []types.BowlerRow{
			{Player: "X", Wickets: 1, EconomyRate: 24, BowlingAvg: 4},
		},
		AllRounders: []types.AllRounderRow{
			{Player: "A", TotalRuns: 4, StrikeRate: 200, Wickets: 0, EconomyRate: 6},
		},
	}
}

func TestParseFormat(t *testing.T) {
	Convey("Given format flag values", t, func() {
		Convey("Then known names parse case-insensitively", func() {
			for in, want := range map[string]Format{"text": FormatText, "CSV": FormatCSV, " json ": FormatJSON, "yaml": FormatYAML, "": FormatText} {
				got, err := ParseFormat(in)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, want)
			}
		})

		Convey("Then unknown names fail", func() {
			_, err := ParseFormat("xml")
			So(errors.Is(err, ErrUnknownFormat), ShouldBeTrue)

			_, err = New("xml")
			So(errors.Is(err, ErrUnknownFormat), ShouldBeTrue)
		})
	})
}

func TestRender(t *testing.T) {
	Convey("Given a report", t, func() {
		report := sampleReport()
		var buf bytes.Buffer

		Convey("When rendering text", func() {
			r, err := New(FormatText)
			So(err, ShouldBeNil)
			So(r.Render(&buf, report), ShouldBeNil)
			out := buf.String()

			Convey("Then the summary and titled tables are written", func() {
				So(out, ShouldStartWith, "Files uploaded successfully: 3 deliveries, 1 matches rows (1 distinct matches)")
				So(out, ShouldContainSubstring, "Top 4 Batsmen")
				So(out, ShouldContainSubstring, "Top 4 Bowlers")
				So(out, ShouldContainSubstring, "Top 3 All-rounders")
				So(out, ShouldContainSubstring, "200.00")
				So(strings.Index(out, "Top 4 Batsmen"), ShouldBeLessThan, strings.Index(out, "Top 4 Bowlers"))
			})
		})

		Convey("When rendering text with custom limits and no summary", func() {
			r, err := New(FormatText, WithLimits(6, 0, 2), WithSummary(false))
			So(err, ShouldBeNil)
			So(r.Render(&buf, report), ShouldBeNil)
			out := buf.String()

			Convey("Then titles follow the limits", func() {
				So(out, ShouldStartWith, "Top 6 Batsmen")
				So(out, ShouldContainSubstring, "Top 4 Bowlers")
				So(out, ShouldContainSubstring, "Top 2 All-rounders")
				So(out, ShouldNotContainSubstring, "Files uploaded")
			})
		})

		Convey("When the report carries the limits it was ranked with", func() {
			report.Summary.TopBatsmen = 2
			report.Summary.TopBowlers = 5
			r, err := New(FormatText, WithLimits(6, 6, 6), WithSummary(false))
			So(err, ShouldBeNil)
			So(r.Render(&buf, report), ShouldBeNil)
			out := buf.String()

			Convey("Then the reported limits title the tables", func() {
				So(out, ShouldStartWith, "Top 2 Batsmen")
				So(out, ShouldContainSubstring, "Top 5 Bowlers")
				So(out, ShouldContainSubstring, "Top 6 All-rounders")
				So(out, ShouldNotContainSubstring, "Top 6 Batsmen")
			})
		})

		Convey("When rendering CSV", func() {
			r, err := New(FormatCSV)
			So(err, ShouldBeNil)
			So(r.Render(&buf, report), ShouldBeNil)

			cr := csv.NewReader(&buf)
			cr.FieldsPerRecord = -1
			records, err := cr.ReadAll()
			So(err, ShouldBeNil)

			Convey("Then each table has a header and tagged rows", func() {
				So(records, ShouldHaveLength, 7)
				So(records[0], ShouldResemble, []string{"table", "player", "total_runs", "strike_rate", "batting_avg"})
				So(records[1], ShouldResemble, []string{"batsmen", "A", "4", "200", "4"})
				So(records[3][0], ShouldEqual, "table")
				So(records[4], ShouldResemble, []string{"bowlers", "X", "1", "24", "4"})
				So(records[6], ShouldResemble, []string{"all_rounders", "A", "4", "200", "0", "6"})
			})
		})

		Convey("When rendering JSON", func() {
			r, err := New(FormatJSON)
			So(err, ShouldBeNil)
			So(r.Render(&buf, report), ShouldBeNil)

			Convey("Then it decodes to the same report", func() {
				var got types.Report
				So(json.Unmarshal(buf.Bytes(), &got), ShouldBeNil)
				So(got, ShouldResemble, report)
			})
		})

		Convey("When rendering YAML", func() {
			r, err := New("YAML")
			So(err, ShouldBeNil)
			So(r.Format(), ShouldEqual, FormatYAML)
			So(r.Render(&buf, report), ShouldBeNil)

			Convey("Then it decodes to the same report", func() {
				var got types.Report
				So(yaml.Unmarshal(buf.Bytes(), &got), ShouldBeNil)
				So(got, ShouldResemble, report)
			})
		})
	})
}
