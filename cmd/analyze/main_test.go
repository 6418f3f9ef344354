package main

import (
	"flag"
	"io"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestRun(t *testing.T) {
	convey.Convey("Given the analyze command", t, func() {
		convey.Convey("When asking for help", func() {
			convey.So(run([]string{"-help"}), convey.ShouldEqual, 0)
		})

		convey.Convey("When analyzing a generated season", func() {
			convey.So(run([]string{"-sample", "-sample-matches", "2", "-format", "json"}), convey.ShouldEqual, 0)
		})

		convey.Convey("When no files are given", func() {
			convey.Convey("Then it is awaiting input, not failing", func() {
				convey.So(run(nil), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When the format is unknown", func() {
			convey.So(run([]string{"-sample", "-format", "xml"}), convey.ShouldEqual, 1)
		})

		convey.Convey("When a flag is unknown", func() {
			convey.So(run([]string{"-events", "10"}), convey.ShouldEqual, 2)
		})

		convey.Convey("When the dismissal rule flag is unknown", func() {
			convey.Convey("Then it exits with a usage error", func() {
				convey.So(run([]string{"-sample", "-dismissal-rule", "is-wicket"}), convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When a shortlist size flag is not positive", func() {
			convey.So(run([]string{"-sample", "-top-batsmen", "0"}), convey.ShouldEqual, 2)
			convey.So(run([]string{"-sample", "-top-all-rounders", "-1"}), convey.ShouldEqual, 2)
		})

		convey.Convey("When the config is invalid", func() {
			t.Setenv("BESTXI_DISMISSAL_RULE", "caught")
			convey.So(run([]string{"-sample"}), convey.ShouldEqual, 1)
		})
	})
}

func TestRankingFlags(t *testing.T) {
	convey.Convey("Given a parsed flag set", t, func() {
		fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		fs.Int("top-batsmen", 4, "")
		fs.String("dismissal-rule", "player_dismissed", "")
		fs.String("url", "", "")

		convey.Convey("When ranking flags are set explicitly", func() {
			convey.So(fs.Parse([]string{"-url", "http://x", "-top-batsmen", "6", "-dismissal-rule", "is_wicket"}), convey.ShouldBeNil)

			convey.Convey("Then only those are reported", func() {
				convey.So(rankingFlags(fs), convey.ShouldResemble, []string{"-dismissal-rule", "-top-batsmen"})
			})
		})

		convey.Convey("When only the url is set", func() {
			convey.So(fs.Parse([]string{"-url", "http://x"}), convey.ShouldBeNil)
			convey.So(rankingFlags(fs), convey.ShouldBeEmpty)
		})
	})
}
