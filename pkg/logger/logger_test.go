package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the global logger", t, func() {
		Convey("When it is initialized with defaults", func() {
			err := Init()

			Convey("Then Get returns a usable logger", func() {
				So(err, ShouldBeNil)
				So(Get(), ShouldNotBeNil)
				So(Sync(), ShouldBeNil)
			})
		})
	})
}

func TestLoggerOutput(t *testing.T) {
	Convey("Given a logger writing JSON to a buffer", t, func() {
		var buf bytes.Buffer
		So(Init(WithWriter(&buf), WithJSON(true)), ShouldBeNil)
		ctx := context.Background()

		Convey("When a named logger writes a record", func() {
			Named("analysis").Info(ContextWithRunID(ctx, "r-1"), "analysis complete",
				String("batter_column", "batter"),
				Int("rows", 12),
				Bool("ok", true),
				Duration("took", time.Millisecond),
			)

			Convey("Then the record carries component, fields and source", func() {
				var rec map[string]any
				So(json.Unmarshal(buf.Bytes(), &rec), ShouldBeNil)
				So(rec["msg"], ShouldEqual, "analysis complete")
				So(rec["component"], ShouldEqual, "analysis")
				So(rec["run_id"], ShouldEqual, "r-1")
				So(rec["batter_column"], ShouldEqual, "batter")
				So(rec["rows"], ShouldEqual, 12.0)
				So(rec["ok"], ShouldEqual, true)
				So(rec["source"], ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When the level is raised to warn", func() {
			So(SetLevelString("WARN"), ShouldBeNil)
			Get().Info(ctx, "hidden")
			Get().Warn(ctx, "shown")

			Convey("Then info records are dropped", func() {
				out := buf.String()
				So(out, ShouldNotContainSubstring, "hidden")
				So(out, ShouldContainSubstring, "shown")
			})
		})
	})
}

func TestRunIDContext(t *testing.T) {
	Convey("Given a context", t, func() {
		ctx := context.Background()

		Convey("Then an untagged context has no run id", func() {
			So(RunIDFromContext(ctx), ShouldEqual, "")
		})

		Convey("Then a tagged context returns its run id", func() {
			So(RunIDFromContext(ContextWithRunID(ctx, "r-9")), ShouldEqual, "r-9")
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level strings", t, func() {
		So(Init(WithWriter(&strings.Builder{})), ShouldBeNil)

		Convey("Then known levels are accepted", func() {
			for _, lvl := range []string{"debug", "info", "", "warn", "warning", "error", " Info "} {
				So(SetLevelString(lvl), ShouldBeNil)
			}
		})

		Convey("Then unknown levels are rejected", func() {
			err := SetLevelString("verbose")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "unknown log level")
		})
	})
}
