package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/okian/bestxi/internal/adapters/loader"
	service "github.com/okian/bestxi/internal/app"
	"github.com/okian/bestxi/internal/domain/analysis"
	"github.com/okian/bestxi/internal/domain/types"
	"github.com/okian/bestxi/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

const (
	deliveriesCSV = `match_id,inning,batsman,bowler,ball,batsman_runs,total_runs,player_dismissed,is_super_over
1,1,A,X,1,4,4,,0
1,1,A,X,2,0,0,A,0
`
	matchesCSV = `id,season,city,winner
1,2017,Hyderabad,SRH
`
)

func fixedRunID(id string) service.Option {
	return service.WithRunIDFunc(func() string { return id })
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			b, w, a := svc.Limits()
			So(b, ShouldEqual, 4)
			So(w, ShouldEqual, 4)
			So(a, ShouldEqual, 3)
			So(svc.GetStats()["dismissalRule"], ShouldEqual, "player_dismissed")
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithLogger(logger.Get()),
			service.WithLimits(5, 0, 2),
			service.WithDismissalRule("is_wicket"),
			service.WithStrictSchema(true),
		)

		Convey("Then the options are applied", func() {
			b, w, a := svc.Limits()
			So(b, ShouldEqual, 5)
			So(w, ShouldEqual, 4)
			So(a, ShouldEqual, 2)
			stats := svc.GetStats()
			So(stats["dismissalRule"], ShouldEqual, "is_wicket")
			So(stats["strictSchema"], ShouldEqual, true)
		})
	})

	Convey("Given an unknown dismissal rule", t, func() {
		svc := service.New(service.WithDismissalRule("caught"))

		Convey("Then the default rule stays", func() {
			So(svc.GetStats()["dismissalRule"], ShouldEqual, "player_dismissed")
		})
	})
}

func TestService_Analyze(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service", t, func() {
		svc := service.New(fixedRunID("run-1"))

		Convey("When both datasets are provided", func() {
			report, err := svc.Analyze(ctx, strings.NewReader(deliveriesCSV), strings.NewReader(matchesCSV))

			Convey("Then a report is produced", func() {
				So(err, ShouldBeNil)
				So(report.RunID, ShouldEqual, "run-1")
				So(report.Status, ShouldEqual, types.StatusOK)
				So(report.Batsmen, ShouldResemble, []types.BatsmanRow{
					{Player: "A", TotalRuns: 4, StrikeRate: 200, BattingAvg: 4},
				})
				So(report.Bowlers, ShouldResemble, []types.BowlerRow{
					{Player: "X", Wickets: 1, EconomyRate: 12, BowlingAvg: 4},
				})
				So(report.AllRounders, ShouldBeEmpty)
			})

			Convey("Then the summary counts both tables", func() {
				So(report.Summary, ShouldResemble, types.Summary{
					DeliveriesRows: 2,
					MatchesRows:    1,
					Matches:        1,
					Batters:        1,
					Bowlers:        1,
					AllRounders:    0,
					BatterColumn:   "batsman",
					DismissalRule:  "player_dismissed",
					TopBatsmen:     4,
					TopBowlers:     4,
					TopAllRounders: 3,
				})
			})

			Convey("Then stats record the run", func() {
				stats := svc.GetStats()
				So(stats["analyses"], ShouldEqual, int64(1))
				So(stats["lastRunId"], ShouldEqual, "run-1")
			})
		})

		Convey("When a dataset is missing", func() {
			report, err := svc.Analyze(ctx, strings.NewReader(deliveriesCSV), nil)

			Convey("Then the service is awaiting input", func() {
				So(errors.Is(err, loader.ErrAwaitingInput), ShouldBeTrue)
				So(report.Status, ShouldEqual, types.StatusAwaitingInput)
				So(report.Batsmen, ShouldBeNil)
				So(svc.GetStats()["analyses"], ShouldEqual, int64(0))
				So(svc.GetStats()["failures"], ShouldEqual, int64(0))
			})
		})

		Convey("When the deliveries lack required columns", func() {
			report, err := svc.Analyze(ctx, strings.NewReader("batsman,bowler\nA,X\n"), strings.NewReader(matchesCSV))

			Convey("Then a schema error is returned with no tables", func() {
				var se *analysis.SchemaError
				So(errors.As(err, &se), ShouldBeTrue)
				So(se.Missing, ShouldContain, "total_runs")
				So(report.RunID, ShouldEqual, "run-1")
				So(report.Batsmen, ShouldBeNil)
				So(service.FailureKind(err), ShouldEqual, service.KindSchema)
			})

			Convey("Then stats count the failure by kind", func() {
				stats := svc.GetStats()
				So(stats["failures"], ShouldEqual, int64(1))
				So(stats["failuresByKind"], ShouldResemble, map[string]int64{service.KindSchema: 1})
			})
		})
	})

	Convey("Given the same input twice", t, func() {
		svc := service.New(fixedRunID("same"))
		first, err1 := svc.Analyze(ctx, strings.NewReader(deliveriesCSV), strings.NewReader(matchesCSV))
		second, err2 := svc.Analyze(ctx, strings.NewReader(deliveriesCSV), strings.NewReader(matchesCSV))

		Convey("Then the reports are identical", func() {
			So(err1, ShouldBeNil)
			So(err2, ShouldBeNil)
			So(second, ShouldResemble, first)
		})
	})
}

func TestFailureKind(t *testing.T) {
	Convey("Given errors from each layer", t, func() {
		cases := []struct {
			err  error
			kind string
		}{
			{nil, ""},
			{loader.ErrAwaitingInput, service.KindAwaiting},
			{fmt.Errorf("deliveries: %w", loader.ErrEmptyInput), service.KindEmpty},
			{fmt.Errorf("matches: %w", loader.ErrMalformedCSV), service.KindMalformed},
			{fmt.Errorf("analyze: %w", &analysis.SchemaError{Missing: []string{"ball"}}), service.KindSchema},
			{fmt.Errorf("analyze: %w", analysis.ErrInvalidValue), service.KindInvalidValue},
			{fmt.Errorf("load: %w", context.Canceled), service.KindCancelled},
			{errors.New("boom"), service.KindUnknown},
		}

		Convey("Then each maps to its kind", func() {
			for _, c := range cases {
				So(service.FailureKind(c.err), ShouldEqual, c.kind)
			}
		})
	})
}
