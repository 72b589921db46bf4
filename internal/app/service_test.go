package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/swimtimes/internal/domain/event"
	"github.com/okian/swimtimes/internal/domain/model"
	"github.com/okian/swimtimes/internal/domain/qualification"
	"github.com/okian/swimtimes/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

// fixedTable answers every gender and age with the same time per code.
type fixedTable map[int]float64

func (t fixedTable) Lookup(code int, _ model.Gender, _ int) (float64, bool) {
	v, ok := t[code]
	return v, ok
}

func mustEvent(code int) event.Event {
	e, err := event.ByCode(code)
	if err != nil {
		panic(err)
	}
	return e
}

func swim(swimmerID, code int, date time.Time, meet string, t float64) model.Swim {
	s, err := model.NewSwim(swimmerID, 0, mustEvent(code), date, meet, true, t)
	if err != nil {
		panic(err)
	}
	return s
}

func testRoster() model.Roster {
	jo := model.Swimmer{ID: 1, FirstName: "Joanne", LastName: "Bloggs", KnownAs: "Jo", Gender: model.Female, DateOfBirth: model.Date(2003, time.March, 14)}
	sam := model.Swimmer{ID: 2, FirstName: "Sam", LastName: "Jones", KnownAs: "Sam", Gender: model.Male, DateOfBirth: model.Date(2002, time.May, 1)}
	old := model.Swimmer{ID: 3, FirstName: "Old", LastName: "Timer", KnownAs: "Old", Gender: model.Male, DateOfBirth: model.Date(1980, time.January, 1)}
	stray := model.Swimmer{ID: 4, FirstName: "Not", LastName: "Entered", KnownAs: "Not", Gender: model.Female, DateOfBirth: model.Date(2004, time.January, 1)}

	return model.Roster{
		{Swimmer: jo, Swims: []model.Swim{
			swim(1, 0, model.Date(2015, time.March, 1), "Spring Open", 29.0),
			swim(1, 0, model.Date(2014, time.February, 1), "County Champs", 30.0),
			swim(1, 0, model.Date(2015, time.July, 10), "Open Meet", 30.9),
			swim(1, 0, model.Date(2015, time.September, 13), "Club Champs", 28.8),
		}},
		{Swimmer: sam, Swims: []model.Swim{
			swim(2, 0, model.Date(2015, time.September, 12), "Club  champs", 30.5),
			swim(2, 13, model.Date(2015, time.September, 19), "Club Champs", 70.1),
		}},
		{Swimmer: old, Swims: []model.Swim{
			swim(3, 0, model.Date(2015, time.July, 10), "Open Meet", 25.0),
		}},
		{Swimmer: stray},
	}
}

func newTestService(opts ...Option) *Service {
	base := []Option{
		WithWorkerCount(1),
		WithNoTimeTable(fixedTable{1: 80.0}),
		WithStandards(fixedTable{0: 31.0}),
		WithRunIDFunc(func() string { return "test-run" }),
	}
	s, err := New(append(base, opts...)...)
	if err != nil {
		panic(err)
	}
	return s
}

func TestConsiderations(t *testing.T) {
	Convey("Given a roster and an entry list", t, func() {
		So(logger.Init(), ShouldBeNil)
		ctx := context.Background()
		champs := model.Date(2015, time.September, 19)
		cutoff := model.Date(2014, time.September, 19)
		svc := newTestService(
			WithEntryList([]string{"Jo Bloggs", "Sam Jones", "Old Timer", "Ghost Swimmer"}),
			WithClubChamps("Club Champs", model.Date(2015, time.September, 12), champs, cutoff),
		)

		Convey("When consideration times are computed", func() {
			report, err := svc.Considerations(ctx, testRoster())
			So(err, ShouldBeNil)

			Convey("Then entered swimmers come back in roster order", func() {
				So(report.Swimmers, ShouldHaveLength, 2)
				So(report.Swimmers[0].EntryName, ShouldEqual, "Jo Bloggs")
				So(report.Swimmers[0].Age, ShouldEqual, 12)
				So(report.Swimmers[1].EntryName, ShouldEqual, "Sam Jones")
				So(report.Cutoff, ShouldEqual, cutoff)
			})

			Convey("Then every short-course event has a time slot", func() {
				So(report.Swimmers[0].Times, ShouldHaveLength, event.NumShortCourseEvents())
			})

			Convey("Then the PB is interpolated towards the first later improvement", func() {
				free50 := report.Swimmers[0].Times[0]
				So(free50.Interpolated, ShouldBeTrue)
				So(free50.Time, ShouldAlmostEqual, 30.0-230.0/393.0, 1e-9)
			})

			Convey("Then events without a PB fall back to the NT table", func() {
				free100 := report.Swimmers[0].Times[1]
				So(free100.FromFallback, ShouldBeTrue)
				So(free100.Time, ShouldEqual, 80.0)
				So(report.Swimmers[0].Times[2].HasTime, ShouldBeFalse)
			})

			Convey("Then the too-old swimmer is excluded and their entry stays unmatched", func() {
				So(report.Excluded, ShouldHaveLength, 2)
				So(report.Excluded[0].Reason, ShouldEqual, model.ReasonTooOld)
				So(report.Excluded[0].Name, ShouldEqual, "Old Timer")
				So(report.Excluded[1].Reason, ShouldEqual, model.ReasonNotEntered)
				So(report.Unmatched, ShouldResemble, []string{"Old Timer", "Ghost Swimmer"})
			})
		})

		Convey("When the work is fanned out", func() {
			sequential, err := svc.Considerations(ctx, testRoster())
			So(err, ShouldBeNil)
			parallel, err := newTestService(
				WithWorkerCount(4),
				WithEntryList([]string{"Jo Bloggs", "Sam Jones", "Old Timer", "Ghost Swimmer"}),
				WithClubChamps("Club Champs", model.Date(2015, time.September, 12), champs, cutoff),
			).Considerations(ctx, testRoster())
			So(err, ShouldBeNil)

			Convey("Then the result is identical", func() {
				So(parallel, ShouldResemble, sequential)
			})
		})

		Convey("When no entry list is configured", func() {
			report, err := newTestService(
				WithClubChamps("Club Champs", model.Date(2015, time.September, 12), champs, cutoff),
			).Considerations(ctx, testRoster())

			Convey("Then everyone under the maximum age is included", func() {
				So(err, ShouldBeNil)
				So(report.Swimmers, ShouldHaveLength, 3)
				So(report.Unmatched, ShouldBeEmpty)
			})
		})

		Convey("When the dates are missing", func() {
			_, err := newTestService().Considerations(ctx, testRoster())

			Convey("Then the report is not configured", func() {
				So(errors.Is(err, ErrNotConfigured), ShouldBeTrue)
			})
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := svc.Considerations(cctx, testRoster())

			Convey("Then the run fails", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})
}

func TestConsiderationsLogging(t *testing.T) {
	Convey("Given a service logging to a buffer at debug level", t, func() {
		var buf bytes.Buffer
		So(logger.InitWriter(&buf), ShouldBeNil)
		So(logger.SetLevelString("debug"), ShouldBeNil)
		defer func() { _ = logger.SetLevelString("info") }()

		svc := newTestService(
			WithEntryList([]string{"Jo Bloggs", "Sam Jones", "Old Timer", "Ghost Swimmer"}),
			WithClubChamps("Club Champs", model.Date(2015, time.September, 12), model.Date(2015, time.September, 19), model.Date(2014, time.September, 19)),
		)

		Convey("When consideration times are computed", func() {
			_, err := svc.Considerations(context.Background(), testRoster())
			So(err, ShouldBeNil)

			Convey("Then the run dates and entry count are logged", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "cutoff=19/09/2014")
				So(out, ShouldContainSubstring, "club_champs=19/09/2015")
				So(out, ShouldContainSubstring, "entries=4")
			})
		})
	})
}

func TestQualifiers(t *testing.T) {
	Convey("Given a qualifying window and an excluded meet", t, func() {
		So(logger.Init(), ShouldBeNil)
		ctx := context.Background()
		policy := qualification.NewPolicy(model.Date(2015, time.June, 8), []string{"Club Champs"})
		svc := newTestService(
			WithMaximumAge(21),
			WithExcludedSwimmers([]string{"Not Entered"}),
			WithQualifying(model.Date(2016, time.December, 31), policy),
		)

		Convey("When qualifiers are found", func() {
			report, err := svc.Qualifiers(ctx, testRoster())
			So(err, ShouldBeNil)

			Convey("Then the eligible best is preferred over a faster excluded-meet swim", func() {
				So(report.Swimmers, ShouldHaveLength, 2)
				jo := report.Swimmers[0]
				So(jo.Age, ShouldEqual, 13)
				So(jo.Records, ShouldHaveLength, 1)
				So(jo.Records[0].Time, ShouldEqual, 30.9)
				So(jo.Records[0].Swim.Meet, ShouldEqual, "Open Meet")
				So(jo.Records[0].Qualifies, ShouldBeTrue)
			})

			Convey("Then a time only set at an excluded meet is reported but not qualified", func() {
				sam := report.Swimmers[1]
				So(sam.Records[0].Time, ShouldEqual, 30.5)
				So(sam.Records[0].Qualifies, ShouldBeFalse)
			})

			Convey("Then excluded names and over-age swimmers are dropped", func() {
				So(report.Excluded, ShouldHaveLength, 2)
				So(report.Excluded[0].Reason, ShouldEqual, model.ReasonTooOld)
				So(report.Excluded[1].Reason, ShouldEqual, model.ReasonExcluded)
			})
		})

		Convey("When the window is not configured", func() {
			_, err := newTestService().Qualifiers(ctx, testRoster())

			Convey("Then the report is not configured", func() {
				So(errors.Is(err, ErrNotConfigured), ShouldBeTrue)
			})
		})
	})
}

func TestChampsTimes(t *testing.T) {
	Convey("Given club championship dates", t, func() {
		So(logger.Init(), ShouldBeNil)
		ctx := context.Background()
		svc := newTestService(
			WithEntryList([]string{"Jo Bloggs", "Sam Jones"}),
			WithClubChamps("Club Champs", model.Date(2015, time.September, 12), model.Date(2015, time.September, 19), model.Date(2014, time.September, 19)),
		)

		Convey("When race times are extracted", func() {
			report, err := svc.ChampsTimes(ctx, testRoster())
			So(err, ShouldBeNil)

			Convey("Then only swims at the named meet inside the dates are kept", func() {
				So(report.Swimmers, ShouldHaveLength, 2)
				So(report.Swimmers[0].Swims, ShouldHaveLength, 1)
				So(report.Swimmers[0].Swims[0].RaceTime, ShouldEqual, 28.8)
				So(report.Swimmers[1].Swims, ShouldHaveLength, 1)
				So(report.Swimmers[1].Swims[0].Event.Name(), ShouldEqual, "100 Back")
				So(report.Unmatched, ShouldBeEmpty)
			})
		})

		Convey("When the meet name is missing", func() {
			_, err := newTestService(
				WithClubChamps("", model.Date(2015, time.September, 12), model.Date(2015, time.September, 19), model.Date(2014, time.September, 19)),
			).ChampsTimes(ctx, testRoster())

			Convey("Then the report is not configured", func() {
				So(errors.Is(err, ErrNotConfigured), ShouldBeTrue)
			})
		})
	})
}

func TestNewLoadsEmbeddedTables(t *testing.T) {
	Convey("Given no table overrides", t, func() {
		So(logger.Init(), ShouldBeNil)
		svc, err := New()

		Convey("Then the embedded tables are used", func() {
			So(err, ShouldBeNil)
			So(svc.noTime, ShouldNotBeNil)
			So(svc.standards, ShouldNotBeNil)
			So(svc.maximumAge, ShouldEqual, 21)
		})
	})
}
