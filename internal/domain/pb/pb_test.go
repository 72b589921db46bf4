package pb_test

import (
	"math"
	"testing"
	"time"

	"github.com/okian/swimtimes/internal/domain/event"
	"github.com/okian/swimtimes/internal/domain/model"
	"github.com/okian/swimtimes/internal/domain/pb"
	. "github.com/smartystreets/goconvey/convey"
)

func swim(id int, name string, c event.Course, day int, t float64) model.Swim {
	e, err := event.Parse(name, c)
	if err != nil {
		panic(err)
	}
	s, err := model.NewSwim(1, id, e, model.Date(2015, time.January, 1).AddDate(0, 0, day), "Meet", true, t)
	if err != nil {
		panic(err)
	}
	return s
}

func TestTracker(t *testing.T) {
	Convey("Given an empty tracker", t, func() {
		var tr pb.Tracker

		Convey("Then it has no best and nothing improves on it", func() {
			_, ok := tr.Best()
			So(ok, ShouldBeFalse)
			So(tr.Improves(1.0), ShouldBeFalse)
		})

		Convey("When swims are offered", func() {
			So(tr.Offer(swim(1, "50 Free", event.ShortCourse, 0, 30.0), 30.0), ShouldBeTrue)
			So(tr.Offer(swim(2, "50 Free", event.ShortCourse, 1, 30.0), 30.0), ShouldBeFalse)
			So(tr.Offer(swim(3, "50 Free", event.ShortCourse, 2, 31.0), 31.0), ShouldBeFalse)

			Convey("Then ties keep the first swim", func() {
				b, ok := tr.Best()
				So(ok, ShouldBeTrue)
				So(b.Swim.SwimID, ShouldEqual, 1)
			})

			Convey("Then only strictly faster times improve", func() {
				So(tr.Improves(30.0), ShouldBeFalse)
				So(tr.Improves(29.9), ShouldBeTrue)
			})
		})
	})
}

func TestTrackerRejectsNaN(t *testing.T) {
	Convey("Given a tracker holding a best", t, func() {
		var tr pb.Tracker
		tr.Offer(swim(1, "50 Free", event.ShortCourse, 0, 30.0), 30.0)

		Convey("When NaN and then a slower time are offered", func() {
			So(tr.Offer(swim(2, "50 Free", event.ShortCourse, 1, 30.0), math.NaN()), ShouldBeFalse)
			So(tr.Offer(swim(3, "50 Free", event.ShortCourse, 2, 31.0), 31.0), ShouldBeFalse)

			Convey("Then the original best stands", func() {
				b, ok := tr.Best()
				So(ok, ShouldBeTrue)
				So(b.Swim.SwimID, ShouldEqual, 1)
				So(b.Time, ShouldEqual, 30.0)
			})
		})
	})
}

func TestGroupByEvent(t *testing.T) {
	Convey("Given swims across courses and dates", t, func() {
		swims := []model.Swim{
			swim(1, "50 Free", event.ShortCourse, 10, 30.0),
			swim(2, "50 Free", event.LongCourse, 5, 31.0),
			swim(3, "100 Back", event.ShortCourse, 1, 80.0),
			swim(4, "50 Free", event.ShortCourse, 5, 29.0),
		}
		groups := pb.GroupByEvent(swims)

		Convey("Then swims are grouped by short-course code and sorted by date", func() {
			So(len(groups), ShouldEqual, event.NumShortCourseEvents())
			free := groups[0]
			So(len(free), ShouldEqual, 3)
			So(free[0].SwimID, ShouldEqual, 2)
			So(free[1].SwimID, ShouldEqual, 4)
			So(free[2].SwimID, ShouldEqual, 1)

			back, _ := event.Parse("100 Back", event.ShortCourse)
			So(len(groups[back.Code]), ShouldEqual, 1)
		})
	})
}
