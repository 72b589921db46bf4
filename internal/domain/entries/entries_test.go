package entries

import (
	"testing"

	"github.com/okian/swimtimes/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMatchAndClaim(t *testing.T) {
	jo := model.Swimmer{FirstName: "Joanne", LastName: "Bloggs", KnownAs: "Jo"}
	sam := model.Swimmer{FirstName: "Samuel", LastName: "Jones", KnownAs: "Samuel"}

	Convey("Given an entry list", t, func() {
		set := New([]string{"Jo Bloggs", "Alex Smith", "Jo Bloggs"})

		Convey("Then repeated names collapse", func() {
			So(set.Len(), ShouldEqual, 2)
			So(set.Open(), ShouldBeFalse)
		})

		Convey("When a swimmer is entered under their known-as name", func() {
			name, ok := Match(set, jo)

			Convey("Then the alternate name matches", func() {
				So(ok, ShouldBeTrue)
				So(name, ShouldEqual, "Jo Bloggs")
			})

			Convey("Then claiming returns a new set and leaves the old one alone", func() {
				next := Claim(set, name)
				So(Unmatched(next), ShouldResemble, []string{"Alex Smith"})
				So(Unmatched(set), ShouldResemble, []string{"Jo Bloggs", "Alex Smith"})
			})
		})

		Convey("When a swimmer is not entered", func() {
			_, ok := Match(set, sam)

			Convey("Then nothing matches", func() {
				So(ok, ShouldBeFalse)
				So(Claim(set, "Samuel Jones"), ShouldResemble, set)
			})
		})
	})

	Convey("Given no entry list", t, func() {
		var set Set

		Convey("Then every swimmer matches by full name and nothing is unmatched", func() {
			name, ok := Match(set, sam)
			So(ok, ShouldBeTrue)
			So(name, ShouldEqual, "Samuel Jones")
			So(Unmatched(Claim(set, name)), ShouldBeEmpty)
			So(set.Open(), ShouldBeTrue)
		})
	})
}
