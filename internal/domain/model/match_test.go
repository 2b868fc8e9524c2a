package model_test

import (
	"testing"

	model "github.com/okian/standings/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestMatch(t *testing.T) {
	convey.Convey("Given a completed match between two sides", t, func() {
		m := model.Match{
			SideA:     "lions",
			SideB:     "tigers",
			Completed: true,
			Winner:    "lions",
			Games:     []model.Game{{A: 11, B: 5}, {A: 7, B: 11}, {A: 11, B: 9}},
		}

		convey.Convey("When asking for the opponent of each side", func() {
			oppA, okA := m.Opponent("lions")
			oppB, okB := m.Opponent("tigers")
			_, okX := m.Opponent("bears")

			convey.Convey("Then the other side is returned", func() {
				convey.So(okA, convey.ShouldBeTrue)
				convey.So(oppA, convey.ShouldEqual, "tigers")
				convey.So(okB, convey.ShouldBeTrue)
				convey.So(oppB, convey.ShouldEqual, "lions")
				convey.So(okX, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When summing the games", func() {
			a, b := m.Totals()

			convey.Convey("Then each side gets its own points", func() {
				convey.So(a, convey.ShouldEqual, 29)
				convey.So(b, convey.ShouldEqual, 25)
			})
		})

		convey.Convey("When a game is inverted", func() {
			g := m.Games[0].Invert()

			convey.Convey("Then the scores swap", func() {
				convey.So(g, convey.ShouldResemble, model.Game{A: 5, B: 11})
			})
		})
	})

	convey.Convey("Given a zero-value match", t, func() {
		m := model.Match{}

		convey.Convey("Then it has no games and no winner", func() {
			a, b := m.Totals()
			convey.So(a, convey.ShouldEqual, 0)
			convey.So(b, convey.ShouldEqual, 0)
			convey.So(m.Winner, convey.ShouldEqual, "")
			convey.So(m.Completed, convey.ShouldBeFalse)
		})
	})
}
