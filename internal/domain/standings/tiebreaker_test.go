package standings_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/okian/standings/internal/domain/standings"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseChain(t *testing.T) {
	Convey("Given tiebreaker names", t, func() {
		Convey("When no names are supplied", func() {
			chain, err := standings.ParseChain(nil)

			Convey("Then the default chain is used", func() {
				So(err, ShouldBeNil)
				So(chain.Strings(), ShouldResemble, []string{"wins", "head_to_head", "point_differential", "points_scored"})
			})
		})

		Convey("When names use mixed case and dashes", func() {
			chain, err := standings.ParseChain([]string{" Points-Scored ", "HEAD_TO_HEAD"})

			Convey("Then they resolve in order", func() {
				So(err, ShouldBeNil)
				So(chain, ShouldResemble, standings.Chain{standings.PointsScored, standings.HeadToHead})
			})
		})

		Convey("When a name is not recognised", func() {
			_, err := standings.ParseChain([]string{"wins", "coin_flip"})

			Convey("Then the whole chain is rejected", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, standings.ErrUnknownCriterion), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "coin_flip")
			})
		})

		Convey("When a name is empty", func() {
			_, err := standings.ParseChain([]string{""})

			Convey("Then it is rejected", func() {
				So(errors.Is(err, standings.ErrUnknownCriterion), ShouldBeTrue)
			})
		})
	})
}

func TestCriterionText(t *testing.T) {
	Convey("Given a chain encoded as JSON", t, func() {
		raw, err := json.Marshal(standings.Chain{standings.Wins, standings.PointDifferential})

		Convey("Then criteria encode by name", func() {
			So(err, ShouldBeNil)
			So(string(raw), ShouldEqual, `["wins","point_differential"]`)
		})

		Convey("And decode back", func() {
			var chain standings.Chain
			So(json.Unmarshal(raw, &chain), ShouldBeNil)
			So(chain, ShouldResemble, standings.Chain{standings.Wins, standings.PointDifferential})
		})
	})

	Convey("Given an out-of-range criterion", t, func() {
		bad := standings.Criterion(42)

		Convey("Then it is invalid and cannot be encoded", func() {
			So(bad.Valid(), ShouldBeFalse)
			So(bad.String(), ShouldEqual, "criterion(42)")
			_, err := bad.MarshalText()
			So(errors.Is(err, standings.ErrUnknownCriterion), ShouldBeTrue)
			So(standings.Chain{standings.Wins, bad}.Validate(), ShouldNotBeNil)
		})
	})
}
