package types_test

import (
	"encoding/json"
	"testing"

	types "github.com/okian/standings/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestStandingRow(t *testing.T) {
	Convey("Given a StandingRow", t, func() {
		row := types.StandingRow{
			TeamID:            "t1",
			Name:              "Lions",
			Wins:              2,
			Losses:            1,
			PointsFor:         31,
			PointsAgainst:     23,
			PointDifferential: 8,
			GamesPlayed:       3,
			MatchHistory:      []types.HistoryEntry{{OpponentID: "t2", Won: true}},
			Rank:              1,
		}

		Convey("When encoding it as JSON", func() {
			raw, err := json.Marshal(row)
			So(err, ShouldBeNil)

			var fields map[string]any
			So(json.Unmarshal(raw, &fields), ShouldBeNil)

			Convey("Then the wire names are camelCase", func() {
				So(fields, ShouldContainKey, "teamId")
				So(fields, ShouldContainKey, "pointDifferential")
				So(fields, ShouldContainKey, "matchHistory")
				So(fields["rank"], ShouldEqual, 1)
			})
		})
	})
}

func TestDiagnostics(t *testing.T) {
	Convey("Given diagnostics with drops of every kind", t, func() {
		d := types.Diagnostics{Unusable: 1, Incomplete: 2, UnknownCompetitor: 3, SelfMatch: 4, NoWinner: 5}

		Convey("Then Dropped excludes counted no-winner matches", func() {
			So(d.Dropped(), ShouldEqual, 10)
		})
	})
}
