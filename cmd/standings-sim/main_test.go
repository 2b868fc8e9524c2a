package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/standings/internal/domain/model"
)

func execute(args ...string) (string, error) {
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCLI(t *testing.T) {
	convey.Convey("Given a generated league file", t, func() {
		dir := t.TempDir()
		file := filepath.Join(dir, "league.yaml")
		_, err := execute("generate", "--teams", "6", "--out", file, "--id", "north", "--seed", "9")
		convey.So(err, convey.ShouldBeNil)

		_, statErr := os.Stat(file)
		convey.So(statErr, convey.ShouldBeNil)

		convey.Convey("When it is ranked", func() {
			out, err := execute("rank", "--file", file)
			convey.So(err, convey.ShouldBeNil)

			var r model.Ranking
			convey.So(json.Unmarshal([]byte(out), &r), convey.ShouldBeNil)

			convey.Convey("Then the full table is printed", func() {
				convey.So(r.DivisionID, convey.ShouldEqual, "north")
				convey.So(r.Standings, convey.ShouldHaveLength, 6)
				convey.So(r.Diagnostics.MatchesReceived, convey.ShouldEqual, 15)
				for i, row := range r.Standings {
					convey.So(row.Rank, convey.ShouldEqual, i+1)
				}
			})
		})

		convey.Convey("When it is ranked with a custom chain", func() {
			out, err := execute("rank", "--file", file, "--tiebreakers", "points_scored")
			convey.So(err, convey.ShouldBeNil)

			var r model.Ranking
			convey.So(json.Unmarshal([]byte(out), &r), convey.ShouldBeNil)

			convey.Convey("Then rows are ordered by points scored", func() {
				convey.So(r.Tiebreakers, convey.ShouldResemble, []string{"points_scored"})
				for i := 1; i < len(r.Standings); i++ {
					convey.So(r.Standings[i].PointsFor, convey.ShouldBeLessThanOrEqualTo, r.Standings[i-1].PointsFor)
				}
			})
		})

		convey.Convey("When the chain names an unknown criterion", func() {
			_, err := execute("rank", "--file", file, "--tiebreakers", "coin_flip")

			convey.Convey("Then the command fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})

	convey.Convey("Given too few teams", t, func() {
		_, err := execute("generate", "--teams", "1", "--out", filepath.Join(t.TempDir(), "x.json"))

		convey.Convey("Then generation is refused", func() {
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}
