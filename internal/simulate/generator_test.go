package simulate

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/okian/standings/internal/domain/model"
	"github.com/okian/standings/internal/domain/standings"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRoundRobin(t *testing.T) {
	Convey("Given the circle method", t, func() {
		for _, n := range []int{2, 5, 6, 9} {
			rounds := roundRobin(n)
			seen := map[[2]int]int{}
			for _, pairs := range rounds {
				busy := map[int]bool{}
				for _, p := range pairs {
					So(busy[p[0]] || busy[p[1]], ShouldBeFalse)
					busy[p[0]], busy[p[1]] = true, true
					key := p
					if key[0] > key[1] {
						key[0], key[1] = key[1], key[0]
					}
					seen[key]++
				}
			}

			Convey(fmt.Sprintf("Then every pair meets exactly once for n=%d", n), func() {
				So(seen, ShouldHaveLength, n*(n-1)/2)
				for _, count := range seen {
					So(count, ShouldEqual, 1)
				}
			})
		}

		Convey("Then fewer than two competitors play nothing", func() {
			So(roundRobin(1), ShouldBeEmpty)
			So(roundRobin(0), ShouldBeEmpty)
		})
	})
}

func TestGenerator_League(t *testing.T) {
	Convey("Given a seeded generator", t, func() {
		d := NewGenerator(42).League("north", 7)

		Convey("Then the league is a full round robin", func() {
			So(d.ID, ShouldEqual, "north")
			So(d.Competitors, ShouldHaveLength, 7)
			So(d.Matches, ShouldHaveLength, 21)

			ids := map[string]bool{}
			for _, c := range d.Competitors {
				So(c.Name, ShouldNotBeBlank)
				ids[c.ID] = true
			}
			So(ids, ShouldHaveLength, 7)

			pairs := map[string]bool{}
			for _, raw := range d.Matches {
				m, ok := standings.Extract(raw)
				So(ok, ShouldBeTrue)
				So(ids[m.SideA] && ids[m.SideB], ShouldBeTrue)
				So(m.SideA, ShouldNotEqual, m.SideB)
				if m.Completed {
					So([]string{m.SideA, m.SideB}, ShouldContain, m.Winner)
				}
				key := m.SideA + m.SideB
				if m.SideB < m.SideA {
					key = m.SideB + m.SideA
				}
				So(pairs[key], ShouldBeFalse)
				pairs[key] = true
			}
		})

		Convey("Then the same seed yields the same league", func() {
			again := NewGenerator(42).League("north", 7)
			So(cmp.Diff(d, again), ShouldBeEmpty)
		})

		Convey("Then competitor ids depend only on the division", func() {
			other := NewGenerator(7).League("north", 7)
			for i := range d.Competitors {
				So(other.Competitors[i].ID, ShouldEqual, d.Competitors[i].ID)
			}
		})

		Convey("When shuffling", func() {
			g := NewGenerator(3)
			s := g.Shuffle(d)

			Convey("Then the copy holds the same records and the original is untouched", func() {
				So(s.Competitors, ShouldHaveLength, len(d.Competitors))
				So(s.Matches, ShouldHaveLength, len(d.Matches))
				So(cmp.Diff(d, NewGenerator(42).League("north", 7)), ShouldBeEmpty)
			})
		})
	})
}

func TestRender(t *testing.T) {
	Convey("Given a canonical match", t, func() {
		matches := []model.Match{
			{ID: "m1", Round: 2, SideA: "A", SideB: "B", Completed: true, Winner: "B",
				Games: []model.Game{{A: 11, B: 7}, {A: 5, B: 11}, {A: 9, B: 11}}},
			{ID: "m2", Round: 3, SideA: "C", SideB: "D"},
		}

		Convey("Then every shape reads back the same result", func() {
			for _, m := range matches {
				for shape := 0; shape < shapeCount; shape++ {
					got, ok := standings.Extract(render(m, shape))
					So(ok, ShouldBeTrue)
					So(got.SideA, ShouldEqual, m.SideA)
					So(got.SideB, ShouldEqual, m.SideB)
					So(got.Completed, ShouldEqual, m.Completed)
					So(got.Winner, ShouldEqual, m.Winner)

					wantA, wantB := m.Totals()
					gotA, gotB := got.Totals()
					So(gotA, ShouldEqual, wantA)
					So(gotB, ShouldEqual, wantB)
				}
			}
		})
	})
}
