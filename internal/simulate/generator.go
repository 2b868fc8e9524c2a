package simulate

import (
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"

	"github.com/okian/standings/internal/domain/model"
)

// Score generation ranges.
const (
	maxGames        = 3
	incompletePct   = 4 // percent of matches left unplayed
	shortGameTarget = 11
	longGameTarget  = 21
)

// Record shapes an upstream writer may use for a match.
const (
	shapeCanonical = iota
	shapeTournament
	shapeLeague
	shapeTotals
	shapeCount
)

// Generator builds synthetic round-robin leagues. A Generator is not safe for
// concurrent use; the same seed always yields the same leagues.
type Generator struct {
	faker *gofakeit.Faker
}

// NewGenerator creates a generator seeded with seed. Zero picks a random seed.
func NewGenerator(seed uint64) *Generator {
	return &Generator{faker: gofakeit.New(seed)}
}

// League returns a division of teams competitors where every pair meets once.
// Competitor ids are stable for a given division id.
func (g *Generator) League(divisionID string, teams int) model.Division {
	competitors := make([]model.Competitor, teams)
	for i := range competitors {
		competitors[i] = model.Competitor{
			ID:   uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%s/%d", divisionID, i))).String(),
			Name: g.teamName(),
		}
	}

	var matches []model.RawMatch
	for round, pairs := range roundRobin(teams) {
		for _, p := range pairs {
			a, b := competitors[p[0]].ID, competitors[p[1]].ID
			if round%2 == 1 {
				a, b = b, a
			}
			matches = append(matches, g.match(round+1, a, b))
		}
	}

	return model.Division{ID: divisionID, Competitors: competitors, Matches: matches}
}

// Shuffle returns a copy of d with competitors and matches permuted.
func (g *Generator) Shuffle(d model.Division) model.Division {
	out := d
	out.Competitors = append([]model.Competitor(nil), d.Competitors...)
	out.Matches = append([]model.RawMatch(nil), d.Matches...)
	g.faker.ShuffleAnySlice(out.Competitors)
	g.faker.ShuffleAnySlice(out.Matches)
	return out
}

func (g *Generator) teamName() string {
	animal := g.faker.Animal()
	if animal != "" {
		animal = strings.ToUpper(animal[:1]) + animal[1:]
	}
	return g.faker.City() + " " + animal
}

// roundRobin schedules n competitors with the circle method. Each round lists
// index pairs; with an odd n one competitor sits out every round.
func roundRobin(n int) [][][2]int {
	if n < 2 {
		return nil
	}
	slots := make([]int, n)
	for i := range slots {
		slots[i] = i
	}
	if n%2 == 1 {
		slots = append(slots, -1)
	}
	size := len(slots)

	rounds := make([][][2]int, 0, size-1)
	for r := 0; r < size-1; r++ {
		var pairs [][2]int
		for i := 0; i < size/2; i++ {
			a, b := slots[i], slots[size-1-i]
			if a >= 0 && b >= 0 {
				pairs = append(pairs, [2]int{a, b})
			}
		}
		rounds = append(rounds, pairs)

		// Keep slot 0 fixed and rotate the rest one step.
		last := slots[size-1]
		copy(slots[2:], slots[1:size-1])
		slots[1] = last
	}
	return rounds
}

// match plays a match between a and b and renders it in a random shape.
func (g *Generator) match(round int, a, b string) model.RawMatch {
	completed := g.faker.Number(1, 100) > incompletePct
	target := shortGameTarget
	if g.faker.Bool() {
		target = longGameTarget
	}

	var games []model.Game
	var winner string
	if completed {
		var wonA, wonB int
		for len(games) < maxGames && wonA < 2 && wonB < 2 {
			loser := g.faker.Number(0, target-2)
			if g.faker.Bool() {
				games = append(games, model.Game{A: target, B: loser})
				wonA++
			} else {
				games = append(games, model.Game{A: loser, B: target})
				wonB++
			}
		}
		if wonA > wonB {
			winner = a
		} else {
			winner = b
		}
	}

	m := model.Match{
		ID:        uuid.NewSHA1(uuid.NameSpaceOID, []byte(a+"|"+b)).String(),
		Round:     round,
		SideA:     a,
		SideB:     b,
		Completed: completed,
		Winner:    winner,
		Games:     games,
	}
	return render(m, g.faker.Number(0, shapeCount-1))
}

// render writes m in one of the record shapes the extractor understands.
func render(m model.Match, shape int) model.RawMatch {
	switch shape {
	case shapeTournament:
		sets := make([]any, len(m.Games))
		for i, gm := range m.Games {
			sets[i] = []any{gm.A, gm.B}
		}
		status := "scheduled"
		if m.Completed {
			status = "final"
		}
		return model.RawMatch{
			"matchId":  m.ID,
			"week":     m.Round,
			"teamA":    map[string]any{"id": m.SideA},
			"teamB":    map[string]any{"teamId": m.SideB},
			"status":   status,
			"winnerId": m.Winner,
			"sets":     sets,
		}
	case shapeLeague:
		scores := make([]any, len(m.Games))
		for i, gm := range m.Games {
			scores[i] = map[string]any{"home": gm.A, "away": gm.B}
		}
		return model.RawMatch{
			"id":            m.ID,
			"round":         m.Round,
			"homeTeamId":    m.SideA,
			"awayTeamId":    m.SideB,
			"isComplete":    fmt.Sprint(m.Completed),
			"winningTeamId": m.Winner,
			"scores":        scores,
		}
	case shapeTotals:
		a, b := m.Totals()
		complete := 0
		if m.Completed {
			complete = 1
		}
		return model.RawMatch{
			"id":           m.ID,
			"team1":        m.SideA,
			"team2":        m.SideB,
			"complete":     complete,
			"winnerTeamId": m.Winner,
			"team1Score":   a,
			"team2Score":   b,
		}
	default:
		games := make([]any, len(m.Games))
		for i, gm := range m.Games {
			games[i] = map[string]any{"scoreA": gm.A, "scoreB": gm.B}
		}
		return model.RawMatch{
			"id":        m.ID,
			"round":     m.Round,
			"sideA":     m.SideA,
			"sideB":     m.SideB,
			"completed": m.Completed,
			"winner":    m.Winner,
			"games":     games,
		}
	}
}
