package standings

import (
	"cmp"
	"slices"

	"github.com/okian/standings/internal/domain/model"
	"github.com/okian/standings/internal/domain/types"
)

// tally holds a competitor's running totals while a table is built.
type tally struct {
	id            string
	name          string
	wins          int
	losses        int
	pointsFor     int
	pointsAgainst int
	gamesPlayed   int
	history       []types.HistoryEntry
}

func (t *tally) differential() int {
	return t.pointsFor - t.pointsAgainst
}

// table is the aggregated state of a single ranking invocation.
type table struct {
	rows    []*tally // ordered by competitor id
	byID    map[string]*tally
	counted []model.Match // completed matches between two known competitors, canonical order
	diag    types.Diagnostics
}

// aggregate folds completed matches into one tally per competitor.
// Competitors without a counted match keep an all-zero tally.
func aggregate(competitors []model.Competitor, matches []model.Match) *table {
	t := &table{byID: make(map[string]*tally, len(competitors))}

	for _, c := range competitors {
		if c.ID == "" {
			continue
		}
		if existing, ok := t.byID[c.ID]; ok {
			// Duplicate ids collapse; the smallest name wins so input order is irrelevant.
			if c.Name < existing.name {
				existing.name = c.Name
			}
			continue
		}
		row := &tally{id: c.ID, name: c.Name, history: []types.HistoryEntry{}}
		t.byID[c.ID] = row
		t.rows = append(t.rows, row)
	}
	slices.SortFunc(t.rows, func(a, b *tally) int { return cmp.Compare(a.id, b.id) })

	t.diag.MatchesReceived = len(matches)
	t.counted = make([]model.Match, 0, len(matches))
	for _, m := range matches {
		switch {
		case !m.Completed:
			t.diag.Incomplete++
		case m.SideA == m.SideB:
			t.diag.SelfMatch++
		case t.byID[m.SideA] == nil || t.byID[m.SideB] == nil:
			t.diag.UnknownCompetitor++
		default:
			t.counted = append(t.counted, m)
		}
	}
	slices.SortFunc(t.counted, compareMatches)
	t.diag.MatchesCounted = len(t.counted)

	for _, m := range t.counted {
		t.fold(m)
	}

	return t
}

func (t *table) fold(m model.Match) {
	a := t.byID[m.SideA]
	b := t.byID[m.SideB]

	a.gamesPlayed++
	b.gamesPlayed++

	for _, g := range m.Games {
		a.pointsFor += g.A
		a.pointsAgainst += g.B
		b.pointsFor += g.B
		b.pointsAgainst += g.A
	}

	switch m.Winner {
	case m.SideA:
		a.wins++
		b.losses++
	case m.SideB:
		b.wins++
		a.losses++
	default:
		t.diag.NoWinner++
		return
	}
	a.history = append(a.history, types.HistoryEntry{OpponentID: b.id, Won: m.Winner == a.id})
	b.history = append(b.history, types.HistoryEntry{OpponentID: a.id, Won: m.Winner == b.id})
}

// compareMatches is a total order over every field of a match so that the
// fold order, and therefore match history, never depends on input order.
func compareMatches(x, y model.Match) int {
	if c := cmp.Compare(x.Round, y.Round); c != 0 {
		return c
	}
	if c := cmp.Compare(x.ID, y.ID); c != 0 {
		return c
	}
	if c := cmp.Compare(x.SideA, y.SideA); c != 0 {
		return c
	}
	if c := cmp.Compare(x.SideB, y.SideB); c != 0 {
		return c
	}
	if c := cmp.Compare(x.Winner, y.Winner); c != 0 {
		return c
	}
	return slices.CompareFunc(x.Games, y.Games, func(g, h model.Game) int {
		if c := cmp.Compare(g.A, h.A); c != 0 {
			return c
		}
		return cmp.Compare(g.B, h.B)
	})
}
