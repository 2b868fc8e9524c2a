package standings

// miniStanding is a competitor's record inside its own tie-group.
type miniStanding struct {
	wins              int
	pointDifferential int
}

// tieGroup is the shadow mini-league of every competitor sharing a win count.
type tieGroup struct {
	wins    int
	members map[string]*miniStanding
}

// resolveTieGroups partitions the table by wins and builds the mini-standings
// of every group with two or more members. The result is keyed by the
// group's win count and is complete before any comparison runs.
//
// A counted match is intra-group exactly when both sides have the same win
// count, so one pass over the matches serves every group.
func resolveTieGroups(t *table) map[int]*tieGroup {
	sizes := make(map[int]int)
	for _, r := range t.rows {
		sizes[r.wins]++
	}

	groups := make(map[int]*tieGroup)
	for _, r := range t.rows {
		if sizes[r.wins] < 2 {
			continue
		}
		g, ok := groups[r.wins]
		if !ok {
			g = &tieGroup{wins: r.wins, members: make(map[string]*miniStanding, sizes[r.wins])}
			groups[r.wins] = g
		}
		g.members[r.id] = &miniStanding{}
	}

	for _, m := range t.counted {
		a, b := t.byID[m.SideA], t.byID[m.SideB]
		if a.wins != b.wins {
			continue
		}
		g := groups[a.wins]
		ma, mb := g.members[a.id], g.members[b.id]

		pa, pb := m.Totals()
		ma.pointDifferential += pa - pb
		mb.pointDifferential += pb - pa

		switch m.Winner {
		case a.id:
			ma.wins++
		case b.id:
			mb.wins++
		}
	}

	return groups
}
