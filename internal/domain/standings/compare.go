package standings

import (
	"cmp"
	"slices"
)

// compare applies one criterion to a pair of rows. A negative result means a
// ranks above b; zero means the criterion cannot separate them.
func (c Criterion) compare(a, b *tally, groups map[int]*tieGroup) int {
	switch c {
	case Wins:
		return cmp.Compare(b.wins, a.wins)
	case HeadToHead:
		// Meaningless across different win counts: fall through to the next rule.
		if a.wins != b.wins {
			return 0
		}
		g, ok := groups[a.wins]
		if !ok {
			return 0
		}
		ma, mb := g.members[a.id], g.members[b.id]
		if r := cmp.Compare(mb.wins, ma.wins); r != 0 {
			return r
		}
		return cmp.Compare(mb.pointDifferential, ma.pointDifferential)
	case PointDifferential:
		return cmp.Compare(b.differential(), a.differential())
	case PointsScored:
		return cmp.Compare(b.pointsFor, a.pointsFor)
	}
	return 0
}

// comparator evaluates a chain over cached tie-groups.
type comparator struct {
	chain  Chain
	groups map[int]*tieGroup
}

// criteria returns the first non-zero criterion result, or zero when the
// whole chain ties.
func (c comparator) criteria(a, b *tally) int {
	for _, crit := range c.chain {
		if r := crit.compare(a, b, c.groups); r != 0 {
			return r
		}
	}
	return 0
}

// compare is a strict total order: exact ties fall back to the competitor id.
func (c comparator) compare(a, b *tally) int {
	if r := c.criteria(a, b); r != 0 {
		return r
	}
	return cmp.Compare(a.id, b.id)
}

// order sorts rows in ranking order and reports how many adjacent pairs were
// separated only by the id fallback. Rows arrive sorted by id and the sort is
// stable, so even a chain that is not transitive (head_to_head placed ahead of
// wins) yields the same order for the same input.
func (c comparator) order(rows []*tally) int {
	slices.SortStableFunc(rows, c.compare)

	fallbacks := 0
	for i := 1; i < len(rows); i++ {
		if c.criteria(rows[i-1], rows[i]) == 0 {
			fallbacks++
		}
	}
	return fallbacks
}
