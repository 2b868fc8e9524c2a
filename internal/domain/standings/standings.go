// Package standings ranks competitors from match results.
//
// A ranking runs four stages in one synchronous pass: records are normalized
// by Extract, completed matches are folded into per-competitor totals, every
// group of competitors level on wins gets a mini-standings table built from
// the matches played inside the group, and finally the rows are ordered by a
// tiebreaker chain with the competitor id as last resort.
//
// The package holds no state between calls. A Ranker is immutable and safe
// for concurrent use.
package standings

import (
	"github.com/okian/standings/internal/domain/model"
	"github.com/okian/standings/internal/domain/types"
)

// Result is a ranked table plus the data-quality counters collected while
// building it.
type Result struct {
	Rows        []types.StandingRow
	Diagnostics types.Diagnostics
}

// Ranker ranks divisions with a fixed, validated tiebreaker chain.
type Ranker struct {
	chain Chain
	names []string
}

// NewRanker builds a Ranker. An unknown criterion fails here, before any
// ranking is attempted.
func NewRanker(opts ...Option) (*Ranker, error) {
	r := &Ranker{chain: DefaultChain()}

	for _, opt := range opts {
		opt(r)
	}

	if len(r.names) > 0 {
		chain, err := ParseChain(r.names)
		if err != nil {
			return nil, err
		}
		r.chain = chain
		r.names = nil
	}
	if err := r.chain.Validate(); err != nil {
		return nil, err
	}

	return r, nil
}

// Chain returns a copy of the ranker's tiebreaker chain.
func (r *Ranker) Chain() Chain {
	return append(Chain(nil), r.chain...)
}

// Rank extracts raw match records and ranks the competitors. Records without
// both side ids are skipped and counted as unusable.
func (r *Ranker) Rank(competitors []model.Competitor, raw []model.RawMatch) Result {
	matches := make([]model.Match, 0, len(raw))
	unusable := 0
	for _, rec := range raw {
		m, ok := Extract(rec)
		if !ok {
			unusable++
			continue
		}
		matches = append(matches, m)
	}

	res := r.RankMatches(competitors, matches)
	res.Diagnostics.MatchesReceived = len(raw)
	res.Diagnostics.Unusable = unusable
	return res
}

// RankMatches ranks competitors from already canonical matches.
func (r *Ranker) RankMatches(competitors []model.Competitor, matches []model.Match) Result {
	t := aggregate(competitors, matches)
	groups := resolveTieGroups(t)

	c := comparator{chain: r.chain, groups: groups}
	t.diag.IDFallbacks = c.order(t.rows)
	t.diag.TieGroups = len(groups)

	rows := make([]types.StandingRow, len(t.rows))
	for i, row := range t.rows {
		rows[i] = types.StandingRow{
			TeamID:            row.id,
			Name:              row.name,
			Wins:              row.wins,
			Losses:            row.losses,
			PointsFor:         row.pointsFor,
			PointsAgainst:     row.pointsAgainst,
			PointDifferential: row.differential(),
			GamesPlayed:       row.gamesPlayed,
			MatchHistory:      row.history,
			Rank:              i + 1,
		}
	}

	return Result{Rows: rows, Diagnostics: t.diag}
}

// Rank is a one-shot helper: it validates the named tiebreakers (default
// chain when none are given) and ranks the raw matches.
func Rank(competitors []model.Competitor, raw []model.RawMatch, tiebreakers ...string) ([]types.StandingRow, error) {
	r, err := NewRanker(WithTiebreakers(tiebreakers...))
	if err != nil {
		return nil, err
	}
	return r.Rank(competitors, raw).Rows, nil
}
