package simulate

import (
	"fmt"

	"github.com/okian/standings/internal/domain/model"
	"github.com/okian/standings/internal/domain/standings"
	"github.com/okian/standings/internal/domain/types"
)

// CheckInvariants validates a ranked table against the division it came from:
// every competitor appears once, ranks run 1..n and each row's totals are
// consistent. When the chain starts with wins, wins never increase down the
// table.
func CheckInvariants(d model.Division, r model.Ranking) error {
	known := make(map[string]bool, len(d.Competitors))
	for _, c := range d.Competitors {
		if c.ID != "" {
			known[c.ID] = true
		}
	}

	rows := r.Standings
	if len(rows) != len(known) {
		return fmt.Errorf("%w: %d rows for %d competitors", ErrInvariant, len(rows), len(known))
	}
	byWins := len(r.Tiebreakers) > 0 && r.Tiebreakers[0] == standings.Wins.String()

	seen := make(map[string]bool, len(rows))
	for i, row := range rows {
		switch {
		case !known[row.TeamID]:
			return fmt.Errorf("%w: unknown competitor %q", ErrInvariant, row.TeamID)
		case seen[row.TeamID]:
			return fmt.Errorf("%w: competitor %q listed twice", ErrInvariant, row.TeamID)
		case row.Rank != i+1:
			return fmt.Errorf("%w: row %d has rank %d", ErrInvariant, i, row.Rank)
		case byWins && i > 0 && row.Wins > rows[i-1].Wins:
			return fmt.Errorf("%w: %q has more wins than %q above it", ErrInvariant, row.TeamID, rows[i-1].TeamID)
		case row.PointDifferential != row.PointsFor-row.PointsAgainst:
			return fmt.Errorf("%w: %q point differential is inconsistent", ErrInvariant, row.TeamID)
		case len(row.MatchHistory) != row.Wins+row.Losses:
			return fmt.Errorf("%w: %q history has %d entries for %d decisions", ErrInvariant, row.TeamID, len(row.MatchHistory), row.Wins+row.Losses)
		}
		seen[row.TeamID] = true
	}
	return nil
}

// CheckLocal ranks d in-process with the chain the service reported and
// compares the result with the service's table.
func CheckLocal(d model.Division, got model.Ranking) error {
	ranker, err := standings.NewRanker(standings.WithTiebreakers(got.Tiebreakers...))
	if err != nil {
		return fmt.Errorf("%w: service reported chain %v: %w", ErrUnexpected, got.Tiebreakers, err)
	}
	want := ranker.Rank(d.Competitors, d.Matches)
	return SameTable(want.Rows, got.Standings)
}

// SameTable reports the first difference between two tables.
func SameTable(want, got []types.StandingRow) error {
	if len(want) != len(got) {
		return fmt.Errorf("%w: %d rows, want %d", ErrMismatch, len(got), len(want))
	}
	for i := range want {
		w, g := want[i], got[i]
		if w.TeamID != g.TeamID {
			return fmt.Errorf("%w: rank %d is %q, want %q", ErrMismatch, i+1, g.TeamID, w.TeamID)
		}
		if w.Name != g.Name || w.Wins != g.Wins || w.Losses != g.Losses ||
			w.PointsFor != g.PointsFor || w.PointsAgainst != g.PointsAgainst ||
			w.GamesPlayed != g.GamesPlayed || w.Rank != g.Rank {
			return fmt.Errorf("%w: row for %q differs", ErrMismatch, w.TeamID)
		}
		if len(w.MatchHistory) != len(g.MatchHistory) {
			return fmt.Errorf("%w: history for %q differs", ErrMismatch, w.TeamID)
		}
		for j := range w.MatchHistory {
			if w.MatchHistory[j] != g.MatchHistory[j] {
				return fmt.Errorf("%w: history for %q differs at %d", ErrMismatch, w.TeamID, j)
			}
		}
	}
	return nil
}
