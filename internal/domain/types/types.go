// Package types contains common types used across the application
package types

// HistoryEntry records the outcome of one decided match from a competitor's view.
type HistoryEntry struct {
	OpponentID string `json:"opponentId"`
	Won        bool   `json:"won"`
}

// StandingRow is one competitor's line in a ranked standings table.
type StandingRow struct {
	TeamID            string         `json:"teamId"`
	Name              string         `json:"name"`
	Wins              int            `json:"wins"`
	Losses            int            `json:"losses"`
	PointsFor         int            `json:"pointsFor"`
	PointsAgainst     int            `json:"pointsAgainst"`
	PointDifferential int            `json:"pointDifferential"`
	GamesPlayed       int            `json:"gamesPlayed"`
	MatchHistory      []HistoryEntry `json:"matchHistory"`
	Rank              int            `json:"rank"`
}

// Diagnostics counts the data-quality decisions taken while ranking.
type Diagnostics struct {
	MatchesReceived   int `json:"matchesReceived"`
	MatchesCounted    int `json:"matchesCounted"`
	Unusable          int `json:"unusable"`          // missing a side id
	Incomplete        int `json:"incomplete"`        // not completed yet
	UnknownCompetitor int `json:"unknownCompetitor"` // side not in the competitor set
	SelfMatch         int `json:"selfMatch"`         // both sides identical
	NoWinner          int `json:"noWinner"`          // counted, but no decided winner
	TieGroups         int `json:"tieGroups"`         // groups of two or more on equal wins
	IDFallbacks       int `json:"idFallbacks"`       // adjacent pairs ordered only by id
}

// Dropped returns how many received matches did not contribute to the table.
func (d Diagnostics) Dropped() int {
	return d.Unusable + d.Incomplete + d.UnknownCompetitor + d.SelfMatch
}
