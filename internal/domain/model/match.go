// Package model contains domain models passed between layers.
package model

// Competitor is a team or player taking part in a division.
type Competitor struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// RawMatch is a match record exactly as an upstream writer produced it.
// Only the standings extractor interprets its fields.
type RawMatch = map[string]any

// Game is the score of a single game (set, frame, leg) within a match.
type Game struct {
	A int // points scored by side A
	B int // points scored by side B
}

// Invert returns the game seen from side B.
func (g Game) Invert() Game {
	return Game{A: g.B, B: g.A}
}

// Match is the canonical shape of a match result.
type Match struct {
	ID        string // optional upstream identifier
	Round     int    // optional week/round number, 0 when unknown
	SideA     string
	SideB     string
	Completed bool
	Winner    string // empty when no winner was recorded
	Games     []Game
}

// Opponent returns the other side of the match for id.
func (m Match) Opponent(id string) (string, bool) {
	switch id {
	case m.SideA:
		return m.SideB, true
	case m.SideB:
		return m.SideA, true
	}
	return "", false
}

// Totals sums the points of all games for each side.
func (m Match) Totals() (a, b int) {
	for _, g := range m.Games {
		a += g.A
		b += g.B
	}
	return a, b
}

// Division is one independent ranking unit: a pool, group or league table.
type Division struct {
	ID          string       `json:"id" yaml:"id"`
	Competitors []Competitor `json:"competitors" yaml:"competitors"`
	Matches     []RawMatch   `json:"matches" yaml:"matches"`
	Tiebreakers []string     `json:"tiebreakers,omitempty" yaml:"tiebreakers,omitempty"`
}
