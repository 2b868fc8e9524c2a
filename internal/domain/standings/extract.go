package standings

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/okian/standings/internal/domain/model"
)

// maxScore bounds coerced scores; larger magnitudes lose integer precision
// in float64 and are treated as malformed.
const maxScore = 1 << 53

// Field aliases used by the upstream writers, checked in order.
var (
	idKeys        = []string{"id", "matchId"}
	roundKeys     = []string{"round", "week"}
	sideAKeys     = []string{"sideA", "teamA", "team1", "team1Id", "homeTeamId", "home", "player1"}
	sideBKeys     = []string{"sideB", "teamB", "team2", "team2Id", "awayTeamId", "away", "player2"}
	winnerKeys    = []string{"winner", "winnerId", "winningTeamId", "winnerTeamId"}
	completedKeys = []string{"completed", "isComplete", "complete"}
	gamesKeys     = []string{"games", "scores", "sets"}
	refKeys       = []string{"id", "teamId"}

	gamePairs = [][2]string{
		{"scoreA", "scoreB"},
		{"teamAScore", "teamBScore"},
		{"team1Score", "team2Score"},
		{"sideAScore", "sideBScore"},
		{"a", "b"},
		{"home", "away"},
	}
	matchPairs = [][2]string{
		{"scoreA", "scoreB"},
		{"team1Score", "team2Score"},
		{"homeScore", "awayScore"},
	}

	completedStatuses = map[string]bool{
		"completed": true,
		"complete":  true,
		"final":     true,
		"finished":  true,
		"confirmed": true,
	}
)

// Extract normalizes one upstream match record. It returns false when either
// side id is missing; every other defect is repaired (scores default to zero,
// unknown winners are dropped) so a single bad field never discards a match.
func Extract(raw model.RawMatch) (model.Match, bool) {
	if raw == nil {
		return model.Match{}, false
	}

	sideA := identifier(lookup(raw, sideAKeys...))
	sideB := identifier(lookup(raw, sideBKeys...))
	if sideA == "" || sideB == "" {
		return model.Match{}, false
	}

	m := model.Match{
		ID:        identifier(lookup(raw, idKeys...)),
		Round:     score(lookup(raw, roundKeys...)),
		SideA:     sideA,
		SideB:     sideB,
		Completed: completed(raw),
		Games:     games(raw),
	}

	if w := identifier(lookup(raw, winnerKeys...)); w == sideA || w == sideB {
		m.Winner = w
	}

	return m, true
}

// lookup returns the first non-nil value stored under one of keys.
func lookup(raw map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// identifier renders an id that may arrive as a string, a number or an
// embedded object carrying its own id.
func identifier(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case json.Number:
		return x.String()
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return ""
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case map[string]any:
		return identifier(lookup(x, refKeys...))
	default:
		return ""
	}
}

// number converts the numeric shapes JSON and YAML decoders produce.
func number(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// score coerces v to an integer score. Anything that is not a finite,
// representable number becomes 0. Fractions truncate toward zero.
func score(v any) int {
	f, ok := number(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) >= maxScore {
		return 0
	}
	return int(f)
}

func truthy(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		return b, err == nil
	default:
		if f, ok := number(v); ok {
			return f != 0, true
		}
		return false, false
	}
}

func completed(raw map[string]any) bool {
	if b, ok := truthy(lookup(raw, completedKeys...)); ok {
		return b
	}
	if s, ok := raw["status"].(string); ok {
		return completedStatuses[strings.ToLower(strings.TrimSpace(s))]
	}
	return false
}

func games(raw map[string]any) []model.Game {
	switch list := lookup(raw, gamesKeys...).(type) {
	case []any:
		out := make([]model.Game, 0, len(list))
		for _, item := range list {
			out = append(out, game(item))
		}
		return out
	case []map[string]any:
		out := make([]model.Game, 0, len(list))
		for _, item := range list {
			out = append(out, pair(item, gamePairs))
		}
		return out
	case []model.Game:
		return append([]model.Game(nil), list...)
	}

	for _, p := range matchPairs {
		if _, okA := raw[p[0]]; okA {
			return []model.Game{pair(raw, [][2]string{p})}
		}
		if _, okB := raw[p[1]]; okB {
			return []model.Game{pair(raw, [][2]string{p})}
		}
	}
	return nil
}

// game decodes one element of a games list. Malformed elements count as a
// 0-0 game.
func game(item any) model.Game {
	switch x := item.(type) {
	case map[string]any:
		return pair(x, gamePairs)
	case []any:
		if len(x) >= 2 {
			return model.Game{A: score(x[0]), B: score(x[1])}
		}
	case model.Game:
		return x
	}
	return model.Game{}
}

// pair reads the first key pair with at least one key present.
func pair(raw map[string]any, pairs [][2]string) model.Game {
	for _, p := range pairs {
		a, okA := raw[p[0]]
		b, okB := raw[p[1]]
		if okA || okB {
			return model.Game{A: score(a), B: score(b)}
		}
	}
	return model.Game{}
}
