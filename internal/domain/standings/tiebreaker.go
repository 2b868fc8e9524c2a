package standings

import (
	"fmt"
	"strings"
)

// Criterion is one rule of a tiebreaker chain.
type Criterion uint8

// Recognised criteria. The zero value is deliberately invalid.
const (
	criterionInvalid Criterion = iota
	Wins
	HeadToHead
	PointDifferential
	PointsScored
)

var criterionNames = [...]string{
	criterionInvalid:  "invalid",
	Wins:              "wins",
	HeadToHead:        "head_to_head",
	PointDifferential: "point_differential",
	PointsScored:      "points_scored",
}

// Criteria returns every recognised criterion in default chain order.
func Criteria() []Criterion {
	return []Criterion{Wins, HeadToHead, PointDifferential, PointsScored}
}

// String returns the configuration name of the criterion.
func (c Criterion) String() string {
	if int(c) < len(criterionNames) {
		return criterionNames[c]
	}
	return fmt.Sprintf("criterion(%d)", uint8(c))
}

// Valid reports whether c is a recognised criterion.
func (c Criterion) Valid() bool {
	return c > criterionInvalid && int(c) < len(criterionNames)
}

// ParseCriterion resolves a criterion name. Matching ignores case, surrounding
// space and accepts '-' in place of '_'.
func ParseCriterion(name string) (Criterion, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	for _, c := range Criteria() {
		if criterionNames[c] == key {
			return c, nil
		}
	}
	return criterionInvalid, fmt.Errorf("%w: %q", ErrUnknownCriterion, name)
}

// MarshalText implements encoding.TextMarshaler.
func (c Criterion) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCriterion, c)
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Criterion) UnmarshalText(text []byte) error {
	parsed, err := ParseCriterion(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Chain is an ordered list of criteria applied until one separates two rows.
type Chain []Criterion

// DefaultChain returns wins, head_to_head, point_differential, points_scored.
func DefaultChain() Chain {
	return Chain(Criteria())
}

// ParseChain resolves criterion names in order. An empty list yields the
// default chain. Any unknown name fails the whole chain.
func ParseChain(names []string) (Chain, error) {
	if len(names) == 0 {
		return DefaultChain(), nil
	}
	chain := make(Chain, 0, len(names))
	for _, name := range names {
		c, err := ParseCriterion(name)
		if err != nil {
			return nil, err
		}
		chain = append(chain, c)
	}
	return chain, nil
}

// Validate rejects chains holding values outside the recognised set.
func (ch Chain) Validate() error {
	for i, c := range ch {
		if !c.Valid() {
			return fmt.Errorf("%w: position %d holds %s", ErrUnknownCriterion, i, c)
		}
	}
	return nil
}

// Strings returns the configuration names of the chain.
func (ch Chain) Strings() []string {
	out := make([]string, len(ch))
	for i, c := range ch {
		out[i] = c.String()
	}
	return out
}
