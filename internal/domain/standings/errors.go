package standings

import "errors"

// Sentinel kinds for ranking configuration errors.
var (
	ErrUnknownCriterion = errors.New("unknown tiebreaker criterion")
)
