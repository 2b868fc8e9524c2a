package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/okian/standings/internal/domain/types"
)

// Ranking is the ranked table of one division.
type Ranking struct {
	DivisionID  string              `json:"divisionId,omitempty"`
	Standings   []types.StandingRow `json:"standings"`
	Diagnostics types.Diagnostics   `json:"diagnostics"`
	Tiebreakers []string            `json:"tiebreakers"`
}

// JobResult is delivered exactly once on a job's Done channel.
type JobResult struct {
	JobID   string
	Ranking Ranking
	Err     error
}

// Job is a division queued for ranking by the worker pool.
type Job struct {
	ID         string
	Division   Division
	EnqueuedAt time.Time

	// Cancel is the submitter's ctx.Done(); a closed channel means nobody is
	// waiting and the job is skipped.
	Cancel <-chan struct{}

	// Done is buffered so the worker never blocks on delivery.
	Done chan JobResult
}

// NewJob wraps a division with a fresh id and result channel.
func NewJob(d Division, cancel <-chan struct{}) Job {
	return Job{
		ID:         uuid.NewString(),
		Division:   d,
		EnqueuedAt: time.Now(),
		Cancel:     cancel,
		Done:       make(chan JobResult, 1),
	}
}

// Complete delivers the outcome of the job. Only the first call has effect.
func (j Job) Complete(r Ranking, err error) {
	select {
	case j.Done <- JobResult{JobID: j.ID, Ranking: r, Err: err}:
	default:
	}
}
