// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	jobqueue "github.com/okian/standings/internal/adapters/mq/queue"
	workerpool "github.com/okian/standings/internal/adapters/mq/worker"
	"github.com/okian/standings/internal/domain/model"
	"github.com/okian/standings/internal/domain/standings"
	"github.com/okian/standings/internal/domain/types"
	"github.com/okian/standings/pkg/logger"
	"github.com/okian/standings/pkg/metrics"
)

const (
	tracerName          = "github.com/okian/standings/internal/app"
	stopTimeout         = 10 * time.Second
	defaultBatchTimeout = 5 * time.Second
)

// BatchItem is the outcome of one division in a batch, in request order.
type BatchItem struct {
	Ranking model.Ranking
	Err     error
}

// Service ranks divisions directly or through the worker pool.
type Service struct {
	mu sync.RWMutex

	ranker *standings.Ranker
	queue  jobqueue.Queue
	pool   *workerpool.Pool
	cancel context.CancelFunc

	// Configuration
	workerCount    int
	queueSize      int
	maxCompetitors int
	maxMatches     int
	maxBatch       int
	batchTimeout   time.Duration
	tiebreakers    []string

	started bool

	rankings atomic.Int64
	failures atomic.Int64
	batches  atomic.Int64
	rejected atomic.Int64

	tracer trace.Tracer
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of batch workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of queued batch jobs.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithLimits caps competitors and matches per division and divisions per
// batch. Non-positive values keep the default.
func WithLimits(maxCompetitors, maxMatches, maxBatch int) Option {
	return func(s *Service) {
		if maxCompetitors > 0 {
			s.maxCompetitors = maxCompetitors
		}
		if maxMatches > 0 {
			s.maxMatches = maxMatches
		}
		if maxBatch > 0 {
			s.maxBatch = maxBatch
		}
	}
}

// WithBatchTimeout bounds how long RankBatch waits for its results.
func WithBatchTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.batchTimeout = d
		}
	}
}

// WithTiebreakers sets the chain used when a division does not name one.
func WithTiebreakers(names []string) Option {
	return func(s *Service) {
		if len(names) > 0 {
			s.tiebreakers = append([]string(nil), names...)
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTracer sets the tracer used for ranking spans.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// New constructs a Service. The default tiebreaker chain is validated here
// so a bad configuration never reaches a request.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		workerCount:    runtime.NumCPU(),
		queueSize:      1024,
		maxCompetitors: 512,
		maxMatches:     20_000,
		maxBatch:       64,
		batchTimeout:   defaultBatchTimeout,
	}

	for _, opt := range opts {
		opt(s)
	}

	ranker, err := standings.NewRanker(standings.WithTiebreakers(s.tiebreakers...))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTiebreaker, err)
	}
	s.ranker = ranker
	s.tiebreakers = ranker.Chain().Strings()

	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	return s, nil
}

// Start creates the queue and starts the worker pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting standings service...")

	s.queue = jobqueue.NewInMemoryQueue(jobqueue.WithCapacity(s.queueSize))
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s, workerpool.WithLogger(s.logger.Named("worker")))

	// Workers outlive the start request.
	poolCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.pool.Start(poolCtx)

	s.started = true
	s.logger.Info(ctx, "standings service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Strings("tiebreakers", s.tiebreakers),
	)

	return nil
}

// Stop drains queued batch jobs and stops the workers.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	s.logger.Info(ctx, "stopping standings service...")

	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool did not drain", logger.Error(err))
	}
	s.cancel()

	s.started = false
	s.logger.Info(ctx, "standings service stopped")
}

// Tiebreakers returns the default chain by name.
func (s *Service) Tiebreakers() []string {
	return append([]string(nil), s.tiebreakers...)
}

// RankDivision validates and ranks one division synchronously. It is also
// the ranker behind the worker pool.
func (s *Service) RankDivision(ctx context.Context, d model.Division) (model.Ranking, error) {
	ctx, span := s.tracer.Start(ctx, "Service.RankDivision", trace.WithAttributes(
		attribute.String("division.id", d.ID),
		attribute.Int("division.competitors", len(d.Competitors)),
		attribute.Int("division.matches", len(d.Matches)),
	))
	defer span.End()

	start := time.Now()
	ranking, err := s.rankDivision(d)
	if err != nil {
		s.failures.Add(1)
		metrics.RecordRanking(metrics.OutcomeRejected, 0, 0)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return ranking, err
	}

	latency := time.Since(start)
	s.rankings.Add(1)
	metrics.RecordRanking(metrics.OutcomeOK, float64(latency.Microseconds())/1000, len(ranking.Standings))
	s.observe(ctx, d.ID, ranking.Diagnostics)

	span.SetAttributes(
		attribute.Int("standings.rows", len(ranking.Standings)),
		attribute.Int("standings.tie_groups", ranking.Diagnostics.TieGroups),
		attribute.Int("standings.id_fallbacks", ranking.Diagnostics.IDFallbacks),
	)
	return ranking, nil
}

func (s *Service) rankDivision(d model.Division) (model.Ranking, error) {
	out := model.Ranking{DivisionID: d.ID}

	if len(d.Competitors) > s.maxCompetitors {
		return out, fmt.Errorf("%w: %d competitors, limit %d", ErrTooLarge, len(d.Competitors), s.maxCompetitors)
	}
	if len(d.Matches) > s.maxMatches {
		return out, fmt.Errorf("%w: %d matches, limit %d", ErrTooLarge, len(d.Matches), s.maxMatches)
	}

	ranker := s.ranker
	if len(d.Tiebreakers) > 0 {
		r, err := standings.NewRanker(standings.WithTiebreakers(d.Tiebreakers...))
		if err != nil {
			return out, fmt.Errorf("%w: %w", ErrInvalidTiebreaker, err)
		}
		ranker = r
	}

	res := ranker.Rank(d.Competitors, d.Matches)
	out.Standings = res.Rows
	out.Diagnostics = res.Diagnostics
	out.Tiebreakers = ranker.Chain().Strings()
	return out, nil
}

// observe exports the data-quality counters of a ranking and logs the
// records that were left out.
func (s *Service) observe(ctx context.Context, divisionID string, d types.Diagnostics) {
	metrics.RecordMatches(d.MatchesReceived, d.MatchesCounted)
	metrics.RecordDropped("unusable", d.Unusable)
	metrics.RecordDropped("incomplete", d.Incomplete)
	metrics.RecordDropped("unknown_competitor", d.UnknownCompetitor)
	metrics.RecordDropped("self_match", d.SelfMatch)
	metrics.RecordTieResolution(d.NoWinner, d.TieGroups, d.IDFallbacks)

	if d.Unusable+d.UnknownCompetitor+d.SelfMatch > 0 {
		s.logger.Warn(ctx, "match records excluded from standings",
			logger.String("division_id", divisionID),
			logger.Int("unusable", d.Unusable),
			logger.Int("unknown_competitor", d.UnknownCompetitor),
			logger.Int("self_match", d.SelfMatch),
		)
	}
	if d.IDFallbacks > 0 {
		s.logger.Debug(ctx, "ties settled by competitor id",
			logger.String("division_id", divisionID),
			logger.Int("id_fallbacks", d.IDFallbacks),
		)
	}
}

// RankBatch ranks independent divisions in parallel on the worker pool.
// Results keep request order. A full queue fails the whole batch with
// ErrBusy; per-division failures are reported in their BatchItem.
func (s *Service) RankBatch(ctx context.Context, divisions []model.Division) ([]BatchItem, error) {
	s.mu.RLock()
	started, q := s.started, s.queue
	s.mu.RUnlock()
	if !started {
		return nil, ErrNotStarted
	}
	if len(divisions) > s.maxBatch {
		return nil, fmt.Errorf("%w: %d divisions, limit %d", ErrTooLarge, len(divisions), s.maxBatch)
	}

	ctx, span := s.tracer.Start(ctx, "Service.RankBatch", trace.WithAttributes(
		attribute.Int("batch.divisions", len(divisions)),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.batchTimeout)
	// Jobs still queued when we return see a closed Cancel and are skipped.
	defer cancel()

	s.batches.Add(1)
	metrics.RecordBatch(len(divisions))

	jobs := make([]model.Job, len(divisions))
	for i, d := range divisions {
		jobs[i] = model.NewJob(d, ctx.Done())
		if err := q.Enqueue(ctx, jobs[i]); err != nil {
			s.rejected.Add(1)
			span.RecordError(err)
			span.SetStatus(codes.Error, "enqueue failed")
			if errors.Is(err, jobqueue.ErrFull) || errors.Is(err, jobqueue.ErrClosed) {
				return nil, fmt.Errorf("%w: %w", ErrBusy, err)
			}
			return nil, err
		}
	}

	items := make([]BatchItem, len(jobs))
	for i, job := range jobs {
		select {
		case res := <-job.Done:
			items[i] = BatchItem{Ranking: res.Ranking, Err: res.Err}
		case <-ctx.Done():
			span.SetStatus(codes.Error, "batch timed out")
			metrics.RecordRanking(metrics.OutcomeTimeout, 0, 0)
			return nil, fmt.Errorf("batch of %d divisions: %w", len(jobs), ctx.Err())
		}
	}

	return items, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":         s.started,
		"workerCount":     s.workerCount,
		"queueSize":       s.queueSize,
		"tiebreakers":     s.tiebreakers,
		"rankings":        s.rankings.Load(),
		"failures":        s.failures.Load(),
		"batches":         s.batches.Load(),
		"rejectedBatches": s.rejected.Load(),
	}

	if s.started {
		stats["queueLength"] = s.queue.Len(context.Background())
	}

	return stats
}
