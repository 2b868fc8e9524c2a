package simulate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/okian/standings/internal/domain/model"
	"github.com/okian/standings/pkg/logger"
)

// Run defaults.
const (
	defaultWorkers = 4
	defaultTimeout = 30 * time.Second
	minTeams       = 2
)

type runner struct {
	cfg     Config
	client  *Client
	limiter *rate.Limiter
	log     logger.Logger

	mu    sync.Mutex
	stats Stats
}

// Run generates cfg.Divisions leagues, ranks each through the service, then
// resubmits shuffled copies in batches and verifies that every table is well
// formed, matches an in-process ranking and is identical across copies.
func Run(ctx context.Context, cfg Config) (Stats, error) {
	if cfg.Divisions < 1 || cfg.Teams < minTeams {
		return Stats{}, fmt.Errorf("%w: need at least 1 division and %d teams", ErrInvalidInput, minTeams)
	}
	if cfg.Workers < 1 {
		cfg.Workers = defaultWorkers
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}
	r := &runner{
		cfg:     cfg,
		client:  NewClient(cfg.BaseURL, cfg.Timeout),
		limiter: rate.NewLimiter(limit, cfg.Workers),
		log:     logger.Get().Named("simulate"),
	}
	r.stats.StartTime = time.Now()

	r.log.Info(ctx, "starting standings simulation",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("divisions", cfg.Divisions),
		logger.Int("teams", cfg.Teams),
		logger.Int("reshuffles", cfg.Reshuffles),
		logger.Int("workers", cfg.Workers),
		logger.Float64("rps", cfg.RPS))

	if err := r.client.Health(ctx); err != nil {
		return r.stats, err
	}

	gen := NewGenerator(cfg.Seed)
	divisions := make([]model.Division, cfg.Divisions)
	for i := range divisions {
		divisions[i] = gen.League(uuid.NewString(), cfg.Teams)
	}
	r.stats.DivisionsGenerated = len(divisions)

	if cfg.OutputFile != "" {
		if err := writeJSON(cfg.OutputFile, map[string]any{"divisions": divisions}); err != nil {
			r.log.Warn(ctx, "failed to save divisions", logger.Error(err))
		}
	}

	baseline, err := r.rankAll(ctx, divisions)
	if err != nil {
		return r.finish(ctx), err
	}

	// The generator is not safe for concurrent use, so copies are built up front.
	copies := make([][]model.Division, len(divisions))
	for i, d := range divisions {
		if baseline[i] == nil {
			continue
		}
		for k := 0; k < cfg.Reshuffles; k++ {
			copies[i] = append(copies[i], gen.Shuffle(d))
		}
	}
	if err := r.resubmitAll(ctx, baseline, copies); err != nil {
		return r.finish(ctx), err
	}

	stats := r.finish(ctx)
	switch {
	case stats.Violations > 0:
		return stats, fmt.Errorf("%w: %d tables", ErrInvariant, stats.Violations)
	case stats.Mismatches > 0:
		return stats, fmt.Errorf("%w: %d tables", ErrMismatch, stats.Mismatches)
	case stats.Successful == 0:
		return stats, fmt.Errorf("%w: no division was ranked", ErrUnexpected)
	}
	return stats, nil
}

// rankAll ranks every division once. Failed divisions leave a nil baseline.
func (r *runner) rankAll(ctx context.Context, divisions []model.Division) ([]*model.Ranking, error) {
	baseline := make([]*model.Ranking, len(divisions))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)
	for i, d := range divisions {
		g.Go(func() error {
			if err := r.limiter.Wait(ctx); err != nil {
				return err
			}
			ranking, err := r.client.Rank(ctx, d)
			r.record(func(s *Stats) { s.Submitted++ })
			if err != nil {
				r.record(func(s *Stats) { s.Failed++ })
				r.log.Warn(ctx, "ranking request failed", logger.String("division", d.ID), logger.Error(err))
				return nil
			}
			r.record(func(s *Stats) { s.Successful++ })

			if err := CheckInvariants(d, ranking); err != nil {
				r.violation(ctx, d.ID, err)
				return nil
			}
			if err := CheckLocal(d, ranking); err != nil {
				r.mismatch(ctx, d.ID, err)
				return nil
			}
			baseline[i] = &ranking
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("ranking divisions: %w", err)
	}
	return baseline, nil
}

// resubmitAll sends each division's shuffled copies as one batch and compares
// every returned table with the baseline.
func (r *runner) resubmitAll(ctx context.Context, baseline []*model.Ranking, copies [][]model.Division) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)
	for i, batch := range copies {
		if len(batch) == 0 {
			continue
		}
		want := baseline[i]
		g.Go(func() error {
			if err := r.limiter.Wait(ctx); err != nil {
				return err
			}
			results, err := r.client.RankBatch(ctx, batch)
			r.record(func(s *Stats) { s.Submitted += len(batch) })
			if err != nil {
				r.record(func(s *Stats) { s.Failed += len(batch) })
				r.log.Warn(ctx, "batch request failed", logger.String("division", batch[0].ID), logger.Error(err))
				return nil
			}

			for k, res := range results {
				if res.Error != nil || res.Ranking == nil {
					r.record(func(s *Stats) { s.Failed++ })
					continue
				}
				r.record(func(s *Stats) { s.Successful++; s.Reshuffled++ })
				if err := CheckInvariants(batch[k], *res.Ranking); err != nil {
					r.violation(ctx, batch[k].ID, err)
					continue
				}
				if err := SameTable(want.Standings, res.Ranking.Standings); err != nil {
					r.mismatch(ctx, batch[k].ID, err)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("resubmitting shuffled divisions: %w", err)
	}
	return nil
}

func (r *runner) record(fn func(*Stats)) {
	r.mu.Lock()
	fn(&r.stats)
	r.mu.Unlock()
}

func (r *runner) violation(ctx context.Context, division string, err error) {
	r.record(func(s *Stats) { s.Violations++ })
	r.log.Error(ctx, "invariant violated", logger.String("division", division), logger.Error(err))
}

func (r *runner) mismatch(ctx context.Context, division string, err error) {
	r.record(func(s *Stats) { s.Mismatches++ })
	r.log.Error(ctx, "table mismatch", logger.String("division", division), logger.Error(err))
}

// finish stamps the end time and logs the final statistics.
func (r *runner) finish(ctx context.Context) Stats {
	r.mu.Lock()
	r.stats.EndTime = time.Now()
	r.stats.Duration = r.stats.EndTime.Sub(r.stats.StartTime)
	stats := r.stats
	r.mu.Unlock()

	var perSecond float64
	if stats.Duration > 0 {
		perSecond = float64(stats.Submitted) / stats.Duration.Seconds()
	}
	level := r.log.Info
	if stats.Failed > 0 || errors.Is(ctx.Err(), context.Canceled) {
		level = r.log.Warn
	}
	level(ctx, "final statistics",
		logger.Int("divisionsGenerated", stats.DivisionsGenerated),
		logger.Int("submitted", stats.Submitted),
		logger.Int("successful", stats.Successful),
		logger.Int("failed", stats.Failed),
		logger.Int("reshuffled", stats.Reshuffled),
		logger.Int("mismatches", stats.Mismatches),
		logger.Int("violations", stats.Violations),
		logger.Duration("duration", stats.Duration),
		logger.Float64("divisionsPerSecond", perSecond))
	return stats
}
