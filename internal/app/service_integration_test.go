package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"

	service "github.com/okian/standings/internal/app"
	"github.com/okian/standings/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// shuffled returns a copy of d with competitors and matches permuted.
func shuffled(d model.Division, seed uint64) model.Division {
	faker := gofakeit.New(seed)
	out := d
	out.Competitors = append([]model.Competitor(nil), d.Competitors...)
	out.Matches = append([]model.RawMatch(nil), d.Matches...)
	faker.ShuffleAnySlice(out.Competitors)
	faker.ShuffleAnySlice(out.Matches)
	return out
}

func TestServiceIntegration(t *testing.T) {
	Convey("Given a started service with a small pool", t, func() {
		svc := newService(service.WithWorkerCount(4), service.WithQueueSize(256), service.WithLimits(0, 0, 64))
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()

		base := division("league")
		want, err := svc.RankDivision(context.Background(), base)
		So(err, ShouldBeNil)

		Convey("When permuted copies are ranked in one batch", func() {
			divisions := make([]model.Division, 40)
			for i := range divisions {
				divisions[i] = shuffled(base, uint64(i+1))
			}
			items, err := svc.RankBatch(context.Background(), divisions)

			Convey("Then every copy yields the identical table", func() {
				So(err, ShouldBeNil)
				for _, item := range items {
					So(item.Err, ShouldBeNil)
					So(cmp.Diff(want, item.Ranking), ShouldBeEmpty)
				}
			})
		})

		Convey("When batches race with direct rankings", func() {
			var wg sync.WaitGroup
			errs := make(chan error, 32)
			for g := 0; g < 8; g++ {
				wg.Add(1)
				go func(g int) {
					defer wg.Done()
					batch := []model.Division{shuffled(base, uint64(100+g)), shuffled(base, uint64(200+g))}
					items, err := svc.RankBatch(context.Background(), batch)
					if err != nil {
						errs <- err
						return
					}
					for _, item := range items {
						if diff := cmp.Diff(want, item.Ranking); diff != "" {
							errs <- fmt.Errorf("batch %d differs: %s", g, diff)
						}
					}
					if r, err := svc.RankDivision(context.Background(), shuffled(base, uint64(300+g))); err != nil || cmp.Diff(want, r) != "" {
						errs <- fmt.Errorf("direct ranking %d differs (err=%v)", g, err)
					}
				}(g)
			}
			wg.Wait()
			close(errs)

			Convey("Then no result diverges", func() {
				var failures []error
				for err := range errs {
					failures = append(failures, err)
				}
				So(failures, ShouldBeEmpty)
			})
		})
	})
}
