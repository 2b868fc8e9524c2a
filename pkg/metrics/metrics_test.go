package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

// sample returns the summed counter value, gauge value or histogram sample
// count of the named family.
func sample(reg *prometheus.Registry, name string) float64 {
	families, err := reg.Gather()
	So(err, ShouldBeNil)
	total := 0.0
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				total += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				total += m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				total += float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return total
}

func TestManagerCreation(t *testing.T) {
	Convey("Given a fresh registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When creating a manager with custom options", func() {
			manager := NewManager(
				WithNamespace("league"),
				WithSubsystem("table"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.RecordBatch(3)

			Convey("Then names and labels follow the options", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				var found bool
				for _, mf := range families {
					if mf.GetName() == "league_table_batch_divisions" {
						found = true
						labels := mf.GetMetric()[0].GetLabel()
						So(labels, ShouldHaveLength, 1)
						So(labels[0].GetName(), ShouldEqual, "env")
						So(labels[0].GetValue(), ShouldEqual, "test")
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When registering the same names twice", func() {
			NewManager(WithPrometheusRegistry(registry))

			Convey("Then the second registration panics", func() {
				So(func() { NewManager(WithPrometheusRegistry(registry)) }, ShouldPanic)
			})
		})
	})
}

func TestManagerRecording(t *testing.T) {
	Convey("Given a manager on its own registry", t, func() {
		registry := prometheus.NewRegistry()
		manager := NewManager(WithPrometheusRegistry(registry))

		Convey("When rankings are recorded", func() {
			manager.RecordRanking(OutcomeOK, 1.5, 8)
			manager.RecordRanking(OutcomeOK, 2.5, 6)
			manager.RecordRanking(OutcomeRejected, 0, 0)

			Convey("Then outcomes are counted and only successes are observed", func() {
				So(sample(registry, "standings_ranker_rankings_total"), ShouldEqual, 3)
				So(sample(registry, "standings_ranker_ranking_latency_milliseconds"), ShouldEqual, 2)
				So(sample(registry, "standings_ranker_division_competitors"), ShouldEqual, 2)
			})
		})

		Convey("When data quality counters are recorded", func() {
			manager.RecordMatches(10, 6)
			manager.RecordDropped("incomplete", 3)
			manager.RecordDropped("self_match", 1)
			manager.RecordDropped("unknown_competitor", 0)
			manager.RecordTieResolution(1, 2, 3)

			Convey("Then each counter carries its total", func() {
				So(sample(registry, "standings_ranker_matches_received_total"), ShouldEqual, 10)
				So(sample(registry, "standings_ranker_matches_counted_total"), ShouldEqual, 6)
				So(sample(registry, "standings_ranker_matches_dropped_total"), ShouldEqual, 4)
				So(sample(registry, "standings_ranker_matches_no_winner_total"), ShouldEqual, 1)
				So(sample(registry, "standings_ranker_tie_groups_total"), ShouldEqual, 2)
				So(sample(registry, "standings_ranker_id_fallbacks_total"), ShouldEqual, 3)
			})
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global registry", t, func() {
		before := sample(GetRegistry(), "standings_ranker_queue_enqueue_total")

		So(func() {
			RecordRanking(OutcomeTimeout, 0, 0)
			RecordMatches(1, 1)
			RecordDropped("unusable", 1)
			RecordTieResolution(0, 0, 0)
			RecordBatch(2)
			UpdateQueueSize(4)
			UpdateQueueCapacity(16)
			RecordQueueEnqueue()
			RecordQueueDequeue()
			RecordQueueEnqueueError()
			UpdateWorkerCount(2)
			AddWorkerActive(1)
			AddWorkerActive(-1)
			RecordWorkerProcessingLatency(3)
			RecordWorkerError()
			RecordHTTPRequest("/v1/standings", "POST", "200")
			RecordHTTPRequestDuration("/v1/standings", "POST", "200", 4)
			RecordHTTPRateLimited()
			RecordErrorByComponent("api", "decode")
		}, ShouldNotPanic)

		Convey("Then the recorders write to it", func() {
			So(sample(GetRegistry(), "standings_ranker_queue_enqueue_total"), ShouldEqual, before+1)
			So(sample(GetRegistry(), "standings_ranker_queue_capacity"), ShouldEqual, 16)
		})
	})
}
