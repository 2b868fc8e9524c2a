package config_test

import (
	"context"
	"errors"
	"runtime"
	"testing"

	"github.com/okian/standings/internal/config"
	"github.com/okian/standings/internal/domain/standings"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with defaults", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 1024)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.MaxBatchDivisions, convey.ShouldEqual, 64)
			convey.So(cfg.Tiebreakers, convey.ShouldResemble, []string{"wins", "head_to_head", "point_differential", "points_scored"})
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then the default chain parses", func() {
			chain, err := cfg.Chain()
			convey.So(err, convey.ShouldBeNil)
			convey.So(chain, convey.ShouldResemble, standings.DefaultChain())
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a config with one bad field", t, func() {
		cases := []struct {
			name   string
			mutate func(*config.Config)
		}{
			{"empty addr", func(c *config.Config) { c.Addr = " " }},
			{"zero workers", func(c *config.Config) { c.WorkerCount = 0 }},
			{"negative queue", func(c *config.Config) { c.QueueSize = -1 }},
			{"zero max matches", func(c *config.Config) { c.MaxMatches = 0 }},
			{"negative rps", func(c *config.Config) { c.RateLimitRPS = -1 }},
			{"burst without rate", func(c *config.Config) { c.RateLimitBurst = 0 }},
			{"unknown format", func(c *config.Config) { c.LogFormat = "xml" }},
			{"unknown tiebreaker", func(c *config.Config) { c.Tiebreakers = []string{"wins", "coin_flip"} }},
		}

		for _, tc := range cases {
			cfg := config.New(context.Background())
			tc.mutate(cfg)

			convey.Convey("Then validation rejects "+tc.name, func() {
				err := cfg.Validate()
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}

		convey.Convey("Then a tiebreaker failure keeps the criterion error", func() {
			cfg := config.New(context.Background())
			cfg.Tiebreakers = []string{"coin_flip"}
			err := cfg.Validate()
			convey.So(errors.Is(err, standings.ErrUnknownCriterion), convey.ShouldBeTrue)
		})

		convey.Convey("Then rate limiting may be switched off", func() {
			cfg := config.New(context.Background())
			cfg.RateLimitRPS = 0
			cfg.RateLimitBurst = 0
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
