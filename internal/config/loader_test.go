package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/standings/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New(ctx))
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			clearConfigEnvVars()
			_ = os.Setenv("STANDINGS_ADDR", ":8080")
			_ = os.Setenv("STANDINGS_QUEUE_SIZE", "64")
			_ = os.Setenv("STANDINGS_WORKER_COUNT", "3")
			_ = os.Setenv("STANDINGS_TIEBREAKERS", "wins,points_scored")
			_ = os.Setenv("STANDINGS_CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
			_ = os.Setenv("STANDINGS_RATE_LIMIT_RPS", "2.5")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 64)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 3)
				convey.So(cfg.Tiebreakers, convey.ShouldResemble, []string{"wins", "points_scored"})
				convey.So(cfg.CORSAllowedOrigins, convey.ShouldResemble, []string{"https://a.example", "https://b.example"})
				convey.So(cfg.RateLimitRPS, convey.ShouldEqual, 2.5)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			clearConfigEnvVars()
			tmpFile := createTempConfigFile(`
addr: ":9090"
log_format: json
max_competitors: 32
tiebreakers:
  - head_to_head
  - point_differential
`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("STANDINGS_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.MaxCompetitors, convey.ShouldEqual, 32)
				convey.So(cfg.Tiebreakers, convey.ShouldResemble, []string{"head_to_head", "point_differential"})
			})
		})

		convey.Convey("When env vars and a file both set a key", func() {
			clearConfigEnvVars()
			tmpFile := createTempConfigFile("addr: \":9090\"\nworker_count: 12\n")
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("STANDINGS_CONFIG", tmpFile)
			_ = os.Setenv("STANDINGS_WORKER_COUNT", "4")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then env vars win", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When the config file does not exist", func() {
			clearConfigEnvVars()
			_ = os.Setenv("STANDINGS_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then loading fails", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a number does not parse", func() {
			clearConfigEnvVars()
			_ = os.Setenv("STANDINGS_QUEUE_SIZE", "invalid")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then decoding fails", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a value is out of range", func() {
			clearConfigEnvVars()
			_ = os.Setenv("STANDINGS_WORKER_COUNT", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then validation fails", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the tiebreaker chain is unknown", func() {
			clearConfigEnvVars()
			_ = os.Setenv("STANDINGS_TIEBREAKERS", "wins,coin_flip")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then startup is refused", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "coin_flip")
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"STANDINGS_CONFIG",
		"STANDINGS_ADDR",
		"STANDINGS_QUEUE_SIZE",
		"STANDINGS_WORKER_COUNT",
		"STANDINGS_TIEBREAKERS",
		"STANDINGS_CORS_ALLOWED_ORIGINS",
		"STANDINGS_RATE_LIMIT_RPS",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "standings-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
