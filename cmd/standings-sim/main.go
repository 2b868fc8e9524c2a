// Command standings-sim ranks local league files, generates synthetic leagues
// and load-tests a running standings service.
//
// Usage:
//
//	standings-sim rank --file league.yaml --tiebreakers wins,points_scored
//	standings-sim generate --teams 12 --out league.json
//	standings-sim run --url http://localhost:9080 --divisions 50 --teams 16
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/okian/standings/internal/domain/model"
	"github.com/okian/standings/internal/domain/standings"
	"github.com/okian/standings/internal/simulate"
	"github.com/okian/standings/pkg/logger"
)

// Default run constants.
const (
	defaultDivisions   = 20
	defaultTeams       = 10
	defaultReshuffles  = 3
	defaultTimeout     = 30 * time.Second
	defaultRunDeadline = 10 * time.Minute
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel, logFormat string

	root := &cobra.Command{
		Use:           "standings-sim",
		Short:         "Rank, generate and simulate competition standings",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return logger.Init(
				logger.WithWriter(cmd.ErrOrStderr()),
				logger.WithFormat(logFormat),
				logger.WithLevel(logLevel),
			)
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	root.AddCommand(rankCmd())
	root.AddCommand(generateCmd())
	root.AddCommand(runCmd())
	return root
}

// --------------------------------------------------------------------------
// rank command
// --------------------------------------------------------------------------

func rankCmd() *cobra.Command {
	var (
		file        string
		tiebreakers []string
	)
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank a league file (JSON or YAML) and print the table as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := simulate.LoadDivision(file)
			if err != nil {
				return err
			}
			if len(tiebreakers) > 0 {
				d.Tiebreakers = tiebreakers
			}

			ranker, err := standings.NewRanker(standings.WithTiebreakers(d.Tiebreakers...))
			if err != nil {
				return err
			}
			res := ranker.Rank(d.Competitors, d.Matches)

			if dropped := res.Diagnostics.Dropped(); dropped > 0 {
				logger.Get().Warn(cmd.Context(), "records dropped while ranking",
					logger.String("file", file),
					logger.Int("dropped", dropped),
					logger.Any("diagnostics", res.Diagnostics))
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(model.Ranking{
				DivisionID:  d.ID,
				Standings:   res.Rows,
				Diagnostics: res.Diagnostics,
				Tiebreakers: ranker.Chain().Strings(),
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "league file (.json, .yaml, .yml)")
	cmd.Flags().StringSliceVar(&tiebreakers, "tiebreakers", nil, "tiebreaker chain, overrides the file's")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// --------------------------------------------------------------------------
// generate command
// --------------------------------------------------------------------------

func generateCmd() *cobra.Command {
	var (
		teams int
		out   string
		id    string
		seed  uint64
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic round-robin league",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if teams < 2 {
				return fmt.Errorf("--teams must be at least 2, got %d", teams)
			}
			if id == "" {
				id = uuid.NewString()
			}
			d := simulate.NewGenerator(seed).League(id, teams)
			if err := simulate.SaveDivision(out, d); err != nil {
				return err
			}
			logger.Get().Info(cmd.Context(), "league written",
				logger.String("file", out),
				logger.String("division", d.ID),
				logger.Int("teams", len(d.Competitors)),
				logger.Int("matches", len(d.Matches)))
			return nil
		},
	}
	cmd.Flags().IntVar(&teams, "teams", defaultTeams, "number of competitors")
	cmd.Flags().StringVar(&out, "out", "league.json", "output file (.json, .yaml, .yml)")
	cmd.Flags().StringVar(&id, "id", "", "division id (random when empty)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "generator seed (random when 0)")
	return cmd
}

// --------------------------------------------------------------------------
// run command
// --------------------------------------------------------------------------

func runCmd() *cobra.Command {
	cfg := simulate.Config{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Drive a running service with synthetic leagues and verify the tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithTimeout(ctx, defaultRunDeadline)
			defer cancel()

			_, err := simulate.Run(ctx, cfg)
			return err
		},
	}
	cmd.Flags().StringVar(&cfg.BaseURL, "url", "http://localhost:9080", "base URL of the service")
	cmd.Flags().IntVar(&cfg.Divisions, "divisions", defaultDivisions, "divisions to generate")
	cmd.Flags().IntVar(&cfg.Teams, "teams", defaultTeams, "competitors per division")
	cmd.Flags().IntVar(&cfg.Reshuffles, "reshuffles", defaultReshuffles, "shuffled copies resubmitted per division")
	cmd.Flags().IntVar(&cfg.Workers, "workers", runtime.NumCPU(), "concurrent requests")
	cmd.Flags().Float64Var(&cfg.RPS, "rps", 0, "request rate cap, 0 for unlimited")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", defaultTimeout, "HTTP request timeout")
	cmd.Flags().Uint64Var(&cfg.Seed, "seed", 0, "generator seed (random when 0)")
	cmd.Flags().StringVar(&cfg.OutputFile, "output", "", "write the generated divisions to this file")
	return cmd
}
