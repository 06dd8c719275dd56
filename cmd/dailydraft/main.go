// Command dailydraft is the Daily Draft operations CLI.
//
// Usage:
//
//	dailydraft warm --from 2015 --to 2023 --workers 4
//	dailydraft round
//	dailydraft round --date 2024-09-08 --answers
//	dailydraft round --practice
//	dailydraft eligible --position WR --year 2019
//	dailydraft score --guess 1200 --correct 1500
//	dailydraft prune --days 7
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jcturnbull/DailyDraft/internal/app"
	"github.com/jcturnbull/DailyDraft/internal/config"
	"github.com/jcturnbull/DailyDraft/internal/game"
	"github.com/jcturnbull/DailyDraft/internal/logging"
	"github.com/jcturnbull/DailyDraft/internal/maintenance"
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:          "dailydraft",
		Short:        "Daily Draft operations CLI",
		SilenceUsage: true,
	}

	root.AddCommand(warmCmd())
	root.AddCommand(roundCmd())
	root.AddCommand(eligibleCmd())
	root.AddCommand(scoreCmd())
	root.AddCommand(pruneCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// run loads configuration and the logger, then calls fn with a context
// cancelled on interrupt.
func run(fn func(ctx context.Context, cfg *config.Config, logger *slog.Logger) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg, os.Stderr)
	if err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	return fn(ctx, cfg, logger)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// --------------------------------------------------------------------------
// warm command
// --------------------------------------------------------------------------

func warmCmd() *cobra.Command {
	var from, to, workers int
	cmd := &cobra.Command{
		Use:   "warm",
		Short: "Load and normalize seasons, reporting row counts per year",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
				if !cmd.Flags().Changed("from") {
					from = cfg.MinYear
				}
				if !cmd.Flags().Changed("to") {
					to = cfg.MaxYear
				}
				g := app.NewGame(cfg, logger)
				res, err := maintenance.WarmSeasons(ctx, g.Seasons, from, to, workers, logger)
				if perr := printJSON(res); perr != nil {
					return perr
				}
				return err
			})
		},
	}
	cmd.Flags().IntVar(&from, "from", config.DefaultMinYear, "First season")
	cmd.Flags().IntVar(&to, "to", config.DefaultMaxYear, "Last season")
	cmd.Flags().IntVar(&workers, "workers", 4, "Concurrent season loads")
	return cmd
}

// --------------------------------------------------------------------------
// round command
// --------------------------------------------------------------------------

func roundCmd() *cobra.Command {
	var (
		date     string
		seed     int64
		practice bool
		answers  bool
	)
	cmd := &cobra.Command{
		Use:   "round",
		Short: "Generate a round (today's daily round by default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
				mode := game.ModeDaily
				switch {
				case cmd.Flags().Changed("seed"):
					mode = game.ModePractice
				case practice:
					mode = game.ModePractice
					seed = game.NewPracticeSeed()
				case date != "":
					day, err := time.Parse(game.DateLayout, date)
					if err != nil {
						return fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
					}
					seed, date = game.SeedAndDateForNow(day)
				default:
					seed, date = game.SeedAndDateForNow(time.Now())
				}

				g := app.NewGame(cfg, logger)
				questions := g.Generator.ForSeed(ctx, seed)
				if !answers {
					for i := range questions {
						questions[i].LeaderPlayerID = nil
						questions[i].LeaderName = nil
						questions[i].LeaderValue = nil
					}
				}
				return printJSON(map[string]interface{}{
					"mode":      mode,
					"date":      date,
					"seed":      strconv.FormatInt(seed, 10),
					"questions": questions,
				})
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Daily round date (YYYY-MM-DD)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Regenerate the round for this seed")
	cmd.Flags().BoolVar(&practice, "practice", false, "Generate a random practice round")
	cmd.Flags().BoolVar(&answers, "answers", false, "Include leaders in the output")
	return cmd
}

// --------------------------------------------------------------------------
// eligible command
// --------------------------------------------------------------------------

func eligibleCmd() *cobra.Command {
	var (
		position string
		year     int
	)
	cmd := &cobra.Command{
		Use:   "eligible",
		Short: "List active players at a position for a season",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := game.StatMenu[position]; !ok {
				return fmt.Errorf("--position must be one of QB, WR, RB, TE")
			}
			return run(func(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
				g := app.NewGame(cfg, logger)
				return printJSON(game.Eligible(ctx, g.Seasons, position, year))
			})
		},
	}
	cmd.Flags().StringVar(&position, "position", "", "Position (QB, WR, RB, TE)")
	cmd.Flags().IntVar(&year, "year", config.DefaultMaxYear, "Season")
	_ = cmd.MarkFlagRequired("position")
	return cmd
}

// --------------------------------------------------------------------------
// score command
// --------------------------------------------------------------------------

func scoreCmd() *cobra.Command {
	var guess, correct float64
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a guessed value against a correct value",
		RunE: func(cmd *cobra.Command, args []string) error {
			tier, points := game.Score(guess, correct)
			return printJSON(map[string]interface{}{
				"guess":   guess,
				"correct": correct,
				"points":  points,
				"tier":    tier,
			})
		},
	}
	cmd.Flags().Float64Var(&guess, "guess", 0, "Guessed player's value")
	cmd.Flags().Float64Var(&correct, "correct", 0, "Leader's value")
	return cmd
}

// --------------------------------------------------------------------------
// prune command
// --------------------------------------------------------------------------

func pruneCmd() *cobra.Command {
	var (
		days           int
		currentDayOnly bool
	)
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete completions outside the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
				retention := app.Retention(cfg)
				if cmd.Flags().Changed("days") {
					retention.Days = days
				}
				if cmd.Flags().Changed("current-day-only") {
					retention.CurrentDayOnly = currentDayOnly
				}

				completions, closeStore, err := app.NewStore(ctx, cfg, logger)
				if err != nil {
					return err
				}
				defer closeStore()

				now := time.Now()
				n, err := completions.Prune(ctx, retention, now)
				if err != nil {
					return fmt.Errorf("prune: %w", err)
				}
				fmt.Printf("deleted %d completions (cutoff %s)\n", n, retention.Cutoff(now))
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "Keep completions from the last N days")
	cmd.Flags().BoolVar(&currentDayOnly, "current-day-only", false, "Keep only today's completions")
	return cmd
}
