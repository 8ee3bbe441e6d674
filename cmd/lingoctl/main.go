package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vytor/lingoflash/internal/config"
	"github.com/vytor/lingoflash/internal/db"
	"github.com/vytor/lingoflash/internal/logger"
	"github.com/vytor/lingoflash/internal/repository/sqlite"
	"github.com/vytor/lingoflash/internal/selector"
	"github.com/vytor/lingoflash/internal/services"
)

var rootCmd = &cobra.Command{
	Use:           "lingoctl",
	Short:         "Operate a lingoflash database",
	Long:          "lingoctl seeds the lesson catalog, resets learners, grants admin rights and prints leaderboards.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides DB_PATH)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (overrides LOG_LEVEL)")

	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(promoteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app bundles the services a command needs.
type app struct {
	db          *db.DB
	profiles    services.ProfileService
	lessons     services.LessonService
	leaderboard services.LeaderboardService
}

// openApp resolves configuration with flags taking precedence, opens the
// database and wires the services.
func openApp(cmd *cobra.Command) (*app, error) {
	cfg := config.Load()
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.SetDefault(logger.New(
		logger.WithOutput(os.Stderr),
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(cfg.LogColors),
		logger.WithFormat(logger.ParseFormat(cfg.LogFormat)),
	))

	database, err := db.Open(cmd.Context(), cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	policy, _ := selector.ParsePolicy(cfg.SelectionPolicy)
	profileRepo := sqlite.NewProfileRepository(database.DB)
	lessonRepo := sqlite.NewLessonRepository(database.DB)
	progressRepo := sqlite.NewProgressRepository(database.DB)
	locks := services.NewUserLocks()

	return &app{
		db:          database,
		profiles:    services.NewProfileService(profileRepo, locks, services.SystemClock),
		lessons:     services.NewLessonService(profileRepo, lessonRepo, progressRepo, locks, services.LessonConfig{Policy: policy}),
		leaderboard: services.NewLeaderboardService(profileRepo, progressRepo, services.SystemClock),
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

// run opens the app, calls fn and always closes the database.
func run(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(cmd.Context(), a)
}
