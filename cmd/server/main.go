package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/lingoflash/internal/api"
	"github.com/vytor/lingoflash/internal/catalog"
	"github.com/vytor/lingoflash/internal/config"
	"github.com/vytor/lingoflash/internal/db"
	"github.com/vytor/lingoflash/internal/logger"
	"github.com/vytor/lingoflash/internal/repository/sqlite"
	"github.com/vytor/lingoflash/internal/selector"
	"github.com/vytor/lingoflash/internal/services"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(cfg.LogColors),
		logger.WithFormat(logger.ParseFormat(cfg.LogFormat)),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("lingoflash server starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("selection_policy=%s", cfg.SelectionPolicy)
	log.Debug("catalog_path=%s", cfg.CatalogPath)
	log.Debug("request_timeout=%s", cfg.RequestTimeout)

	ctx := context.Background()

	// Open database
	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Initialize repositories and services
	profileRepo := sqlite.NewProfileRepository(database.DB)
	lessonRepo := sqlite.NewLessonRepository(database.DB)
	progressRepo := sqlite.NewProgressRepository(database.DB)

	policy, _ := selector.ParsePolicy(cfg.SelectionPolicy)
	lessonCfg := services.LessonConfig{Policy: policy, Clock: services.SystemClock}
	locks := services.NewUserLocks()

	lessonService := services.NewLessonService(profileRepo, lessonRepo, progressRepo, locks, lessonCfg)
	leaderboardService := services.NewLeaderboardService(profileRepo, progressRepo, services.SystemClock)

	if err := seedIfEmpty(ctx, cfg.CatalogPath, lessonRepo.Count, lessonService); err != nil {
		log.Error("failed to seed catalog: %v", err)
		os.Exit(1)
	}

	srv := &api.Server{
		ProfileService:     services.NewProfileService(profileRepo, locks, services.SystemClock),
		LessonService:      lessonService,
		LeaderboardService: leaderboardService,
		GuestService:       services.NewGuestService(profileRepo, lessonRepo, progressRepo, locks, lessonCfg),
		AdminService:       services.NewAdminService(profileRepo, lessonRepo, progressRepo, leaderboardService, services.SystemClock),
		Ready:              database.Ready,
		RequestTimeout:     cfg.RequestTimeout,
	}

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Info("===========================================")
	log.Info("lingoflash server stopped")
	log.Info("===========================================")
}

// seedIfEmpty loads the catalog file into an empty lessons table. An existing
// catalog is left alone so restarts never overwrite operator edits.
func seedIfEmpty(ctx context.Context, path string, count func(context.Context) (int, error), lessons services.LessonService) error {
	if path == "" {
		return nil
	}
	log := logger.FromContext(ctx).WithPrefix("seed")

	n, err := count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		log.Debug("catalog already has %d lessons, skipping seed", n)
		return nil
	}

	loaded, err := catalog.LoadFile(path)
	if err != nil {
		return err
	}
	seeded, err := lessons.SeedCatalog(ctx, loaded)
	if err != nil {
		return err
	}
	log.Info("seeded %d lessons from %s", seeded, path)
	return nil
}
