package services

import (
	"context"

	"github.com/vytor/lingoflash/internal/errors"
	"github.com/vytor/lingoflash/internal/leaderboard"
	"github.com/vytor/lingoflash/internal/logger"
	"github.com/vytor/lingoflash/internal/models"
	"github.com/vytor/lingoflash/internal/repository"
)

// LeaderboardService ranks learners for a time window
type LeaderboardService interface {
	Leaderboard(ctx context.Context, window string) ([]models.LeaderboardEntry, error)
}

type leaderboardService struct {
	profileRepo  repository.ProfileRepository
	progressRepo repository.ProgressRepository
	clock        Clock
}

// NewLeaderboardService creates a new LeaderboardService
func NewLeaderboardService(profileRepo repository.ProfileRepository, progressRepo repository.ProgressRepository, clock Clock) LeaderboardService {
	if clock == nil {
		clock = SystemClock
	}
	return &leaderboardService{profileRepo: profileRepo, progressRepo: progressRepo, clock: clock}
}

func (s *leaderboardService) Leaderboard(ctx context.Context, window string) ([]models.LeaderboardEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("leaderboard")

	w, err := leaderboard.ParseWindow(window)
	if err != nil {
		return nil, errors.NewValidationError("window", err.Error())
	}
	log.Debug("building leaderboard: window=%s", w)

	now := s.clock()
	profiles, err := s.profileRepo.List(ctx)
	if err != nil {
		log.Error("failed to list profiles: %v", err)
		return nil, errors.NewInternalError(err)
	}

	var entries []models.ProgressEntry
	if start := w.Start(now); start != nil {
		entries, err = s.progressRepo.List(ctx, models.ProgressFilter{Since: start})
		if err != nil {
			log.Error("failed to list progress: %v", err)
			return nil, errors.NewInternalError(err)
		}
	}

	board := leaderboard.Aggregate(entries, profiles, w, now)
	if board == nil {
		board = []models.LeaderboardEntry{}
	}
	log.Debug("leaderboard has %d entries", len(board))
	return board, nil
}
