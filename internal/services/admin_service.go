package services

import (
	"context"

	"github.com/vytor/lingoflash/internal/errors"
	"github.com/vytor/lingoflash/internal/leaderboard"
	"github.com/vytor/lingoflash/internal/logger"
	"github.com/vytor/lingoflash/internal/models"
	"github.com/vytor/lingoflash/internal/repository"
	"github.com/vytor/lingoflash/internal/scoring"
)

// DashboardTopLearners is the size of the dashboard's all-time board.
const DashboardTopLearners = 5

// AdminService summarizes the platform for administrators
type AdminService interface {
	Dashboard(ctx context.Context, requesterID string) (*models.DashboardStats, error)
}

type adminService struct {
	profileRepo    repository.ProfileRepository
	lessonRepo     repository.LessonRepository
	progressRepo   repository.ProgressRepository
	leaderboardSvc LeaderboardService
	clock          Clock
}

// NewAdminService creates a new AdminService
func NewAdminService(
	profileRepo repository.ProfileRepository,
	lessonRepo repository.LessonRepository,
	progressRepo repository.ProgressRepository,
	leaderboardSvc LeaderboardService,
	clock Clock,
) AdminService {
	if clock == nil {
		clock = SystemClock
	}
	return &adminService{
		profileRepo:    profileRepo,
		lessonRepo:     lessonRepo,
		progressRepo:   progressRepo,
		leaderboardSvc: leaderboardSvc,
		clock:          clock,
	}
}

func (s *adminService) Dashboard(ctx context.Context, requesterID string) (*models.DashboardStats, error) {
	log := logger.FromContext(ctx).WithPrefix("admin").WithUser(requesterID)
	log.Debug("building dashboard")

	requester, err := s.profileRepo.Get(ctx, requesterID)
	if err != nil {
		log.Error("failed to get requester: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if requester == nil || !requester.IsAdmin {
		log.Warn("dashboard denied")
		return nil, errors.NewUnauthorizedError("view the admin dashboard")
	}

	var stats models.DashboardStats
	if stats.Users, err = s.profileRepo.Count(ctx); err != nil {
		log.Error("failed to count profiles: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if stats.Lessons, err = s.lessonRepo.Count(ctx); err != nil {
		log.Error("failed to count lessons: %v", err)
		return nil, errors.NewInternalError(err)
	}

	progress, err := s.progressRepo.Stats(ctx)
	if err != nil {
		log.Error("failed to compute progress stats: %v", err)
		return nil, errors.NewInternalError(err)
	}
	stats.ProgressRows = progress.Rows
	stats.AverageScore = progress.AverageScore

	if stats.ActiveToday, err = s.profileRepo.CountActiveSince(ctx, scoring.DayStart(s.clock())); err != nil {
		log.Error("failed to count active profiles: %v", err)
		return nil, errors.NewInternalError(err)
	}

	board, err := s.leaderboardSvc.Leaderboard(ctx, string(leaderboard.WindowAllTime))
	if err != nil {
		return nil, err
	}
	if len(board) > DashboardTopLearners {
		board = board[:DashboardTopLearners]
	}
	stats.TopLearners = board

	return &stats, nil
}
