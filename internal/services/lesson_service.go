package services

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/vytor/lingoflash/internal/catalog"
	"github.com/vytor/lingoflash/internal/errors"
	"github.com/vytor/lingoflash/internal/logger"
	"github.com/vytor/lingoflash/internal/models"
	"github.com/vytor/lingoflash/internal/repository"
	"github.com/vytor/lingoflash/internal/scoring"
	"github.com/vytor/lingoflash/internal/selector"
)

// LessonService handles the catalog, lesson completion and recommendation
type LessonService interface {
	Catalog(ctx context.Context) ([]models.Lesson, error)
	GetLesson(ctx context.Context, id int64) (*models.Lesson, error)
	// SeedCatalog validates lessons as a whole and upserts them.
	SeedCatalog(ctx context.Context, lessons []models.Lesson) (int, error)
	CompleteLesson(ctx context.Context, userID string, lessonID int64, score float64) (*models.CompletionResult, error)
	NextLesson(ctx context.Context, userID string) (*selector.Selection, error)
	Progress(ctx context.Context, userID string) ([]models.ProgressEntry, error)
}

type lessonService struct {
	profileRepo  repository.ProfileRepository
	lessonRepo   repository.LessonRepository
	progressRepo repository.ProgressRepository
	locks        *UserLocks
	cfg          LessonConfig
}

// NewLessonService creates a new LessonService
func NewLessonService(
	profileRepo repository.ProfileRepository,
	lessonRepo repository.LessonRepository,
	progressRepo repository.ProgressRepository,
	locks *UserLocks,
	cfg LessonConfig,
) LessonService {
	return &lessonService{
		profileRepo:  profileRepo,
		lessonRepo:   lessonRepo,
		progressRepo: progressRepo,
		locks:        locks,
		cfg:          cfg.withDefaults(),
	}
}

func (s *lessonService) Catalog(ctx context.Context) ([]models.Lesson, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing catalog")

	lessons, err := s.lessonRepo.List(ctx)
	if err != nil {
		log.Error("failed to list lessons: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return lessons, nil
}

func (s *lessonService) GetLesson(ctx context.Context, id int64) (*models.Lesson, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting lesson: id=%d", id)

	lesson, err := s.lessonRepo.Get(ctx, id)
	if err != nil {
		log.Error("failed to get lesson: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if lesson == nil {
		return nil, errors.NewNotFoundError("lesson", id)
	}
	return lesson, nil
}

func (s *lessonService) SeedCatalog(ctx context.Context, lessons []models.Lesson) (int, error) {
	log := logger.FromContext(ctx)
	log.Info("seeding catalog with %d lessons", len(lessons))

	if err := catalog.Validate(lessons); err != nil {
		return 0, errors.NewValidationError("lessons", err.Error())
	}
	if err := s.lessonRepo.UpsertBatch(ctx, lessons); err != nil {
		log.Error("failed to seed catalog: %v", err)
		return 0, errors.NewInternalError(err)
	}
	return len(lessons), nil
}

func (s *lessonService) CompleteLesson(ctx context.Context, userID string, lessonID int64, score float64) (*models.CompletionResult, error) {
	log := logger.FromContext(ctx).WithUser(userID)
	log.Debug("completing lesson: lesson_id=%d, score=%.3f", lessonID, score)

	if err := scoring.ValidateScore(score); err != nil {
		return nil, errors.NewValidationError("score", err.Error())
	}
	if lessonID <= 0 {
		return nil, errors.NewValidationError("lesson_id", "must be positive")
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	profile, err := loadProfile(ctx, s.profileRepo, userID)
	if err != nil {
		return nil, err
	}

	result, err := s.applyCompletion(ctx, *profile, lessonID, score, s.cfg.Clock())
	if err != nil {
		return nil, err
	}

	log.Info("lesson %d completed: score=%.2f, gain_factor=%.2f, xp_gained=%d", lessonID, score, result.GainFactor, result.XPGained)
	return result, nil
}

// applyCompletion runs one completion against profile at time now and
// persists it. The caller holds the user lock.
func (s *lessonService) applyCompletion(ctx context.Context, profile models.Profile, lessonID int64, score float64, now time.Time) (*models.CompletionResult, error) {
	log := logger.FromContext(ctx).WithUser(profile.ID)
	now = now.UTC()

	lesson, err := s.lessonRepo.Get(ctx, lessonID)
	if err != nil {
		log.Error("failed to get lesson %d: %v", lessonID, err)
		return nil, errors.NewInternalError(err)
	}

	previous, err := s.progressRepo.Get(ctx, profile.ID, lessonID)
	if err != nil {
		log.Error("failed to get progress: %v", err)
		return nil, errors.NewInternalError(err)
	}

	entries, err := s.progressRepo.List(ctx, models.ProgressFilter{UserID: profile.ID})
	if err != nil {
		log.Error("failed to list progress: %v", err)
		return nil, errors.NewInternalError(err)
	}

	entry := models.ProgressEntry{UserID: profile.ID, LessonID: lessonID, Score: score, Attempts: 1, CompletedAt: now}
	previousAttempts := 0
	wasPassed := false
	if previous != nil {
		previousAttempts = previous.Attempts
		wasPassed = scoring.IsPass(previous.Score)
		entry.Score = max(previous.Score, score)
		entry.Attempts = previous.Attempts + 1
		// Replayed completions may arrive out of order.
		if previous.CompletedAt.After(now) {
			entry.CompletedAt = previous.CompletedAt
		}
	}

	gain := scoring.GainFactor(previousAttempts)
	if lesson != nil {
		profile.Skills = scoring.ApplyCompletion(profile.Skills, lesson.SkillsTargeted, score, gain)
	} else {
		log.Warn("lesson %d not in catalog, recording progress without skill change", lessonID)
	}

	xpBefore := scoring.TotalXP(entries)
	entries = append(lo.Filter(entries, func(e models.ProgressEntry, _ int) bool { return e.LessonID != lessonID }), entry)

	profile.TotalXP = scoring.TotalXP(entries)
	profile.LessonsCompleted = scoring.CountPassed(entries)
	if profile.LastActiveDate == nil || !now.Before(*profile.LastActiveDate) {
		profile.StreakDays = scoring.UpdateStreak(profile.StreakDays, profile.LastActiveDate, now)
		profile.LastActiveDate = &now
	}

	if err := s.progressRepo.SaveCompletion(ctx, entry, profile); err != nil {
		log.Error("failed to save completion: %v", err)
		return nil, errors.NewInternalError(err)
	}

	return &models.CompletionResult{
		Profile:     profile,
		Entry:       entry,
		GainFactor:  gain,
		XPGained:    profile.TotalXP - xpBefore,
		FirstPass:   scoring.IsPass(score) && !wasPassed,
		LessonKnown: lesson != nil,
	}, nil
}

func (s *lessonService) NextLesson(ctx context.Context, userID string) (*selector.Selection, error) {
	log := logger.FromContext(ctx).WithUser(userID)
	log.Debug("selecting next lesson")

	lessons, err := s.lessonRepo.List(ctx)
	if err != nil {
		log.Error("failed to list lessons: %v", err)
		return nil, errors.NewInternalError(err)
	}

	profile, err := s.profileRepo.Get(ctx, userID)
	if err != nil {
		log.Warn("profile unavailable, falling back to linear order: %v", err)
		sel := selector.SelectNext(lessons, nil, models.DefaultSkillVector(), selector.PolicyLinear)
		return &sel, nil
	}
	if profile == nil {
		return nil, errors.NewNotFoundError("profile", userID)
	}

	passed, err := s.progressRepo.List(ctx, models.ProgressFilter{UserID: userID, PassedOnly: true})
	if err != nil {
		log.Error("failed to list progress: %v", err)
		return nil, errors.NewInternalError(err)
	}
	completed := lo.Associate(passed, func(e models.ProgressEntry) (int64, bool) { return e.LessonID, true })

	sel := selector.SelectNext(lessons, completed, profile.Skills, s.cfg.Policy)
	if sel.Lesson != nil {
		log.Debug("next lesson: id=%d, policy=%s", sel.Lesson.ID, sel.Policy)
	}
	return &sel, nil
}

func (s *lessonService) Progress(ctx context.Context, userID string) ([]models.ProgressEntry, error) {
	log := logger.FromContext(ctx).WithUser(userID)
	log.Debug("listing progress")

	if _, err := loadProfile(ctx, s.profileRepo, userID); err != nil {
		return nil, err
	}
	entries, err := s.progressRepo.List(ctx, models.ProgressFilter{UserID: userID})
	if err != nil {
		log.Error("failed to list progress: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if entries == nil {
		entries = []models.ProgressEntry{}
	}
	return entries, nil
}
