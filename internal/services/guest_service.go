package services

import (
	"context"

	"github.com/vytor/lingoflash/internal/errors"
	"github.com/vytor/lingoflash/internal/guest"
	"github.com/vytor/lingoflash/internal/logger"
	"github.com/vytor/lingoflash/internal/models"
	"github.com/vytor/lingoflash/internal/repository"
)

// GuestService moves guest progress into a signed-in profile
type GuestService interface {
	Migrate(ctx context.Context, userID string, state guest.State) (*models.Profile, error)
}

type guestService struct {
	profileRepo repository.ProfileRepository
	lessons     *lessonService
	locks       *UserLocks
}

// NewGuestService creates a new GuestService. Completions are replayed with
// the same engine LessonService uses.
func NewGuestService(
	profileRepo repository.ProfileRepository,
	lessonRepo repository.LessonRepository,
	progressRepo repository.ProgressRepository,
	locks *UserLocks,
	cfg LessonConfig,
) GuestService {
	lessons := NewLessonService(profileRepo, lessonRepo, progressRepo, locks, cfg).(*lessonService)
	return &guestService{profileRepo: profileRepo, lessons: lessons, locks: locks}
}

func (s *guestService) Migrate(ctx context.Context, userID string, state guest.State) (*models.Profile, error) {
	log := logger.FromContext(ctx).WithPrefix("guest").WithUser(userID)
	log.Debug("migrating guest state: %d completions", len(state.Completions))

	if err := state.Validate(s.lessons.cfg.Clock()); err != nil {
		return nil, errors.NewValidationError("guest_state", err.Error())
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	profile, err := loadProfile(ctx, s.profileRepo, userID)
	if err != nil {
		return nil, err
	}

	// Each completion commits on its own. A failure part way leaves the
	// earlier completions applied and the guest skills not yet copied; the
	// client keeps its state and the error tells it to retry.
	current := *profile
	for _, c := range state.Replay() {
		result, err := s.lessons.applyCompletion(ctx, current, c.LessonID, c.Score, c.CompletedAt)
		if err != nil {
			log.Error("replay of lesson %d failed: %v", c.LessonID, err)
			return nil, err
		}
		current = result.Profile
	}

	// The guest's own skill vector wins over the replayed one.
	for _, skill := range models.AllSkills() {
		current.Skills.Set(skill, state.Skills.Get(skill))
	}
	if err := s.profileRepo.Update(ctx, current); err != nil {
		log.Error("failed to store migrated profile: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("guest state migrated: %d completions replayed", len(state.Completions))
	return &current, nil
}
