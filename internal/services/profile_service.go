package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/vytor/lingoflash/internal/errors"
	"github.com/vytor/lingoflash/internal/logger"
	"github.com/vytor/lingoflash/internal/models"
	"github.com/vytor/lingoflash/internal/repository"
)

// MaxDisplayNameLength bounds display names, counted in runes.
const MaxDisplayNameLength = 64

// ProfileService handles profile-related business logic
type ProfileService interface {
	ListProfiles(ctx context.Context) ([]models.Profile, error)
	CreateProfile(ctx context.Context, displayName string) (*models.Profile, error)
	// EnsureProfile returns the profile for userID, creating it on first use.
	EnsureProfile(ctx context.Context, userID, displayName string) (*models.Profile, error)
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	RecordDiagnostic(ctx context.Context, userID string, results map[string]float64) (*models.Profile, error)
	ResetProgress(ctx context.Context, userID string) (*models.Profile, error)
	SetAdmin(ctx context.Context, userID string, admin bool) (*models.Profile, error)
	DeleteProfile(ctx context.Context, id string) error
}

type profileService struct {
	profileRepo repository.ProfileRepository
	locks       *UserLocks
	clock       Clock
}

// NewProfileService creates a new ProfileService
func NewProfileService(profileRepo repository.ProfileRepository, locks *UserLocks, clock Clock) ProfileService {
	if clock == nil {
		clock = SystemClock
	}
	return &profileService{profileRepo: profileRepo, locks: locks, clock: clock}
}

func (s *profileService) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing profiles")

	profiles, err := s.profileRepo.List(ctx)
	if err != nil {
		log.Error("failed to list profiles: %v", err)
		return nil, errors.NewInternalError(err)
	}

	return profiles, nil
}

func normalizeDisplayName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.NewValidationError("display_name", "cannot be empty")
	}
	if utf8.RuneCountInString(name) > MaxDisplayNameLength {
		return "", errors.NewValidationError("display_name", fmt.Sprintf("must be at most %d characters", MaxDisplayNameLength))
	}
	return name, nil
}

func (s *profileService) newProfile(id, displayName string) models.Profile {
	return models.Profile{
		ID:          id,
		DisplayName: displayName,
		Skills:      models.DefaultSkillVector(),
		CreatedAt:   s.clock().UTC(),
	}
}

func (s *profileService) CreateProfile(ctx context.Context, displayName string) (*models.Profile, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating profile: display_name=%s", displayName)

	name, err := normalizeDisplayName(displayName)
	if err != nil {
		return nil, err
	}

	profile := s.newProfile(uuid.NewString(), name)
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		log.Error("failed to create profile: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("profile created: id=%s", profile.ID)
	return &profile, nil
}

func (s *profileService) EnsureProfile(ctx context.Context, userID, displayName string) (*models.Profile, error) {
	log := logger.FromContext(ctx).WithUser(userID)

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, errors.NewUnauthenticatedError()
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	existing, err := s.profileRepo.Get(ctx, userID)
	if err != nil {
		log.Error("failed to get profile: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if existing != nil {
		return existing, nil
	}

	name, err := normalizeDisplayName(displayName)
	if err != nil {
		// Fall back to the id; a bad header must not block first use.
		name = truncateRunes(userID, MaxDisplayNameLength)
	}

	profile := s.newProfile(userID, name)
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		log.Error("failed to create profile: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("profile created on first use")
	return &profile, nil
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func (s *profileService) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting profile: id=%s", id)

	return loadProfile(ctx, s.profileRepo, id)
}

// loadProfile maps a missing profile to NotFound and repository failures to
// Internal.
func loadProfile(ctx context.Context, repo repository.ProfileRepository, id string) (*models.Profile, error) {
	profile, err := repo.Get(ctx, id)
	if err != nil {
		logger.FromContext(ctx).Error("failed to get profile %s: %v", id, err)
		return nil, errors.NewInternalError(err)
	}
	if profile == nil {
		return nil, errors.NewNotFoundError("profile", id)
	}
	return profile, nil
}

func (s *profileService) RecordDiagnostic(ctx context.Context, userID string, results map[string]float64) (*models.Profile, error) {
	log := logger.FromContext(ctx).WithUser(userID)
	log.Debug("recording diagnostic: %d results", len(results))

	if len(results) == 0 {
		return nil, errors.NewValidationError("results", "cannot be empty")
	}

	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	parsed := make(map[models.Skill]float64, len(results))
	for _, name := range names {
		skill, ok := models.ParseSkill(name)
		if !ok {
			return nil, errors.NewValidationError("results", fmt.Sprintf("unknown skill %q", name))
		}
		v := results[name]
		if math.IsNaN(v) || v < 0 || v > 1 {
			return nil, errors.NewValidationError("results", fmt.Sprintf("%s must be between 0 and 1", name))
		}
		parsed[skill] = v
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	profile, err := loadProfile(ctx, s.profileRepo, userID)
	if err != nil {
		return nil, err
	}

	for skill, v := range parsed {
		level := math.Round(v * models.MaxSkillLevel)
		if level > profile.Skills.Get(skill) {
			profile.Skills.Set(skill, level)
		}
	}

	if err := s.profileRepo.Update(ctx, *profile); err != nil {
		log.Error("failed to store diagnostic: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("diagnostic recorded")
	return profile, nil
}

func (s *profileService) ResetProgress(ctx context.Context, userID string) (*models.Profile, error) {
	log := logger.FromContext(ctx).WithUser(userID)
	log.Debug("resetting progress")

	unlock := s.locks.Lock(userID)
	defer unlock()

	profile, err := loadProfile(ctx, s.profileRepo, userID)
	if err != nil {
		return nil, err
	}

	reset := profile.ResetProgress()
	if err := s.profileRepo.ResetProgress(ctx, reset); err != nil {
		log.Error("failed to reset progress: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("progress reset")
	return &reset, nil
}

func (s *profileService) SetAdmin(ctx context.Context, userID string, admin bool) (*models.Profile, error) {
	log := logger.FromContext(ctx).WithUser(userID)

	unlock := s.locks.Lock(userID)
	defer unlock()

	profile, err := loadProfile(ctx, s.profileRepo, userID)
	if err != nil {
		return nil, err
	}
	if err := s.profileRepo.SetAdmin(ctx, userID, admin); err != nil {
		log.Error("failed to set admin flag: %v", err)
		return nil, errors.NewInternalError(err)
	}
	profile.IsAdmin = admin

	log.Info("admin flag set to %t", admin)
	return profile, nil
}

func (s *profileService) DeleteProfile(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting profile: id=%s", id)

	unlock := s.locks.Lock(id)
	defer unlock()

	if _, err := loadProfile(ctx, s.profileRepo, id); err != nil {
		return err
	}
	if err := s.profileRepo.Delete(ctx, id); err != nil {
		log.Error("failed to delete profile: %v", err)
		return errors.NewInternalError(err)
	}

	return nil
}
