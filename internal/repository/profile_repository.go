package repository

import (
	"context"
	"time"

	"github.com/vytor/lingoflash/internal/models"
)

// ProfileRepository handles learner profile data access. Get returns
// (nil, nil) when the profile does not exist.
type ProfileRepository interface {
	Get(ctx context.Context, id string) (*models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	Create(ctx context.Context, profile models.Profile) error
	Update(ctx context.Context, profile models.Profile) error
	SetAdmin(ctx context.Context, id string, admin bool) error
	// ResetProgress deletes the learner's progress rows and stores the
	// reset profile in one transaction.
	ResetProgress(ctx context.Context, profile models.Profile) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	CountActiveSince(ctx context.Context, since time.Time) (int, error)
}
