package repository

import (
	"context"

	"github.com/vytor/lingoflash/internal/models"
)

// ProgressRepository handles the per-learner progress ledger.
type ProgressRepository interface {
	Get(ctx context.Context, userID string, lessonID int64) (*models.ProgressEntry, error)
	List(ctx context.Context, filter models.ProgressFilter) ([]models.ProgressEntry, error)
	// SaveCompletion writes the progress entry and the updated profile
	// atomically.
	SaveCompletion(ctx context.Context, entry models.ProgressEntry, profile models.Profile) error
	Stats(ctx context.Context) (models.ProgressStats, error)
}
