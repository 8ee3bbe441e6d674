package repository

import (
	"context"

	"github.com/vytor/lingoflash/internal/models"
)

// LessonRepository handles catalog data access. List returns lessons in
// catalog order.
type LessonRepository interface {
	List(ctx context.Context) ([]models.Lesson, error)
	Get(ctx context.Context, id int64) (*models.Lesson, error)
	UpsertBatch(ctx context.Context, lessons []models.Lesson) error
	Count(ctx context.Context) (int, error)
}
