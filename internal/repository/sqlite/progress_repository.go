package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/lingoflash/internal/logger"
	"github.com/vytor/lingoflash/internal/models"
	"github.com/vytor/lingoflash/internal/repository"
	"github.com/vytor/lingoflash/internal/scoring"
)

type progressRepository struct {
	db *sql.DB
}

// NewProgressRepository creates a new ProgressRepository implementation
func NewProgressRepository(db *sql.DB) repository.ProgressRepository {
	return &progressRepository{db: db}
}

func scanEntry(row rowScanner) (*models.ProgressEntry, error) {
	var e models.ProgressEntry
	if err := row.Scan(&e.UserID, &e.LessonID, &e.Score, &e.Attempts, &e.CompletedAt); err != nil {
		return nil, err
	}
	e.CompletedAt = e.CompletedAt.UTC()
	return &e, nil
}

func (r *progressRepository) Get(ctx context.Context, userID string, lessonID int64) (*models.ProgressEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("getting progress: user_id=%s, lesson_id=%d", userID, lessonID)

	e, err := scanEntry(r.db.QueryRowContext(ctx, `
SELECT user_id, lesson_id, score, attempts, completed_at
FROM progress
WHERE user_id = ? AND lesson_id = ?
`, userID, lessonID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get progress: %v", err)
		return nil, err
	}
	return e, nil
}

func (r *progressRepository) List(ctx context.Context, filter models.ProgressFilter) ([]models.ProgressEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("listing progress with filter: user_id=%s, since=%v, passed_only=%t", filter.UserID, filter.Since, filter.PassedOnly)

	query := sqlBuilder.Select("user_id", "lesson_id", "score", "attempts", "completed_at").From("progress")

	// Dynamic WHERE clauses
	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"user_id": filter.UserID})
	}
	if filter.Since != nil {
		query = query.Where(squirrel.GtOrEq{"completed_at": filter.Since.UTC()})
	}
	if filter.PassedOnly {
		query = query.Where(squirrel.GtOrEq{"score": scoring.PassThreshold})
	}
	query = query.OrderBy("completed_at ASC", "user_id ASC", "lesson_id ASC")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list progress: %v", err)
		return nil, err
	}
	defer rows.Close()

	var entries []models.ProgressEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			log.Error("failed to scan progress row: %v", err)
			return nil, err
		}
		entries = append(entries, *e)
	}

	log.Debug("found %d progress entries", len(entries))
	return entries, rows.Err()
}

func (r *progressRepository) SaveCompletion(ctx context.Context, entry models.ProgressEntry, profile models.Profile) error {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("saving completion: user_id=%s, lesson_id=%d, attempts=%d", entry.UserID, entry.LessonID, entry.Attempts)

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO progress (user_id, lesson_id, score, attempts, completed_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(user_id, lesson_id) DO UPDATE SET
    score = excluded.score,
    attempts = excluded.attempts,
    completed_at = excluded.completed_at
`, entry.UserID, entry.LessonID, entry.Score, entry.Attempts, entry.CompletedAt.UTC()); err != nil {
			log.Error("failed to upsert progress: %v", err)
			return err
		}
		return updateProfile(ctx, tx, profile)
	})
}

func (r *progressRepository) Stats(ctx context.Context) (models.ProgressStats, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")

	var (
		stats models.ProgressStats
		avg   sql.NullFloat64
	)
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*), AVG(score) FROM progress`).Scan(&stats.Rows, &avg); err != nil {
		log.Error("failed to compute progress stats: %v", err)
		return models.ProgressStats{}, err
	}
	stats.AverageScore = avg.Float64
	return stats, nil
}
