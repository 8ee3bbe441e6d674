package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vytor/lingoflash/internal/logger"
	"github.com/vytor/lingoflash/internal/models"
	"github.com/vytor/lingoflash/internal/repository"
)

const lessonColumns = `id, order_index, title, description, complexity, skills_targeted, xp_reward, prerequisites, created_at`

type lessonRepository struct {
	db *sql.DB
}

// NewLessonRepository creates a new LessonRepository implementation
func NewLessonRepository(db *sql.DB) repository.LessonRepository {
	return &lessonRepository{db: db}
}

func scanLesson(row rowScanner) (*models.Lesson, error) {
	var (
		l             models.Lesson
		skills        string
		prerequisites string
	)
	if err := row.Scan(&l.ID, &l.OrderIndex, &l.Title, &l.Description, &l.Complexity, &skills, &l.XPReward, &prerequisites, &l.CreatedAt); err != nil {
		return nil, err
	}

	var weights map[string]float64
	if err := json.Unmarshal([]byte(skills), &weights); err != nil {
		return nil, fmt.Errorf("lesson %d skills: %w", l.ID, err)
	}
	l.SkillsTargeted = make(map[models.Skill]float64, len(weights))
	for name, w := range weights {
		// Unknown skill names left over from older catalogs are ignored.
		if skill, ok := models.ParseSkill(name); ok {
			l.SkillsTargeted[skill] = w
		}
	}
	if err := json.Unmarshal([]byte(prerequisites), &l.Prerequisites); err != nil {
		return nil, fmt.Errorf("lesson %d prerequisites: %w", l.ID, err)
	}
	l.CreatedAt = l.CreatedAt.UTC()
	return &l, nil
}

func (r *lessonRepository) List(ctx context.Context) ([]models.Lesson, error) {
	log := logger.FromContext(ctx).WithPrefix("lesson_repo")
	log.Debug("listing lessons")

	rows, err := r.db.QueryContext(ctx, `SELECT `+lessonColumns+` FROM lessons ORDER BY order_index ASC, id ASC`)
	if err != nil {
		log.Error("failed to list lessons: %v", err)
		return nil, err
	}
	defer rows.Close()

	var lessons []models.Lesson
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			log.Error("failed to scan lesson row: %v", err)
			return nil, err
		}
		lessons = append(lessons, *l)
	}

	log.Debug("found %d lessons", len(lessons))
	return lessons, rows.Err()
}

func (r *lessonRepository) Get(ctx context.Context, id int64) (*models.Lesson, error) {
	log := logger.FromContext(ctx).WithPrefix("lesson_repo")
	log.Debug("getting lesson: id=%d", id)

	l, err := scanLesson(r.db.QueryRowContext(ctx, `SELECT `+lessonColumns+` FROM lessons WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("lesson not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get lesson: %v", err)
		return nil, err
	}
	return l, nil
}

func (r *lessonRepository) UpsertBatch(ctx context.Context, lessons []models.Lesson) error {
	log := logger.FromContext(ctx).WithPrefix("lesson_repo")
	log.Debug("upserting %d lessons", len(lessons))

	if len(lessons) == 0 {
		return nil
	}

	now := time.Now().UTC()
	return tx(ctx, r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
INSERT INTO lessons (id, order_index, title, description, complexity, skills_targeted, xp_reward, prerequisites, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    order_index = excluded.order_index,
    title = excluded.title,
    description = excluded.description,
    complexity = excluded.complexity,
    skills_targeted = excluded.skills_targeted,
    xp_reward = excluded.xp_reward,
    prerequisites = excluded.prerequisites
`)
		if err != nil {
			log.Error("failed to prepare lesson upsert: %v", err)
			return err
		}
		defer stmt.Close()

		for _, l := range lessons {
			weights := l.SkillsTargeted
			if weights == nil {
				weights = map[models.Skill]float64{}
			}
			skills, err := encodeJSON(weights)
			if err != nil {
				return err
			}
			prereqs := l.Prerequisites
			if prereqs == nil {
				prereqs = []int64{}
			}
			prerequisites, err := encodeJSON(prereqs)
			if err != nil {
				return err
			}
			created := l.CreatedAt
			if created.IsZero() {
				created = now
			}
			if _, err := stmt.ExecContext(ctx, l.ID, l.OrderIndex, l.Title, l.Description, l.Complexity, skills, l.XPReward, prerequisites, created.UTC()); err != nil {
				log.Error("failed to upsert lesson %d: %v", l.ID, err)
				return err
			}
		}
		log.Debug("upserted %d lessons", len(lessons))
		return nil
	})
}

func (r *lessonRepository) Count(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("lesson_repo")

	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM lessons`).Scan(&n); err != nil {
		log.Error("failed to count lessons: %v", err)
		return 0, err
	}
	return n, nil
}
