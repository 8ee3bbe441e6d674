package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vytor/lingoflash/internal/logger"
	"github.com/vytor/lingoflash/internal/models"
	"github.com/vytor/lingoflash/internal/repository"
)

const profileColumns = `id, display_name, is_admin, lessons_completed, total_xp, streak_days, last_active_date, skills, created_at`

type profileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new ProfileRepository implementation
func NewProfileRepository(db *sql.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*models.Profile, error) {
	var (
		p          models.Profile
		lastActive sql.NullTime
		skills     string
	)
	if err := row.Scan(&p.ID, &p.DisplayName, &p.IsAdmin, &p.LessonsCompleted, &p.TotalXP, &p.StreakDays, &lastActive, &skills, &p.CreatedAt); err != nil {
		return nil, err
	}
	vector, err := models.ParseSkillVector(skills)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", p.ID, err)
	}
	p.Skills = vector
	p.LastActiveDate = timePtr(lastActive)
	p.CreatedAt = p.CreatedAt.UTC()
	return &p, nil
}

func (r *profileRepository) Get(ctx context.Context, id string) (*models.Profile, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("getting profile: id=%s", id)

	p, err := scanProfile(r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("profile not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get profile: %v", err)
		return nil, err
	}
	return p, nil
}

func (r *profileRepository) List(ctx context.Context) ([]models.Profile, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("listing profiles")

	rows, err := r.db.QueryContext(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY created_at ASC, id ASC`)
	if err != nil {
		log.Error("failed to list profiles: %v", err)
		return nil, err
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			log.Error("failed to scan profile row: %v", err)
			return nil, err
		}
		profiles = append(profiles, *p)
	}

	log.Debug("found %d profiles", len(profiles))
	return profiles, rows.Err()
}

func (r *profileRepository) Create(ctx context.Context, p models.Profile) error {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("creating profile: id=%s", p.ID)

	skills, err := encodeJSON(p.Skills)
	if err != nil {
		return err
	}
	created := p.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO profiles (id, display_name, is_admin, lessons_completed, total_xp, streak_days, last_active_date, skills, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`, p.ID, p.DisplayName, p.IsAdmin, p.LessonsCompleted, p.TotalXP, p.StreakDays, utcPtr(p.LastActiveDate), skills, created.UTC())
	if err != nil {
		log.Error("failed to create profile: %v", err)
	}
	return err
}

func (r *profileRepository) Update(ctx context.Context, p models.Profile) error {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("updating profile: id=%s, xp=%d, streak=%d", p.ID, p.TotalXP, p.StreakDays)
	return updateProfile(ctx, r.db, p)
}

func updateProfile(ctx context.Context, ex execer, p models.Profile) error {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")

	skills, err := encodeJSON(p.Skills)
	if err != nil {
		return err
	}
	res, err := ex.ExecContext(ctx, `
UPDATE profiles
SET display_name = ?, lessons_completed = ?, total_xp = ?, streak_days = ?, last_active_date = ?, skills = ?
WHERE id = ?
`, p.DisplayName, p.LessonsCompleted, p.TotalXP, p.StreakDays, utcPtr(p.LastActiveDate), skills, p.ID)
	if err != nil {
		log.Error("failed to update profile %s: %v", p.ID, err)
		return err
	}
	return requireAffected(res, p.ID)
}

func requireAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("profile %s: %w", id, sql.ErrNoRows)
	}
	return nil
}

func (r *profileRepository) SetAdmin(ctx context.Context, id string, admin bool) error {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("setting admin flag: id=%s, admin=%t", id, admin)

	res, err := r.db.ExecContext(ctx, `UPDATE profiles SET is_admin = ? WHERE id = ?`, admin, id)
	if err != nil {
		log.Error("failed to set admin flag: %v", err)
		return err
	}
	return requireAffected(res, id)
}

func (r *profileRepository) ResetProgress(ctx context.Context, p models.Profile) error {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("resetting progress: id=%s", p.ID)

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM progress WHERE user_id = ?`, p.ID); err != nil {
			log.Error("failed to delete progress for %s: %v", p.ID, err)
			return err
		}
		return updateProfile(ctx, tx, p)
	})
}

func (r *profileRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("deleting profile and related data: id=%s", id)

	// progress rows go with the profile through ON DELETE CASCADE.
	res, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete profile %s: %v", id, err)
		return err
	}
	return requireAffected(res, id)
}

func (r *profileRepository) Count(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")

	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&n); err != nil {
		log.Error("failed to count profiles: %v", err)
		return 0, err
	}
	return n, nil
}

func (r *profileRepository) CountActiveSince(ctx context.Context, since time.Time) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")

	query, args, err := sqlBuilder.Select("COUNT(*)").
		From("profiles").
		Where("last_active_date IS NOT NULL").
		Where("last_active_date >= ?", since.UTC()).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return 0, err
	}

	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		log.Error("failed to count active profiles: %v", err)
		return 0, err
	}
	return n, nil
}
