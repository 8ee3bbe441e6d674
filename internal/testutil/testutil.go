package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/vytor/lingoflash/internal/db"
	"github.com/vytor/lingoflash/internal/models"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// The pool is pinned to one connection so every query sees the same memory
// database.
func NewTestDB(t *testing.T) *sql.DB {
	conn, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(context.Background(), conn), "failed to apply migrations")
	return conn
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// Date returns a UTC timestamp, handy for table tests around day boundaries.
func Date(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC)
}

// Lesson builds a catalog lesson with sensible defaults.
func Lesson(id int64, complexity float64, weights map[models.Skill]float64, prerequisites ...int64) models.Lesson {
	return models.Lesson{
		ID:             id,
		OrderIndex:     int(id),
		Title:          "Lesson",
		Complexity:     complexity,
		SkillsTargeted: weights,
		XPReward:       100,
		Prerequisites:  prerequisites,
	}
}

// Profile builds a fresh profile with default skills.
func Profile(id, name string) models.Profile {
	return models.Profile{
		ID:          id,
		DisplayName: name,
		Skills:      models.DefaultSkillVector(),
		CreatedAt:   Date(2024, time.January, 1, 0, 0),
	}
}
