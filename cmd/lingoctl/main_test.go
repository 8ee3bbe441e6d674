package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/lingoflash/internal/db"
	"github.com/vytor/lingoflash/internal/models"
	"github.com/vytor/lingoflash/internal/repository/sqlite"
	"github.com/vytor/lingoflash/internal/testutil"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSeedAndLeaderboard(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cli.db")
	catalogPath := filepath.Join("..", "..", "data", "lessons.yaml")

	out, err := execute(t, "--db", dbPath, "--log-level", "error", "seed", "--file", catalogPath)
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 8 lessons")

	out, err = execute(t, "--db", dbPath, "--log-level", "error", "leaderboard", "--window", "weekly")
	require.NoError(t, err)
	assert.Contains(t, out, "no learners")

	_, err = execute(t, "--db", dbPath, "--log-level", "error", "leaderboard", "--window", "monthly")
	assert.Error(t, err)
}

func TestResetUnknownUser(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cli.db")
	_, err := execute(t, "--db", dbPath, "--log-level", "error", "reset", "--user", "ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestPromote(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "cli.db")

	database, err := db.Open(ctx, dbPath)
	require.NoError(t, err)
	repo := sqlite.NewProfileRepository(database.DB)
	require.NoError(t, repo.Create(ctx, testutil.Profile("u-1", "Ana")))
	require.NoError(t, database.Close())

	out, err := execute(t, "--db", dbPath, "--log-level", "error", "promote", "--user", "u-1")
	require.NoError(t, err)
	assert.Contains(t, out, "u-1 admin=true")

	out, err = execute(t, "--db", dbPath, "--log-level", "error", "promote", "--user", "u-1", "--revoke")
	require.NoError(t, err)
	assert.Contains(t, out, "u-1 admin=false")

	_, err = execute(t, "--db", dbPath, "--log-level", "error", "promote", "--user", "ghost")
	assert.Error(t, err)
}

func TestPrintLeaderboard(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printLeaderboard(&buf, []models.LeaderboardEntry{
		{Rank: 1, UserID: "b", DisplayName: "Bo", PeriodXP: 160, PeriodLessons: 2},
		{Rank: 2, UserID: "a", DisplayName: "Ana", PeriodXP: 50},
	}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "RANK"))
	assert.Contains(t, lines[1], "Bo")
	assert.Contains(t, lines[1], "160")
}
