package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/lingoflash/internal/models"
	"github.com/vytor/lingoflash/internal/repository"
	"github.com/vytor/lingoflash/internal/repository/sqlite"
	"github.com/vytor/lingoflash/internal/testutil"
)

type ProfileRepositorySuite struct {
	suite.Suite
	db       *sql.DB
	repo     repository.ProfileRepository
	progress repository.ProgressRepository
}

func (s *ProfileRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewProfileRepository(s.db)
	s.progress = sqlite.NewProgressRepository(s.db)
}

func (s *ProfileRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *ProfileRepositorySuite) TestCreateAndGet() {
	ctx := context.Background()

	p := testutil.Profile("u-1", "Ana")
	p.Skills.Set(models.SkillGrammar, 42)
	s.Require().NoError(s.repo.Create(ctx, p))

	got, err := s.repo.Get(ctx, "u-1")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal("Ana", got.DisplayName)
	s.Assert().Equal(42.0, got.Skills.Grammar)
	s.Assert().Equal(models.DefaultSkillLevel, got.Skills.Reading)
	s.Assert().Nil(got.LastActiveDate)
	s.Assert().False(got.IsAdmin)
	s.Assert().True(p.CreatedAt.Equal(got.CreatedAt))
}

func (s *ProfileRepositorySuite) TestGet_NotFound() {
	got, err := s.repo.Get(context.Background(), "missing")
	s.Assert().NoError(err)
	s.Assert().Nil(got)
}

func (s *ProfileRepositorySuite) TestGet_LegacySkills() {
	ctx := context.Background()
	_, err := s.db.ExecContext(ctx, `INSERT INTO profiles (id, display_name, skills) VALUES (?, ?, ?)`,
		"legacy", "Old", `{"reading":"55","grammar":250,"cooking":3}`)
	s.Require().NoError(err)

	got, err := s.repo.Get(ctx, "legacy")
	s.Require().NoError(err)
	s.Assert().Equal(55.0, got.Skills.Reading)
	s.Assert().Equal(models.MaxSkillLevel, got.Skills.Grammar)
	s.Assert().Equal(models.DefaultSkillLevel, got.Skills.Listening)
}

func (s *ProfileRepositorySuite) TestUpdate() {
	ctx := context.Background()
	p := testutil.Profile("u-1", "Ana")
	s.Require().NoError(s.repo.Create(ctx, p))

	active := testutil.Date(2024, time.March, 3, 9, 30)
	p.TotalXP = 180
	p.LessonsCompleted = 2
	p.StreakDays = 3
	p.LastActiveDate = &active
	p.Skills.Set(models.SkillVocabulary, 20)
	s.Require().NoError(s.repo.Update(ctx, p))

	got, err := s.repo.Get(ctx, "u-1")
	s.Require().NoError(err)
	s.Assert().Equal(180, got.TotalXP)
	s.Assert().Equal(2, got.LessonsCompleted)
	s.Assert().Equal(3, got.StreakDays)
	s.Require().NotNil(got.LastActiveDate)
	s.Assert().True(active.Equal(*got.LastActiveDate))
	s.Assert().Equal(20.0, got.Skills.Vocabulary)
}

func (s *ProfileRepositorySuite) TestUpdate_Missing() {
	err := s.repo.Update(context.Background(), testutil.Profile("ghost", "Ghost"))
	s.Assert().ErrorIs(err, sql.ErrNoRows)
}

func (s *ProfileRepositorySuite) TestSetAdminAndList() {
	ctx := context.Background()
	s.Require().NoError(s.repo.Create(ctx, testutil.Profile("a", "A")))
	b := testutil.Profile("b", "B")
	b.CreatedAt = b.CreatedAt.Add(time.Hour)
	s.Require().NoError(s.repo.Create(ctx, b))

	s.Require().NoError(s.repo.SetAdmin(ctx, "b", true))
	s.Assert().Error(s.repo.SetAdmin(ctx, "nobody", true))

	profiles, err := s.repo.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(profiles, 2)
	s.Assert().Equal("a", profiles[0].ID)
	s.Assert().True(profiles[1].IsAdmin)

	n, err := s.repo.Count(ctx)
	s.Require().NoError(err)
	s.Assert().Equal(2, n)
}

func (s *ProfileRepositorySuite) TestResetProgress() {
	ctx := context.Background()
	p := testutil.Profile("u-1", "Ana")
	s.Require().NoError(s.repo.Create(ctx, p))

	now := testutil.Date(2024, time.May, 1, 12, 0)
	p.TotalXP = 90
	p.LessonsCompleted = 1
	p.StreakDays = 1
	p.LastActiveDate = &now
	s.Require().NoError(s.progress.SaveCompletion(ctx, models.ProgressEntry{UserID: "u-1", LessonID: 1, Score: 0.9, Attempts: 1, CompletedAt: now}, p))

	s.Require().NoError(s.repo.ResetProgress(ctx, p.ResetProgress()))

	got, err := s.repo.Get(ctx, "u-1")
	s.Require().NoError(err)
	s.Assert().Zero(got.TotalXP)
	s.Assert().Zero(got.LessonsCompleted)
	s.Assert().Nil(got.LastActiveDate)
	s.Assert().Equal(models.DefaultSkillVector(), got.Skills)

	entries, err := s.progress.List(ctx, models.ProgressFilter{UserID: "u-1"})
	s.Require().NoError(err)
	s.Assert().Empty(entries)
}

func (s *ProfileRepositorySuite) TestDelete_CascadesProgress() {
	ctx := context.Background()
	p := testutil.Profile("u-1", "Ana")
	s.Require().NoError(s.repo.Create(ctx, p))
	s.Require().NoError(s.progress.SaveCompletion(ctx, models.ProgressEntry{UserID: "u-1", LessonID: 7, Score: 1, Attempts: 1, CompletedAt: time.Now()}, p))

	s.Require().NoError(s.repo.Delete(ctx, "u-1"))
	s.Assert().Error(s.repo.Delete(ctx, "u-1"))

	stats, err := s.progress.Stats(ctx)
	s.Require().NoError(err)
	s.Assert().Zero(stats.Rows)
}

func (s *ProfileRepositorySuite) TestCountActiveSince() {
	ctx := context.Background()
	today := testutil.Date(2024, time.June, 10, 0, 0)

	for i, offset := range []time.Duration{-time.Hour, time.Minute, 5 * time.Hour} {
		p := testutil.Profile(string(rune('a'+i)), "P")
		at := today.Add(offset)
		p.LastActiveDate = &at
		s.Require().NoError(s.repo.Create(ctx, p))
	}
	s.Require().NoError(s.repo.Create(ctx, testutil.Profile("never", "N")))

	n, err := s.repo.CountActiveSince(ctx, today)
	s.Require().NoError(err)
	s.Assert().Equal(2, n)
}

func TestProfileRepositorySuite(t *testing.T) {
	suite.Run(t, new(ProfileRepositorySuite))
}
