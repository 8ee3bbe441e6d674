package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/lingoflash/internal/models"
	"github.com/vytor/lingoflash/internal/repository"
	"github.com/vytor/lingoflash/internal/repository/sqlite"
	"github.com/vytor/lingoflash/internal/testutil"
)

type LessonRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.LessonRepository
}

func (s *LessonRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewLessonRepository(s.db)
}

func (s *LessonRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *LessonRepositorySuite) TestUpsertBatchAndList() {
	ctx := context.Background()

	second := testutil.Lesson(2, 12, map[models.Skill]float64{models.SkillReading: 0.5}, 1)
	second.OrderIndex = 1
	first := testutil.Lesson(1, 8, map[models.Skill]float64{models.SkillGrammar: 1})
	first.OrderIndex = 0
	s.Require().NoError(s.repo.UpsertBatch(ctx, []models.Lesson{second, first}))

	lessons, err := s.repo.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(lessons, 2)
	s.Assert().Equal(int64(1), lessons[0].ID)
	s.Assert().Equal(int64(2), lessons[1].ID)
	s.Assert().Equal([]int64{1}, lessons[1].Prerequisites)
	s.Assert().Equal(0.5, lessons[1].SkillsTargeted[models.SkillReading])
	s.Assert().Empty(lessons[0].Prerequisites)
}

func (s *LessonRepositorySuite) TestUpsertBatch_UpdatesExisting() {
	ctx := context.Background()
	l := testutil.Lesson(1, 8, nil)
	s.Require().NoError(s.repo.UpsertBatch(ctx, []models.Lesson{l}))

	l.Title = "Greetings"
	l.Complexity = 9.5
	s.Require().NoError(s.repo.UpsertBatch(ctx, []models.Lesson{l}))

	got, err := s.repo.Get(ctx, 1)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal("Greetings", got.Title)
	s.Assert().Equal(9.5, got.Complexity)
	s.Assert().Empty(got.SkillsTargeted)

	n, err := s.repo.Count(ctx)
	s.Require().NoError(err)
	s.Assert().Equal(1, n)
}

func (s *LessonRepositorySuite) TestGet_NotFound() {
	got, err := s.repo.Get(context.Background(), 404)
	s.Assert().NoError(err)
	s.Assert().Nil(got)
}

func TestLessonRepositorySuite(t *testing.T) {
	suite.Run(t, new(LessonRepositorySuite))
}
