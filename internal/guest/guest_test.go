package guest_test

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/lingoflash/internal/guest"
	"github.com/vytor/lingoflash/internal/models"
)

var day = time.Date(2026, 1, 12, 9, 0, 0, 0, time.UTC)

func TestValidate(t *testing.T) {
	ok := guest.State{Completions: []guest.Completion{{LessonID: 1, Score: 0.8, CompletedAt: day}}}
	assert.NoError(t, ok.Validate(day))

	tests := map[string]guest.Completion{
		"bad lesson":   {LessonID: 0, Score: 0.5, CompletedAt: day},
		"score high":   {LessonID: 1, Score: 1.5, CompletedAt: day},
		"score NaN":    {LessonID: 1, Score: math.NaN(), CompletedAt: day},
		"missing time": {LessonID: 1, Score: 0.5},
	}
	for name, c := range tests {
		t.Run(name, func(t *testing.T) {
			s := guest.State{Completions: []guest.Completion{c}}
			assert.Error(t, s.Validate(day))
		})
	}

	tooMany := guest.State{Completions: make([]guest.Completion, guest.MaxCompletions+1)}
	assert.Error(t, tooMany.Validate(day))
}

func TestValidate_RejectsFutureCompletions(t *testing.T) {
	skewed := guest.State{Completions: []guest.Completion{{LessonID: 1, Score: 1, CompletedAt: day.Add(guest.MaxClockSkew)}}}
	assert.NoError(t, skewed.Validate(day))

	future := guest.State{Completions: []guest.Completion{
		{LessonID: 1, Score: 1, CompletedAt: day},
		{LessonID: 2, Score: 1, CompletedAt: time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)},
	}}
	err := future.Validate(day)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "completion 1")
	assert.Contains(t, err.Error(), "future")
}

func TestReplay_OrdersByTimeStable(t *testing.T) {
	s := guest.State{Completions: []guest.Completion{
		{LessonID: 3, CompletedAt: day.Add(2 * time.Hour)},
		{LessonID: 1, CompletedAt: day},
		{LessonID: 2, CompletedAt: day},
	}}

	replay := s.Replay()

	require.Len(t, replay, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{replay[0].LessonID, replay[1].LessonID, replay[2].LessonID})
	assert.Equal(t, int64(3), s.Completions[0].LessonID, "original order untouched")
}

func TestRecord_MirrorsServerScoring(t *testing.T) {
	lesson := models.Lesson{ID: 7, SkillsTargeted: map[models.Skill]float64{models.SkillReading: 1.0}}
	s := guest.NewState()

	s = s.Record(lesson, 1.0, day)
	s = s.Record(lesson, 1.0, day.Add(24*time.Hour))

	assert.Equal(t, 16.0, s.Skills.Reading)
	assert.Equal(t, 1, s.LessonsCompleted)
	assert.Equal(t, 2, s.StreakDays)
	require.NotNil(t, s.LastActiveDate)
	assert.Equal(t, day.Add(24*time.Hour), *s.LastActiveDate)
	assert.Len(t, s.Completions, 2)
}

func TestRecord_FailThenPassCountsAsFirstPass(t *testing.T) {
	lesson := models.Lesson{ID: 4, SkillsTargeted: map[models.Skill]float64{models.SkillGrammar: 1.0}}
	s := guest.NewState()

	s = s.Record(lesson, 0.3, day)
	assert.Equal(t, 0, s.LessonsCompleted)

	s = s.Record(lesson, 0.8, day.Add(time.Hour))
	assert.Equal(t, 1, s.LessonsCompleted)

	s = s.Record(lesson, 0.9, day.Add(2*time.Hour))
	assert.Equal(t, 1, s.LessonsCompleted)
	// Gain factors 1.0, 0.15, 0.05: 10 + ceil(1.5) + ceil(0.6) + ceil(0.225).
	assert.Equal(t, 14.0, s.Skills.Grammar)
}

func TestState_DecodesPartialSkills(t *testing.T) {
	var s guest.State
	err := json.Unmarshal([]byte(`{"skills":{"reading":42,"grammar":"17"},"streak_days":3}`), &s)
	require.NoError(t, err)

	assert.Equal(t, 42.0, s.Skills.Reading)
	assert.Equal(t, 17.0, s.Skills.Grammar)
	assert.Equal(t, models.DefaultSkillLevel, s.Skills.Speaking)
	assert.Equal(t, 3, s.StreakDays)
}

func TestState_DecodesMissingSkillsAsDefaults(t *testing.T) {
	var s guest.State
	require.NoError(t, json.Unmarshal([]byte(`{"lessons_completed":2}`), &s))

	assert.Equal(t, models.DefaultSkillVector(), s.Skills)
	assert.Equal(t, 2, s.LessonsCompleted)
}
