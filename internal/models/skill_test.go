package models_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/lingoflash/internal/models"
)

func TestParseSkill(t *testing.T) {
	s, ok := models.ParseSkill(" Vocabulary ")
	assert.True(t, ok)
	assert.Equal(t, models.SkillVocabulary, s)

	_, ok = models.ParseSkill("pronunciation")
	assert.False(t, ok)
}

func TestSkillVector_SetClamps(t *testing.T) {
	var v models.SkillVector
	v.Set(models.SkillReading, 150)
	v.Set(models.SkillWriting, -3)
	v.Set(models.SkillSpeaking, math.NaN())
	v.Set(models.Skill("unknown"), 50)

	assert.Equal(t, models.MaxSkillLevel, v.Reading)
	assert.Zero(t, v.Writing)
	assert.Zero(t, v.Speaking)
	assert.Zero(t, v.Get(models.Skill("unknown")))
}

func TestSkillVector_Mean(t *testing.T) {
	assert.Equal(t, models.DefaultSkillLevel, models.DefaultSkillVector().Mean())

	v := models.SkillVector{Reading: 60}
	assert.Equal(t, 10.0, v.Mean())
}

func TestSkillVector_JSONRoundTrip(t *testing.T) {
	v := models.DefaultSkillVector()
	v.Set(models.SkillGrammar, 33)

	b, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"reading":10,"writing":10,"speaking":10,"grammar":33,"vocabulary":10,"listening":10}`, string(b))

	var decoded models.SkillVector
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, v, decoded)
}

func TestParseSkillVector_MigratesLegacyRecords(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected models.SkillVector
	}{
		{
			name:     "empty uses defaults",
			in:       "",
			expected: models.DefaultSkillVector(),
		},
		{
			name:     "null uses defaults",
			in:       "null",
			expected: models.DefaultSkillVector(),
		},
		{
			name: "partial keys",
			in:   `{"reading": 25, "Grammar": 40}`,
			expected: func() models.SkillVector {
				v := models.DefaultSkillVector()
				v.Reading = 25
				v.Grammar = 40
				return v
			}(),
		},
		{
			name: "string values, unknown keys and out-of-range values",
			in:   `{"writing": "12.5", "pronunciation": 90, "speaking": 400, "listening": -2, "vocabulary": true}`,
			expected: func() models.SkillVector {
				v := models.DefaultSkillVector()
				v.Writing = 12.5
				v.Speaking = models.MaxSkillLevel
				v.Listening = 0
				return v
			}(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := models.ParseSkillVector(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v)
		})
	}

	_, err := models.ParseSkillVector(`[1,2,3]`)
	assert.Error(t, err)
}

func TestProfile_ResetProgress(t *testing.T) {
	p := models.Profile{ID: "u1", DisplayName: "Ana", IsAdmin: true, LessonsCompleted: 4, TotalXP: 320, StreakDays: 6}
	p.Skills.Set(models.SkillReading, 80)

	reset := p.ResetProgress()

	assert.Equal(t, "u1", reset.ID)
	assert.True(t, reset.IsAdmin)
	assert.Zero(t, reset.LessonsCompleted)
	assert.Zero(t, reset.TotalXP)
	assert.Zero(t, reset.StreakDays)
	assert.Nil(t, reset.LastActiveDate)
	assert.Equal(t, models.DefaultSkillVector(), reset.Skills)
}
