package catalog_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/lingoflash/internal/catalog"
	"github.com/vytor/lingoflash/internal/models"
)

const sample = `
lessons:
  - id: 1
    order: 1
    title: Greetings
    description: Say hello and goodbye
    complexity: 8
    xp_reward: 50
    skills:
      vocabulary: 0.8
      speaking: 0.4
  - id: 2
    order: 2
    title: Present tense
    complexity: 14
    xp_reward: 60
    skills:
      Grammar: 1.0
    prerequisites: [1]
`

func TestLoad(t *testing.T) {
	lessons, err := catalog.Load(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, lessons, 2)

	assert.Equal(t, "Greetings", lessons[0].Title)
	assert.Equal(t, 8.0, lessons[0].Complexity)
	assert.Equal(t, map[models.Skill]float64{models.SkillVocabulary: 0.8, models.SkillSpeaking: 0.4}, lessons[0].SkillsTargeted)
	assert.Equal(t, []int64{1}, lessons[1].Prerequisites)
	assert.Equal(t, 1.0, lessons[1].SkillsTargeted[models.SkillGrammar])
}

func TestLoad_Empty(t *testing.T) {
	lessons, err := catalog.Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, lessons)
}

func TestLoad_RejectsUnknownFieldsAndSkills(t *testing.T) {
	_, err := catalog.Load(strings.NewReader("lessons:\n  - id: 1\n    dificulty: 3\n"))
	assert.Error(t, err)

	_, err = catalog.Load(strings.NewReader("lessons:\n  - id: 1\n    title: x\n    complexity: 1\n    skills:\n      pronunciation: 1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown skill")
}

func TestValidate(t *testing.T) {
	valid := []models.Lesson{
		{ID: 1, Title: "a", Complexity: 1},
		{ID: 2, Title: "b", Complexity: 2, Prerequisites: []int64{1}},
	}
	assert.NoError(t, catalog.Validate(valid))
	assert.NoError(t, catalog.Validate(nil))

	tests := []struct {
		name    string
		lessons []models.Lesson
		want    string
	}{
		{"duplicate id", []models.Lesson{{ID: 1, Title: "a", Complexity: 1}, {ID: 1, Title: "b", Complexity: 1}}, "duplicate lesson id 1"},
		{"non-positive id", []models.Lesson{{ID: 0, Title: "a", Complexity: 1}}, "id must be positive"},
		{"missing title", []models.Lesson{{ID: 1, Complexity: 1}}, "title is required"},
		{"zero complexity", []models.Lesson{{ID: 1, Title: "a"}}, "complexity must be positive"},
		{"weight out of range", []models.Lesson{{ID: 1, Title: "a", Complexity: 1, SkillsTargeted: map[models.Skill]float64{models.SkillReading: 1.5}}}, "weight for reading"},
		{"dangling prerequisite", []models.Lesson{{ID: 1, Title: "a", Complexity: 1, Prerequisites: []int64{9}}}, "missing prerequisite 9"},
		{"self prerequisite", []models.Lesson{{ID: 1, Title: "a", Complexity: 1, Prerequisites: []int64{1}}}, "itself"},
		{"cycle", []models.Lesson{
			{ID: 1, Title: "a", Complexity: 1, Prerequisites: []int64{3}},
			{ID: 2, Title: "b", Complexity: 1, Prerequisites: []int64{1}},
			{ID: 3, Title: "c", Complexity: 1, Prerequisites: []int64{2}},
			{ID: 4, Title: "d", Complexity: 1},
		}, "cycle involving lessons: 1, 2, 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := catalog.Validate(tt.lessons)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
