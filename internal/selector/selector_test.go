package selector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/lingoflash/internal/models"
	"github.com/vytor/lingoflash/internal/selector"
)

func catalog() []models.Lesson {
	return []models.Lesson{
		{ID: 3, OrderIndex: 3, Title: "Past tense", Complexity: 22},
		{ID: 1, OrderIndex: 1, Title: "Greetings", Complexity: 8},
		{ID: 2, OrderIndex: 2, Title: "Numbers", Complexity: 15},
		{ID: 4, OrderIndex: 4, Title: "Conditionals", Complexity: 35, Prerequisites: []int64{3}},
	}
}

func skillsAt(level float64) models.SkillVector {
	var v models.SkillVector
	for _, s := range models.AllSkills() {
		v.Set(s, level)
	}
	return v
}

func TestParsePolicy(t *testing.T) {
	p, err := selector.ParsePolicy(" Linear ")
	require.NoError(t, err)
	assert.Equal(t, selector.PolicyLinear, p)

	p, err = selector.ParsePolicy("complexity")
	require.NoError(t, err)
	assert.Equal(t, selector.PolicyComplexity, p)

	_, err = selector.ParsePolicy("random")
	assert.Error(t, err)
}

func TestSelectNext_LinearFollowsOrder(t *testing.T) {
	sel := selector.SelectNext(catalog(), map[int64]bool{1: true}, skillsAt(10), selector.PolicyLinear)

	require.NotNil(t, sel.Lesson)
	assert.False(t, sel.Completed)
	assert.Equal(t, int64(2), sel.Lesson.ID)
	assert.Equal(t, selector.PolicyLinear, sel.Policy)
}

func TestSelectNext_ComplexityMatchesTarget(t *testing.T) {
	// mean 10 + offset 5 = 15
	sel := selector.SelectNext(catalog(), map[int64]bool{}, skillsAt(10), selector.PolicyComplexity)

	require.NotNil(t, sel.Lesson)
	assert.Equal(t, int64(2), sel.Lesson.ID)
	assert.Equal(t, selector.PolicyComplexity, sel.Policy)
}

func TestSelectNext_ComplexitySkipsLockedLessons(t *testing.T) {
	// target 35 matches lesson 4 exactly, but it needs lesson 3 first.
	sel := selector.SelectNext(catalog(), map[int64]bool{1: true, 2: true}, skillsAt(30), selector.PolicyComplexity)

	require.NotNil(t, sel.Lesson)
	assert.Equal(t, int64(3), sel.Lesson.ID)

	sel = selector.SelectNext(catalog(), map[int64]bool{1: true, 2: true, 3: true}, skillsAt(30), selector.PolicyComplexity)
	require.NotNil(t, sel.Lesson)
	assert.Equal(t, int64(4), sel.Lesson.ID)
}

func TestSelectNext_TiesBreakOnLowestOrder(t *testing.T) {
	lessons := []models.Lesson{
		{ID: 10, OrderIndex: 2, Complexity: 20},
		{ID: 11, OrderIndex: 1, Complexity: 10},
	}
	// target 15 is equidistant from both.
	sel := selector.SelectNext(lessons, nil, skillsAt(10), selector.PolicyComplexity)

	require.NotNil(t, sel.Lesson)
	assert.Equal(t, int64(11), sel.Lesson.ID)
}

func TestSelectNext_FallsBackToLinearWhenAllLocked(t *testing.T) {
	lessons := []models.Lesson{
		{ID: 1, OrderIndex: 1, Complexity: 10, Prerequisites: []int64{99}},
		{ID: 2, OrderIndex: 2, Complexity: 15, Prerequisites: []int64{99}},
	}
	sel := selector.SelectNext(lessons, nil, skillsAt(10), selector.PolicyComplexity)

	require.NotNil(t, sel.Lesson)
	assert.Equal(t, int64(1), sel.Lesson.ID)
	assert.Equal(t, selector.PolicyLinear, sel.Policy)
}

func TestSelectNext_AllComplete(t *testing.T) {
	completed := map[int64]bool{1: true, 2: true, 3: true, 4: true}
	for _, policy := range []selector.Policy{selector.PolicyLinear, selector.PolicyComplexity} {
		sel := selector.SelectNext(catalog(), completed, skillsAt(50), policy)
		assert.True(t, sel.Completed, "policy %s", policy)
		assert.Nil(t, sel.Lesson)
	}
}

func TestSelectNext_EmptyCatalog(t *testing.T) {
	sel := selector.SelectNext(nil, nil, models.DefaultSkillVector(), selector.PolicyComplexity)
	assert.True(t, sel.Completed)
	assert.Nil(t, sel.Lesson)
}

func TestSelectNext_NeverReturnsCompleted(t *testing.T) {
	lessons := catalog()
	completed := map[int64]bool{}
	for _, policy := range []selector.Policy{selector.PolicyLinear, selector.PolicyComplexity} {
		for level := 0.0; level <= 100; level += 7 {
			completed = map[int64]bool{}
			for i := 0; i <= len(lessons); i++ {
				sel := selector.SelectNext(lessons, completed, skillsAt(level), policy)
				if sel.Completed {
					assert.Len(t, completed, len(lessons))
					break
				}
				require.NotNil(t, sel.Lesson)
				require.False(t, completed[sel.Lesson.ID], "policy %s returned completed lesson %d", policy, sel.Lesson.ID)
				completed[sel.Lesson.ID] = true
			}
		}
	}
}

func TestSelectNext_DoesNotReorderInput(t *testing.T) {
	lessons := catalog()
	_ = selector.SelectNext(lessons, nil, skillsAt(10), selector.PolicyLinear)
	assert.Equal(t, int64(3), lessons[0].ID)
}

func TestTargetComplexity(t *testing.T) {
	assert.Equal(t, 15.0, selector.TargetComplexity(models.DefaultSkillVector()))
}
