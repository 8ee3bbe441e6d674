// Package selector recommends the next lesson for a learner.
package selector

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/vytor/lingoflash/internal/models"
)

// ComplexityOffset is added to a learner's mean skill to obtain the target
// lesson complexity.
const ComplexityOffset = 5.0

// Policy chooses how SelectNext ranks eligible lessons.
type Policy string

const (
	PolicyLinear     Policy = "linear"
	PolicyComplexity Policy = "complexity"
)

// ParsePolicy accepts "linear" or "complexity" (case-insensitive).
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyLinear, PolicyComplexity:
		return p, nil
	}
	return "", fmt.Errorf("unknown selection policy %q", s)
}

// Selection is the result of SelectNext. Completed is set, and Lesson nil,
// when no lesson remains.
type Selection struct {
	Lesson    *models.Lesson `json:"lesson"`
	Completed bool           `json:"completed"`
	Policy    Policy         `json:"policy"`
}

// Done is the "all lessons complete" sentinel.
func Done(policy Policy) Selection {
	return Selection{Completed: true, Policy: policy}
}

// SelectNext picks the next lesson under the given policy. It never returns a
// lesson whose id is in completed.
func SelectNext(lessons []models.Lesson, completed map[int64]bool, skills models.SkillVector, policy Policy) Selection {
	ordered := sortedByOrder(lessons)
	remaining := lo.Filter(ordered, func(l models.Lesson, _ int) bool { return !completed[l.ID] })
	if len(remaining) == 0 {
		return Done(policy)
	}

	if policy == PolicyComplexity {
		if l, ok := closestComplexity(remaining, completed, TargetComplexity(skills)); ok {
			return Selection{Lesson: &l, Policy: PolicyComplexity}
		}
		// Every remaining lesson is locked behind a prerequisite that can't
		// be satisfied; fall back to catalog order.
	}

	first := remaining[0]
	return Selection{Lesson: &first, Policy: PolicyLinear}
}

// TargetComplexity is the complexity a learner with the given skills should
// attempt next.
func TargetComplexity(skills models.SkillVector) float64 {
	return skills.Mean() + ComplexityOffset
}

// Unlocked reports whether every prerequisite of l is in completed.
func Unlocked(l models.Lesson, completed map[int64]bool) bool {
	return lo.EveryBy(l.Prerequisites, func(id int64) bool { return completed[id] })
}

func closestComplexity(ordered []models.Lesson, completed map[int64]bool, target float64) (models.Lesson, bool) {
	var best models.Lesson
	bestDist := math.Inf(1)
	found := false
	for _, l := range ordered {
		if !Unlocked(l, completed) {
			continue
		}
		// Strict comparison keeps the lowest order on ties.
		if d := math.Abs(l.Complexity - target); d < bestDist {
			best, bestDist, found = l, d, true
		}
	}
	return best, found
}

func sortedByOrder(lessons []models.Lesson) []models.Lesson {
	out := make([]models.Lesson, len(lessons))
	copy(out, lessons)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].OrderIndex != out[j].OrderIndex {
			return out[i].OrderIndex < out[j].OrderIndex
		}
		return out[i].ID < out[j].ID
	})
	return out
}
