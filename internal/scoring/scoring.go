// Package scoring holds the adaptive skill heuristic applied when a learner
// completes a lesson. Everything here is pure; persistence lives in services.
package scoring

import (
	"fmt"
	"math"

	"github.com/vytor/lingoflash/internal/models"
)

const (
	// BaseGain scales a lesson's skill weight into skill points.
	BaseGain = 5.0
	// XPPerLesson is the XP awarded for a perfect score.
	XPPerLesson = 100
	// PassThreshold is the minimum score that counts a lesson as completed.
	PassThreshold = 0.6
	// RetakeCap is the number of completions after which a lesson stops
	// awarding skill points.
	RetakeCap = 3
)

// retakeFactors[n] is the gain factor for a completion with n previous attempts.
var retakeFactors = [RetakeCap]float64{1.0, 0.15, 0.05}

// ceil tolerance so 0.2*5 style products don't round up to the next integer.
const gainEpsilon = 1e-9

// GainFactor returns the multiplier for a completion preceded by
// previousAttempts completions of the same lesson.
func GainFactor(previousAttempts int) float64 {
	if previousAttempts < 0 {
		previousAttempts = 0
	}
	if previousAttempts >= RetakeCap {
		return 0
	}
	return retakeFactors[previousAttempts]
}

// ApplyCompletion adds ceil(weight * BaseGain * score * gainFactor) to every
// targeted skill. Skills never decrease.
func ApplyCompletion(skills models.SkillVector, weights map[models.Skill]float64, score, gainFactor float64) models.SkillVector {
	for _, skill := range models.AllSkills() {
		weight, ok := weights[skill]
		if !ok {
			continue
		}
		gain := weight * BaseGain * score * gainFactor
		if !(gain > 0) {
			continue
		}
		skills.Set(skill, skills.Get(skill)+math.Ceil(gain-gainEpsilon))
	}
	return skills
}

// EntryXP is the XP a single progress entry contributes.
func EntryXP(score float64) int {
	if !(score > 0) {
		return 0
	}
	return int(math.Floor(score*XPPerLesson + gainEpsilon))
}

// TotalXP sums EntryXP over a user's ledger.
func TotalXP(entries []models.ProgressEntry) int {
	total := 0
	for _, e := range entries {
		total += EntryXP(e.Score)
	}
	return total
}

// CountPassed counts entries whose best score is a pass.
func CountPassed(entries []models.ProgressEntry) int {
	n := 0
	for _, e := range entries {
		if IsPass(e.Score) {
			n++
		}
	}
	return n
}

func IsPass(score float64) bool {
	return score >= PassThreshold
}

// ValidateScore rejects NaN and scores outside [0, 1].
func ValidateScore(score float64) error {
	if math.IsNaN(score) || score < 0 || score > 1 {
		return fmt.Errorf("score %v outside [0, 1]", score)
	}
	return nil
}
