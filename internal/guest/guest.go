// Package guest models the progress a learner accumulates before signing in.
// The client holds this state; it reaches the server only when the learner
// migrates it into an account.
package guest

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/vytor/lingoflash/internal/models"
	"github.com/vytor/lingoflash/internal/scoring"
)

// MaxCompletions bounds a single migration request.
const MaxCompletions = 1000

// MaxClockSkew is how far ahead of the server clock a client timestamp may be.
const MaxClockSkew = 5 * time.Minute

// Completion is one locally recorded lesson completion.
type Completion struct {
	LessonID    int64     `json:"lesson_id"`
	Score       float64   `json:"score"`
	CompletedAt time.Time `json:"completed_at"`
}

// State mirrors the server-side profile counters for a guest.
type State struct {
	Skills           models.SkillVector `json:"skills"`
	LessonsCompleted int                `json:"lessons_completed"`
	StreakDays       int                `json:"streak_days"`
	LastActiveDate   *time.Time         `json:"last_active_date"`
	Completions      []Completion       `json:"completions"`
}

// NewState returns an empty guest state with default skills.
func NewState() State {
	return State{Skills: models.DefaultSkillVector()}
}

// UnmarshalJSON keeps default skills when the client omits them.
func (s *State) UnmarshalJSON(b []byte) error {
	type plain State
	p := plain(NewState())
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*s = State(p)
	return nil
}

// Validate checks every completion before anything is replayed. Completions
// dated after now (plus MaxClockSkew) are rejected.
func (s State) Validate(now time.Time) error {
	latest := now.Add(MaxClockSkew)
	if len(s.Completions) > MaxCompletions {
		return fmt.Errorf("too many completions: %d > %d", len(s.Completions), MaxCompletions)
	}
	for i, c := range s.Completions {
		if c.LessonID <= 0 {
			return fmt.Errorf("completion %d: invalid lesson id %d", i, c.LessonID)
		}
		if err := scoring.ValidateScore(c.Score); err != nil {
			return fmt.Errorf("completion %d: %w", i, err)
		}
		if c.CompletedAt.IsZero() {
			return fmt.Errorf("completion %d: missing completed_at", i)
		}
		if c.CompletedAt.After(latest) {
			return fmt.Errorf("completion %d: completed_at %s is in the future", i, c.CompletedAt.UTC().Format(time.RFC3339))
		}
	}
	return nil
}

// Replay returns the completions in the order they happened. Completions
// with equal timestamps keep their recorded order.
func (s State) Replay() []Completion {
	out := make([]Completion, len(s.Completions))
	copy(out, s.Completions)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompletedAt.Before(out[j].CompletedAt)
	})
	return out
}

// Record applies a completion to the guest state with the same engine the
// server uses, so a client written in Go can keep the mirror in sync. Retake
// count and first-pass status come from the recorded completions.
func (s State) Record(lesson models.Lesson, score float64, now time.Time) State {
	previous := lo.Filter(s.Completions, func(c Completion, _ int) bool { return c.LessonID == lesson.ID })
	wasPassed := lo.ContainsBy(previous, func(c Completion) bool { return scoring.IsPass(c.Score) })

	s.Skills = scoring.ApplyCompletion(s.Skills, lesson.SkillsTargeted, score, scoring.GainFactor(len(previous)))
	if scoring.IsPass(score) && !wasPassed {
		s.LessonsCompleted++
	}
	s.StreakDays = scoring.UpdateStreak(s.StreakDays, s.LastActiveDate, now)
	at := now.UTC()
	s.LastActiveDate = &at
	s.Completions = append(s.Completions, Completion{LessonID: lesson.ID, Score: score, CompletedAt: at})
	return s
}
