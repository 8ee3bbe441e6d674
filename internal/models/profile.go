package models

import "time"

type Profile struct {
	ID               string      `json:"id"`
	DisplayName      string      `json:"display_name"`
	IsAdmin          bool        `json:"is_admin"`
	LessonsCompleted int         `json:"lessons_completed"`
	TotalXP          int         `json:"total_xp"`
	StreakDays       int         `json:"streak_days"`
	LastActiveDate   *time.Time  `json:"last_active_date"`
	Skills           SkillVector `json:"skills"`
	CreatedAt        time.Time   `json:"created_at"`
}

// ResetProgress returns the profile with every progress counter zeroed and
// skills back at their defaults. Identity fields are preserved.
func (p Profile) ResetProgress() Profile {
	p.LessonsCompleted = 0
	p.TotalXP = 0
	p.StreakDays = 0
	p.LastActiveDate = nil
	p.Skills = DefaultSkillVector()
	return p
}
