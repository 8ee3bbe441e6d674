package models

import "time"

type Lesson struct {
	ID             int64             `json:"id"`
	OrderIndex     int               `json:"order_index"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Complexity     float64           `json:"complexity"`
	SkillsTargeted map[Skill]float64 `json:"skills_targeted"`
	XPReward       int               `json:"xp_reward"`
	Prerequisites  []int64           `json:"prerequisites"`
	CreatedAt      time.Time         `json:"created_at"`
}
