package models

import "time"

// ProgressEntry is the ledger row for one (user, lesson) pair. Score is the
// best score across attempts and CompletedAt the latest attempt.
type ProgressEntry struct {
	UserID      string    `json:"user_id"`
	LessonID    int64     `json:"lesson_id"`
	Score       float64   `json:"score"`
	Attempts    int       `json:"attempts"`
	CompletedAt time.Time `json:"completed_at"`
}

type ProgressFilter struct {
	UserID     string
	Since      *time.Time
	PassedOnly bool
}

// ProgressStats summarizes the whole ledger.
type ProgressStats struct {
	Rows         int     `json:"rows"`
	AverageScore float64 `json:"average_score"`
}

// CompletionResult describes the effect of a single lesson completion.
type CompletionResult struct {
	Profile     Profile       `json:"profile"`
	Entry       ProgressEntry `json:"entry"`
	GainFactor  float64       `json:"gain_factor"`
	XPGained    int           `json:"xp_gained"`
	FirstPass   bool          `json:"first_pass"`
	LessonKnown bool          `json:"lesson_known"`
}
