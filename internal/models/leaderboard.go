package models

type LeaderboardEntry struct {
	Rank          int    `json:"rank"`
	UserID        string `json:"user_id"`
	DisplayName   string `json:"display_name"`
	PeriodXP      int    `json:"period_xp"`
	PeriodLessons int    `json:"period_lessons"`
}

type DashboardStats struct {
	Users        int                `json:"users"`
	Lessons      int                `json:"lessons"`
	ProgressRows int                `json:"progress_rows"`
	AverageScore float64            `json:"average_score"`
	ActiveToday  int                `json:"active_today"`
	TopLearners  []LeaderboardEntry `json:"top_learners"`
}
