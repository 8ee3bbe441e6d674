package scoring

import "time"

// Streaks and daily boards count calendar days in UTC.

// DayStart returns midnight UTC of the day containing t.
func DayStart(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// UpdateStreak returns the streak after activity at now.
//
// Activity on the same UTC day keeps the streak, activity on the following
// day extends it, anything else starts a new streak of one. A last-active
// date after now is treated as today.
func UpdateStreak(streak int, lastActive *time.Time, now time.Time) int {
	if lastActive == nil {
		return 1
	}
	today := DayStart(now)
	last := DayStart(*lastActive)
	switch {
	case !last.Before(today):
		if streak < 1 {
			return 1
		}
		return streak
	case last.Equal(today.AddDate(0, 0, -1)):
		return streak + 1
	}
	return 1
}
