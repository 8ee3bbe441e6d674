// Package leaderboard ranks learners by XP earned in a time window.
package leaderboard

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/vytor/lingoflash/internal/models"
	"github.com/vytor/lingoflash/internal/scoring"
)

// MaxEntries bounds every leaderboard.
const MaxEntries = 50

type Window string

const (
	WindowDaily   Window = "daily"
	WindowWeekly  Window = "weekly"
	WindowAllTime Window = "all_time"
)

// ParseWindow maps a query value to a Window. An empty value means all time.
func ParseWindow(s string) (Window, error) {
	switch w := Window(strings.ToLower(strings.TrimSpace(s))); w {
	case "":
		return WindowAllTime, nil
	case WindowDaily, WindowWeekly, WindowAllTime:
		return w, nil
	}
	return "", fmt.Errorf("unknown leaderboard window %q", s)
}

// Start returns the earliest completion time counted by the window, or nil
// for all time. Daily boards start at UTC midnight; weekly boards cover the
// rolling 7x24h before now.
func (w Window) Start(now time.Time) *time.Time {
	var start time.Time
	switch w {
	case WindowDaily:
		start = scoring.DayStart(now)
	case WindowWeekly:
		start = now.UTC().Add(-7 * 24 * time.Hour)
	default:
		return nil
	}
	return &start
}

// Aggregate builds the leaderboard for window. For all-time boards the
// profile counters are used directly; otherwise entries completed since the
// window start are summed per user and users with no XP in the window are
// left out. Progress for unknown users is ignored.
func Aggregate(entries []models.ProgressEntry, profiles []models.Profile, window Window, now time.Time) []models.LeaderboardEntry {
	byID := lo.KeyBy(profiles, func(p models.Profile) string { return p.ID })

	var board []models.LeaderboardEntry
	if start := window.Start(now); start == nil {
		board = lo.Map(profiles, func(p models.Profile, _ int) models.LeaderboardEntry {
			return models.LeaderboardEntry{
				UserID:        p.ID,
				DisplayName:   p.DisplayName,
				PeriodXP:      p.TotalXP,
				PeriodLessons: p.LessonsCompleted,
			}
		})
	} else {
		inWindow := lo.Filter(entries, func(e models.ProgressEntry, _ int) bool {
			return !e.CompletedAt.Before(*start)
		})
		for userID, userEntries := range lo.GroupBy(inWindow, func(e models.ProgressEntry) string { return e.UserID }) {
			p, ok := byID[userID]
			if !ok {
				continue
			}
			xp := scoring.TotalXP(userEntries)
			if xp == 0 {
				continue
			}
			board = append(board, models.LeaderboardEntry{
				UserID:        userID,
				DisplayName:   p.DisplayName,
				PeriodXP:      xp,
				PeriodLessons: scoring.CountPassed(userEntries),
			})
		}
	}

	sort.Slice(board, func(i, j int) bool {
		a, b := board[i], board[j]
		if a.PeriodXP != b.PeriodXP {
			return a.PeriodXP > b.PeriodXP
		}
		if a.PeriodLessons != b.PeriodLessons {
			return a.PeriodLessons > b.PeriodLessons
		}
		if a.DisplayName != b.DisplayName {
			return a.DisplayName < b.DisplayName
		}
		return a.UserID < b.UserID
	})
	if len(board) > MaxEntries {
		board = board[:MaxEntries]
	}
	for i := range board {
		board[i].Rank = i + 1
	}
	return board
}
