package api

import (
	"net/http"

	"github.com/vytor/lingoflash/internal/errors"
	"github.com/vytor/lingoflash/internal/leaderboard"
)

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	window, err := leaderboard.ParseWindow(r.URL.Query().Get("window"))
	if err != nil {
		handleError(w, r, errors.NewValidationError("window", err.Error()))
		return
	}

	entries, err := s.LeaderboardService.Leaderboard(r.Context(), string(window))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"window":  window,
		"entries": entries,
	})
}
