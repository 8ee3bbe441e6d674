package api

import (
	"net/http"

	"github.com/vytor/lingoflash/internal/guest"
)

func (s *Server) handleGuestMigration(w http.ResponseWriter, r *http.Request) {
	userID, err := s.authorizeWrite(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	state := guest.NewState()
	if err := decodeJSON(w, r, &state); err != nil {
		handleError(w, r, err)
		return
	}

	profile, err := s.GuestService.Migrate(r.Context(), userID, state)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, profile)
}
