package api

import (
	"net/http"

	"github.com/vytor/lingoflash/internal/errors"
	"github.com/vytor/lingoflash/internal/logger"
	"github.com/vytor/lingoflash/internal/models"
)

type createProfileRequest struct {
	DisplayName string `json:"display_name"`
}

type diagnosticRequest struct {
	Results map[string]float64 `json:"results"`
}

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var req createProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	profile, err := s.ProfileService.CreateProfile(r.Context(), req.DisplayName)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, profile)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	caller, err := requireCaller(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	profile, err := s.ProfileService.EnsureProfile(r.Context(), caller.UserID, caller.DisplayName)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, profile)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	profile, err := s.ProfileService.GetProfile(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, profile)
}

func (s *Server) handleDiagnostic(w http.ResponseWriter, r *http.Request) {
	userID, err := s.authorizeWrite(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req diagnosticRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	profile, err := s.ProfileService.RecordDiagnostic(r.Context(), userID, req.Results)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, profile)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	userID, err := s.authorizeWrite(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	profile, err := s.ProfileService.ResetProgress(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, profile)
}

// authorizeWrite checks that the caller may change the learner named in the
// URL: either the learner themselves or an admin. A learner writing their own
// data gets a profile created on first use.
func (s *Server) authorizeWrite(r *http.Request) (string, error) {
	log := logger.FromContext(r.Context())

	userID, err := userIDParam(r)
	if err != nil {
		return "", err
	}
	caller, err := requireCaller(r)
	if err != nil {
		return "", err
	}

	if caller.UserID == userID {
		if _, err := s.ProfileService.EnsureProfile(r.Context(), caller.UserID, caller.DisplayName); err != nil {
			return "", err
		}
		return userID, nil
	}

	requester, err := s.ProfileService.GetProfile(r.Context(), caller.UserID)
	if err != nil && !errors.HasCode(err, errors.ErrCodeNotFound) {
		return "", err
	}
	if !isAdmin(requester) {
		log.Warn("caller %s denied write access to %s", caller.UserID, userID)
		return "", errors.NewUnauthorizedError("modify another learner's progress")
	}
	return userID, nil
}

func isAdmin(p *models.Profile) bool {
	return p != nil && p.IsAdmin
}
