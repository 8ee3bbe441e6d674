package api

import (
	"net/http"

	"github.com/vytor/lingoflash/internal/errors"
	"github.com/vytor/lingoflash/internal/logger"
	"github.com/vytor/lingoflash/internal/models"
	"github.com/vytor/lingoflash/internal/selector"
)

type completeLessonRequest struct {
	Score *float64 `json:"score"`
}

type completeLessonResponse struct {
	*models.CompletionResult
	NextLesson *selector.Selection `json:"next_lesson"`
}

func (s *Server) handleLessons(w http.ResponseWriter, r *http.Request) {
	lessons, err := s.LessonService.Catalog(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	if lessons == nil {
		lessons = []models.Lesson{}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"lessons": lessons})
}

func (s *Server) handleLesson(w http.ResponseWriter, r *http.Request) {
	id, err := lessonIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	lesson, err := s.LessonService.GetLesson(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, lesson)
}

func (s *Server) handleCompleteLesson(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	userID, err := s.authorizeWrite(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	lessonID, err := lessonIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req completeLessonRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.Score == nil {
		handleError(w, r, errors.NewValidationError("score", "is required"))
		return
	}

	result, err := s.LessonService.CompleteLesson(r.Context(), userID, lessonID, *req.Score)
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp := completeLessonResponse{CompletionResult: result}
	if next, err := s.LessonService.NextLesson(r.Context(), userID); err != nil {
		// The completion is already stored; only the hint is missing.
		log.Warn("failed to select next lesson after completion: %v", err)
	} else {
		resp.NextLesson = next
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleNextLesson(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	next, err := s.LessonService.NextLesson(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, next)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	entries, err := s.LessonService.Progress(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"entries": entries})
}
