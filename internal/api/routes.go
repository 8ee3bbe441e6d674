package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(loggingMiddleware)
	r.Use(recoveryMiddleware)
	r.Use(securityHeadersMiddleware)
	if s.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.RequestTimeout))
	}

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Use(identityMiddleware)

		r.Post("/profiles", s.handleCreateProfile)
		r.Get("/me", s.handleMe)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/", s.handleGetProfile)
			r.Get("/next-lesson", s.handleNextLesson)
			r.Get("/progress", s.handleProgress)
			r.Post("/lessons/{lessonID}/complete", s.handleCompleteLesson)
			r.Post("/diagnostic", s.handleDiagnostic)
			r.Post("/reset", s.handleReset)
			r.Post("/guest-migration", s.handleGuestMigration)
		})

		r.Get("/lessons", s.handleLessons)
		r.Get("/lessons/{lessonID}", s.handleLesson)
		r.Get("/leaderboard", s.handleLeaderboard)
		r.Get("/admin/dashboard", s.handleDashboard)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handleError(w, r, errNotFoundRoute(r))
	})
	return r
}
