package api

import (
	"context"
	"time"

	"github.com/vytor/lingoflash/internal/services"
)

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

type Server struct {
	ProfileService     services.ProfileService
	LessonService      services.LessonService
	LeaderboardService services.LeaderboardService
	GuestService       services.GuestService
	AdminService       services.AdminService
	Ready              ReadinessCheck
	RequestTimeout     time.Duration
}
