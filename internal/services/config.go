package services

import (
	"time"

	"github.com/vytor/lingoflash/internal/selector"
)

// Clock returns the current time. Services call it once per operation.
type Clock func() time.Time

// SystemClock reports wall-clock time in UTC.
func SystemClock() time.Time {
	return time.Now().UTC()
}

// LessonConfig holds configuration for lesson completion and selection
type LessonConfig struct {
	Policy selector.Policy
	Clock  Clock
}

func (c LessonConfig) withDefaults() LessonConfig {
	if c.Policy == "" {
		c.Policy = selector.PolicyComplexity
	}
	if c.Clock == nil {
		c.Clock = SystemClock
	}
	return c
}
