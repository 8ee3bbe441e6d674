package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/lingoflash/internal/models"
)

// MockProgressRepository is a mock implementation of repository.ProgressRepository
type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) Get(ctx context.Context, userID string, lessonID int64) (*models.ProgressEntry, error) {
	args := m.Called(ctx, userID, lessonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProgressEntry), args.Error(1)
}

func (m *MockProgressRepository) List(ctx context.Context, filter models.ProgressFilter) ([]models.ProgressEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ProgressEntry), args.Error(1)
}

func (m *MockProgressRepository) SaveCompletion(ctx context.Context, entry models.ProgressEntry, profile models.Profile) error {
	args := m.Called(ctx, entry, profile)
	return args.Error(0)
}

func (m *MockProgressRepository) Stats(ctx context.Context) (models.ProgressStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.ProgressStats), args.Error(1)
}
