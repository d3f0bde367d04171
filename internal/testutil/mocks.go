package testutil

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"hot100/internal/models"
)

// MockChartRepository is a mock implementation of ChartRepository for testing
type MockChartRepository struct {
	mock.Mock
}

func (m *MockChartRepository) SaveRun(ctx context.Context, run *models.ChartRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockChartRepository) FindRun(ctx context.Context, runDate string) (*models.ChartRun, error) {
	args := m.Called(ctx, runDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChartRun), args.Error(1)
}

func (m *MockChartRepository) LatestRun(ctx context.Context) (*models.ChartRun, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChartRun), args.Error(1)
}

func (m *MockChartRepository) ListRunDates(ctx context.Context, limit int) ([]string, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockCache is a mock implementation of cache.Cache for testing
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockCache) Health(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Helper functions for setting up mock expectations

// ExpectFindRun sets up expectation for FindRun
func ExpectFindRun(repo *MockChartRepository, runDate string, run *models.ChartRun, err error) {
	repo.On("FindRun", mock.Anything, runDate).Return(run, err)
}

// ExpectSaveRun sets up expectation for SaveRun on any run
func ExpectSaveRun(repo *MockChartRepository, err error) {
	repo.On("SaveRun", mock.Anything, mock.AnythingOfType("*models.ChartRun")).Return(err)
}
