package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"hot100/internal/models"
)

// MockCatalogService is a mock implementation of CatalogService for testing
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) SearchTracks(ctx context.Context, query string, limit int) ([]TrackInfo, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]TrackInfo), args.Error(1)
}

func (m *MockCatalogService) GetTrack(ctx context.Context, trackID string) (*TrackInfo, error) {
	args := m.Called(ctx, trackID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TrackInfo), args.Error(1)
}

func (m *MockCatalogService) GetAudioFeatures(ctx context.Context, trackID string) (*AudioFeatures, error) {
	args := m.Called(ctx, trackID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*AudioFeatures), args.Error(1)
}

func (m *MockCatalogService) SearchArtists(ctx context.Context, query string, limit int) ([]models.ArtistRecord, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ArtistRecord), args.Error(1)
}

// MockVideoService is a mock implementation of VideoService for testing
type MockVideoService struct {
	mock.Mock
}

func (m *MockVideoService) GetVideo(ctx context.Context, videoID string) (*models.VideoRecord, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VideoRecord), args.Error(1)
}

// MockPostSource is a mock implementation of PostSource for testing
type MockPostSource struct {
	mock.Mock
}

func (m *MockPostSource) HotPosts(ctx context.Context, subreddit string, limit int) ([]models.Post, error) {
	args := m.Called(ctx, subreddit, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

// NotFoundError builds the error a platform returns for a missing item
func NotFoundError(platform, operation string) error {
	return &PlatformError{Platform: platform, Operation: operation, Err: ErrNotFound}
}
