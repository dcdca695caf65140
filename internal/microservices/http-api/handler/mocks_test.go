package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"storyhub/internal/logger"
	"storyhub/internal/microservices/http-api/dto"
	"storyhub/internal/microservices/http-api/models"
	"storyhub/internal/microservices/http-api/repository"
	"storyhub/internal/microservices/http-api/service"
	"storyhub/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testUserID  = "6f1c1f5e-34d1-4a37-9d55-2c1d5b1e7a10"
	testStoryID = "0b9e9a55-8d1c-4a77-b4d8-3e6f2f0c7c21"
)

// MockProgressService mocks the ProgressService interface
type MockProgressService struct {
	mock.Mock
}

func (m *MockProgressService) RecordProgress(ctx context.Context, userID, storyID string, fields service.ProgressFields) (*models.ReadingProgress, error) {
	args := m.Called(ctx, userID, storyID, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReadingProgress), args.Error(1)
}

func (m *MockProgressService) GetProgress(ctx context.Context, userID, storyID string) (*models.ReadingProgress, error) {
	args := m.Called(ctx, userID, storyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReadingProgress), args.Error(1)
}

func (m *MockProgressService) ListProgress(ctx context.Context, userID string, status *shared.ProgressStatus) ([]models.ReadingProgress, error) {
	args := m.Called(ctx, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReadingProgress), args.Error(1)
}

func (m *MockProgressService) ListCompleted(ctx context.Context, userID string) ([]models.ReadingProgress, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReadingProgress), args.Error(1)
}

func (m *MockProgressService) DeleteProgress(ctx context.Context, userID, storyID string) error {
	args := m.Called(ctx, userID, storyID)
	return args.Error(0)
}

// MockRatingService mocks the RatingService interface
type MockRatingService struct {
	mock.Mock
}

func (m *MockRatingService) SubmitRating(ctx context.Context, userID, storyID string, value int, comment *string) (*service.RatingResult, error) {
	args := m.Called(ctx, userID, storyID, value, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RatingResult), args.Error(1)
}

func (m *MockRatingService) DeleteRating(ctx context.Context, userID, storyID string) (*service.Aggregate, error) {
	args := m.Called(ctx, userID, storyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Aggregate), args.Error(1)
}

func (m *MockRatingService) GetUserRating(ctx context.Context, userID, storyID string) (*models.Rating, error) {
	args := m.Called(ctx, userID, storyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rating), args.Error(1)
}

func (m *MockRatingService) ListRatings(ctx context.Context, storyID string, sort repository.RatingSort, page, pageSize int) (*service.RatingPage, error) {
	args := m.Called(ctx, storyID, sort, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RatingPage), args.Error(1)
}

func (m *MockRatingService) RecomputeAggregate(ctx context.Context, storyID string) (*service.Aggregate, error) {
	args := m.Called(ctx, storyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Aggregate), args.Error(1)
}

// MockBookmarkService mocks the BookmarkService interface
type MockBookmarkService struct {
	mock.Mock
}

func (m *MockBookmarkService) Toggle(ctx context.Context, userID, storyID string) (bool, error) {
	args := m.Called(ctx, userID, storyID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookmarkService) IsBookmarked(ctx context.Context, userID, storyID string) (bool, error) {
	args := m.Called(ctx, userID, storyID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookmarkService) List(ctx context.Context, userID string) ([]models.Bookmark, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Bookmark), args.Error(1)
}

// MockEngagementService mocks the EngagementService interface
type MockEngagementService struct {
	mock.Mock
}

func (m *MockEngagementService) UserDashboard(ctx context.Context, userID string) (*service.Dashboard, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Dashboard), args.Error(1)
}

func (m *MockEngagementService) UserAnalytics(ctx context.Context, userID string, periodDays int) (*service.UserAnalytics, error) {
	args := m.Called(ctx, userID, periodDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UserAnalytics), args.Error(1)
}

func (m *MockEngagementService) StoryAnalytics(ctx context.Context, storyID string) (*service.StoryAnalytics, error) {
	args := m.Called(ctx, storyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.StoryAnalytics), args.Error(1)
}

func (m *MockEngagementService) SystemAnalytics(ctx context.Context, periodDays int) (*service.SystemAnalytics, error) {
	args := m.Called(ctx, periodDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SystemAnalytics), args.Error(1)
}

func (m *MockEngagementService) Streak(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

// setupRouter returns a test engine whose /api/v1 group acts as an
// authenticated user with the given role; an empty userID skips auth.
func setupRouter(userID, role string) (*gin.Engine, *gin.RouterGroup) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1")
	if userID != "" {
		api.Use(func(c *gin.Context) {
			c.Set("userID", userID)
			c.Set("role", role)
			c.Next()
		})
	}
	return r, api
}

func testLogger() *logger.Logger {
	return logger.NewNop()
}

func perform(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// envelope decodes the response, with data left raw for typed decoding.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorBody  `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func ptr[T any](v T) *T { return &v }
