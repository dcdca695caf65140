package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"storyhub/internal/microservices/http-api/dto"
	"storyhub/internal/microservices/http-api/middleware"
	"storyhub/internal/microservices/http-api/models"
	"storyhub/internal/microservices/http-api/repository"
	"storyhub/internal/microservices/http-api/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAnalyticsRouter(svc *MockEngagementService, role string) http.Handler {
	r, api := setupRouter(testUserID, role)
	NewAnalyticsHandler(svc, testLogger()).RegisterRoutes(api, api.Group("/stories"), middleware.RequireAdmin())
	return r
}

func TestUserAnalytics_PeriodDefaultsAndBounds(t *testing.T) {
	svc := new(MockEngagementService)
	r := newAnalyticsRouter(svc, "user")
	svc.On("UserAnalytics", mock.Anything, testUserID, 0).Return(&service.UserAnalytics{PeriodDays: 30, Streak: 3}, nil)
	svc.On("UserAnalytics", mock.Anything, testUserID, 7).Return(&service.UserAnalytics{PeriodDays: 7}, nil)

	w := perform(r, http.MethodGet, "/api/v1/analytics/user", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got service.UserAnalytics
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &got))
	assert.Equal(t, 30, got.PeriodDays)
	assert.Equal(t, 3, got.Streak)

	w = perform(r, http.MethodGet, "/api/v1/analytics/user?period=7", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = perform(r, http.MethodGet, "/api/v1/analytics/user?period=400", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertExpectations(t)
}

func TestDashboard(t *testing.T) {
	svc := new(MockEngagementService)
	r := newAnalyticsRouter(svc, "user")
	svc.On("UserDashboard", mock.Anything, testUserID).Return(&service.Dashboard{
		RecentProgress:     []models.ReadingProgress{{StoryID: testStoryID}},
		CompletedThisMonth: 2,
		FavoriteCategories: []repository.CategoryCount{{CategoryID: 1, Name: "fantasy", Stories: 4}},
		Streak:             5,
	}, nil)

	w := perform(r, http.MethodGet, "/api/v1/analytics/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got dto.DashboardResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &got))
	assert.Equal(t, 5, got.Streak)
	assert.Equal(t, int64(2), got.CompletedThisMonth)
	require.Len(t, got.RecentProgress, 1)
	assert.Equal(t, "fantasy", got.FavoriteCategories[0].Name)
}

func TestStreak(t *testing.T) {
	svc := new(MockEngagementService)
	r := newAnalyticsRouter(svc, "user")
	svc.On("Streak", mock.Anything, testUserID).Return(4, nil)

	w := perform(r, http.MethodGet, "/api/v1/analytics/streak", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]int
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &got))
	assert.Equal(t, 4, got["streak"])
}

func TestStoryAnalytics(t *testing.T) {
	svc := new(MockEngagementService)
	r := newAnalyticsRouter(svc, "user")
	svc.On("StoryAnalytics", mock.Anything, testStoryID).Return(&service.StoryAnalytics{
		StoryID:        testStoryID,
		Readers:        4,
		Completed:      1,
		CompletionRate: 0.25,
		Distribution:   map[int]int64{1: 0, 2: 0, 3: 0, 4: 0, 5: 2},
	}, nil)

	w := perform(r, http.MethodGet, "/api/v1/stories/"+testStoryID+"/analytics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got dto.StoryAnalyticsResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &got))
	assert.Equal(t, 0.25, got.CompletionRate)
	assert.Equal(t, int64(2), got.Distribution["5"])
}

func TestSystemAnalytics_AdminOnly(t *testing.T) {
	svc := new(MockEngagementService)
	svc.On("SystemAnalytics", mock.Anything, 0).Return(&service.SystemAnalytics{PeriodDays: 30, Users: 10}, nil)

	w := perform(newAnalyticsRouter(svc, "user"), http.MethodGet, "/api/v1/analytics/system", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = perform(newAnalyticsRouter(svc, "admin"), http.MethodGet, "/api/v1/analytics/system", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got service.SystemAnalytics
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &got))
	assert.Equal(t, int64(10), got.Users)
	svc.AssertNumberOfCalls(t, "SystemAnalytics", 1)
}
