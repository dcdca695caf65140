package dto

import (
	"storyhub/internal/microservices/http-api/repository"
	"storyhub/internal/microservices/http-api/service"
)

type AnalyticsQuery struct {
	Period int `form:"period" binding:"omitempty,min=1,max=365"`
}

type DashboardResponse struct {
	RecentProgress          []ProgressResponse         `json:"recent_progress"`
	CompletedThisMonth      int64                      `json:"completed_this_month"`
	ReadingMinutesThisMonth int64                      `json:"reading_minutes_this_month"`
	FavoriteCategories      []repository.CategoryCount `json:"favorite_categories"`
	Streak                  int                        `json:"streak"`
}

func FromDashboard(d *service.Dashboard) *DashboardResponse {
	return &DashboardResponse{
		RecentProgress:          FromModelsToProgressResponses(d.RecentProgress),
		CompletedThisMonth:      d.CompletedThisMonth,
		ReadingMinutesThisMonth: d.ReadingMinutesThisMonth,
		FavoriteCategories:      d.FavoriteCategories,
		Streak:                  d.Streak,
	}
}

type StoryAnalyticsResponse struct {
	StoryID           string           `json:"story_id"`
	Readers           int64            `json:"readers"`
	Completed         int64            `json:"completed"`
	CompletionRate    float64          `json:"completion_rate"`
	AverageCompletion float64          `json:"average_completion"`
	AverageRating     float64          `json:"average_rating"`
	RatingCount       int64            `json:"rating_count"`
	Distribution      map[string]int64 `json:"distribution"`
}

func FromStoryAnalytics(a *service.StoryAnalytics) *StoryAnalyticsResponse {
	return &StoryAnalyticsResponse{
		StoryID:           a.StoryID,
		Readers:           a.Readers,
		Completed:         a.Completed,
		CompletionRate:    a.CompletionRate,
		AverageCompletion: a.AverageCompletion,
		AverageRating:     a.AverageRating,
		RatingCount:       a.RatingCount,
		Distribution:      DistributionKeys(a.Distribution),
	}
}
