package dto

import "time"

type CategoryCount struct {
	CategoryID int64  `json:"category_id"`
	Name       string `json:"name"`
	Stories    int64  `json:"stories"`
}

type DashboardResponse struct {
	RecentProgress          []ProgressResponse `json:"recent_progress"`
	CompletedThisMonth      int64              `json:"completed_this_month"`
	ReadingMinutesThisMonth int64              `json:"reading_minutes_this_month"`
	FavoriteCategories      []CategoryCount    `json:"favorite_categories"`
	Streak                  int                `json:"streak"`
}

type DailyActivity struct {
	Date           string `json:"date"`
	Stories        int    `json:"stories"`
	ReadingSeconds int64  `json:"reading_seconds"`
	Words          int64  `json:"words"`
}

type UserAnalyticsResponse struct {
	PeriodDays          int             `json:"period_days"`
	Streak              int             `json:"streak"`
	CompletionRate      float64         `json:"completion_rate"`
	TotalReadingSeconds int64           `json:"total_reading_seconds"`
	StoriesStarted      int             `json:"stories_started"`
	StoriesCompleted    int             `json:"stories_completed"`
	Daily               []DailyActivity `json:"daily"`
}

type StreakResponse struct {
	Streak int `json:"streak"`
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

type SystemAnalyticsResponse struct {
	PeriodDays      int       `json:"period_days"`
	Users           int64     `json:"users"`
	Stories         int64     `json:"stories"`
	ProgressRecords int64     `json:"progress_records"`
	Completed       int64     `json:"completed"`
	CompletionRate  float64   `json:"completion_rate"`
	Ratings         int64     `json:"ratings"`
	Bookmarks       int64     `json:"bookmarks"`
	ActiveReaders   int64     `json:"active_readers"`
	GeneratedAt     time.Time `json:"generated_at"`
}
