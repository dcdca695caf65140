package service

import (
	"context"
	"fmt"
	"time"

	"storyhub/internal/apperr"
	"storyhub/internal/cache"
	"storyhub/internal/logger"
	"storyhub/internal/microservices/http-api/models"
	"storyhub/internal/microservices/http-api/repository"
	"storyhub/internal/shared"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultPeriodDays  = 30
	MaxPeriodDays      = 365
	recentProgressSize = 5
	favoriteCategories = 3
)

// Dashboard summarizes one user's reading. ReadingMinutesThisMonth is the
// cumulative reading time of every story read this month, including time
// spent on those stories before the month began.
type Dashboard struct {
	RecentProgress          []models.ReadingProgress   `json:"recent_progress"`
	CompletedThisMonth      int64                      `json:"completed_this_month"`
	ReadingMinutesThisMonth int64                      `json:"reading_minutes_this_month"`
	FavoriteCategories      []repository.CategoryCount `json:"favorite_categories"`
	Streak                  int                        `json:"streak"`
}

// DailyActivity rolls up the progress rows last read on one calendar day.
type DailyActivity struct {
	Date           string `json:"date"`
	Stories        int    `json:"stories"`
	ReadingSeconds int64  `json:"reading_seconds"`
	Words          int64  `json:"words"`
}

type UserAnalytics struct {
	PeriodDays          int             `json:"period_days"`
	Streak              int             `json:"streak"`
	CompletionRate      float64         `json:"completion_rate"`
	TotalReadingSeconds int64           `json:"total_reading_seconds"`
	StoriesStarted      int             `json:"stories_started"`
	StoriesCompleted    int             `json:"stories_completed"`
	Daily               []DailyActivity `json:"daily"`
}

type StoryAnalytics struct {
	StoryID           string        `json:"story_id"`
	Readers           int64         `json:"readers"`
	Completed         int64         `json:"completed"`
	CompletionRate    float64       `json:"completion_rate"`
	AverageCompletion float64       `json:"average_completion"`
	AverageRating     float64       `json:"average_rating"`
	RatingCount       int64         `json:"rating_count"`
	Distribution      map[int]int64 `json:"distribution"`
}

type SystemAnalytics struct {
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

type EngagementService interface {
	UserDashboard(ctx context.Context, userID string) (*Dashboard, error)
	UserAnalytics(ctx context.Context, userID string, periodDays int) (*UserAnalytics, error)
	StoryAnalytics(ctx context.Context, storyID string) (*StoryAnalytics, error)
	SystemAnalytics(ctx context.Context, periodDays int) (*SystemAnalytics, error)
	Streak(ctx context.Context, userID string) (int, error)
}

// EngagementDeps collects the read-side collaborators of EngagementService.
type EngagementDeps struct {
	Progress   repository.ProgressRepository
	Ratings    repository.RatingRepository
	Stories    repository.StoryRepository
	Engagement repository.EngagementRepository
	Streaks    *StreakCalculator
	Cache      cache.Cache
	CacheTTL   time.Duration
	Location   *time.Location
	Log        *logger.Logger
}

type engagementService struct {
	EngagementDeps
	now func() time.Time
}

func NewEngagementService(deps EngagementDeps) EngagementService {
	if deps.Cache == nil {
		deps.Cache = cache.Noop{}
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	deps.Log = deps.Log.With("service", "EngagementService")
	return &engagementService{EngagementDeps: deps, now: time.Now}
}

func (s *engagementService) Streak(ctx context.Context, userID string) (int, error) {
	return s.Streaks.ComputeStreak(ctx, userID)
}

// UserDashboard runs its independent reads concurrently.
func (s *engagementService) UserDashboard(ctx context.Context, userID string) (*Dashboard, error) {
	now := s.now().In(s.Location)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.Location)

	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.Progress.ListRecent(gctx, userID, recentProgressSize)
		if err != nil {
			return err
		}
		d.RecentProgress = list
		return nil
	})
	g.Go(func() error {
		completed, seconds, err := s.Engagement.UserTotalsSince(gctx, userID, monthStart.UTC())
		if err != nil {
			return err
		}
		d.CompletedThisMonth = completed
		d.ReadingMinutesThisMonth = seconds / 60
		return nil
	})
	g.Go(func() error {
		cats, err := s.Engagement.FavoriteCategories(gctx, userID, favoriteCategories)
		if err != nil {
			return err
		}
		d.FavoriteCategories = cats
		return nil
	})
	g.Go(func() error {
		streak, err := s.Streaks.ComputeStreak(gctx, userID)
		d.Streak = streak
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperr.Internal("user dashboard", err)
	}
	if d.RecentProgress == nil {
		d.RecentProgress = []models.ReadingProgress{}
	}
	if d.FavoriteCategories == nil {
		d.FavoriteCategories = []repository.CategoryCount{}
	}
	return &d, nil
}

// UserAnalytics covers the last periodDays calendar days, today included.
// Daily has one entry per day of the window, oldest first.
func (s *engagementService) UserAnalytics(ctx context.Context, userID string, periodDays int) (*UserAnalytics, error) {
	if periodDays == 0 {
		periodDays = DefaultPeriodDays
	}
	if periodDays < 1 || periodDays > MaxPeriodDays {
		return nil, apperr.Validation("period must be between 1 and %d days", MaxPeriodDays)
	}

	now := s.now().In(s.Location)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.Location)
	since := today.AddDate(0, 0, -(periodDays - 1))

	var (
		rows   []models.ReadingProgress
		streak int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.Progress.ListByUserSince(gctx, userID, since.UTC())
		return err
	})
	g.Go(func() error {
		var err error
		streak, err = s.Streaks.ComputeStreak(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperr.Internal("user analytics", err)
	}

	out := &UserAnalytics{PeriodDays: periodDays, Streak: streak}
	byDay := make(map[string]*DailyActivity, periodDays)
	out.Daily = make([]DailyActivity, periodDays)
	for i := range out.Daily {
		day := since.AddDate(0, 0, i).Format(time.DateOnly)
		out.Daily[i] = DailyActivity{Date: day}
		byDay[day] = &out.Daily[i]
	}

	completed := 0
	for _, p := range rows {
		out.TotalReadingSeconds += p.ReadingTimeSeconds
		if !p.StartedAt.Before(since) {
			out.StoriesStarted++
		}
		if p.Status == shared.StatusCompleted {
			completed++
			if p.CompletedAt != nil && !p.CompletedAt.Before(since) {
				out.StoriesCompleted++
			}
		}
		if bucket, ok := byDay[p.LastReadAt.In(s.Location).Format(time.DateOnly)]; ok {
			bucket.Stories++
			bucket.ReadingSeconds += p.ReadingTimeSeconds
			bucket.Words += p.WordsRead
		}
	}
	out.CompletionRate = ratio(int64(completed), int64(len(rows)))
	return out, nil
}

func (s *engagementService) StoryAnalytics(ctx context.Context, storyID string) (*StoryAnalytics, error) {
	story, err := loadStory(ctx, s.Stories, storyID)
	if err != nil {
		return nil, err
	}

	var (
		stats repository.StoryProgressStats
		dist  map[int]int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = s.Engagement.StoryProgressStats(gctx, storyID)
		return err
	})
	g.Go(func() error {
		var err error
		dist, err = s.Ratings.Distribution(gctx, storyID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperr.Internal("story analytics", err)
	}

	return &StoryAnalytics{
		StoryID:           storyID,
		Readers:           stats.Readers,
		Completed:         stats.Completed,
		CompletionRate:    ratio(stats.Completed, stats.Readers),
		AverageCompletion: stats.AverageCompletion,
		AverageRating:     story.AverageRating,
		RatingCount:       story.RatingCount,
		Distribution:      dist,
	}, nil
}

// SystemAnalytics is served from cache when a fresh copy exists.
func (s *engagementService) SystemAnalytics(ctx context.Context, periodDays int) (*SystemAnalytics, error) {
	if periodDays == 0 {
		periodDays = DefaultPeriodDays
	}
	if periodDays < 1 || periodDays > MaxPeriodDays {
		return nil, apperr.Validation("period must be between 1 and %d days", MaxPeriodDays)
	}

	key := fmt.Sprintf("system:%d", periodDays)
	var cached SystemAnalytics
	hit, err := s.Cache.Get(ctx, key, &cached)
	if err != nil {
		s.Log.Warn("analytics cache read failed", "key", key, "error", err)
	}
	if hit {
		return &cached, nil
	}

	now := s.now()
	totals, err := s.Engagement.SystemTotals(ctx, now.UTC().AddDate(0, 0, -periodDays))
	if err != nil {
		return nil, apperr.Internal("system analytics", err)
	}
	out := &SystemAnalytics{
		PeriodDays:      periodDays,
		Users:           totals.Users,
		Stories:         totals.Stories,
		ProgressRecords: totals.ProgressRecords,
		Completed:       totals.Completed,
		CompletionRate:  ratio(totals.Completed, totals.ProgressRecords),
		Ratings:         totals.Ratings,
		Bookmarks:       totals.Bookmarks,
		ActiveReaders:   totals.ActiveReaders,
		GeneratedAt:     now.UTC(),
	}
	if s.CacheTTL > 0 {
		if err := s.Cache.Set(ctx, key, out, s.CacheTTL); err != nil {
			s.Log.Warn("analytics cache write failed", "key", key, "error", err)
		}
	}
	return out, nil
}

// ratio returns part/whole in [0,1], or 0 for an empty whole.
func ratio(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole)
}
