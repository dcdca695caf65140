package repository

import (
	"context"
	"fmt"
	"time"

	"storyhub/internal/microservices/http-api/models"
	"storyhub/internal/shared"

	"gorm.io/gorm"
)

// StoryProgressStats summarizes every progress row of one story.
type StoryProgressStats struct {
	Readers           int64
	Completed         int64
	AverageCompletion float64
}

type CategoryCount struct {
	CategoryID int64  `json:"category_id"`
	Name       string `json:"name"`
	Stories    int64  `json:"stories"`
}

type SystemTotals struct {
	Users           int64
	Stories         int64
	ProgressRecords int64
	Completed       int64
	Ratings         int64
	Bookmarks       int64
	ActiveReaders   int64
}

// EngagementRepository holds read-only aggregate queries across the
// engagement tables. Nothing here writes.
type EngagementRepository interface {
	StoryProgressStats(ctx context.Context, storyID string) (StoryProgressStats, error)
	FavoriteCategories(ctx context.Context, userID string, limit int) ([]CategoryCount, error)
	UserTotalsSince(ctx context.Context, userID string, since time.Time) (completed int64, readingSeconds int64, err error)
	SystemTotals(ctx context.Context, activeSince time.Time) (SystemTotals, error)
}

type engagementRepository struct {
	db *gorm.DB
}

func NewEngagementRepository(db *gorm.DB) EngagementRepository {
	return &engagementRepository{db: db}
}

func (r *engagementRepository) StoryProgressStats(ctx context.Context, storyID string) (StoryProgressStats, error) {
	var row struct {
		Readers           int64
		Completed         int64
		AverageCompletion float64
	}
	err := r.db.WithContext(ctx).
		Model(&models.ReadingProgress{}).
		Select(`COUNT(*) AS readers,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS completed,
			COALESCE(AVG(completion_percentage), 0) AS average_completion`, shared.StatusCompleted).
		Where("story_id = ?", storyID).
		Scan(&row).Error
	if err != nil {
		return StoryProgressStats{}, fmt.Errorf("story progress stats: %w", err)
	}
	return StoryProgressStats(row), nil
}

// FavoriteCategories groups the user's progress rows by story category.
func (r *engagementRepository) FavoriteCategories(ctx context.Context, userID string, limit int) ([]CategoryCount, error) {
	var out []CategoryCount
	err := r.db.WithContext(ctx).
		Table("reading_progress AS rp").
		Select("c.id AS category_id, c.name AS name, COUNT(*) AS stories").
		Joins("JOIN stories s ON s.id = rp.story_id").
		Joins("JOIN categories c ON c.id = s.category_id").
		Where("rp.user_id = ?", userID).
		Group("c.id, c.name").
		Order("stories DESC, c.name ASC").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("favorite categories: %w", err)
	}
	return out, nil
}

// UserTotalsSince counts stories completed since the cutoff and sums the
// cumulative reading_time_seconds of rows last read since then. Progress
// keeps one running total per story, so time read before the cutoff on a
// story touched after it is included.
func (r *engagementRepository) UserTotalsSince(ctx context.Context, userID string, since time.Time) (int64, int64, error) {
	var completed int64
	if err := r.db.WithContext(ctx).
		Model(&models.ReadingProgress{}).
		Where("user_id = ? AND status = ? AND completed_at >= ?", userID, shared.StatusCompleted, since).
		Count(&completed).Error; err != nil {
		return 0, 0, fmt.Errorf("count completed: %w", err)
	}

	var seconds struct{ Total int64 }
	if err := r.db.WithContext(ctx).
		Model(&models.ReadingProgress{}).
		Select("COALESCE(SUM(reading_time_seconds), 0) AS total").
		Where("user_id = ? AND last_read_at >= ?", userID, since).
		Scan(&seconds).Error; err != nil {
		return 0, 0, fmt.Errorf("sum reading time: %w", err)
	}
	return completed, seconds.Total, nil
}

func (r *engagementRepository) SystemTotals(ctx context.Context, activeSince time.Time) (SystemTotals, error) {
	var t SystemTotals
	db := r.db.WithContext(ctx)

	counts := []struct {
		model any
		where string
		args  []any
		dest  *int64
	}{
		{&models.User{}, "", nil, &t.Users},
		{&models.Story{}, "", nil, &t.Stories},
		{&models.ReadingProgress{}, "", nil, &t.ProgressRecords},
		{&models.ReadingProgress{}, "status = ?", []any{shared.StatusCompleted}, &t.Completed},
		{&models.Rating{}, "", nil, &t.Ratings},
		{&models.Bookmark{}, "", nil, &t.Bookmarks},
	}
	for _, c := range counts {
		q := db.Model(c.model)
		if c.where != "" {
			q = q.Where(c.where, c.args...)
		}
		if err := q.Count(c.dest).Error; err != nil {
			return SystemTotals{}, fmt.Errorf("system totals: %w", err)
		}
	}

	if err := db.Model(&models.ReadingProgress{}).
		Where("last_read_at >= ?", activeSince).
		Distinct("user_id").
		Count(&t.ActiveReaders).Error; err != nil {
		return SystemTotals{}, fmt.Errorf("active readers: %w", err)
	}
	return t, nil
}
