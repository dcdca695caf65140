package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storyhub/internal/microservices/http-api/models"
	"storyhub/internal/shared"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository interface {
	Get(ctx context.Context, userID, storyID string) (*models.ReadingProgress, error)
	Create(ctx context.Context, progress *models.ReadingProgress) error
	Save(ctx context.Context, progress *models.ReadingProgress) error
	Delete(ctx context.Context, userID, storyID string) error
	ListByUser(ctx context.Context, userID string, status *shared.ProgressStatus) ([]models.ReadingProgress, error)
	ListCompleted(ctx context.Context, userID string) ([]models.ReadingProgress, error)
	ListRecent(ctx context.Context, userID string, limit int) ([]models.ReadingProgress, error)
	ListByUserSince(ctx context.Context, userID string, since time.Time) ([]models.ReadingProgress, error)
	ActivityTimes(ctx context.Context, userID string) ([]time.Time, error)
}

type progressRepository struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

// Get returns nil, nil when the user has no progress on the story yet.
func (r *progressRepository) Get(ctx context.Context, userID, storyID string) (*models.ReadingProgress, error) {
	var progress models.ReadingProgress
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND story_id = ?", userID, storyID).
		First(&progress).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get progress: %w", err)
	}
	return &progress, nil
}

// Create inserts a new record. A concurrent insert of the same pair yields ErrDuplicate.
func (r *progressRepository) Create(ctx context.Context, progress *models.ReadingProgress) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(progress).Error; err != nil {
		return fmt.Errorf("create progress: %w", translate(err))
	}
	return nil
}

func (r *progressRepository) Save(ctx context.Context, progress *models.ReadingProgress) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(progress).Error; err != nil {
		return fmt.Errorf("save progress: %w", translate(err))
	}
	return nil
}

func (r *progressRepository) Delete(ctx context.Context, userID, storyID string) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND story_id = ?", userID, storyID).
		Delete(&models.ReadingProgress{})
	if result.Error != nil {
		return fmt.Errorf("delete progress: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete progress: %w", ErrNotFound)
	}
	return nil
}

// ListByUser returns the user's progress, most recently read first.
func (r *progressRepository) ListByUser(ctx context.Context, userID string, status *shared.ProgressStatus) ([]models.ReadingProgress, error) {
	var list []models.ReadingProgress
	q := r.db.WithContext(ctx).Preload("Story").Where("user_id = ?", userID)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	if err := q.Order("last_read_at DESC").Order("story_id").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	return list, nil
}

// ListRecent returns at most limit rows, most recently read first.
func (r *progressRepository) ListRecent(ctx context.Context, userID string, limit int) ([]models.ReadingProgress, error) {
	var list []models.ReadingProgress
	err := r.db.WithContext(ctx).
		Preload("Story").
		Where("user_id = ?", userID).
		Order("last_read_at DESC").
		Order("story_id").
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list recent progress: %w", err)
	}
	return list, nil
}

func (r *progressRepository) ListCompleted(ctx context.Context, userID string) ([]models.ReadingProgress, error) {
	var list []models.ReadingProgress
	err := r.db.WithContext(ctx).
		Preload("Story").
		Where("user_id = ? AND status = ?", userID, shared.StatusCompleted).
		Order("completed_at DESC").
		Order("story_id").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list completed progress: %w", err)
	}
	return list, nil
}

// ListByUserSince returns rows read at or after since, without associations.
func (r *progressRepository) ListByUserSince(ctx context.Context, userID string, since time.Time) ([]models.ReadingProgress, error) {
	var list []models.ReadingProgress
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND last_read_at >= ?", userID, since).
		Order("last_read_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list progress since: %w", err)
	}
	return list, nil
}

// ActivityTimes returns the last_read_at of every progress row of the user.
func (r *progressRepository) ActivityTimes(ctx context.Context, userID string) ([]time.Time, error) {
	var times []time.Time
	err := r.db.WithContext(ctx).
		Model(&models.ReadingProgress{}).
		Where("user_id = ?", userID).
		Order("last_read_at DESC").
		Pluck("last_read_at", &times).Error
	if err != nil {
		return nil, fmt.Errorf("list activity times: %w", err)
	}
	return times, nil
}
