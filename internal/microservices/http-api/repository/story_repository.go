package repository

import (
	"context"
	"fmt"

	"storyhub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type StoryRepository interface {
	GetByID(ctx context.Context, id string) (*models.Story, error)
	UpdateAggregate(ctx context.Context, id string, average float64, count int64) error
	ListIDs(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int64, error)
	WithTx(tx *gorm.DB) StoryRepository
}

type storyRepository struct {
	db *gorm.DB
}

func NewStoryRepository(db *gorm.DB) StoryRepository {
	return &storyRepository{db: db}
}

func (r *storyRepository) WithTx(tx *gorm.DB) StoryRepository {
	return &storyRepository{db: tx}
}

func (r *storyRepository) GetByID(ctx context.Context, id string) (*models.Story, error) {
	var s models.Story
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, fmt.Errorf("get story %s: %w", id, translate(err))
	}
	return &s, nil
}

// UpdateAggregate writes only the denormalized rating columns.
func (r *storyRepository) UpdateAggregate(ctx context.Context, id string, average float64, count int64) error {
	result := r.db.WithContext(ctx).
		Model(&models.Story{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"average_rating": average,
			"rating_count":   count,
		})
	if result.Error != nil {
		return fmt.Errorf("update story aggregate: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("update story aggregate %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *storyRepository) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).Model(&models.Story{}).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list story ids: %w", err)
	}
	return ids, nil
}

func (r *storyRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Story{}).Count(&count).Error
	return count, err
}
