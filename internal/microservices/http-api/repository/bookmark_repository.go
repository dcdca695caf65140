package repository

import (
	"context"
	"fmt"

	"storyhub/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookmarkRepository interface {
	Add(ctx context.Context, userID, storyID string) error
	Remove(ctx context.Context, userID, storyID string) (bool, error)
	Exists(ctx context.Context, userID, storyID string) (bool, error)
	List(ctx context.Context, userID string) ([]models.Bookmark, error)
	Count(ctx context.Context) (int64, error)
}

type bookmarkRepository struct {
	db *gorm.DB
}

func NewBookmarkRepository(db *gorm.DB) BookmarkRepository {
	return &bookmarkRepository{db: db}
}

func (r *bookmarkRepository) Add(ctx context.Context, userID, storyID string) error {
	bookmark := &models.Bookmark{
		UserID:  userID,
		StoryID: storyID,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(bookmark).Error; err != nil {
		return fmt.Errorf("add bookmark: %w", translate(err))
	}
	return nil
}

// Remove reports whether a row was actually deleted.
func (r *bookmarkRepository) Remove(ctx context.Context, userID, storyID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND story_id = ?", userID, storyID).
		Delete(&models.Bookmark{})
	if result.Error != nil {
		return false, fmt.Errorf("remove bookmark: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *bookmarkRepository) Exists(ctx context.Context, userID, storyID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Bookmark{}).
		Where("user_id = ? AND story_id = ?", userID, storyID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("bookmark exists: %w", err)
	}
	return count > 0, nil
}

func (r *bookmarkRepository) List(ctx context.Context, userID string) ([]models.Bookmark, error) {
	var bookmarks []models.Bookmark
	if err := r.db.WithContext(ctx).
		Preload("Story").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookmarks).Error; err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	return bookmarks, nil
}

func (r *bookmarkRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Bookmark{}).Count(&count).Error
	return count, err
}
