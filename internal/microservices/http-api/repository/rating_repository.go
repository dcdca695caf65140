package repository

import (
	"context"
	"fmt"
	"time"

	"storyhub/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RatingSort is the ordering of a story's rating list.
type RatingSort string

const (
	SortNewest  RatingSort = "newest"
	SortOldest  RatingSort = "oldest"
	SortHighest RatingSort = "highest"
	SortLowest  RatingSort = "lowest"
)

func (s RatingSort) Valid() bool {
	switch s {
	case SortNewest, SortOldest, SortHighest, SortLowest:
		return true
	}
	return false
}

func (s RatingSort) orderBy() string {
	switch s {
	case SortOldest:
		return "created_at ASC"
	case SortHighest:
		return "rating DESC, created_at DESC"
	case SortLowest:
		return "rating ASC, created_at DESC"
	default:
		return "created_at DESC"
	}
}

type RatingRepository interface {
	Upsert(ctx context.Context, rating *models.Rating) error
	Delete(ctx context.Context, userID, storyID string) error
	GetByUserAndStory(ctx context.Context, userID, storyID string) (*models.Rating, error)
	ListByStory(ctx context.Context, storyID string, sort RatingSort, page, pageSize int) ([]models.Rating, int64, error)
	Aggregate(ctx context.Context, storyID string) (float64, int64, error)
	Distribution(ctx context.Context, storyID string) (map[int]int64, error)
	Count(ctx context.Context) (int64, error)
	WithTx(tx *gorm.DB) RatingRepository
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) WithTx(tx *gorm.DB) RatingRepository {
	return &ratingRepository{db: tx}
}

// Upsert inserts the rating or overwrites rating/comment on (user_id, story_id).
func (r *ratingRepository) Upsert(ctx context.Context, rating *models.Rating) error {
	now := time.Now().UTC()
	if rating.CreatedAt.IsZero() {
		rating.CreatedAt = now
	}
	rating.UpdatedAt = now
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "story_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "comment", "updated_at"}),
		}).
		Create(rating).Error
	if err != nil {
		return fmt.Errorf("upsert rating: %w", translate(err))
	}
	return nil
}

// Delete a rating by user and story
func (r *ratingRepository) Delete(ctx context.Context, userID, storyID string) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND story_id = ?", userID, storyID).
		Delete(&models.Rating{})
	if result.Error != nil {
		return fmt.Errorf("delete rating: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete rating: %w", ErrNotFound)
	}
	return nil
}

// GetByUserAndStory retrieves a user's rating for a specific story
func (r *ratingRepository) GetByUserAndStory(ctx context.Context, userID, storyID string) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND story_id = ?", userID, storyID).
		Preload("User").
		First(&rating).Error
	if err != nil {
		return nil, fmt.Errorf("get rating: %w", translate(err))
	}
	return &rating, nil
}

// ListByStory retrieves one page of a story's ratings plus the total count
func (r *ratingRepository) ListByStory(ctx context.Context, storyID string, sort RatingSort, page, pageSize int) ([]models.Rating, int64, error) {
	var ratings []models.Rating
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Rating{}).Where("story_id = ?", storyID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count ratings: %w", err)
	}

	offset := (page - 1) * pageSize
	err := r.db.WithContext(ctx).
		Where("story_id = ?", storyID).
		Preload("User").
		Order(sort.orderBy()).
		Limit(pageSize).
		Offset(offset).
		Find(&ratings).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list ratings: %w", err)
	}

	return ratings, total, nil
}

// Aggregate computes mean and count over every rating of the story.
func (r *ratingRepository) Aggregate(ctx context.Context, storyID string) (float64, int64, error) {
	var agg struct {
		Average float64
		Total   int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS total").
		Where("story_id = ?", storyID).
		Scan(&agg).Error
	if err != nil {
		return 0, 0, fmt.Errorf("aggregate ratings: %w", err)
	}
	return agg.Average, agg.Total, nil
}

// Distribution counts ratings per star value. Every bucket 1..5 is present.
func (r *ratingRepository) Distribution(ctx context.Context, storyID string) (map[int]int64, error) {
	var rows []struct {
		Rating int
		Total  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Select("rating, COUNT(*) AS total").
		Where("story_id = ?", storyID).
		Group("rating").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("rating distribution: %w", err)
	}
	dist := map[int]int64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	for _, row := range rows {
		dist[row.Rating] = row.Total
	}
	return dist, nil
}

func (r *ratingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Rating{}).Count(&count).Error
	return count, err
}
