package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"storyhub/internal/apperr"
	"storyhub/internal/lock"
	"storyhub/internal/logger"
	"storyhub/internal/microservices/http-api/models"
	"storyhub/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

const (
	MinRating        = 1
	MaxRating        = 5
	MaxCommentLength = 2000
	DefaultPageSize  = 20
	MaxPageSize      = 100
)

// Aggregate is the denormalized rating summary stored on a story.
type Aggregate struct {
	StoryID       string  `json:"story_id"`
	AverageRating float64 `json:"average_rating"`
	RatingCount   int64   `json:"rating_count"`
}

type RatingResult struct {
	Rating    *models.Rating
	Aggregate Aggregate
}

type RatingPage struct {
	Ratings      []models.Rating
	Total        int64
	Page         int
	PageSize     int
	Distribution map[int]int64
}

type RatingService interface {
	SubmitRating(ctx context.Context, userID, storyID string, value int, comment *string) (*RatingResult, error)
	DeleteRating(ctx context.Context, userID, storyID string) (*Aggregate, error)
	GetUserRating(ctx context.Context, userID, storyID string) (*models.Rating, error)
	ListRatings(ctx context.Context, storyID string, sort repository.RatingSort, page, pageSize int) (*RatingPage, error)
	RecomputeAggregate(ctx context.Context, storyID string) (*Aggregate, error)
}

type ratingService struct {
	ratings repository.RatingRepository
	stories repository.StoryRepository
	tx      repository.TxRunner
	locker  lock.Locker
	log     *logger.Logger
}

func NewRatingService(ratings repository.RatingRepository, stories repository.StoryRepository, tx repository.TxRunner, locker lock.Locker, log *logger.Logger) RatingService {
	return &ratingService{
		ratings: ratings,
		stories: stories,
		tx:      tx,
		locker:  locker,
		log:     log.With("service", "RatingService"),
	}
}

// SubmitRating upserts the user's rating and returns it with the story's fresh aggregate.
func (s *ratingService) SubmitRating(ctx context.Context, userID, storyID string, value int, comment *string) (*RatingResult, error) {
	if value < MinRating || value > MaxRating {
		return nil, apperr.Validation("rating must be between %d and %d", MinRating, MaxRating)
	}
	comment, err := normalizeComment(comment)
	if err != nil {
		return nil, err
	}
	if _, err := requirePublished(ctx, s.stories, storyID, "cannot rate unpublished stories"); err != nil {
		return nil, err
	}

	var result RatingResult
	err = s.withStoryLock(ctx, storyID, func(ratings repository.RatingRepository, stories repository.StoryRepository) error {
		rating := &models.Rating{
			UserID:  userID,
			StoryID: storyID,
			Rating:  value,
			Comment: comment,
		}
		if err := ratings.Upsert(ctx, rating); err != nil {
			return err
		}
		// reload for the persisted created_at and the rater's user row
		saved, err := ratings.GetByUserAndStory(ctx, userID, storyID)
		if err != nil {
			return err
		}
		agg, err := recompute(ctx, ratings, stories, storyID)
		if err != nil {
			return err
		}
		result = RatingResult{Rating: saved, Aggregate: agg}
		return nil
	})
	if err != nil {
		return nil, s.mutationError("submit rating", storyID, err)
	}

	s.log.Info("rating submitted", "user_id", userID, "story_id", storyID, "rating", value,
		"average_rating", result.Aggregate.AverageRating, "rating_count", result.Aggregate.RatingCount)
	return &result, nil
}

// DeleteRating removes the user's rating and returns the recomputed aggregate.
func (s *ratingService) DeleteRating(ctx context.Context, userID, storyID string) (*Aggregate, error) {
	var agg Aggregate
	err := s.withStoryLock(ctx, storyID, func(ratings repository.RatingRepository, stories repository.StoryRepository) error {
		if err := ratings.Delete(ctx, userID, storyID); err != nil {
			return err
		}
		var err error
		agg, err = recompute(ctx, ratings, stories, storyID)
		return err
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) && !errors.Is(err, errStoryGone) {
			return nil, apperr.NotFound("rating not found")
		}
		return nil, s.mutationError("delete rating", storyID, err)
	}

	s.log.Info("rating deleted", "user_id", userID, "story_id", storyID,
		"average_rating", agg.AverageRating, "rating_count", agg.RatingCount)
	return &agg, nil
}

// GetUserRating returns nil, nil when the user has not rated the story.
func (s *ratingService) GetUserRating(ctx context.Context, userID, storyID string) (*models.Rating, error) {
	rating, err := s.ratings.GetByUserAndStory(ctx, userID, storyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, apperr.Internal("get rating", err)
	}
	return rating, nil
}

// ListRatings pages through a story's ratings. The distribution covers every
// rating of the story regardless of the page.
func (s *ratingService) ListRatings(ctx context.Context, storyID string, sort repository.RatingSort, page, pageSize int) (*RatingPage, error) {
	if sort == "" {
		sort = repository.SortNewest
	}
	if !sort.Valid() {
		return nil, apperr.Validation("sort must be one of newest, oldest, highest, lowest")
	}
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	if page < 1 {
		return nil, apperr.Validation("page must be at least 1")
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		return nil, apperr.Validation("page_size must be between 1 and %d", MaxPageSize)
	}
	if _, err := loadStory(ctx, s.stories, storyID); err != nil {
		return nil, err
	}

	ratings, total, err := s.ratings.ListByStory(ctx, storyID, sort, page, pageSize)
	if err != nil {
		return nil, apperr.Internal("list ratings", err)
	}
	dist, err := s.ratings.Distribution(ctx, storyID)
	if err != nil {
		return nil, apperr.Internal("rating distribution", err)
	}
	return &RatingPage{
		Ratings:      ratings,
		Total:        total,
		Page:         page,
		PageSize:     pageSize,
		Distribution: dist,
	}, nil
}

// RecomputeAggregate rebuilds a story's aggregate from its rating rows.
// It repairs a stale aggregate left by an earlier failed write.
func (s *ratingService) RecomputeAggregate(ctx context.Context, storyID string) (*Aggregate, error) {
	var agg Aggregate
	err := s.withStoryLock(ctx, storyID, func(ratings repository.RatingRepository, stories repository.StoryRepository) error {
		var err error
		agg, err = recompute(ctx, ratings, stories, storyID)
		return err
	})
	if err != nil {
		return nil, s.mutationError("recompute aggregate", storyID, err)
	}
	s.log.Debug("aggregate recomputed", "story_id", storyID, "average_rating", agg.AverageRating, "rating_count", agg.RatingCount)
	return &agg, nil
}

var errStoryGone = errors.New("story disappeared")

// withStoryLock holds the story's lock and runs fn in one transaction with
// repositories bound to it. The row mutation and the aggregate write commit
// together or not at all.
func (s *ratingService) withStoryLock(ctx context.Context, storyID string, fn func(repository.RatingRepository, repository.StoryRepository) error) error {
	unlock, err := s.locker.Lock(ctx, "story-rating:"+storyID)
	if err != nil {
		return err
	}
	defer unlock()

	return s.tx.InTx(ctx, func(tx *gorm.DB) error {
		return fn(s.ratings.WithTx(tx), s.stories.WithTx(tx))
	})
}

func recompute(ctx context.Context, ratings repository.RatingRepository, stories repository.StoryRepository, storyID string) (Aggregate, error) {
	avg, count, err := ratings.Aggregate(ctx, storyID)
	if err != nil {
		return Aggregate{}, err
	}
	if err := stories.UpdateAggregate(ctx, storyID, avg, count); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Aggregate{}, errors.Join(errStoryGone, err)
		}
		return Aggregate{}, err
	}
	return Aggregate{StoryID: storyID, AverageRating: avg, RatingCount: count}, nil
}

func (s *ratingService) mutationError(op, storyID string, err error) error {
	switch {
	case errors.Is(err, errStoryGone):
		return apperr.NotFound("story not found")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return apperr.Wrap(apperr.KindInternal, "request cancelled", err)
	}
	s.log.Error(op+" failed", "story_id", storyID, "error", err)
	return apperr.Internal(op, err)
}

func normalizeComment(comment *string) (*string, error) {
	if comment == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*comment)
	if trimmed == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(trimmed) > MaxCommentLength {
		return nil, apperr.Validation("comment must be at most %d characters", MaxCommentLength)
	}
	return &trimmed, nil
}
