package service

import (
	"context"
	"errors"

	"storyhub/internal/apperr"
	"storyhub/internal/logger"
	"storyhub/internal/microservices/http-api/models"
	"storyhub/internal/microservices/http-api/repository"
)

type BookmarkService interface {
	Toggle(ctx context.Context, userID, storyID string) (bool, error)
	IsBookmarked(ctx context.Context, userID, storyID string) (bool, error)
	List(ctx context.Context, userID string) ([]models.Bookmark, error)
}

type bookmarkService struct {
	repo    repository.BookmarkRepository
	stories repository.StoryRepository
	log     *logger.Logger
}

func NewBookmarkService(repo repository.BookmarkRepository, stories repository.StoryRepository, log *logger.Logger) BookmarkService {
	return &bookmarkService{
		repo:    repo,
		stories: stories,
		log:     log.With("service", "BookmarkService"),
	}
}

// Toggle flips the bookmark and reports the state after the call.
func (s *bookmarkService) Toggle(ctx context.Context, userID, storyID string) (bool, error) {
	if _, err := requirePublished(ctx, s.stories, storyID, "cannot bookmark unpublished stories"); err != nil {
		return false, err
	}

	removed, err := s.repo.Remove(ctx, userID, storyID)
	if err != nil {
		return false, apperr.Internal("remove bookmark", err)
	}
	if removed {
		s.log.Debug("bookmark removed", "user_id", userID, "story_id", storyID)
		return false, nil
	}

	if err := s.repo.Add(ctx, userID, storyID); err != nil {
		// lost an insert race against the same toggle; the bookmark exists
		if errors.Is(err, repository.ErrDuplicate) {
			return true, nil
		}
		return false, apperr.Internal("add bookmark", err)
	}
	s.log.Debug("bookmark added", "user_id", userID, "story_id", storyID)
	return true, nil
}

func (s *bookmarkService) IsBookmarked(ctx context.Context, userID, storyID string) (bool, error) {
	ok, err := s.repo.Exists(ctx, userID, storyID)
	if err != nil {
		return false, apperr.Internal("check bookmark", err)
	}
	return ok, nil
}

func (s *bookmarkService) List(ctx context.Context, userID string) ([]models.Bookmark, error) {
	list, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("list bookmarks", err)
	}
	return list, nil
}
