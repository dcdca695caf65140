package service

import (
	"context"
	"errors"

	"storyhub/internal/apperr"
	"storyhub/internal/microservices/http-api/models"
	"storyhub/internal/microservices/http-api/repository"
)

const msgStoryNotAvailable = "story not found or not published"

// loadStory fetches a story, mapping absence to NotFound.
func loadStory(ctx context.Context, stories repository.StoryRepository, storyID string) (*models.Story, error) {
	story, err := stories.GetByID(ctx, storyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("story not found")
		}
		return nil, apperr.Internal("load story", err)
	}
	return story, nil
}

// requirePublished returns NotFound for missing stories. Unpublished stories
// get Forbidden with forbiddenMsg, or NotFound when forbiddenMsg is empty.
func requirePublished(ctx context.Context, stories repository.StoryRepository, storyID, forbiddenMsg string) (*models.Story, error) {
	story, err := loadStory(ctx, stories, storyID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) && forbiddenMsg == "" {
			return nil, apperr.NotFound(msgStoryNotAvailable)
		}
		return nil, err
	}
	if !story.Published {
		if forbiddenMsg == "" {
			return nil, apperr.NotFound(msgStoryNotAvailable)
		}
		return nil, apperr.Forbidden("%s", forbiddenMsg)
	}
	return story, nil
}
