package dto

import (
	"time"

	"storyhub/internal/microservices/http-api/models"
	"storyhub/internal/shared"
)

type ToggleBookmarkRequest struct {
	StoryID string `json:"story_id" binding:"required,uuid"`
}

type BookmarkStatusResponse struct {
	StoryID      string `json:"story_id"`
	IsBookmarked bool   `json:"is_bookmarked"`
}

type BookmarkResponse struct {
	StoryID    string    `json:"story_id"`
	StoryTitle string    `json:"story_title,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func FromModelsToBookmarkResponses(list []models.Bookmark, lang shared.Language) []BookmarkResponse {
	out := make([]BookmarkResponse, 0, len(list))
	for _, b := range list {
		resp := BookmarkResponse{StoryID: b.StoryID, CreatedAt: b.CreatedAt}
		if b.Story != nil {
			resp.StoryTitle = b.Story.Title.Get(lang)
		}
		out = append(out, resp)
	}
	return out
}
