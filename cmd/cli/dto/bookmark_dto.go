package dto

import "time"

type ToggleBookmarkRequest struct {
	StoryID string `json:"story_id"`
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
