package dto

import "time"

// DTOs for progress-related operations in HTTP API

type RecordProgressRequest struct {
	StoryID              string   `json:"story_id"`
	LastParagraph        *int     `json:"last_paragraph,omitempty"`
	TotalParagraphs      *int     `json:"total_paragraphs,omitempty"`
	CompletionPercentage *float64 `json:"completion_percentage,omitempty"`
	ReadingTimeSeconds   *int64   `json:"reading_time_seconds,omitempty"`
	WordsRead            *int64   `json:"words_read,omitempty"`
	Language             *string  `json:"language,omitempty"`
	Status               *string  `json:"status,omitempty"`
}

type ProgressResponse struct {
	StoryID              string     `json:"story_id"`
	StoryTitle           string     `json:"story_title,omitempty"`
	LastParagraph        int        `json:"last_paragraph"`
	TotalParagraphs      *int       `json:"total_paragraphs,omitempty"`
	CompletionPercentage float64    `json:"completion_percentage"`
	ReadingTimeSeconds   int64      `json:"reading_time_seconds"`
	WordsRead            int64      `json:"words_read"`
	Language             string     `json:"language"`
	Status               string     `json:"status"`
	StartedAt            time.Time  `json:"started_at"`
	LastReadAt           time.Time  `json:"last_read_at"`
	CompletedAt          *time.Time `json:"completed_at,omitempty"`
}
