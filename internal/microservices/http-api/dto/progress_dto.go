package dto

import (
	"time"

	"storyhub/internal/microservices/http-api/models"
)

// RecordProgressRequest is a partial update; omitted fields keep their value.
type RecordProgressRequest struct {
	StoryID              string   `json:"story_id" binding:"required,uuid"`
	LastParagraph        *int     `json:"last_paragraph" binding:"omitempty,min=0"`
	TotalParagraphs      *int     `json:"total_paragraphs" binding:"omitempty,min=0"`
	CompletionPercentage *float64 `json:"completion_percentage" binding:"omitempty,min=0,max=100"`
	ReadingTimeSeconds   *int64   `json:"reading_time_seconds" binding:"omitempty,min=0"`
	WordsRead            *int64   `json:"words_read" binding:"omitempty,min=0"`
	Language             *string  `json:"language"`
	Status               *string  `json:"status"`
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

// FromModelToProgressResponse renders the story title in the progress language.
func FromModelToProgressResponse(p *models.ReadingProgress) *ProgressResponse {
	resp := &ProgressResponse{
		StoryID:              p.StoryID,
		LastParagraph:        p.LastParagraph,
		TotalParagraphs:      p.TotalParagraphs,
		CompletionPercentage: p.CompletionPercentage,
		ReadingTimeSeconds:   p.ReadingTimeSeconds,
		WordsRead:            p.WordsRead,
		Language:             string(p.Language),
		Status:               string(p.Status),
		StartedAt:            p.StartedAt,
		LastReadAt:           p.LastReadAt,
		CompletedAt:          p.CompletedAt,
	}
	if p.Story != nil {
		resp.StoryTitle = p.Story.Title.Get(p.Language)
	}
	return resp
}

func FromModelsToProgressResponses(list []models.ReadingProgress) []ProgressResponse {
	out := make([]ProgressResponse, 0, len(list))
	for i := range list {
		out = append(out, *FromModelToProgressResponse(&list[i]))
	}
	return out
}
