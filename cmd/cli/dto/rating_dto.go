package dto

import "time"

type SubmitRatingRequest struct {
	Rating  int     `json:"rating"`
	Comment *string `json:"comment,omitempty"`
}

type RatingResponse struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username,omitempty"`
	StoryID   string    `json:"story_id"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AggregateResponse struct {
	AverageRating float64 `json:"average_rating"`
	RatingCount   int64   `json:"rating_count"`
}

type SubmitRatingResponse struct {
	Rating    *RatingResponse   `json:"rating"`
	Aggregate AggregateResponse `json:"aggregate"`
}

type PaginatedRatingResponse struct {
	Ratings      []RatingResponse `json:"ratings"`
	Page         int              `json:"page"`
	PageSize     int              `json:"page_size"`
	Total        int64            `json:"total"`
	TotalPages   int64            `json:"total_pages"`
	Distribution map[string]int64 `json:"distribution"`
}
