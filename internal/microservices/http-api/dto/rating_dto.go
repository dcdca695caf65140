package dto

import (
	"strconv"
	"time"

	"storyhub/internal/microservices/http-api/models"
)

// SubmitRatingRequest for creating or updating a rating
type SubmitRatingRequest struct {
	Rating  *int    `json:"rating" binding:"required,min=1,max=5"`
	Comment *string `json:"comment" binding:"omitempty,max=2000"`
}

// ListRatingsQuery binds GET /stories/:storyId/ratings query parameters
type ListRatingsQuery struct {
	Sort     string `form:"sort" binding:"omitempty,oneof=newest oldest highest lowest"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
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

// FromModelToRatingResponse converts a Rating model to RatingResponse DTO
func FromModelToRatingResponse(rating *models.Rating) *RatingResponse {
	resp := &RatingResponse{
		UserID:    rating.UserID,
		StoryID:   rating.StoryID,
		Rating:    rating.Rating,
		Comment:   rating.Comment,
		CreatedAt: rating.CreatedAt,
		UpdatedAt: rating.UpdatedAt,
	}
	if rating.User != nil {
		resp.Username = rating.User.Username
	}
	return resp
}

type AggregateResponse struct {
	AverageRating float64 `json:"average_rating"`
	RatingCount   int64   `json:"rating_count"`
}

type SubmitRatingResponse struct {
	Rating    *RatingResponse   `json:"rating"`
	Aggregate AggregateResponse `json:"aggregate"`
}

// PaginatedRatingResponse for returning paginated ratings
type PaginatedRatingResponse struct {
	Ratings      []RatingResponse `json:"ratings"`
	Page         int              `json:"page"`
	PageSize     int              `json:"page_size"`
	Total        int64            `json:"total"`
	TotalPages   int64            `json:"total_pages"`
	Distribution map[string]int64 `json:"distribution"`
}

// NewPaginatedRatingResponse creates a paginated rating response
func NewPaginatedRatingResponse(ratings []models.Rating, total int64, page, pageSize int, dist map[int]int64) *PaginatedRatingResponse {
	data := make([]RatingResponse, 0, len(ratings))
	for i := range ratings {
		data = append(data, *FromModelToRatingResponse(&ratings[i]))
	}

	totalPages := total / int64(pageSize)
	if total%int64(pageSize) != 0 {
		totalPages++
	}

	return &PaginatedRatingResponse{
		Ratings:      data,
		Page:         page,
		PageSize:     pageSize,
		Total:        total,
		TotalPages:   totalPages,
		Distribution: DistributionKeys(dist),
	}
}

// DistributionKeys turns star buckets into JSON object keys "1".."5".
func DistributionKeys(dist map[int]int64) map[string]int64 {
	out := make(map[string]int64, len(dist))
	for star, n := range dist {
		out[strconv.Itoa(star)] = n
	}
	return out
}
