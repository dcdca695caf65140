package handler

import (
	"net/http"

	"storyhub/internal/logger"
	"storyhub/internal/microservices/http-api/dto"
	"storyhub/internal/microservices/http-api/repository"
	"storyhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type RatingHandler struct {
	ratingService service.RatingService
	log           *logger.Logger
}

func NewRatingHandler(ratingService service.RatingService, log *logger.Logger) *RatingHandler {
	return &RatingHandler{
		ratingService: ratingService,
		log:           log,
	}
}

// RegisterRoutes registers rating routes under /stories/:storyId
func (h *RatingHandler) RegisterRoutes(stories *gin.RouterGroup, write ...gin.HandlerFunc) {
	story := stories.Group("/:storyId")
	{
		story.GET("/rating", h.GetUserRating)
		story.POST("/rating", guarded(write, h.Submit)...)
		story.DELETE("/rating", guarded(write, h.Delete)...)
		story.GET("/ratings", h.List)
	}
}

// Submit creates or updates the caller's rating
// POST /api/v1/stories/:storyId/rating
func (h *RatingHandler) Submit(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	storyID, ok := storyIDParam(c)
	if !ok {
		return
	}

	var req dto.SubmitRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	result, err := h.ratingService.SubmitRating(c.Request.Context(), userID, storyID, *req.Rating, req.Comment)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, dto.SubmitRatingResponse{
		Rating: dto.FromModelToRatingResponse(result.Rating),
		Aggregate: dto.AggregateResponse{
			AverageRating: result.Aggregate.AverageRating,
			RatingCount:   result.Aggregate.RatingCount,
		},
	})
}

// GetUserRating returns the caller's rating, or null
// GET /api/v1/stories/:storyId/rating
func (h *RatingHandler) GetUserRating(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	storyID, ok := storyIDParam(c)
	if !ok {
		return
	}

	rating, err := h.ratingService.GetUserRating(c.Request.Context(), userID, storyID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if rating == nil {
		respond(c, http.StatusOK, nil)
		return
	}
	respond(c, http.StatusOK, dto.FromModelToRatingResponse(rating))
}

// Delete removes the caller's rating
// DELETE /api/v1/stories/:storyId/rating
func (h *RatingHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	storyID, ok := storyIDParam(c)
	if !ok {
		return
	}

	agg, err := h.ratingService.DeleteRating(c.Request.Context(), userID, storyID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, dto.AggregateResponse{
		AverageRating: agg.AverageRating,
		RatingCount:   agg.RatingCount,
	})
}

// List pages through a story's ratings
// GET /api/v1/stories/:storyId/ratings?sort=newest&page=1&page_size=20
func (h *RatingHandler) List(c *gin.Context) {
	storyID, ok := storyIDParam(c)
	if !ok {
		return
	}

	var q dto.ListRatingsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err.Error())
		return
	}

	page, err := h.ratingService.ListRatings(c.Request.Context(), storyID, repository.RatingSort(q.Sort), q.Page, q.PageSize)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, dto.NewPaginatedRatingResponse(page.Ratings, page.Total, page.Page, page.PageSize, page.Distribution))
}
