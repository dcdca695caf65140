package handler

import (
	"net/http"

	"storyhub/internal/apperr"
	"storyhub/internal/logger"
	"storyhub/internal/microservices/http-api/dto"
	"storyhub/internal/microservices/http-api/service"
	"storyhub/internal/shared"

	"github.com/gin-gonic/gin"
)

type ProgressHandler struct {
	progressService service.ProgressService
	log             *logger.Logger
}

func NewProgressHandler(progressService service.ProgressService, log *logger.Logger) *ProgressHandler {
	return &ProgressHandler{progressService: progressService, log: log}
}

// RegisterRoutes registers progress routes; write is the per-user write guard.
func (h *ProgressHandler) RegisterRoutes(router *gin.RouterGroup, write ...gin.HandlerFunc) {
	progress := router.Group("/progress")
	{
		progress.GET("", h.List)
		progress.GET("/completed", h.ListCompleted)
		progress.GET("/:storyId", h.Get)
		progress.POST("", guarded(write, h.Record)...)
		progress.DELETE("/:storyId", guarded(write, h.Delete)...)
	}
}

// Record upserts the caller's progress on a story
// POST /api/v1/progress
func (h *ProgressHandler) Record(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.RecordProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	fields := service.ProgressFields{
		LastParagraph:        req.LastParagraph,
		TotalParagraphs:      req.TotalParagraphs,
		CompletionPercentage: req.CompletionPercentage,
		ReadingTimeSeconds:   req.ReadingTimeSeconds,
		WordsRead:            req.WordsRead,
	}
	if req.Language != nil {
		lang, err := shared.ParseLanguage(*req.Language)
		if err != nil {
			respondError(c, h.log, apperr.Validation("unsupported language %q", *req.Language))
			return
		}
		fields.Language = &lang
	}
	if req.Status != nil {
		status, err := shared.ParseProgressStatus(*req.Status)
		if err != nil {
			respondError(c, h.log, apperr.Validation("status must be STARTED or COMPLETED"))
			return
		}
		fields.Status = &status
	}

	progress, err := h.progressService.RecordProgress(c.Request.Context(), userID, req.StoryID, fields)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, dto.FromModelToProgressResponse(progress))
}

// Get returns the caller's progress on one story, or null
// GET /api/v1/progress/:storyId
func (h *ProgressHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	storyID, ok := storyIDParam(c)
	if !ok {
		return
	}

	progress, err := h.progressService.GetProgress(c.Request.Context(), userID, storyID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if progress == nil {
		respond(c, http.StatusOK, nil)
		return
	}
	respond(c, http.StatusOK, dto.FromModelToProgressResponse(progress))
}

// List returns the caller's progress, most recently read first
// GET /api/v1/progress?status=STARTED
func (h *ProgressHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var status *shared.ProgressStatus
	if raw := c.Query("status"); raw != "" {
		parsed, err := shared.ParseProgressStatus(raw)
		if err != nil {
			badRequest(c, "status must be STARTED or COMPLETED")
			return
		}
		status = &parsed
	}

	list, err := h.progressService.ListProgress(c.Request.Context(), userID, status)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, dto.FromModelsToProgressResponses(list))
}

// ListCompleted returns finished stories, most recently completed first
// GET /api/v1/progress/completed
func (h *ProgressHandler) ListCompleted(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	list, err := h.progressService.ListCompleted(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, dto.FromModelsToProgressResponses(list))
}

// Delete removes the caller's progress on a story
// DELETE /api/v1/progress/:storyId
func (h *ProgressHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	storyID, ok := storyIDParam(c)
	if !ok {
		return
	}
	if err := h.progressService.DeleteProgress(c.Request.Context(), userID, storyID); err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "progress deleted"})
}
