package handler

import (
	"net/http"

	"storyhub/internal/logger"
	"storyhub/internal/microservices/http-api/dto"
	"storyhub/internal/microservices/http-api/service"
	"storyhub/internal/shared"

	"github.com/gin-gonic/gin"
)

type BookmarkHandler struct {
	bookmarkService service.BookmarkService
	log             *logger.Logger
}

func NewBookmarkHandler(bookmarkService service.BookmarkService, log *logger.Logger) *BookmarkHandler {
	return &BookmarkHandler{bookmarkService: bookmarkService, log: log}
}

func (h *BookmarkHandler) RegisterRoutes(router *gin.RouterGroup, write ...gin.HandlerFunc) {
	bookmarks := router.Group("/bookmarks")
	{
		bookmarks.GET("", h.List)
		bookmarks.POST("/toggle", guarded(write, h.Toggle)...)
		bookmarks.GET("/:storyId", h.Status)
	}
}

// Toggle flips the caller's bookmark on a story
// POST /api/v1/bookmarks/toggle
func (h *BookmarkHandler) Toggle(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.ToggleBookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	state, err := h.bookmarkService.Toggle(c.Request.Context(), userID, req.StoryID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, dto.BookmarkStatusResponse{StoryID: req.StoryID, IsBookmarked: state})
}

// Status reports whether the caller bookmarked a story
// GET /api/v1/bookmarks/:storyId
func (h *BookmarkHandler) Status(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	storyID, ok := storyIDParam(c)
	if !ok {
		return
	}

	state, err := h.bookmarkService.IsBookmarked(c.Request.Context(), userID, storyID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, dto.BookmarkStatusResponse{StoryID: storyID, IsBookmarked: state})
}

// List returns the caller's bookmarks, newest first
// GET /api/v1/bookmarks?lang=fr
func (h *BookmarkHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	lang := shared.DefaultLanguage
	if raw := c.Query("lang"); raw != "" {
		parsed, err := shared.ParseLanguage(raw)
		if err != nil {
			badRequest(c, "unsupported language")
			return
		}
		lang = parsed
	}

	list, err := h.bookmarkService.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, dto.FromModelsToBookmarkResponses(list, lang))
}
