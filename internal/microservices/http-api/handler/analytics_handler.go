package handler

import (
	"net/http"

	"storyhub/internal/logger"
	"storyhub/internal/microservices/http-api/dto"
	"storyhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	engagementService service.EngagementService
	log               *logger.Logger
}

func NewAnalyticsHandler(engagementService service.EngagementService, log *logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{engagementService: engagementService, log: log}
}

// RegisterRoutes registers analytics routes; admin guards the system view.
func (h *AnalyticsHandler) RegisterRoutes(router *gin.RouterGroup, stories *gin.RouterGroup, admin gin.HandlerFunc) {
	analytics := router.Group("/analytics")
	{
		analytics.GET("/user", h.User)
		analytics.GET("/dashboard", h.Dashboard)
		analytics.GET("/streak", h.Streak)
		analytics.GET("/system", admin, h.System)
	}
	stories.GET("/:storyId/analytics", h.Story)
}

// User returns the caller's analytics over the last period days
// GET /api/v1/analytics/user?period=30
func (h *AnalyticsHandler) User(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var q dto.AnalyticsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "period must be between 1 and 365")
		return
	}

	out, err := h.engagementService.UserAnalytics(c.Request.Context(), userID, q.Period)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, out)
}

// Dashboard returns the caller's reading summary
// GET /api/v1/analytics/dashboard
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	d, err := h.engagementService.UserDashboard(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, dto.FromDashboard(d))
}

// Streak returns the caller's current reading streak
// GET /api/v1/analytics/streak
func (h *AnalyticsHandler) Streak(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	streak, err := h.engagementService.Streak(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"streak": streak})
}

// Story returns engagement numbers for one story
// GET /api/v1/stories/:storyId/analytics
func (h *AnalyticsHandler) Story(c *gin.Context) {
	storyID, ok := storyIDParam(c)
	if !ok {
		return
	}
	out, err := h.engagementService.StoryAnalytics(c.Request.Context(), storyID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, dto.FromStoryAnalytics(out))
}

// System returns platform-wide totals; admin only
// GET /api/v1/analytics/system?period=30
func (h *AnalyticsHandler) System(c *gin.Context) {
	var q dto.AnalyticsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "period must be between 1 and 365")
		return
	}
	out, err := h.engagementService.SystemAnalytics(c.Request.Context(), q.Period)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, out)
}
