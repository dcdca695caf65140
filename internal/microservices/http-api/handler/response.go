package handler

import (
	"net/http"

	"storyhub/internal/apperr"
	"storyhub/internal/logger"
	"storyhub/internal/microservices/http-api/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const msgInternal = "an internal error occurred"

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, dto.OK(data))
}

// respondError maps err onto the envelope. Internal errors are logged and
// their detail is never sent to the client.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	kind := apperr.KindOf(err)
	msg := err.Error()
	if kind == apperr.KindInternal {
		log.Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"user_id", c.GetString("userID"),
			"error", err,
		)
		msg = msgInternal
	}
	c.AbortWithStatusJSON(kind.HTTPStatus(), dto.Fail(kind.String(), msg))
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.Fail(apperr.KindValidation.String(), msg))
}

// currentUserID reads the id set by the auth middleware.
func currentUserID(c *gin.Context) (string, bool) {
	userID := c.GetString("userID")
	if userID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Fail(apperr.KindUnauthorized.String(), "user not authenticated"))
		return "", false
	}
	return userID, true
}

// storyIDParam validates the :storyId path segment.
func storyIDParam(c *gin.Context) (string, bool) {
	raw := c.Param("storyId")
	id, err := uuid.Parse(raw)
	if err != nil {
		badRequest(c, "invalid story id")
		return "", false
	}
	return id.String(), true
}

// guarded returns guards followed by h in a fresh slice.
func guarded(guards []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(guards)+1)
	out = append(out, guards...)
	return append(out, h)
}
