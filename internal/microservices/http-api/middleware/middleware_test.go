package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storyhub/internal/microservices/http-api/dto"
	"storyhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.OK(gin.H{"user_id": c.GetString("userID"), "role": c.GetString("role")}))
	})
	r.GET("/x", handlers...)
	return r
}

func do(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.Envelope {
	t.Helper()
	var env dto.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestAuthMiddleware(t *testing.T) {
	auth := service.NewAuthService(secret)
	r := newRouter(AuthMiddleware(auth))

	t.Run("MissingHeader", func(t *testing.T) {
		w := do(r, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		env := decode(t, w)
		assert.False(t, env.Success)
		assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
	})

	t.Run("BadFormat", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do(r, "Token abc").Code)
	})

	t.Run("BadToken", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do(r, "Bearer not-a-jwt").Code)
	})

	t.Run("Valid", func(t *testing.T) {
		token, err := auth.IssueToken("user-1", "user", time.Hour)
		require.NoError(t, err)
		w := do(r, "Bearer "+token)
		require.Equal(t, http.StatusOK, w.Code)
		env := decode(t, w)
		assert.True(t, env.Success)
		data := env.Data.(map[string]any)
		assert.Equal(t, "user-1", data["user_id"])
	})
}

func TestRequireRole(t *testing.T) {
	auth := service.NewAuthService(secret)
	r := newRouter(AuthMiddleware(auth), RequireAdmin())

	userToken, err := auth.IssueToken("user-1", "user", time.Hour)
	require.NoError(t, err)
	w := do(r, "Bearer "+userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", decode(t, w).Error.Code)

	adminToken, err := auth.IssueToken("admin-1", "admin", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, do(r, "Bearer "+adminToken).Code)
}

func TestUserRateLimiter(t *testing.T) {
	limiter := NewUserRateLimiter(1, 2)
	fixed := time.Now()
	limiter.now = func() time.Time { return fixed }

	setUser := func(id string) gin.HandlerFunc {
		return func(c *gin.Context) { c.Set("userID", id) }
	}

	alice := newRouter(setUser("alice"), limiter.Middleware())
	bob := newRouter(setUser("bob"), limiter.Middleware())

	assert.Equal(t, http.StatusOK, do(alice, "").Code)
	assert.Equal(t, http.StatusOK, do(alice, "").Code)
	w := do(alice, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "RATE_LIMITED", decode(t, w).Error.Code)

	assert.Equal(t, http.StatusOK, do(bob, "").Code, "buckets are per user")

	fixed = fixed.Add(time.Second)
	assert.Equal(t, http.StatusOK, do(alice, "").Code, "bucket refills")
}
