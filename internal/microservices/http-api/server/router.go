// Package server assembles the engagement API: repositories, services,
// handlers and the gin engine.
package server

import (
	"time"

	"storyhub/internal/cache"
	"storyhub/internal/config"
	"storyhub/internal/lock"
	"storyhub/internal/logger"
	"storyhub/internal/microservices/http-api/handler"
	"storyhub/internal/microservices/http-api/middleware"
	"storyhub/internal/microservices/http-api/repository"
	"storyhub/internal/microservices/http-api/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"
)

// Deps are the process-level resources the router is built on.
type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	Log    *logger.Logger
	Locker lock.Locker
	Cache  cache.Cache
}

// Services groups the engagement services so callers outside HTTP (the
// admin tool) can reuse the same wiring.
type Services struct {
	Auth       service.AuthService
	Progress   service.ProgressService
	Ratings    service.RatingService
	Bookmarks  service.BookmarkService
	Engagement service.EngagementService
}

func NewServices(d Deps) *Services {
	progressRepo := repository.NewProgressRepository(d.DB)
	ratingRepo := repository.NewRatingRepository(d.DB)
	storyRepo := repository.NewStoryRepository(d.DB)
	bookmarkRepo := repository.NewBookmarkRepository(d.DB)

	locker := d.Locker
	if locker == nil {
		locker = lock.NewKeyedMutex()
	}
	loc := d.Config.StreakLocation()

	return &Services{
		Auth:      service.NewAuthService(d.Config.JWTSecret),
		Progress:  service.NewProgressService(progressRepo, storyRepo, locker, d.Log),
		Ratings:   service.NewRatingService(ratingRepo, storyRepo, repository.NewTxRunner(d.DB), locker, d.Log),
		Bookmarks: service.NewBookmarkService(bookmarkRepo, storyRepo, d.Log),
		Engagement: service.NewEngagementService(service.EngagementDeps{
			Progress:   progressRepo,
			Ratings:    ratingRepo,
			Stories:    storyRepo,
			Engagement: repository.NewEngagementRepository(d.DB),
			Streaks:    service.NewStreakCalculator(progressRepo, loc),
			Cache:      d.Cache,
			CacheTTL:   time.Duration(d.Config.CacheTTL) * time.Second,
			Location:   loc,
			Log:        d.Log,
		}),
	}
}

// NewRouter builds the gin engine with every /api/v1 route behind JWT auth.
func NewRouter(d Deps, svc *Services) *gin.Engine {
	if d.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if d.Config.TracingEnabled {
		r.Use(otelgin.Middleware("storyhub-api"))
	}
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.Config.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", handler.NewHealthHandler(d.DB).Check)

	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(svc.Auth))

	write := middleware.NewUserRateLimiter(d.Config.RateLimitRPS, d.Config.RateLimitBurst).Middleware()
	stories := api.Group("/stories")

	handler.NewProgressHandler(svc.Progress, d.Log).RegisterRoutes(api, write)
	handler.NewRatingHandler(svc.Ratings, d.Log).RegisterRoutes(stories, write)
	handler.NewBookmarkHandler(svc.Bookmarks, d.Log).RegisterRoutes(api, write)
	handler.NewAnalyticsHandler(svc.Engagement, d.Log).RegisterRoutes(api, stories, middleware.RequireAdmin())

	return r
}
