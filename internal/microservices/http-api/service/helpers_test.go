package service

import (
	"testing"
	"time"

	"storyhub/internal/lock"
	"storyhub/internal/logger"
	"storyhub/internal/microservices/http-api/repository"
	"storyhub/internal/testutil"

	"gorm.io/gorm"
)

// fixture wires every service to one throwaway SQLite database.
type fixture struct {
	db         *gorm.DB
	progress   *progressService
	ratings    *ratingService
	bookmarks  *bookmarkService
	streaks    *StreakCalculator
	engagement *engagementService
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()
	db := testutil.DB(t)
	log := logger.NewNop()

	progressRepo := repository.NewProgressRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	storyRepo := repository.NewStoryRepository(db)
	bookmarkRepo := repository.NewBookmarkRepository(db)

	clock := func() time.Time { return now }

	locker := lock.NewKeyedMutex()

	ps := NewProgressService(progressRepo, storyRepo, locker, log).(*progressService)
	ps.now = clock

	streaks := NewStreakCalculator(progressRepo, time.UTC)
	streaks.now = clock

	es := NewEngagementService(EngagementDeps{
		Progress:   progressRepo,
		Ratings:    ratingRepo,
		Stories:    storyRepo,
		Engagement: repository.NewEngagementRepository(db),
		Streaks:    streaks,
		CacheTTL:   time.Minute,
		Log:        log,
	}).(*engagementService)
	es.now = clock

	return &fixture{
		db:         db,
		progress:   ps,
		ratings:    NewRatingService(ratingRepo, storyRepo, repository.NewTxRunner(db), locker, log).(*ratingService),
		bookmarks:  NewBookmarkService(bookmarkRepo, storyRepo, log).(*bookmarkService),
		streaks:    streaks,
		engagement: es,
	}
}

func ptr[T any](v T) *T { return &v }
