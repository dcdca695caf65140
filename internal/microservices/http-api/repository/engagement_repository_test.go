package repository_test

import (
	"context"
	"testing"
	"time"

	"storyhub/internal/microservices/http-api/models"
	"storyhub/internal/microservices/http-api/repository"
	"storyhub/internal/shared"
	"storyhub/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngagementRepository_StoryAndCategoryStats(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	progress := repository.NewProgressRepository(db)
	repo := repository.NewEngagementRepository(db)
	now := time.Now().UTC()

	fantasy := testutil.SeedCategory(t, db, "fantasy")
	mystery := testutil.SeedCategory(t, db, "mystery")
	dragon := testutil.SeedStory(t, db, "dragon", true, fantasy)
	elves := testutil.SeedStory(t, db, "elves", true, fantasy)
	clue := testutil.SeedStory(t, db, "clue", true, mystery)
	alice := testutil.SeedUser(t, db, "alice")
	bob := testutil.SeedUser(t, db, "bob")

	p := newProgress(alice.ID, dragon.ID, shared.StatusCompleted, now)
	p.ReadingTimeSeconds = 600
	require.NoError(t, progress.Create(ctx, p))
	half := newProgress(bob.ID, dragon.ID, shared.StatusStarted, now)
	half.CompletionPercentage = 50
	require.NoError(t, progress.Create(ctx, half))
	require.NoError(t, progress.Create(ctx, newProgress(alice.ID, elves.ID, shared.StatusStarted, now)))
	require.NoError(t, progress.Create(ctx, newProgress(alice.ID, clue.ID, shared.StatusStarted, testutil.Day(now, 40, 9))))

	stats, err := repo.StoryProgressStats(ctx, dragon.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Readers)
	assert.Equal(t, int64(1), stats.Completed)
	assert.InDelta(t, 75.0, stats.AverageCompletion, 1e-9)

	cats, err := repo.FavoriteCategories(ctx, alice.ID, 3)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "fantasy", cats[0].Name)
	assert.Equal(t, int64(2), cats[0].Stories)

	completed, seconds, err := repo.UserTotalsSince(ctx, alice.ID, testutil.Day(now, 7, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(1), completed)
	assert.Equal(t, int64(600), seconds)

	require.NoError(t, db.Create(&models.Bookmark{UserID: bob.ID, StoryID: clue.ID}).Error)
	totals, err := repo.SystemTotals(ctx, testutil.Day(now, 7, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(2), totals.Users)
	assert.Equal(t, int64(3), totals.Stories)
	assert.Equal(t, int64(4), totals.ProgressRecords)
	assert.Equal(t, int64(1), totals.Completed)
	assert.Equal(t, int64(1), totals.Bookmarks)
	assert.Equal(t, int64(2), totals.ActiveReaders)
}
