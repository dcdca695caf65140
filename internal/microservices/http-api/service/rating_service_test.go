package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"storyhub/internal/apperr"
	"storyhub/internal/microservices/http-api/models"
	"storyhub/internal/microservices/http-api/repository"
	"storyhub/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storyAggregate(t *testing.T, f *fixture, storyID string) (float64, int64) {
	t.Helper()
	var s models.Story
	require.NoError(t, f.db.First(&s, "id = ?", storyID).Error)
	return s.AverageRating, s.RatingCount
}

func TestSubmitRating_AggregateFollowsRatings(t *testing.T) {
	f := newFixture(t, fixedNow)
	ctx := context.Background()
	u1 := testutil.SeedUser(t, f.db, "u1")
	u2 := testutil.SeedUser(t, f.db, "u2")
	story := testutil.SeedStory(t, f.db, "fox", true, nil)

	res, err := f.ratings.SubmitRating(ctx, u1.ID, story.ID, 5, nil)
	require.NoError(t, err)
	assert.Equal(t, Aggregate{StoryID: story.ID, AverageRating: 5, RatingCount: 1}, res.Aggregate)

	res, err = f.ratings.SubmitRating(ctx, u2.ID, story.ID, 3, ptr("fine"))
	require.NoError(t, err)
	assert.InDelta(t, 4.0, res.Aggregate.AverageRating, 1e-9)
	assert.Equal(t, int64(2), res.Aggregate.RatingCount)
	require.NotNil(t, res.Rating.Comment)
	assert.Equal(t, "fine", *res.Rating.Comment)

	// resubmission overwrites instead of adding a row
	res, err = f.ratings.SubmitRating(ctx, u1.ID, story.ID, 3, nil)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, res.Aggregate.AverageRating, 1e-9)
	assert.Equal(t, int64(2), res.Aggregate.RatingCount)

	avg, count := storyAggregate(t, f, story.ID)
	assert.InDelta(t, 3.0, avg, 1e-9)
	assert.Equal(t, int64(2), count)
}

func TestSubmitRating_Idempotent(t *testing.T) {
	f := newFixture(t, fixedNow)
	ctx := context.Background()
	u := testutil.SeedUser(t, f.db, "u")
	story := testutil.SeedStory(t, f.db, "fox", true, nil)

	for i := 0; i < 3; i++ {
		_, err := f.ratings.SubmitRating(ctx, u.ID, story.ID, 4, nil)
		require.NoError(t, err)
	}
	avg, count := storyAggregate(t, f, story.ID)
	assert.InDelta(t, 4.0, avg, 1e-9)
	assert.Equal(t, int64(1), count)
}

func TestSubmitRating_Boundaries(t *testing.T) {
	f := newFixture(t, fixedNow)
	ctx := context.Background()
	u := testutil.SeedUser(t, f.db, "u")
	story := testutil.SeedStory(t, f.db, "fox", true, nil)

	for _, v := range []int{0, 6, -1} {
		_, err := f.ratings.SubmitRating(ctx, u.ID, story.ID, v, nil)
		assert.True(t, apperr.Is(err, apperr.KindValidation), "value %d", v)
	}
	for _, v := range []int{1, 5} {
		_, err := f.ratings.SubmitRating(ctx, u.ID, story.ID, v, nil)
		assert.NoError(t, err, "value %d", v)
	}

	_, err := f.ratings.SubmitRating(ctx, u.ID, story.ID, 3, ptr(strings.Repeat("x", MaxCommentLength+1)))
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestSubmitRating_StoryAvailability(t *testing.T) {
	f := newFixture(t, fixedNow)
	ctx := context.Background()
	u := testutil.SeedUser(t, f.db, "u")
	draft := testutil.SeedStory(t, f.db, "draft", false, nil)

	_, err := f.ratings.SubmitRating(ctx, u.ID, draft.ID, 4, nil)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
	assert.Equal(t, "cannot rate unpublished stories", err.Error())

	_, err = f.ratings.SubmitRating(ctx, u.ID, "00000000-0000-0000-0000-000000000000", 4, nil)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, count := storyAggregate(t, f, draft.ID)
	assert.Zero(t, count)
}

func TestDeleteRating_RecomputesToZero(t *testing.T) {
	f := newFixture(t, fixedNow)
	ctx := context.Background()
	u := testutil.SeedUser(t, f.db, "u")
	story := testutil.SeedStory(t, f.db, "fox", true, nil)

	_, err := f.ratings.DeleteRating(ctx, u.ID, story.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = f.ratings.SubmitRating(ctx, u.ID, story.ID, 2, nil)
	require.NoError(t, err)

	agg, err := f.ratings.DeleteRating(ctx, u.ID, story.ID)
	require.NoError(t, err)
	assert.Zero(t, agg.AverageRating)
	assert.Zero(t, agg.RatingCount)

	got, err := f.ratings.GetUserRating(ctx, u.ID, story.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSubmitRating_ConcurrentSubmissionsStayConsistent(t *testing.T) {
	f := newFixture(t, fixedNow)
	ctx := context.Background()
	story := testutil.SeedStory(t, f.db, "fox", true, nil)

	const n = 12
	users := make([]*models.User, n)
	for i := range users {
		users[i] = testutil.SeedUser(t, f.db, fmt.Sprintf("u%d", i))
	}

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i, u := range users {
		wg.Add(1)
		go func(value int, userID string) {
			defer wg.Done()
			_, err := f.ratings.SubmitRating(ctx, userID, story.ID, value, nil)
			errs <- err
		}(i%5+1, u.ID)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	expectedSum := 0
	for i := 0; i < n; i++ {
		expectedSum += i%5 + 1
	}
	avg, count := storyAggregate(t, f, story.ID)
	assert.Equal(t, int64(n), count)
	assert.InDelta(t, float64(expectedSum)/n, avg, 1e-9)
}

func TestListRatings_SortPagingAndDistribution(t *testing.T) {
	f := newFixture(t, fixedNow)
	ctx := context.Background()
	story := testutil.SeedStory(t, f.db, "fox", true, nil)

	for i, v := range []int{4, 1, 5, 4} {
		u := testutil.SeedUser(t, f.db, fmt.Sprintf("u%d", i))
		_, err := f.ratings.SubmitRating(ctx, u.ID, story.ID, v, nil)
		require.NoError(t, err)
	}

	page, err := f.ratings.ListRatings(ctx, story.ID, repository.SortHighest, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.Total)
	require.Len(t, page.Ratings, 2)
	assert.Equal(t, 5, page.Ratings[0].Rating)
	assert.Equal(t, 4, page.Ratings[1].Rating)
	assert.Equal(t, map[int]int64{1: 1, 2: 0, 3: 0, 4: 2, 5: 1}, page.Distribution)

	page, err = f.ratings.ListRatings(ctx, story.ID, repository.SortLowest, 2, 2)
	require.NoError(t, err)
	require.Len(t, page.Ratings, 2)
	assert.Equal(t, 4, page.Ratings[0].Rating)
	assert.Equal(t, map[int]int64{1: 1, 2: 0, 3: 0, 4: 2, 5: 1}, page.Distribution, "distribution ignores paging")

	_, err = f.ratings.ListRatings(ctx, story.ID, "loudest", 1, 10)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	_, err = f.ratings.ListRatings(ctx, story.ID, repository.SortNewest, 1, MaxPageSize+1)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestRecomputeAggregate_RepairsStaleValues(t *testing.T) {
	f := newFixture(t, fixedNow)
	ctx := context.Background()
	u := testutil.SeedUser(t, f.db, "u")
	story := testutil.SeedStory(t, f.db, "fox", true, nil)

	_, err := f.ratings.SubmitRating(ctx, u.ID, story.ID, 2, nil)
	require.NoError(t, err)
	require.NoError(t, f.db.Model(&models.Story{}).Where("id = ?", story.ID).
		Updates(map[string]any{"average_rating": 4.7, "rating_count": 9}).Error)

	agg, err := f.ratings.RecomputeAggregate(ctx, story.ID)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, agg.AverageRating, 1e-9)
	assert.Equal(t, int64(1), agg.RatingCount)

	_, err = f.ratings.RecomputeAggregate(ctx, "00000000-0000-0000-0000-000000000000")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
