package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storyhub/cmd/cli/dto"
)

const storyID = "7d1c8f1e-1a2b-4c3d-9e8f-001122334455"

func newTestClient(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewHTTPClient(srv.URL + "/")
	c.SetToken("tkn")
	return c
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestSubmitRating_SendsBodyAndDecodesEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/stories/"+storyID+"/rating", r.URL.Path)
		assert.Equal(t, "Bearer tkn", r.Header.Get("Authorization"))

		var req dto.SubmitRatingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 4, req.Rating)

		writeJSON(w, http.StatusOK, `{"success":true,"data":{"rating":{"user_id":"u1","story_id":"`+storyID+`","rating":4},"aggregate":{"average_rating":4.5,"rating_count":2}}}`)
	})

	res, err := c.SubmitRating(storyID, &dto.SubmitRatingRequest{Rating: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Rating.Rating)
	assert.Equal(t, 4.5, res.Aggregate.AverageRating)
	assert.Equal(t, int64(2), res.Aggregate.RatingCount)
}

func TestGetProgress_NullDataMeansNotStarted(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"data":null}`)
	})

	progress, err := c.GetProgress(storyID)
	require.NoError(t, err)
	assert.Nil(t, progress)
}

func TestDo_ErrorEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, `{"success":false,"error":{"code":"FORBIDDEN","message":"cannot rate unpublished stories"}}`)
	})

	_, err := c.SubmitRating(storyID, &dto.SubmitRatingRequest{Rating: 3})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "FORBIDDEN", apiErr.Code)
	assert.Equal(t, "FORBIDDEN: cannot rate unpublished stories", apiErr.Error())
}

func TestDo_NonJSONBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway down", http.StatusBadGateway)
	})

	_, err := c.Dashboard()
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
}

func TestListRatings_QueryParameters(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "highest", r.URL.Query().Get("sort"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("page_size"))
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"ratings":[],"page":2,"page_size":10,"total":11,"total_pages":2,"distribution":{"5":11}}}`)
	})

	page, err := c.ListRatings(storyID, "highest", 2, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalPages)
	assert.Equal(t, int64(11), page.Distribution["5"])
}

func TestAnalytics_PeriodQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/analytics/user":
			assert.Equal(t, "7", r.URL.Query().Get("period"))
			writeJSON(w, http.StatusOK, `{"success":true,"data":{"period_days":7,"streak":3,"daily":[{"date":"2026-03-14","stories":1}]}}`)
		case "/api/v1/analytics/streak":
			assert.Empty(t, r.URL.RawQuery)
			writeJSON(w, http.StatusOK, `{"success":true,"data":{"streak":3}}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	stats, err := c.UserAnalytics(7)
	require.NoError(t, err)
	assert.Equal(t, 7, stats.PeriodDays)
	require.Len(t, stats.Daily, 1)
	assert.Equal(t, "2026-03-14", stats.Daily[0].Date)

	streak, err := c.Streak()
	require.NoError(t, err)
	assert.Equal(t, 3, streak)
}

func TestToggleBookmark(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/bookmarks/toggle", r.URL.Path)
		var req dto.ToggleBookmarkRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, storyID, req.StoryID)
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"story_id":"`+storyID+`","is_bookmarked":true}}`)
	})

	status, err := c.ToggleBookmark(storyID)
	require.NoError(t, err)
	assert.True(t, status.IsBookmarked)
}
