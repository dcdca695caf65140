package client

// http_client.go = handles HTTP client functionality for the storyhub CLI.

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"storyhub/cmd/cli/dto"
)

// defines the HTTP client structure and methods
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// APIError is the error body returned by the server envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("request failed: %d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// constructor for HTTP client
func NewHTTPClient(apiURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(apiURL, "/") + "/api/v1",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// set token for HTTP client
func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

// do sends one request and unwraps the envelope into out. A null data
// field leaves out untouched and reports found=false.
func (c *HTTPClient) do(method, path string, query url.Values, body, out any) (bool, error) {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return false, err
		}
		reader = bytes.NewReader(jsonData)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequest(method, target, reader)
	if err != nil {
		return false, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close() // Ensure the response body is closed

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return false, &APIError{Status: resp.StatusCode, Message: resp.Status}
	}
	if !env.Success || resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode, Message: resp.Status}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return false, apiErr
	}

	if len(env.Data) == 0 || string(env.Data) == "null" {
		return false, nil
	}
	if out == nil {
		return true, nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	return true, nil
}

func periodQuery(period int) url.Values {
	if period <= 0 {
		return nil
	}
	return url.Values{"period": {strconv.Itoa(period)}}
}

// Progress

func (c *HTTPClient) RecordProgress(request *dto.RecordProgressRequest) (*dto.ProgressResponse, error) {
	var result dto.ProgressResponse
	if _, err := c.do(http.MethodPost, "/progress", nil, request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetProgress returns nil when the story has not been started.
func (c *HTTPClient) GetProgress(storyID string) (*dto.ProgressResponse, error) {
	var result dto.ProgressResponse
	found, err := c.do(http.MethodGet, "/progress/"+url.PathEscape(storyID), nil, nil, &result)
	if err != nil || !found {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) ListProgress(status string) ([]dto.ProgressResponse, error) {
	var query url.Values
	if status != "" {
		query = url.Values{"status": {status}}
	}
	var result []dto.ProgressResponse
	if _, err := c.do(http.MethodGet, "/progress", query, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *HTTPClient) ListCompleted() ([]dto.ProgressResponse, error) {
	var result []dto.ProgressResponse
	if _, err := c.do(http.MethodGet, "/progress/completed", nil, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *HTTPClient) DeleteProgress(storyID string) error {
	_, err := c.do(http.MethodDelete, "/progress/"+url.PathEscape(storyID), nil, nil, nil)
	return err
}

// Ratings

func (c *HTTPClient) SubmitRating(storyID string, request *dto.SubmitRatingRequest) (*dto.SubmitRatingResponse, error) {
	var result dto.SubmitRatingResponse
	if _, err := c.do(http.MethodPost, "/stories/"+url.PathEscape(storyID)+"/rating", nil, request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetRating returns nil when the user has not rated the story.
func (c *HTTPClient) GetRating(storyID string) (*dto.RatingResponse, error) {
	var result dto.RatingResponse
	found, err := c.do(http.MethodGet, "/stories/"+url.PathEscape(storyID)+"/rating", nil, nil, &result)
	if err != nil || !found {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) DeleteRating(storyID string) (*dto.AggregateResponse, error) {
	var result dto.AggregateResponse
	if _, err := c.do(http.MethodDelete, "/stories/"+url.PathEscape(storyID)+"/rating", nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) ListRatings(storyID, sort string, page, pageSize int) (*dto.PaginatedRatingResponse, error) {
	query := url.Values{}
	if sort != "" {
		query.Set("sort", sort)
	}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		query.Set("page_size", strconv.Itoa(pageSize))
	}
	var result dto.PaginatedRatingResponse
	if _, err := c.do(http.MethodGet, "/stories/"+url.PathEscape(storyID)+"/ratings", query, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Bookmarks

func (c *HTTPClient) ToggleBookmark(storyID string) (*dto.BookmarkStatusResponse, error) {
	var result dto.BookmarkStatusResponse
	if _, err := c.do(http.MethodPost, "/bookmarks/toggle", nil, &dto.ToggleBookmarkRequest{StoryID: storyID}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) BookmarkStatus(storyID string) (*dto.BookmarkStatusResponse, error) {
	var result dto.BookmarkStatusResponse
	if _, err := c.do(http.MethodGet, "/bookmarks/"+url.PathEscape(storyID), nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) ListBookmarks(lang string) ([]dto.BookmarkResponse, error) {
	var query url.Values
	if lang != "" {
		query = url.Values{"lang": {lang}}
	}
	var result []dto.BookmarkResponse
	if _, err := c.do(http.MethodGet, "/bookmarks", query, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Analytics

func (c *HTTPClient) UserAnalytics(period int) (*dto.UserAnalyticsResponse, error) {
	var result dto.UserAnalyticsResponse
	if _, err := c.do(http.MethodGet, "/analytics/user", periodQuery(period), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) Dashboard() (*dto.DashboardResponse, error) {
	var result dto.DashboardResponse
	if _, err := c.do(http.MethodGet, "/analytics/dashboard", nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) Streak() (int, error) {
	var result dto.StreakResponse
	if _, err := c.do(http.MethodGet, "/analytics/streak", nil, nil, &result); err != nil {
		return 0, err
	}
	return result.Streak, nil
}

func (c *HTTPClient) StoryAnalytics(storyID string) (*dto.StoryAnalyticsResponse, error) {
	var result dto.StoryAnalyticsResponse
	if _, err := c.do(http.MethodGet, "/stories/"+url.PathEscape(storyID)+"/analytics", nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) SystemAnalytics(period int) (*dto.SystemAnalyticsResponse, error) {
	var result dto.SystemAnalyticsResponse
	if _, err := c.do(http.MethodGet, "/analytics/system", periodQuery(period), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
