// Package youtube wraps the YouTube Data API search and videos endpoints
// and the API key rotation used to survive per-key quota exhaustion.
package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultSearchTimeout = 30 * time.Second
	defaultDetailTimeout = 15 * time.Second
	defaultMaxResults    = 10
)

// StatusError reports a non-success HTTP status from the API.
type StatusError struct {
	Op   string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("youtube %s: http %d", e.Op, e.Code)
}

// Quota reports whether the status indicates a quota or auth problem that
// is worth retrying with the next key in the pool.
func (e *StatusError) Quota() bool {
	return e.Code == http.StatusForbidden || e.Code == http.StatusTooManyRequests
}

// Video is the extended metadata for a single video.
type Video struct {
	ID          string
	Title       string
	Channel     string
	Views       int64
	Likes       int64
	DurationISO string
}

// Config captures client construction settings.
type Config struct {
	BaseURL              string
	SearchTimeoutSeconds int
	DetailTimeoutSeconds int
	SearchResults        int
}

// Client calls the YouTube Data API. Credentials are supplied per call so
// the caller controls rotation and retry order.
type Client struct {
	baseURL       string
	searchResults int
	detailTimeout time.Duration
	httpClient    *http.Client
	limiter       *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLimiter overrides the default request pacing.
func WithLimiter(limiter *rate.Limiter) Option {
	return func(c *Client) {
		if limiter != nil {
			c.limiter = limiter
		}
	}
}

// New creates a YouTube Data API client.
func New(cfg Config, opts ...Option) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("youtube base url required")
	}
	searchTimeout := defaultSearchTimeout
	if cfg.SearchTimeoutSeconds > 0 {
		searchTimeout = time.Duration(cfg.SearchTimeoutSeconds) * time.Second
	}
	detailTimeout := defaultDetailTimeout
	if cfg.DetailTimeoutSeconds > 0 {
		detailTimeout = time.Duration(cfg.DetailTimeoutSeconds) * time.Second
	}
	results := cfg.SearchResults
	if results <= 0 {
		results = defaultMaxResults
	}
	client := &Client{
		baseURL:       baseURL,
		searchResults: results,
		detailTimeout: detailTimeout,
		httpClient:    &http.Client{Timeout: searchTimeout},
		limiter:       rate.NewLimiter(rate.Every(200*time.Millisecond), 1),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
}

// Search runs a relevance-ordered video search and returns the raw result
// identifiers, unvalidated.
func (c *Client) Search(ctx context.Context, apiKey, query string) ([]string, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("youtube search: query required")
	}
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", query)
	params.Set("type", "video")
	params.Set("maxResults", strconv.Itoa(c.searchResults))
	params.Set("order", "relevance")
	params.Set("key", apiKey)

	var decoded searchResponse
	if err := c.getJSON(ctx, "search", c.baseURL+"/search?"+params.Encode(), &decoded); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(decoded.Items))
	for _, item := range decoded.Items {
		if item.ID.VideoID != "" {
			ids = append(ids, item.ID.VideoID)
		}
	}
	return ids, nil
}

type videosResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
		} `json:"snippet"`
		Statistics struct {
			ViewCount string `json:"viewCount"`
			LikeCount string `json:"likeCount"`
		} `json:"statistics"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

// VideoDetails fetches statistics, content details, and snippet data for
// the supplied identifiers in one request.
func (c *Client) VideoDetails(ctx context.Context, apiKey string, ids []string) ([]Video, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	params := url.Values{}
	params.Set("part", "contentDetails,snippet,statistics")
	params.Set("id", strings.Join(ids, ","))
	params.Set("key", apiKey)

	var decoded videosResponse
	if err := c.getJSON(ctx, "videos", c.baseURL+"/videos?"+params.Encode(), &decoded); err != nil {
		return nil, err
	}
	return decodeVideos(decoded), nil
}

// SingleVideoDetails fetches one video's metadata under the shorter
// fallback timeout; it is used when a batch request is rejected.
func (c *Client) SingleVideoDetails(ctx context.Context, apiKey, id string) (*Video, error) {
	ctx, cancel := context.WithTimeout(ctx, c.detailTimeout)
	defer cancel()

	videos, err := c.VideoDetails(ctx, apiKey, []string{id})
	if err != nil {
		return nil, err
	}
	if len(videos) == 0 {
		return nil, fmt.Errorf("youtube videos: no data for %s", id)
	}
	return &videos[0], nil
}

func decodeVideos(decoded videosResponse) []Video {
	videos := make([]Video, 0, len(decoded.Items))
	for _, item := range decoded.Items {
		if item.ID == "" {
			continue
		}
		videos = append(videos, Video{
			ID:          item.ID,
			Title:       item.Snippet.Title,
			Channel:     item.Snippet.ChannelTitle,
			Views:       parseCount(item.Statistics.ViewCount),
			Likes:       parseCount(item.Statistics.LikeCount),
			DurationISO: item.ContentDetails.Duration,
		})
	}
	return videos
}

func parseCount(value string) int64 {
	count, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || count < 0 {
		return 0
	}
	return count
}

func (c *Client) getJSON(ctx context.Context, op, endpoint string, target any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("youtube %s: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("youtube %s: new request: %w", op, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("youtube %s: execute request: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Op: op, Code: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("youtube %s: decode response: %w", op, err)
	}
	return nil
}
