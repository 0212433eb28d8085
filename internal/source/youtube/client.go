package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"focusfeed/internal/domain"
)

// MaxIDsPerCall is the upstream limit on ids in a single videos.list call.
const MaxIDsPerCall = 50

// ErrMissingAPIKey is returned when a key-authenticated call is attempted
// without an API key configured.
var ErrMissingAPIKey = errors.New("youtube: api key not configured")

// StatusError is a non-2xx upstream response, kept with its body for
// diagnostics.
type StatusError struct {
	Endpoint string
	Status   int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("youtube %s: unexpected status %d", e.Endpoint, e.Status)
}

// Config holds upstream client configuration.
type Config struct {
	APIKey         string
	BaseURL        string
	Timeout        time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Client talks to the YouTube Data API v3. Calls authenticate either with
// the configured API key or, when a bearer token is supplied, with that
// token on behalf of a user.
type Client struct {
	httpClient     *http.Client
	apiKey         string
	baseURL        string
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	logger         *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		apiKey:         cfg.APIKey,
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		logger:         logger.With("source", "youtube"),
	}
}

// SearchPage is one page of channel search results: the video ids to feed
// into a detail fetch plus upstream paging state.
type SearchPage struct {
	VideoIDs      []string
	PageInfo      domain.PageInfo
	NextPageToken string
}

// SearchChannelVideos lists video ids for a channel ordered by the given
// sort key. An empty bearer selects API-key authentication.
func (c *Client) SearchChannelVideos(ctx context.Context, bearer, channelID string, maxResults int, order domain.SortOrder, pageToken string) (*SearchPage, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("channelId", channelID)
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("order", string(order))
	params.Set("type", "video")
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	var resp searchResponse
	if err := c.doGet(ctx, "search", params, bearer, &resp); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.ID.VideoID != "" {
			ids = append(ids, item.ID.VideoID)
		}
	}

	return &SearchPage{
		VideoIDs: ids,
		PageInfo: domain.PageInfo{
			TotalResults:   resp.PageInfo.TotalResults,
			ResultsPerPage: resp.PageInfo.ResultsPerPage,
		},
		NextPageToken: resp.NextPageToken,
	}, nil
}

// VideosByIDs fetches snippet, statistics and content details for up to
// MaxIDsPerCall videos in one call. Splitting larger id sets into batches
// is the caller's responsibility.
func (c *Client) VideosByIDs(ctx context.Context, bearer string, ids []string) ([]domain.Video, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > MaxIDsPerCall {
		return nil, fmt.Errorf("youtube: %d ids exceeds limit of %d per call", len(ids), MaxIDsPerCall)
	}

	params := url.Values{}
	params.Set("part", "snippet,statistics,contentDetails")
	params.Set("id", strings.Join(ids, ","))

	var resp videoListResponse
	if err := c.doGet(ctx, "videos", params, bearer, &resp); err != nil {
		return nil, err
	}

	videos := make([]domain.Video, 0, len(resp.Items))
	for _, item := range resp.Items {
		videos = append(videos, c.transformVideo(item))
	}

	return videos, nil
}

// SearchChannels searches channels by free-text query for the setup flow.
func (c *Client) SearchChannels(ctx context.Context, query string, maxResults int) ([]domain.ChannelResult, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "channel")
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(maxResults))

	var resp searchResponse
	if err := c.doGet(ctx, "search", params, "", &resp); err != nil {
		return nil, err
	}

	channels := make([]domain.ChannelResult, 0, len(resp.Items))
	for _, item := range resp.Items {
		channels = append(channels, domain.ChannelResult{
			ChannelID:    item.ID.ChannelID,
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			ThumbnailURL: bestThumbnail(item.Snippet.Thumbnails),
		})
	}

	return channels, nil
}

// SubscriptionPage is one page of the authenticated user's subscriptions.
type SubscriptionPage struct {
	Items         []domain.Subscription
	PageInfo      domain.PageInfo
	NextPageToken string
}

// Subscriptions lists the authenticated user's channel subscriptions.
// A bearer token is required.
func (c *Client) Subscriptions(ctx context.Context, bearer string, maxResults int, pageToken string) (*SubscriptionPage, error) {
	params := url.Values{}
	params.Set("part", "snippet,contentDetails")
	params.Set("mine", "true")
	params.Set("maxResults", strconv.Itoa(maxResults))
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	var resp subscriptionsResponse
	if err := c.doGet(ctx, "subscriptions", params, bearer, &resp); err != nil {
		return nil, err
	}

	subs := make([]domain.Subscription, 0, len(resp.Items))
	for _, item := range resp.Items {
		subscribedAt, _ := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
		subs = append(subs, domain.Subscription{
			ChannelID:    item.Snippet.ResourceID.ChannelID,
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			ThumbnailURL: bestThumbnail(item.Snippet.Thumbnails),
			SubscribedAt: subscribedAt,
		})
	}

	return &SubscriptionPage{
		Items: subs,
		PageInfo: domain.PageInfo{
			TotalResults:   resp.PageInfo.TotalResults,
			ResultsPerPage: resp.PageInfo.ResultsPerPage,
		},
		NextPageToken: resp.NextPageToken,
	}, nil
}

func (c *Client) doGet(ctx context.Context, endpoint string, params url.Values, bearer string, out any) error {
	if bearer == "" {
		if c.apiKey == "" {
			return ErrMissingAPIKey
		}
		params.Set("key", c.apiKey)
	}

	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		lastErr = c.doRequest(ctx, endpoint, reqURL, bearer, out)
		if lastErr == nil {
			return nil
		}

		// Client errors are not transient; hand them straight back.
		var statusErr *StatusError
		if errors.As(lastErr, &statusErr) && statusErr.Status < http.StatusInternalServerError {
			return lastErr
		}

		if attempt == c.maxAttempts {
			break
		}

		backoff := c.calculateBackoff(attempt)
		c.logger.Warn("request failed, retrying",
			"endpoint", endpoint,
			"attempt", attempt,
			"backoff", backoff,
			"error", lastErr,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}

	return fmt.Errorf("after %d attempts: %w", c.maxAttempts, lastErr)
}

func (c *Client) doRequest(ctx context.Context, endpoint, reqURL, bearer string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{
			Endpoint: endpoint,
			Status:   resp.StatusCode,
			Body:     string(body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func (c *Client) calculateBackoff(attempt int) time.Duration {
	backoff := c.initialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if backoff > c.maxBackoff {
		backoff = c.maxBackoff
	}
	return backoff
}
