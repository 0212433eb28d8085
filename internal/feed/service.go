package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"focusfeed/internal/domain"
	"focusfeed/internal/source/youtube"
)

const (
	// MaxChannelsPerRequest caps the fan-out of a single aggregation call.
	MaxChannelsPerRequest = 10

	// DefaultMaxResults applies when a request does not set a limit.
	DefaultMaxResults = 10

	// MaxResultsLimit is the largest page a caller may request.
	MaxResultsLimit = 50
)

var (
	// ErrNoInput means the request named neither channels nor videos.
	ErrNoInput = errors.New("feed: channel ids or video ids are required")

	// ErrBothModes means the request named both channels and videos; the
	// modes are mutually exclusive.
	ErrBothModes = errors.New("feed: channel ids and video ids are mutually exclusive")

	// ErrInvalidOrder means the request asked for an unknown sort order.
	ErrInvalidOrder = errors.New("feed: unsupported order")
)

// FetchRequest describes one aggregation call. Exactly one of ChannelIDs
// and VideoIDs must be set.
type FetchRequest struct {
	ChannelIDs []string
	VideoIDs   []string
	MaxResults int
	Order      domain.SortOrder
}

func (r *FetchRequest) normalize() error {
	if len(r.ChannelIDs) == 0 && len(r.VideoIDs) == 0 {
		return ErrNoInput
	}
	if len(r.ChannelIDs) > 0 && len(r.VideoIDs) > 0 {
		return ErrBothModes
	}
	if r.MaxResults <= 0 {
		r.MaxResults = DefaultMaxResults
	}
	if r.MaxResults > MaxResultsLimit {
		r.MaxResults = MaxResultsLimit
	}
	if r.Order == "" {
		r.Order = domain.OrderDate
	}
	if !r.Order.Valid() {
		return fmt.Errorf("%w %q", ErrInvalidOrder, r.Order)
	}
	return nil
}

// FetchResult is the aggregated, normalized video list.
type FetchResult struct {
	Videos []domain.Video
}

// FeedPage is one page of a per-user channel feed.
type FeedPage struct {
	Items         []domain.Video
	PageInfo      domain.PageInfo
	NextPageToken string
}

// Service aggregates video metadata across channels and explicit video
// ids, merging, sorting and truncating the results.
type Service struct {
	source VideoSource
	tokens TokenProvider
	logger *slog.Logger
}

func NewService(source VideoSource, tokens TokenProvider, logger *slog.Logger) *Service {
	return &Service{
		source: source,
		tokens: tokens,
		logger: logger.With("component", "feed"),
	}
}

// FetchVideos aggregates videos in one of two modes. By video ids: the id
// list is fetched in batches of up to 50 and concatenated; any batch
// failure fails the whole request. By channel ids: each channel (at most
// 10) is fetched independently and per-channel failures contribute zero
// videos; a missing API key or cancelled context fails the request.
func (s *Service) FetchVideos(ctx context.Context, req FetchRequest) (*FetchResult, error) {
	if err := req.normalize(); err != nil {
		return nil, err
	}

	if len(req.VideoIDs) > 0 {
		return s.fetchByIDs(ctx, req)
	}
	return s.fetchByChannels(ctx, req)
}

func (s *Service) fetchByIDs(ctx context.Context, req FetchRequest) (*FetchResult, error) {
	var videos []domain.Video

	for i := 0; i < len(req.VideoIDs); i += youtube.MaxIDsPerCall {
		end := i + youtube.MaxIDsPerCall
		if end > len(req.VideoIDs) {
			end = len(req.VideoIDs)
		}

		batch, err := s.source.VideosByIDs(ctx, "", req.VideoIDs[i:end])
		if err != nil {
			return nil, fmt.Errorf("fetch video batch %d: %w", i/youtube.MaxIDsPerCall, err)
		}
		videos = append(videos, batch...)
	}

	// Upstream response order stands unless popularity sorting was asked
	// for; only then is the page limit applied.
	if req.Order == domain.OrderViewCount {
		sortVideos(videos, req.Order)
		videos = truncate(videos, req.MaxResults)
	}

	return &FetchResult{Videos: videos}, nil
}

func (s *Service) fetchByChannels(ctx context.Context, req FetchRequest) (*FetchResult, error) {
	channelIDs := req.ChannelIDs
	if len(channelIDs) > MaxChannelsPerRequest {
		s.logger.Warn("truncating channel list",
			"requested", len(channelIDs),
			"limit", MaxChannelsPerRequest,
		)
		channelIDs = channelIDs[:MaxChannelsPerRequest]
	}

	// Channels are fetched concurrently but collected by index, so the
	// merge is deterministic regardless of completion order.
	results := make([][]domain.Video, len(channelIDs))
	g, gctx := errgroup.WithContext(ctx)

	for i, channelID := range channelIDs {
		g.Go(func() error {
			videos, err := s.fetchChannel(gctx, channelID, req.MaxResults, req.Order)
			if err != nil {
				// Only channel-specific failures are skipped. A missing
				// API key or a dead context fails every channel the same
				// way, so an empty success would be a lie.
				if errors.Is(err, youtube.ErrMissingAPIKey) || gctx.Err() != nil {
					return err
				}
				s.logger.Warn("channel fetch failed, skipping",
					"channel_id", channelID,
					"error", err,
				)
				return nil
			}
			results[i] = videos
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var videos []domain.Video
	for _, r := range results {
		videos = append(videos, r...)
	}

	sortVideos(videos, req.Order)
	videos = truncate(videos, req.MaxResults)

	return &FetchResult{Videos: videos}, nil
}

func (s *Service) fetchChannel(ctx context.Context, channelID string, maxResults int, order domain.SortOrder) ([]domain.Video, error) {
	page, err := s.source.SearchChannelVideos(ctx, "", channelID, maxResults, order, "")
	if err != nil {
		return nil, fmt.Errorf("search channel: %w", err)
	}
	if len(page.VideoIDs) == 0 {
		return nil, nil
	}

	videos, err := s.source.VideosByIDs(ctx, "", page.VideoIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch video details: %w", err)
	}

	return videos, nil
}

// FetchUserFeed fetches one channel's videos on behalf of a user with
// their OAuth credential, including paging state. Credential failures
// propagate so the caller can prompt reconnection.
func (s *Service) FetchUserFeed(ctx context.Context, userID, channelID string, maxResults int, order domain.SortOrder, pageToken string) (*FeedPage, error) {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	if order == "" {
		order = domain.OrderDate
	}

	bearer, err := s.tokens.ValidToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	page, err := s.source.SearchChannelVideos(ctx, bearer, channelID, maxResults, order, pageToken)
	if err != nil {
		return nil, fmt.Errorf("search channel: %w", err)
	}

	result := &FeedPage{
		PageInfo:      page.PageInfo,
		NextPageToken: page.NextPageToken,
	}
	if len(page.VideoIDs) == 0 {
		return result, nil
	}

	videos, err := s.source.VideosByIDs(ctx, bearer, page.VideoIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch video details: %w", err)
	}
	result.Items = videos

	return result, nil
}

// FetchSubscriptions lists the user's channel subscriptions with their
// OAuth credential.
func (s *Service) FetchSubscriptions(ctx context.Context, userID string, maxResults int, pageToken string) (*youtube.SubscriptionPage, error) {
	if maxResults <= 0 {
		maxResults = MaxResultsLimit
	}

	bearer, err := s.tokens.ValidToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	page, err := s.source.Subscriptions(ctx, bearer, maxResults, pageToken)
	if err != nil {
		return nil, fmt.Errorf("fetch subscriptions: %w", err)
	}

	return page, nil
}

func sortVideos(videos []domain.Video, order domain.SortOrder) {
	switch order {
	case domain.OrderViewCount:
		sort.SliceStable(videos, func(i, j int) bool {
			return videos[i].ViewCount > videos[j].ViewCount
		})
	default:
		sort.SliceStable(videos, func(i, j int) bool {
			return videos[i].PublishedAt.After(videos[j].PublishedAt)
		})
	}
}

func truncate(videos []domain.Video, max int) []domain.Video {
	if len(videos) > max {
		return videos[:max]
	}
	return videos
}
