package feed

import (
	"context"
	"log/slog"
	"time"

	"focusfeed/internal/domain"
)

// Refresher periodically re-fetches the feed for every selected channel
// and the featured collections, publishing the metadata for downstream
// consumers (cache warmers, notifiers).
type Refresher struct {
	service    *Service
	channels   ChannelStore
	publisher  Publisher
	maxResults int
	logger     *slog.Logger
}

func NewRefresher(service *Service, channels ChannelStore, publisher Publisher, maxResults int, logger *slog.Logger) *Refresher {
	return &Refresher{
		service:    service,
		channels:   channels,
		publisher:  publisher,
		maxResults: maxResults,
		logger:     logger.With("component", "refresher"),
	}
}

// Refresh runs one pass over all selected channels and featured
// collections. Per-channel failures are already swallowed by the
// aggregation call; publish failures are counted but do not abort the
// pass.
func (r *Refresher) Refresh(ctx context.Context) (*domain.RefreshStats, error) {
	startTime := time.Now()

	channelIDs, err := r.channels.DistinctChannelIDs(ctx)
	if err != nil {
		return nil, err
	}

	stats := &domain.RefreshStats{Channels: len(channelIDs)}

	for i := 0; i < len(channelIDs); i += MaxChannelsPerRequest {
		end := i + MaxChannelsPerRequest
		if end > len(channelIDs) {
			end = len(channelIDs)
		}

		result, err := r.service.FetchVideos(ctx, FetchRequest{
			ChannelIDs: channelIDs[i:end],
			MaxResults: r.maxResults,
			Order:      domain.OrderDate,
		})
		if err != nil {
			r.logger.Error("channel refresh failed", "error", err)
			stats.Errors++
			continue
		}

		r.publish(ctx, result.Videos, stats)
	}

	for _, collection := range domain.FeaturedCollections() {
		result, err := r.service.FetchVideos(ctx, FetchRequest{
			VideoIDs:   collection.VideoIDs,
			MaxResults: len(collection.VideoIDs),
		})
		if err != nil {
			r.logger.Error("collection refresh failed",
				"collection", collection.ID,
				"error", err,
			)
			stats.Errors++
			continue
		}

		r.publish(ctx, result.Videos, stats)
	}

	stats.Duration = time.Since(startTime)

	r.logger.Info("refresh completed",
		"channels", stats.Channels,
		"fetched", stats.Fetched,
		"published", stats.Published,
		"errors", stats.Errors,
		"duration", stats.Duration,
	)

	return stats, nil
}

func (r *Refresher) publish(ctx context.Context, videos []domain.Video, stats *domain.RefreshStats) {
	stats.Fetched += len(videos)

	if r.publisher == nil {
		return
	}

	for i := range videos {
		if err := r.publisher.Publish(ctx, &videos[i]); err != nil {
			stats.Errors++
			continue
		}
		stats.Published++
	}
}
