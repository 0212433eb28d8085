package feed

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"focusfeed/internal/domain"
	"focusfeed/internal/source/youtube"
)

// VideoSource is the upstream platform client. An empty bearer selects
// API-key authentication.
type VideoSource interface {
	SearchChannelVideos(ctx context.Context, bearer, channelID string, maxResults int, order domain.SortOrder, pageToken string) (*youtube.SearchPage, error)
	VideosByIDs(ctx context.Context, bearer string, ids []string) ([]domain.Video, error)
	Subscriptions(ctx context.Context, bearer string, maxResults int, pageToken string) (*youtube.SubscriptionPage, error)
}

// TokenProvider supplies a valid per-user bearer token, refreshing it
// when needed.
type TokenProvider interface {
	ValidToken(ctx context.Context, userID string) (string, error)
}

// ChannelStore lists the channels selected across all users, for the
// background refresh pipeline.
type ChannelStore interface {
	DistinctChannelIDs(ctx context.Context) ([]string, error)
}

// Publisher emits refreshed video metadata for downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, video *domain.Video) error
}
