package domain

import "time"

// SortOrder selects how aggregated videos are ranked.
type SortOrder string

const (
	OrderDate      SortOrder = "date"
	OrderViewCount SortOrder = "viewCount"
)

// Valid reports whether the order is one of the supported values.
func (o SortOrder) Valid() bool {
	return o == OrderDate || o == OrderViewCount
}

// Video is the normalized video metadata returned by the aggregator.
type Video struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	PublishedAt  time.Time `json:"publishedAt"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	ChannelID    string    `json:"channelId"`
	ChannelTitle string    `json:"channelTitle"`
	ViewCount    int64     `json:"viewCount"`
	LikeCount    int64     `json:"likeCount"`
	CommentCount int64     `json:"commentCount"`
	Duration     string    `json:"duration,omitempty"` // ISO 8601, e.g. "PT1H23M45S"
}

// Subscription is one entry from the user's channel subscriptions.
type Subscription struct {
	ChannelID    string    `json:"channelId"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	SubscribedAt time.Time `json:"subscribedAt"`
}

// ChannelResult is one entry from a channel search.
type ChannelResult struct {
	ChannelID    string `json:"channelId"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

// PageInfo mirrors the upstream paging block.
type PageInfo struct {
	TotalResults   int `json:"totalResults"`
	ResultsPerPage int `json:"resultsPerPage"`
}
