package domain

import "time"

// Channel is a channel a user picked for their feed.
type Channel struct {
	ID           int64     `db:"id" json:"id"`
	UserID       string    `db:"user_id" json:"userId"`
	ChannelID    string    `db:"channel_id" json:"channelId"`
	Title        string    `db:"title" json:"title"`
	ThumbnailURL string    `db:"thumbnail_url" json:"thumbnailUrl"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// Playlist is a user-created collection of specific videos.
type Playlist struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"userId"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	VideoIDs    []string  `db:"-" json:"videoIds"`
}

// Collection is a curated set of videos shipped with the application.
type Collection struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Purpose     string   `json:"purpose"`
	Thumbnails  []string `json:"thumbnails"`
	VideoIDs    []string `json:"videos"`
}
