package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"focusfeed/internal/domain"
)

// ChannelStore persists the channels each user picked for their feed.
type ChannelStore struct {
	db *sqlx.DB
}

func NewChannelStore(db *sqlx.DB) *ChannelStore {
	return &ChannelStore{db: db}
}

func (s *ChannelStore) Add(ctx context.Context, channel *domain.Channel) error {
	query := `
		INSERT INTO user_channels (user_id, channel_id, title, thumbnail_url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, channel_id) DO UPDATE SET
			title = EXCLUDED.title,
			thumbnail_url = EXCLUDED.thumbnail_url`

	_, err := s.db.ExecContext(ctx, query,
		channel.UserID,
		channel.ChannelID,
		channel.Title,
		channel.ThumbnailURL,
	)
	return err
}

func (s *ChannelStore) ListByUser(ctx context.Context, userID string) ([]domain.Channel, error) {
	query := `
		SELECT id, user_id, channel_id, title, thumbnail_url, created_at
		FROM user_channels
		WHERE user_id = $1
		ORDER BY created_at`

	var channels []domain.Channel
	err := s.db.SelectContext(ctx, &channels, query, userID)
	return channels, err
}

func (s *ChannelStore) Remove(ctx context.Context, userID, channelID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM user_channels WHERE user_id = $1 AND channel_id = $2",
		userID, channelID,
	)
	return err
}

// DistinctChannelIDs lists every channel selected by at least one user,
// for the background refresh pipeline.
func (s *ChannelStore) DistinctChannelIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.db.SelectContext(ctx, &ids,
		"SELECT DISTINCT channel_id FROM user_channels ORDER BY channel_id",
	)
	return ids, err
}
