package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"focusfeed/internal/domain"
)

// PlaylistStore persists user playlists and their member video ids.
// Position is the insertion order and drives playback order in the UI.
type PlaylistStore struct {
	db *sqlx.DB
}

func NewPlaylistStore(db *sqlx.DB) *PlaylistStore {
	return &PlaylistStore{db: db}
}

// Create inserts the playlist and its member videos. Run it inside a
// transaction so a failed member insert does not leave an empty playlist
// behind.
func (s *PlaylistStore) Create(ctx context.Context, playlist *domain.Playlist) error {
	exec := GetExecutor(ctx, s.db)

	_, err := exec.ExecContext(ctx,
		"INSERT INTO playlists (id, user_id, name, description) VALUES ($1, $2, $3, $4)",
		playlist.ID,
		playlist.UserID,
		playlist.Name,
		playlist.Description,
	)
	if err != nil {
		return err
	}

	for i, videoID := range playlist.VideoIDs {
		_, err := exec.ExecContext(ctx,
			"INSERT INTO playlist_videos (playlist_id, video_id, position) VALUES ($1, $2, $3)",
			playlist.ID, videoID, i,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// Get returns the playlist with its video ids in position order, or
// (nil, nil) when it does not exist.
func (s *PlaylistStore) Get(ctx context.Context, id string) (*domain.Playlist, error) {
	var playlist domain.Playlist
	err := s.db.GetContext(ctx, &playlist,
		"SELECT id, user_id, name, description, created_at FROM playlists WHERE id = $1",
		id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	err = s.db.SelectContext(ctx, &playlist.VideoIDs,
		"SELECT video_id FROM playlist_videos WHERE playlist_id = $1 ORDER BY position",
		id,
	)
	if err != nil {
		return nil, err
	}

	return &playlist, nil
}

func (s *PlaylistStore) ListByUser(ctx context.Context, userID string) ([]domain.Playlist, error) {
	var playlists []domain.Playlist
	err := s.db.SelectContext(ctx, &playlists,
		"SELECT id, user_id, name, description, created_at FROM playlists WHERE user_id = $1 ORDER BY created_at",
		userID,
	)
	if err != nil {
		return nil, err
	}

	for i := range playlists {
		err := s.db.SelectContext(ctx, &playlists[i].VideoIDs,
			"SELECT video_id FROM playlist_videos WHERE playlist_id = $1 ORDER BY position",
			playlists[i].ID,
		)
		if err != nil {
			return nil, err
		}
	}

	return playlists, nil
}

func (s *PlaylistStore) AddVideo(ctx context.Context, playlistID, videoID string) error {
	query := `
		INSERT INTO playlist_videos (playlist_id, video_id, position)
		VALUES ($1, $2, (SELECT COALESCE(MAX(position), -1) + 1 FROM playlist_videos WHERE playlist_id = $1))
		ON CONFLICT (playlist_id, video_id) DO NOTHING`

	_, err := s.db.ExecContext(ctx, query, playlistID, videoID)
	return err
}

func (s *PlaylistStore) RemoveVideo(ctx context.Context, playlistID, videoID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM playlist_videos WHERE playlist_id = $1 AND video_id = $2",
		playlistID, videoID,
	)
	return err
}

// Delete removes the playlist and its members. Idempotent.
func (s *PlaylistStore) Delete(ctx context.Context, id, userID string) error {
	exec := GetExecutor(ctx, s.db)

	_, err := exec.ExecContext(ctx,
		"DELETE FROM playlist_videos WHERE playlist_id = $1",
		id,
	)
	if err != nil {
		return err
	}

	_, err = exec.ExecContext(ctx,
		"DELETE FROM playlists WHERE id = $1 AND user_id = $2",
		id, userID,
	)
	return err
}
