//go:build integration

package postgres

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"focusfeed/internal/domain"
)

type PostgresIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *postgres.PostgresContainer
	db        *sqlx.DB
}

func (s *PostgresIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	migrationsPath, err := filepath.Abs("../../../migrations")
	s.Require().NoError(err)

	container, err := postgres.Run(s.ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.WithInitScripts(
			filepath.Join(migrationsPath, "001_create_credentials.up.sql"),
			filepath.Join(migrationsPath, "002_create_user_channels.up.sql"),
			filepath.Join(migrationsPath, "003_create_playlists.up.sql"),
		),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := sqlx.Connect("postgres", connStr)
	s.Require().NoError(err)
	s.db = db
}

func (s *PostgresIntegrationSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *PostgresIntegrationSuite) SetupTest() {
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM playlist_videos")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM playlists")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM user_channels")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM credentials")
}

func TestPostgresIntegrationSuite(t *testing.T) {
	suite.Run(t, new(PostgresIntegrationSuite))
}

func (s *PostgresIntegrationSuite) TestCredentialStore_Roundtrip() {
	store := NewCredentialStore(s.db)
	expiresAt := time.Now().Add(time.Hour).Truncate(time.Microsecond)

	err := store.Upsert(s.ctx, &domain.Credential{
		UserID:       "user-1",
		AccessToken:  "at-1",
		RefreshToken: "rt-1",
		ExpiresAt:    expiresAt,
		Scopes:       []string{"https://www.googleapis.com/auth/youtube.readonly"},
	})
	s.Require().NoError(err)

	cred, err := store.Get(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Require().NotNil(cred)
	s.Equal("at-1", cred.AccessToken)
	s.Equal("rt-1", cred.RefreshToken)
	s.True(cred.ExpiresAt.Equal(expiresAt))
	s.Equal([]string{"https://www.googleapis.com/auth/youtube.readonly"}, cred.Scopes)
	s.False(cred.CreatedAt.IsZero())
}

func (s *PostgresIntegrationSuite) TestCredentialStore_UpsertReplaces() {
	store := NewCredentialStore(s.db)
	expiresAt := time.Now().Add(time.Hour).Truncate(time.Microsecond)

	s.Require().NoError(store.Upsert(s.ctx, &domain.Credential{
		UserID:       "user-1",
		AccessToken:  "at-old",
		RefreshToken: "rt-1",
		ExpiresAt:    expiresAt,
	}))

	newExpiry := expiresAt.Add(time.Hour)
	s.Require().NoError(store.Upsert(s.ctx, &domain.Credential{
		UserID:       "user-1",
		AccessToken:  "at-new",
		RefreshToken: "rt-2",
		ExpiresAt:    newExpiry,
	}))

	cred, err := store.Get(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Require().NotNil(cred)
	s.Equal("at-new", cred.AccessToken)
	s.Equal("rt-2", cred.RefreshToken)
	s.True(cred.ExpiresAt.Equal(newExpiry))
	s.True(cred.UpdatedAt.After(cred.CreatedAt) || cred.UpdatedAt.Equal(cred.CreatedAt))
}

func (s *PostgresIntegrationSuite) TestCredentialStore_GetMissing() {
	store := NewCredentialStore(s.db)

	cred, err := store.Get(s.ctx, "nobody")
	s.NoError(err)
	s.Nil(cred)
}

func (s *PostgresIntegrationSuite) TestCredentialStore_DeleteIdempotent() {
	store := NewCredentialStore(s.db)

	s.Require().NoError(store.Upsert(s.ctx, &domain.Credential{
		UserID:      "user-1",
		AccessToken: "at-1",
		ExpiresAt:   time.Now(),
	}))

	s.NoError(store.Delete(s.ctx, "user-1"))
	s.NoError(store.Delete(s.ctx, "user-1"))

	cred, err := store.Get(s.ctx, "user-1")
	s.NoError(err)
	s.Nil(cred)
}

func (s *PostgresIntegrationSuite) TestChannelStore_AddAndList() {
	store := NewChannelStore(s.db)

	s.Require().NoError(store.Add(s.ctx, &domain.Channel{
		UserID: "user-1", ChannelID: "UC1", Title: "One",
	}))
	s.Require().NoError(store.Add(s.ctx, &domain.Channel{
		UserID: "user-1", ChannelID: "UC2", Title: "Two",
	}))

	// Re-adding the same channel updates the metadata, no duplicate row.
	s.Require().NoError(store.Add(s.ctx, &domain.Channel{
		UserID: "user-1", ChannelID: "UC1", Title: "One renamed",
	}))

	channels, err := store.ListByUser(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Require().Len(channels, 2)
	s.Equal("One renamed", channels[0].Title)
}

func (s *PostgresIntegrationSuite) TestChannelStore_DistinctChannelIDs() {
	store := NewChannelStore(s.db)

	s.Require().NoError(store.Add(s.ctx, &domain.Channel{UserID: "user-1", ChannelID: "UC1"}))
	s.Require().NoError(store.Add(s.ctx, &domain.Channel{UserID: "user-2", ChannelID: "UC1"}))
	s.Require().NoError(store.Add(s.ctx, &domain.Channel{UserID: "user-2", ChannelID: "UC2"}))

	ids, err := store.DistinctChannelIDs(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"UC1", "UC2"}, ids)
}

func (s *PostgresIntegrationSuite) TestChannelStore_Remove() {
	store := NewChannelStore(s.db)

	s.Require().NoError(store.Add(s.ctx, &domain.Channel{UserID: "user-1", ChannelID: "UC1"}))
	s.Require().NoError(store.Remove(s.ctx, "user-1", "UC1"))

	channels, err := store.ListByUser(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Empty(channels)
}

func (s *PostgresIntegrationSuite) TestPlaylistStore_CreateAndGet() {
	store := NewPlaylistStore(s.db)
	tm := NewTransactionManager(s.db)

	playlist := &domain.Playlist{
		ID:       "pl-1",
		UserID:   "user-1",
		Name:     "Morning focus",
		VideoIDs: []string{"a", "b", "c"},
	}

	err := tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		return store.Create(ctx, playlist)
	})
	s.Require().NoError(err)

	got, err := store.Get(s.ctx, "pl-1")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal("Morning focus", got.Name)
	s.Equal([]string{"a", "b", "c"}, got.VideoIDs)
}

func (s *PostgresIntegrationSuite) TestPlaylistStore_CreateRollsBackOnMemberFailure() {
	store := NewPlaylistStore(s.db)
	tm := NewTransactionManager(s.db)

	err := tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		if err := store.Create(ctx, &domain.Playlist{
			ID: "pl-1", UserID: "user-1", Name: "Doomed",
		}); err != nil {
			return err
		}
		return errors.New("forced failure")
	})
	s.Error(err)

	got, err := store.Get(s.ctx, "pl-1")
	s.NoError(err)
	s.Nil(got)
}

func (s *PostgresIntegrationSuite) TestPlaylistStore_AddVideoAppends() {
	store := NewPlaylistStore(s.db)
	tm := NewTransactionManager(s.db)

	s.Require().NoError(tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		return store.Create(ctx, &domain.Playlist{
			ID: "pl-1", UserID: "user-1", Name: "List", VideoIDs: []string{"a"},
		})
	}))

	s.Require().NoError(store.AddVideo(s.ctx, "pl-1", "b"))
	// Duplicate adds are ignored.
	s.Require().NoError(store.AddVideo(s.ctx, "pl-1", "b"))

	got, err := store.Get(s.ctx, "pl-1")
	s.Require().NoError(err)
	s.Equal([]string{"a", "b"}, got.VideoIDs)
}

func (s *PostgresIntegrationSuite) TestPlaylistStore_RemoveVideo() {
	store := NewPlaylistStore(s.db)
	tm := NewTransactionManager(s.db)

	s.Require().NoError(tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		return store.Create(ctx, &domain.Playlist{
			ID: "pl-1", UserID: "user-1", Name: "List", VideoIDs: []string{"a", "b"},
		})
	}))

	s.Require().NoError(store.RemoveVideo(s.ctx, "pl-1", "a"))

	got, err := store.Get(s.ctx, "pl-1")
	s.Require().NoError(err)
	s.Equal([]string{"b"}, got.VideoIDs)
}

func (s *PostgresIntegrationSuite) TestPlaylistStore_Delete() {
	store := NewPlaylistStore(s.db)
	tm := NewTransactionManager(s.db)

	s.Require().NoError(tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		return store.Create(ctx, &domain.Playlist{
			ID: "pl-1", UserID: "user-1", Name: "List", VideoIDs: []string{"a"},
		})
	}))

	s.Require().NoError(tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		return store.Delete(ctx, "pl-1", "user-1")
	}))

	got, err := store.Get(s.ctx, "pl-1")
	s.NoError(err)
	s.Nil(got)
}

func (s *PostgresIntegrationSuite) TestPlaylistStore_ListByUser() {
	store := NewPlaylistStore(s.db)
	tm := NewTransactionManager(s.db)

	for _, p := range []*domain.Playlist{
		{ID: "pl-1", UserID: "user-1", Name: "First", VideoIDs: []string{"a"}},
		{ID: "pl-2", UserID: "user-1", Name: "Second"},
		{ID: "pl-3", UserID: "user-2", Name: "Other"},
	} {
		s.Require().NoError(tm.WithTransaction(s.ctx, func(ctx context.Context) error {
			return store.Create(ctx, p)
		}))
	}

	playlists, err := store.ListByUser(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Require().Len(playlists, 2)
	s.Equal([]string{"a"}, playlists[0].VideoIDs)
	s.Empty(playlists[1].VideoIDs)
}
