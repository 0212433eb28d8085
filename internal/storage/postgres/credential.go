package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"focusfeed/internal/domain"
)

// CredentialStore persists OAuth credentials keyed by user id. There is
// at most one row per user; writes are full-row upserts so a refresh
// never leaves a partially updated record.
type CredentialStore struct {
	db *sqlx.DB
}

func NewCredentialStore(db *sqlx.DB) *CredentialStore {
	return &CredentialStore{db: db}
}

// Get returns the stored credential, or (nil, nil) when the user has
// none.
func (s *CredentialStore) Get(ctx context.Context, userID string) (*domain.Credential, error) {
	query := `
		SELECT user_id, access_token, refresh_token, expires_at, scopes, created_at, updated_at
		FROM credentials
		WHERE user_id = $1`

	var cred domain.Credential
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&cred.UserID,
		&cred.AccessToken,
		&cred.RefreshToken,
		&cred.ExpiresAt,
		pq.Array(&cred.Scopes),
		&cred.CreatedAt,
		&cred.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &cred, nil
}

func (s *CredentialStore) Upsert(ctx context.Context, cred *domain.Credential) error {
	query := `
		INSERT INTO credentials (user_id, access_token, refresh_token, expires_at, scopes)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			expires_at = EXCLUDED.expires_at,
			scopes = EXCLUDED.scopes,
			updated_at = now()`

	_, err := s.db.ExecContext(ctx, query,
		cred.UserID,
		cred.AccessToken,
		cred.RefreshToken,
		cred.ExpiresAt,
		pq.Array(cred.Scopes),
	)
	return err
}

// Delete removes the credential. Deleting an absent row is not an error.
func (s *CredentialStore) Delete(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM credentials WHERE user_id = $1", userID)
	return err
}
