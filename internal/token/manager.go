package token

//go:generate mockgen -source=manager.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/oauth2"

	"focusfeed/internal/domain"
)

const (
	googleAuthURL  = "https://accounts.google.com/o/oauth2/auth"
	googleTokenURL = "https://oauth2.googleapis.com/token"
)

var (
	// ErrNotConnected means no credential is on file; the user must start
	// the OAuth flow.
	ErrNotConnected = errors.New("token: account not connected")

	// ErrRefreshUnavailable means the stored credential is expired and
	// carries no refresh token, so it cannot be silently renewed.
	ErrRefreshUnavailable = errors.New("token: no refresh token available")
)

// RefreshError is an upstream rejection of a refresh attempt, kept with
// the upstream status and body for diagnosis.
type RefreshError struct {
	Status int
	Body   string
	Err    error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("token: refresh failed (status %d): %v", e.Status, e.Err)
}

func (e *RefreshError) Unwrap() error {
	return e.Err
}

// CredentialStore persists per-user OAuth credentials. Get returns
// (nil, nil) when no record exists.
type CredentialStore interface {
	Get(ctx context.Context, userID string) (*domain.Credential, error)
	Upsert(ctx context.Context, cred *domain.Credential) error
	Delete(ctx context.Context, userID string) error
}

// Config holds the OAuth client settings.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scopes       []string

	// Endpoint overrides, used by tests. Default to the Google OAuth
	// endpoints.
	AuthURL  string
	TokenURL string
}

// Manager owns the lifecycle of per-user OAuth credentials: code
// exchange, validity checks, transparent refresh and disconnect.
type Manager struct {
	store  CredentialStore
	oauth  *oauth2.Config
	now    func() time.Time
	logger *slog.Logger
}

func NewManager(cfg Config, store CredentialStore, logger *slog.Logger) *Manager {
	authURL := cfg.AuthURL
	if authURL == "" {
		authURL = googleAuthURL
	}
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = googleTokenURL
	}

	return &Manager{
		store: store,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  authURL,
				TokenURL: tokenURL,
			},
		},
		now:    time.Now,
		logger: logger.With("component", "token"),
	}
}

// AuthURL builds the consent URL for the OAuth flow, requesting offline
// access so a refresh token is granted.
func (m *Manager) AuthURL(state string) string {
	return m.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Connect exchanges an authorization code and stores the resulting
// credential for the user, replacing any previous one.
func (m *Manager) Connect(ctx context.Context, userID, code string) error {
	if userID == "" {
		return fmt.Errorf("user id is required")
	}

	tok, err := m.oauth.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchange authorization code: %w", err)
	}

	refreshToken := tok.RefreshToken
	if refreshToken == "" {
		// Re-consent may omit the refresh token; keep the stored one
		// instead of blanking it.
		prev, err := m.store.Get(ctx, userID)
		if err != nil {
			return fmt.Errorf("load credential: %w", err)
		}
		if prev != nil {
			refreshToken = prev.RefreshToken
		}
	}

	cred := &domain.Credential{
		UserID:       userID,
		AccessToken:  tok.AccessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    tok.Expiry,
		Scopes:       m.oauth.Scopes,
	}

	if err := m.store.Upsert(ctx, cred); err != nil {
		return fmt.Errorf("store credential: %w", err)
	}

	m.logger.Info("connected account", "user_id", userID)
	return nil
}

// ValidToken returns a currently valid access token for the user,
// refreshing and persisting it first when the stored one has expired.
// Refresh failures are never retried here; the caller decides whether to
// prompt reconnection.
func (m *Manager) ValidToken(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("user id is required")
	}

	cred, err := m.store.Get(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("load credential: %w", err)
	}
	if cred == nil {
		return "", ErrNotConnected
	}

	if !cred.Expired(m.now()) {
		return cred.AccessToken, nil
	}

	if cred.RefreshToken == "" {
		return "", ErrRefreshUnavailable
	}

	src := m.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: cred.RefreshToken})
	newTok, err := src.Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return "", &RefreshError{
				Status: retrieveErr.Response.StatusCode,
				Body:   string(retrieveErr.Body),
				Err:    err,
			}
		}
		return "", &RefreshError{Err: err}
	}

	cred.AccessToken = newTok.AccessToken
	cred.ExpiresAt = newTok.Expiry
	if newTok.RefreshToken != "" {
		// Upstream rotated the refresh token.
		cred.RefreshToken = newTok.RefreshToken
	}

	if err := m.store.Upsert(ctx, cred); err != nil {
		return "", fmt.Errorf("persist refreshed credential: %w", err)
	}

	m.logger.Info("refreshed access token", "user_id", userID, "expires_at", cred.ExpiresAt)
	return cred.AccessToken, nil
}

// HasConnection reports whether a credential is on file for the user. No
// network call is made; an expired credential still counts as connected.
func (m *Manager) HasConnection(ctx context.Context, userID string) bool {
	if userID == "" {
		return false
	}
	cred, err := m.store.Get(ctx, userID)
	return err == nil && cred != nil
}

// Disconnect removes the stored credential. Deleting an absent credential
// is not an error.
func (m *Manager) Disconnect(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("user id is required")
	}
	if err := m.store.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	m.logger.Info("disconnected account", "user_id", userID)
	return nil
}
