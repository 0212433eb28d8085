package domain

import "time"

// Credential holds the stored OAuth token state for one user. At most one
// record exists per user; refreshes replace the access token and expiry in
// a single write.
type Credential struct {
	UserID       string
	AccessToken  string
	RefreshToken string // empty when upstream did not grant one
	ExpiresAt    time.Time
	Scopes       []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Expired reports whether the access token is past its expiry at the
// given instant.
func (c *Credential) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
