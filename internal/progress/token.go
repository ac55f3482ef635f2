package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// StoredToken is the persisted OAuth token pair.
type StoredToken struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Valid reports whether the access token is good for at least another
// day, matching the margin the import run needs to finish within.
func (t *StoredToken) Valid() bool {
	return time.Until(t.ExpiresAt) >= 24*time.Hour
}

// Token returns the stored OAuth token, or nil when the user has never
// authenticated.
func (s *Store) Token(ctx context.Context) (*StoredToken, error) {
	var t StoredToken
	err := s.db.QueryRowContext(ctx,
		"SELECT access_token, refresh_token, expires_at FROM oauth_tokens WHERE id = 1",
	).Scan(&t.AccessToken, &t.RefreshToken, &t.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query token: %w", err)
	}
	return &t, nil
}

// SaveToken stores the OAuth token pair, replacing any previous one.
func (s *Store) SaveToken(ctx context.Context, t StoredToken) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO oauth_tokens (id, access_token, refresh_token, expires_at)
		 VALUES (1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   access_token = excluded.access_token,
		   refresh_token = excluded.refresh_token,
		   expires_at = excluded.expires_at`,
		t.AccessToken, t.RefreshToken, t.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}
