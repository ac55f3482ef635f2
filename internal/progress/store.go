// Package progress persists which export records have already been
// imported, the operator's disambiguation choices, and the OAuth token,
// so interrupted runs can be repeated safely.
package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/lukearran/tvtime2trakt/internal/migrations"
)

// Movie import actions.
const (
	ActionWatched   = "watched"
	ActionWatchlist = "watchlist"
)

// Store provides access to the progress database.
type Store struct {
	db *sql.DB
}

// NewStore wraps an already-opened database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open opens (creating if needed) the progress database at path and
// applies the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// HasEpisode reports whether an episode key has already been imported.
func (s *Store) HasEpisode(ctx context.Context, title string, season, episode int) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM imported_episodes WHERE title = ? AND season = ? AND episode = ?",
		title, season, episode,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query episode: %w", err)
	}
	return true, nil
}

// MarkEpisode records an episode key as imported. Marking the same key
// twice is a no-op.
func (s *Store) MarkEpisode(ctx context.Context, title string, season, episode int, episodeID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO imported_episodes (title, season, episode, episode_id)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(title, season, episode) DO NOTHING`,
		title, season, episode, episodeID,
	)
	if err != nil {
		return fmt.Errorf("mark episode: %w", err)
	}
	return nil
}

// EpisodeCount returns the number of imported episode keys.
func (s *Store) EpisodeCount(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM imported_episodes").Scan(&n); err != nil {
		return 0, fmt.Errorf("count episodes: %w", err)
	}
	return n, nil
}

// HasMovie reports whether a movie has already been imported with the
// given action (watched or watchlist).
func (s *Store) HasMovie(ctx context.Context, name, action string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM imported_movies WHERE name = ? AND action = ?", name, action,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query movie: %w", err)
	}
	return true, nil
}

// MarkMovie records a movie action as imported.
func (s *Store) MarkMovie(ctx context.Context, name, action string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO imported_movies (name, action) VALUES (?, ?)
		 ON CONFLICT(name, action) DO NOTHING`,
		name, action,
	)
	if err != nil {
		return fmt.Errorf("mark movie: %w", err)
	}
	return nil
}

// MovieCount returns the number of imported movie actions.
func (s *Store) MovieCount(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM imported_movies").Scan(&n); err != nil {
		return 0, fmt.Errorf("count movies: %w", err)
	}
	return n, nil
}
