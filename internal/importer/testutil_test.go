package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lukearran/tvtime2trakt/internal/progress"
	"github.com/lukearran/tvtime2trakt/internal/resolve"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testStore(t *testing.T) *progress.Store {
	t.Helper()
	store, err := progress.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// fakeResolver resolves every title to a fixed ID, or skips titles in
// the skip set.
type fakeResolver struct {
	ids   map[string]int
	skips map[string]bool
	calls int
}

func (r *fakeResolver) ResolveShow(ctx context.Context, title string) (int, error) {
	return r.resolve(title)
}

func (r *fakeResolver) ResolveMovie(ctx context.Context, title string, releaseYear int) (int, error) {
	return r.resolve(title)
}

func (r *fakeResolver) resolve(title string) (int, error) {
	r.calls++
	if r.skips[title] {
		return 0, resolve.ErrSkipped
	}
	if id, ok := r.ids[title]; ok {
		return id, nil
	}
	return 0, fmt.Errorf("%q: %w", title, resolve.ErrNoMatch)
}

// fakeSubmitter records submissions and fails them according to errs,
// consuming one queued error per call to a key.
type fakeSubmitter struct {
	episodes  []string // "showID/season/episode"
	movies    []string // "movieID/watched" or "movieID/watchlist"
	errs      map[string][]error
	callCount int
}

func (s *fakeSubmitter) nextErr(key string) error {
	s.callCount++
	queue := s.errs[key]
	if len(queue) == 0 {
		return nil
	}
	err := queue[0]
	s.errs[key] = queue[1:]
	return err
}

func (s *fakeSubmitter) MarkEpisodeWatched(ctx context.Context, showID, season, episode int, watchedAt time.Time) error {
	key := fmt.Sprintf("%d/%d/%d", showID, season, episode)
	if err := s.nextErr(key); err != nil {
		return err
	}
	s.episodes = append(s.episodes, key)
	return nil
}

func (s *fakeSubmitter) MarkMovieWatched(ctx context.Context, movieID int, watchedAt time.Time) error {
	key := fmt.Sprintf("%d/watched", movieID)
	if err := s.nextErr(key); err != nil {
		return err
	}
	s.movies = append(s.movies, key)
	return nil
}

func (s *fakeSubmitter) AddMovieToWatchlist(ctx context.Context, movieID int) error {
	key := fmt.Sprintf("%d/watchlist", movieID)
	if err := s.nextErr(key); err != nil {
		return err
	}
	s.movies = append(s.movies, key)
	return nil
}
