package trakt

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockTrakt creates a test server that simulates the Trakt API.
func mockTrakt(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handler, ok := handlers[r.URL.Path]; ok {
			handler(w, r)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
}

// writeJSON is a test helper that writes a JSON response and panics on error.
func writeJSON(w http.ResponseWriter, v any) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		panic("test: failed to encode JSON: " + err.Error())
	}
}

// decodeBody decodes a request body into v, failing the test on error.
func decodeBody(t *testing.T, r *http.Request, v any) {
	t.Helper()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		t.Fatalf("decode request body: %v", err)
	}
}

func TestSearchShows(t *testing.T) {
	server := mockTrakt(t, map[string]http.HandlerFunc{
		"/search/show": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "2", r.Header.Get("trakt-api-version"))
			assert.Equal(t, "client-id", r.Header.Get("trakt-api-key"))
			assert.Equal(t, "Breaking Bad", r.URL.Query().Get("query"))

			writeJSON(w, []showSearchResult{
				{Type: "show", Score: 1200, Show: Show{
					Title: "Breaking Bad",
					Year:  2008,
					IDs:   IDs{Trakt: 1388, Slug: "breaking-bad"},
				}},
				{Type: "show", Score: 900, Show: Show{
					Title: "Breaking In",
					Year:  2011,
					IDs:   IDs{Trakt: 2300},
				}},
			})
		},
	})
	defer server.Close()

	client := New("client-id", "client-secret", WithBaseURL(server.URL))
	shows, err := client.SearchShows(context.Background(), "Breaking Bad")
	require.NoError(t, err)
	require.Len(t, shows, 2)
	assert.Equal(t, "Breaking Bad", shows[0].Title)
	assert.Equal(t, 1388, shows[0].IDs.Trakt)
}

func TestSearchShowsFiltersNonShowResults(t *testing.T) {
	server := mockTrakt(t, map[string]http.HandlerFunc{
		"/search/show": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, []showSearchResult{
				{Type: "show", Show: Show{Title: "Fargo", IDs: IDs{Trakt: 7}}},
				{Type: "movie", Show: Show{Title: "Fargo"}},
			})
		},
	})
	defer server.Close()

	client := New("client-id", "client-secret", WithBaseURL(server.URL))
	shows, err := client.SearchShows(context.Background(), "Fargo")
	require.NoError(t, err)
	require.Len(t, shows, 1)
	assert.Equal(t, 7, shows[0].IDs.Trakt)
}

func TestSearchMovies(t *testing.T) {
	server := mockTrakt(t, map[string]http.HandlerFunc{
		"/search/movie": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, []movieSearchResult{
				{Type: "movie", Movie: Movie{Title: "Alien", Year: 1979, IDs: IDs{Trakt: 12}}},
			})
		},
	})
	defer server.Close()

	client := New("client-id", "client-secret", WithBaseURL(server.URL))
	movies, err := client.SearchMovies(context.Background(), "Alien")
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, 1979, movies[0].Year)
}

func TestSearchUnauthorized(t *testing.T) {
	server := mockTrakt(t, map[string]http.HandlerFunc{
		"/search/show": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		},
	})
	defer server.Close()

	client := New("client-id", "client-secret", WithBaseURL(server.URL))
	_, err := client.SearchShows(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestSearchRateLimited(t *testing.T) {
	server := mockTrakt(t, map[string]http.HandlerFunc{
		"/search/show": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", "17")
			w.WriteHeader(http.StatusTooManyRequests)
		},
	})
	defer server.Close()

	client := New("client-id", "client-secret", WithBaseURL(server.URL))
	_, err := client.SearchShows(context.Background(), "anything")
	require.ErrorIs(t, err, ErrRateLimited)

	var rle *RateLimitError
	require.ErrorAs(t, err, &rle)
	assert.Equal(t, 17*time.Second, rle.RetryAfter)
}

func TestRateLimitDefaultWait(t *testing.T) {
	server := mockTrakt(t, map[string]http.HandlerFunc{
		"/search/show": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		},
	})
	defer server.Close()

	client := New("client-id", "client-secret", WithBaseURL(server.URL))
	_, err := client.SearchShows(context.Background(), "anything")

	var rle *RateLimitError
	require.ErrorAs(t, err, &rle)
	assert.Equal(t, defaultRetryAfter, rle.RetryAfter)
}

func TestMarkEpisodeWatched(t *testing.T) {
	var received historyRequest
	server := mockTrakt(t, map[string]http.HandlerFunc{
		"/sync/history": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

			var result SyncResult
			result.Added.Episodes = 1
			w.WriteHeader(http.StatusCreated)
			writeJSON(w, result)
		},
	})
	defer server.Close()

	client := New("client-id", "client-secret", WithBaseURL(server.URL))
	client.SetAccessToken("token-123")

	watched := time.Date(2021, 6, 1, 20, 0, 0, 0, time.UTC)
	err := client.MarkEpisodeWatched(context.Background(), 1388, 2, 5, watched)
	require.NoError(t, err)

	require.Len(t, received.Shows, 1)
	assert.Equal(t, 1388, received.Shows[0].IDs.Trakt)
	require.Len(t, received.Shows[0].Seasons, 1)
	assert.Equal(t, 2, received.Shows[0].Seasons[0].Number)
	require.Len(t, received.Shows[0].Seasons[0].Episodes, 1)
	assert.Equal(t, 5, received.Shows[0].Seasons[0].Episodes[0].Number)
	assert.Equal(t, "2021-06-01T20:00:00Z", received.Shows[0].Seasons[0].Episodes[0].WatchedAt)
}

func TestMarkEpisodeWatchedNotAdded(t *testing.T) {
	// Trakt reports unknown episodes in the body, not the status code
	server := mockTrakt(t, map[string]http.HandlerFunc{
		"/sync/history": func(w http.ResponseWriter, r *http.Request) {
			var result SyncResult
			result.NotFound.Shows = []HistoryShow{{IDs: IDs{Trakt: 1388}}}
			w.WriteHeader(http.StatusCreated)
			writeJSON(w, result)
		},
	})
	defer server.Close()

	client := New("client-id", "client-secret", WithBaseURL(server.URL))
	err := client.MarkEpisodeWatched(context.Background(), 1388, 99, 1, time.Time{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMarkMovieWatched(t *testing.T) {
	var received historyRequest
	server := mockTrakt(t, map[string]http.HandlerFunc{
		"/sync/history": func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			var result SyncResult
			result.Added.Movies = 1
			w.WriteHeader(http.StatusCreated)
			writeJSON(w, result)
		},
	})
	defer server.Close()

	client := New("client-id", "client-secret", WithBaseURL(server.URL))
	err := client.MarkMovieWatched(context.Background(), 12, time.Time{})
	require.NoError(t, err)

	require.Len(t, received.Movies, 1)
	assert.Equal(t, 12, received.Movies[0].IDs.Trakt)
	// Zero time omitted so the server fills in the submission time
	assert.Empty(t, received.Movies[0].WatchedAt)
}

func TestAddMovieToWatchlist(t *testing.T) {
	server := mockTrakt(t, map[string]http.HandlerFunc{
		"/sync/watchlist": func(w http.ResponseWriter, r *http.Request) {
			var result SyncResult
			result.Added.Movies = 1
			w.WriteHeader(http.StatusCreated)
			writeJSON(w, result)
		},
	})
	defer server.Close()

	client := New("client-id", "client-secret", WithBaseURL(server.URL))
	err := client.AddMovieToWatchlist(context.Background(), 12)
	assert.NoError(t, err)
}

func TestServerError(t *testing.T) {
	server := mockTrakt(t, map[string]http.HandlerFunc{
		"/sync/history": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		},
	})
	defer server.Close()

	client := New("client-id", "client-secret", WithBaseURL(server.URL))
	err := client.MarkMovieWatched(context.Background(), 12, time.Time{})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrRateLimited))
}
