package trakt

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// MarkEpisodeWatched records a single episode of a show as watched.
// Trakt reports an episode it doesn't know about inside the response
// body rather than with a status code, so a submission for a season or
// episode that doesn't exist surfaces as ErrNotFound here.
func (c *Client) MarkEpisodeWatched(ctx context.Context, showID, season, episode int, watchedAt time.Time) error {
	req := historyRequest{
		Shows: []HistoryShow{{
			IDs: IDs{Trakt: showID},
			Seasons: []HistorySeason{{
				Number: season,
				Episodes: []HistoryEpisode{{
					Number:    episode,
					WatchedAt: formatWatchedAt(watchedAt),
				}},
			}},
		}},
	}

	result, err := c.addToHistory(ctx, req)
	if err != nil {
		return err
	}
	if result.Added.Episodes == 0 {
		return fmt.Errorf("show %d S%02dE%02d: %w", showID, season, episode, ErrNotFound)
	}

	if c.log != nil {
		c.log.Debug("episode marked watched", "show", showID, "season", season, "episode", episode)
	}
	return nil
}

// MarkMovieWatched records a movie as watched.
func (c *Client) MarkMovieWatched(ctx context.Context, movieID int, watchedAt time.Time) error {
	req := historyRequest{
		Movies: []HistoryMovie{{
			IDs:       IDs{Trakt: movieID},
			WatchedAt: formatWatchedAt(watchedAt),
		}},
	}

	result, err := c.addToHistory(ctx, req)
	if err != nil {
		return err
	}
	if result.Added.Movies == 0 {
		return fmt.Errorf("movie %d: %w", movieID, ErrNotFound)
	}

	if c.log != nil {
		c.log.Debug("movie marked watched", "movie", movieID)
	}
	return nil
}

// AddMovieToWatchlist puts a movie on the user's watchlist.
func (c *Client) AddMovieToWatchlist(ctx context.Context, movieID int) error {
	req := watchlistRequest{
		Movies: []HistoryMovie{{IDs: IDs{Trakt: movieID}}},
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/sync/watchlist", req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkResponse(resp); err != nil {
		return err
	}

	var result SyncResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode watchlist response: %w", err)
	}
	if len(result.NotFound.Movies) > 0 {
		return fmt.Errorf("movie %d: %w", movieID, ErrNotFound)
	}

	if c.log != nil {
		c.log.Debug("movie added to watchlist", "movie", movieID)
	}
	return nil
}

func (c *Client) addToHistory(ctx context.Context, req historyRequest) (*SyncResult, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/sync/history", req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkResponse(resp); err != nil {
		return nil, err
	}

	var result SyncResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode sync response: %w", err)
	}
	return &result, nil
}

// formatWatchedAt renders a watch timestamp the way the history endpoint
// expects. The zero time means "unknown" and is left out so Trakt fills
// in the submission time.
func formatWatchedAt(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
