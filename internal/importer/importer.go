// Package importer drives the import pipeline: iterate export records
// in order, skip what the progress store already has, resolve the show
// or movie, submit it to Trakt, and record completion.
//
// Processing is strictly sequential with a fixed delay between remote
// submissions; Trakt's API is shared and rate limited, so the pipeline
// never issues concurrent requests.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lukearran/tvtime2trakt/internal/export"
	"github.com/lukearran/tvtime2trakt/internal/progress"
	"github.com/lukearran/tvtime2trakt/internal/resolve"
	"github.com/lukearran/tvtime2trakt/pkg/trakt"
)

// Submitter is the part of the Trakt client the pipeline submits through.
type Submitter interface {
	MarkEpisodeWatched(ctx context.Context, showID, season, episode int, watchedAt time.Time) error
	MarkMovieWatched(ctx context.Context, movieID int, watchedAt time.Time) error
	AddMovieToWatchlist(ctx context.Context, movieID int) error
}

// Resolver maps export titles to Trakt IDs.
type Resolver interface {
	ResolveShow(ctx context.Context, title string) (int, error)
	ResolveMovie(ctx context.Context, title string, releaseYear int) (int, error)
}

// Options tunes pacing and failure handling.
type Options struct {
	Delay          time.Duration // Wait before each remote submission
	RateLimitWait  time.Duration // Fallback wait when a 429 has no Retry-After
	MaxErrorStreak int           // Consecutive failures before a record is given up on
}

// Summary counts what one pipeline pass did.
type Summary struct {
	Submitted       int // Successfully sent and marked imported
	AlreadyImported int // Present in the progress store before the run
	Skipped         int // Operator skips and unmatched titles
	Failed          int // Rejected by the API; retried on the next run
}

// Pipeline is the import driver.
type Pipeline struct {
	store    *progress.Store
	resolver Resolver
	client   Submitter
	opts     Options
	log      *slog.Logger
}

// New creates a Pipeline.
func New(store *progress.Store, resolver Resolver, client Submitter, opts Options, log *slog.Logger) *Pipeline {
	if opts.RateLimitWait <= 0 {
		opts.RateLimitWait = 60 * time.Second
	}
	if opts.MaxErrorStreak <= 0 {
		opts.MaxErrorStreak = 10
	}
	return &Pipeline{
		store:    store,
		resolver: resolver,
		client:   client,
		opts:     opts,
		log:      log.With("component", "importer"),
	}
}

// ImportEpisodes runs the episode pipeline over records in file order.
// It stops early only on context cancellation or an authentication
// failure; everything else is logged and the run continues.
func (p *Pipeline) ImportEpisodes(ctx context.Context, records []export.EpisodeRecord) (Summary, error) {
	var sum Summary

	for i, rec := range records {
		pct := progressPercent(i, len(records))

		imported, err := p.store.HasEpisode(ctx, rec.SeriesName, rec.Season, rec.Episode)
		if err != nil {
			return sum, err
		}
		if imported {
			p.log.Debug("already imported, skipping", "progress", pct, "record", rec.Key())
			sum.AlreadyImported++
			continue
		}

		showID, err := p.resolver.ResolveShow(ctx, rec.SeriesName)
		if err != nil {
			if errors.Is(err, resolve.ErrSkipped) || errors.Is(err, resolve.ErrNoMatch) {
				sum.Skipped++
				continue
			}
			return sum, err
		}

		p.log.Info("processing", "progress", pct, "record", rec.Key())

		submitted, err := p.submit(ctx, rec.Key(), func(ctx context.Context) error {
			return p.client.MarkEpisodeWatched(ctx, showID, rec.Season, rec.Episode, rec.WatchedAt)
		})
		if err != nil {
			return sum, err
		}
		if !submitted {
			sum.Failed++
			continue
		}

		if err := p.store.MarkEpisode(ctx, rec.SeriesName, rec.Season, rec.Episode, rec.EpisodeID); err != nil {
			return sum, err
		}
		p.log.Info("marked as watched", "record", rec.Key())
		sum.Submitted++
	}

	return sum, nil
}

// ImportMovies runs the movie pipeline. Watch activity becomes watch
// history; follow activity becomes a watchlist entry, unless the same
// movie was also watched (a watchlist entry for a seen movie is noise).
func (p *Pipeline) ImportMovies(ctx context.Context, records []export.MovieRecord) (Summary, error) {
	var sum Summary

	watched := make(map[string]bool)
	for _, rec := range records {
		if rec.Activity == export.ActivityWatch {
			watched[rec.Name] = true
		}
	}

	for i, rec := range records {
		pct := progressPercent(i, len(records))

		action := progress.ActionWatched
		if rec.Activity != export.ActivityWatch {
			action = progress.ActionWatchlist
		}

		if action == progress.ActionWatchlist && watched[rec.Name] {
			p.log.Debug("skipping watchlist entry for watched movie", "progress", pct, "movie", rec.Name)
			sum.Skipped++
			continue
		}

		imported, err := p.store.HasMovie(ctx, rec.Name, action)
		if err != nil {
			return sum, err
		}
		if imported {
			p.log.Debug("already imported, skipping", "progress", pct, "movie", rec.Name)
			sum.AlreadyImported++
			continue
		}

		movieID, err := p.resolver.ResolveMovie(ctx, rec.Name, rec.ReleaseYear)
		if err != nil {
			if errors.Is(err, resolve.ErrSkipped) || errors.Is(err, resolve.ErrNoMatch) {
				sum.Skipped++
				continue
			}
			return sum, err
		}

		p.log.Info("processing", "progress", pct, "movie", rec.Name, "action", action)

		submitted, err := p.submit(ctx, rec.Name, func(ctx context.Context) error {
			if action == progress.ActionWatched {
				return p.client.MarkMovieWatched(ctx, movieID, rec.WatchedAt)
			}
			return p.client.AddMovieToWatchlist(ctx, movieID)
		})
		if err != nil {
			return sum, err
		}
		if !submitted {
			sum.Failed++
			continue
		}

		if err := p.store.MarkMovie(ctx, rec.Name, action); err != nil {
			return sum, err
		}
		p.log.Info("imported movie", "movie", rec.Name, "action", action)
		sum.Submitted++
	}

	return sum, nil
}

// submit sends one record, honoring the inter-call delay and retrying
// through rate limits and transient failures. Returns false when the
// record was given up on; it stays out of the progress store so the
// next run retries it. Authentication failures and cancellation abort
// the run.
func (p *Pipeline) submit(ctx context.Context, key string, send func(context.Context) error) (bool, error) {
	streak := 0
	for {
		if streak > p.opts.MaxErrorStreak {
			p.log.Warn("giving up on record after repeated errors", "record", key, "attempts", streak)
			return false, nil
		}

		if err := sleepCtx(ctx, p.opts.Delay); err != nil {
			return false, err
		}

		err := send(ctx)
		switch {
		case err == nil:
			return true, nil

		case errors.Is(err, trakt.ErrUnauthorized):
			return false, fmt.Errorf("submit %s: %w", key, err)

		case errors.Is(err, trakt.ErrNotFound):
			// The chosen Trakt entry doesn't have this season/episode.
			// Not retryable within this run.
			p.log.Warn("not found on trakt, leaving for a rerun", "record", key, "error", err)
			return false, nil

		case errors.Is(err, trakt.ErrRateLimited):
			wait := p.opts.RateLimitWait
			var rle *trakt.RateLimitError
			if errors.As(err, &rle) && rle.RetryAfter > 0 {
				wait = rle.RetryAfter
			}
			p.log.Warn("rate limited, waiting", "record", key, "wait", wait)
			if err := sleepCtx(ctx, wait); err != nil {
				return false, err
			}
			streak++

		default:
			p.log.Error("submission failed", "record", key, "error", err)
			streak++
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		// Still honor cancellation between records
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

func progressPercent(i, total int) string {
	if total == 0 {
		return "0.00%"
	}
	return fmt.Sprintf("%.2f%%", float64(i)/float64(total)*100)
}
