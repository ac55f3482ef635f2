// Package resolve maps free-text export titles to Trakt catalog
// identifiers, falling back to the operator when the catalog search is
// ambiguous.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lukearran/tvtime2trakt/internal/progress"
	"github.com/lukearran/tvtime2trakt/pkg/title"
	"github.com/lukearran/tvtime2trakt/pkg/trakt"
)

// ErrSkipped means the operator chose to leave this title out of the
// import, either just now or in a previous run.
var ErrSkipped = errors.New("title skipped by operator")

// ErrNoMatch means the catalog search returned nothing usable.
var ErrNoMatch = errors.New("no catalog match")

// Catalog is the part of the Trakt client the resolver uses.
type Catalog interface {
	SearchShows(ctx context.Context, query string) ([]trakt.Show, error)
	SearchMovies(ctx context.Context, query string) ([]trakt.Movie, error)
}

// SelectionStore persists operator disambiguation choices across runs.
type SelectionStore interface {
	ShowSelection(ctx context.Context, title string) (*progress.Selection, error)
	SaveShowSelection(ctx context.Context, sel progress.Selection) error
	MovieSelection(ctx context.Context, title string) (*progress.Selection, error)
	SaveMovieSelection(ctx context.Context, sel progress.Selection) error
}

// Candidate is one catalog result offered to the operator.
type Candidate struct {
	TraktID  int
	Title    string
	Year     int
	Slug     string
	Overview string
}

// Prompter blocks on a manual selection from the operator.
// Choose returns the index of the picked candidate, or skip=true.
type Prompter interface {
	Choose(kind, exportTitle string, candidates []Candidate) (index int, skip bool, err error)
}

// Resolver maps export titles to Trakt IDs. A title resolved once in a
// run, by whatever path, is cached for the rest of the run.
type Resolver struct {
	catalog Catalog
	store   SelectionStore
	prompt  Prompter
	log     *slog.Logger

	shows  map[string]resolution
	movies map[string]resolution
}

type resolution struct {
	traktID int
	skipped bool
}

// New creates a Resolver.
func New(catalog Catalog, store SelectionStore, prompt Prompter, log *slog.Logger) *Resolver {
	return &Resolver{
		catalog: catalog,
		store:   store,
		prompt:  prompt,
		log:     log.With("component", "resolve"),
		shows:   make(map[string]resolution),
		movies:  make(map[string]resolution),
	}
}

// ResolveShow returns the Trakt show ID for an export title.
// Returns ErrSkipped for titles the operator declined.
func (r *Resolver) ResolveShow(ctx context.Context, exportTitle string) (int, error) {
	return r.resolve(ctx, "show", exportTitle, r.shows,
		r.store.ShowSelection, r.store.SaveShowSelection,
		func(ctx context.Context, query string) ([]Candidate, error) {
			shows, err := r.catalog.SearchShows(ctx, query)
			if err != nil {
				return nil, err
			}
			candidates := make([]Candidate, len(shows))
			for i, s := range shows {
				candidates[i] = Candidate{
					TraktID:  s.IDs.Trakt,
					Title:    s.Title,
					Year:     s.Year,
					Slug:     s.IDs.Slug,
					Overview: s.Overview,
				}
			}
			return candidates, nil
		})
}

// ResolveMovie returns the Trakt movie ID for an export title. The
// release year, when the export knows it, sharpens the match.
func (r *Resolver) ResolveMovie(ctx context.Context, exportTitle string, releaseYear int) (int, error) {
	key := exportTitle
	return r.resolveTitle(ctx, "movie", key, title.WithYear(exportTitle, releaseYear), r.movies,
		r.store.MovieSelection, r.store.SaveMovieSelection,
		func(ctx context.Context, query string) ([]Candidate, error) {
			movies, err := r.catalog.SearchMovies(ctx, query)
			if err != nil {
				return nil, err
			}
			candidates := make([]Candidate, len(movies))
			for i, m := range movies {
				candidates[i] = Candidate{
					TraktID:  m.IDs.Trakt,
					Title:    m.Title,
					Year:     m.Year,
					Slug:     m.IDs.Slug,
					Overview: m.Overview,
				}
			}
			return candidates, nil
		})
}

type searchFunc func(ctx context.Context, query string) ([]Candidate, error)
type loadFunc func(ctx context.Context, title string) (*progress.Selection, error)
type saveFunc func(ctx context.Context, sel progress.Selection) error

func (r *Resolver) resolve(ctx context.Context, kind, exportTitle string, cache map[string]resolution, load loadFunc, save saveFunc, search searchFunc) (int, error) {
	return r.resolveTitle(ctx, kind, exportTitle, title.Parse(exportTitle), cache, load, save, search)
}

func (r *Resolver) resolveTitle(ctx context.Context, kind, key string, t title.Title, cache map[string]resolution, load loadFunc, save saveFunc, search searchFunc) (int, error) {
	// In-run cache: repeated records of the same title never re-search
	// or re-prompt.
	if res, ok := cache[key]; ok {
		if res.skipped {
			return 0, ErrSkipped
		}
		return res.traktID, nil
	}

	// Persisted selections from earlier runs.
	sel, err := load(ctx, key)
	if err != nil {
		return 0, err
	}
	if sel != nil {
		cache[key] = resolution{traktID: sel.TraktID, skipped: sel.Skip}
		if sel.Skip {
			return 0, ErrSkipped
		}
		r.log.Debug("using stored selection", "kind", kind, "title", key, "trakt_id", sel.TraktID)
		return sel.TraktID, nil
	}

	candidates, err := search(ctx, t.SearchQuery())
	if err != nil {
		return 0, err
	}

	if len(candidates) == 0 {
		// Nothing to choose from: tell the operator, then skip for the
		// rest of the run. Not persisted, so a rerun searches again
		// (the catalog may have gained the title by then).
		r.log.Warn("no catalog results", "kind", kind, "title", key)
		if _, _, err := r.prompt.Choose(kind, key, nil); err != nil {
			return 0, err
		}
		cache[key] = resolution{skipped: true}
		return 0, fmt.Errorf("%q: %w", key, ErrNoMatch)
	}

	if id, ok := autoMatch(t, candidates); ok {
		r.log.Debug("high-confidence match", "kind", kind, "title", key, "trakt_id", id)
		cache[key] = resolution{traktID: id}
		return id, nil
	}

	// Ambiguous: block on the operator.
	index, skip, err := r.prompt.Choose(kind, key, candidates)
	if err != nil {
		return 0, err
	}

	chosen := progress.Selection{Title: key, Skip: skip}
	if !skip {
		if index < 0 || index >= len(candidates) {
			return 0, fmt.Errorf("selection index %d out of range", index)
		}
		chosen.TraktID = candidates[index].TraktID
	}
	if err := save(ctx, chosen); err != nil {
		return 0, err
	}

	cache[key] = resolution{traktID: chosen.TraktID, skipped: skip}
	if skip {
		r.log.Info("operator skipped title", "kind", kind, "title", key)
		return 0, ErrSkipped
	}
	r.log.Info("operator selected match", "kind", kind, "title", key, "trakt_id", chosen.TraktID)
	return chosen.TraktID, nil
}

// autoMatch accepts a candidate without prompting only when it is the
// single high-confidence match for the export title.
func autoMatch(t title.Title, candidates []Candidate) (int, bool) {
	scored := title.Score(t, toTitleCandidates(candidates))

	bestIndex := -1
	highs := 0
	for _, m := range scored {
		if m.Confidence == title.ConfidenceHigh {
			highs++
			bestIndex = m.Index
		}
	}
	if highs != 1 {
		return 0, false
	}
	return candidates[bestIndex].TraktID, true
}

func toTitleCandidates(candidates []Candidate) []title.Candidate {
	out := make([]title.Candidate, len(candidates))
	for i, c := range candidates {
		out[i] = title.Candidate{Name: c.Title, Year: c.Year}
	}
	return out
}
