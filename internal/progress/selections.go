package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Selection is a persisted operator disambiguation choice for one
// export title. Skip means the operator told the importer to leave
// every record of that title alone.
type Selection struct {
	Title   string
	TraktID int
	Skip    bool
}

// ShowSelection returns the stored choice for a show title, or nil
// when the operator hasn't been asked yet.
func (s *Store) ShowSelection(ctx context.Context, title string) (*Selection, error) {
	return s.selection(ctx, "show_selections", title)
}

// SaveShowSelection stores the operator's choice for a show title,
// replacing any earlier choice.
func (s *Store) SaveShowSelection(ctx context.Context, sel Selection) error {
	return s.saveSelection(ctx, "show_selections", sel)
}

// MovieSelection returns the stored choice for a movie title, or nil
// when the operator hasn't been asked yet.
func (s *Store) MovieSelection(ctx context.Context, title string) (*Selection, error) {
	return s.selection(ctx, "movie_selections", title)
}

// SaveMovieSelection stores the operator's choice for a movie title.
func (s *Store) SaveMovieSelection(ctx context.Context, sel Selection) error {
	return s.saveSelection(ctx, "movie_selections", sel)
}

func (s *Store) selection(ctx context.Context, table, title string) (*Selection, error) {
	sel := Selection{Title: title}
	var traktID sql.NullInt64
	var skip int

	err := s.db.QueryRowContext(ctx,
		"SELECT trakt_id, skip FROM "+table+" WHERE title = ?", title,
	).Scan(&traktID, &skip)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query selection: %w", err)
	}

	sel.TraktID = int(traktID.Int64)
	sel.Skip = skip != 0
	return &sel, nil
}

func (s *Store) saveSelection(ctx context.Context, table string, sel Selection) error {
	var traktID sql.NullInt64
	if sel.TraktID != 0 {
		traktID = sql.NullInt64{Int64: int64(sel.TraktID), Valid: true}
	}
	skip := 0
	if sel.Skip {
		skip = 1
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO `+table+` (title, trakt_id, skip) VALUES (?, ?, ?)
		 ON CONFLICT(title) DO UPDATE SET trakt_id = excluded.trakt_id, skip = excluded.skip`,
		sel.Title, traktID, skip,
	)
	if err != nil {
		return fmt.Errorf("save selection: %w", err)
	}
	return nil
}
