// Package export reads the TV Time GDPR data dump into memory.
//
// The dump is a directory of CSV files. Watched episodes live in
// tracking-prod-records-v2.csv; movie activity (watches and follows)
// lives in tracking-prod-records.csv. The formats are fixed by TV Time
// and not under this program's control, so rows that don't parse are
// skipped with a warning rather than failing the run.
package export

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	watchedEpisodesFile = "tracking-prod-records-v2.csv"
	movieActivityFile   = "tracking-prod-records.csv"
)

// timeLayout is the timestamp format TV Time uses throughout the dump.
const timeLayout = "2006-01-02 15:04:05"

// Movie activity types as they appear in the export.
const (
	ActivityWatch  = "watch"
	ActivityFollow = "follow"
)

// EpisodeRecord is one watched episode from the export.
type EpisodeRecord struct {
	SeriesName string
	Season     int
	Episode    int
	EpisodeID  string    // TV Time's own episode identifier
	WatchedAt  time.Time // Zero when the export row had no usable timestamp
}

// Key renders the record's progress-store key for logging.
func (r EpisodeRecord) Key() string {
	return fmt.Sprintf("%s S%02dE%02d", r.SeriesName, r.Season, r.Episode)
}

// MovieRecord is one movie activity entry from the export.
type MovieRecord struct {
	Name        string
	Activity    string // ActivityWatch or ActivityFollow
	WatchedAt   time.Time
	ReleaseYear int // 0 when absent or a placeholder like 0000
}

// Export is the parsed contents of a GDPR dump directory.
type Export struct {
	Episodes []EpisodeRecord
	Movies   []MovieRecord
}

// Load reads both export files from dir. The files are independent and
// local, so they are parsed concurrently; remote traffic stays strictly
// sequential in the pipeline itself.
func Load(dir string, log *slog.Logger) (*Export, error) {
	var ex Export

	var g errgroup.Group
	g.Go(func() error {
		episodes, err := ReadEpisodes(filepath.Join(dir, watchedEpisodesFile), log)
		if err != nil {
			return err
		}
		ex.Episodes = episodes
		return nil
	})
	g.Go(func() error {
		movies, err := ReadMovies(filepath.Join(dir, movieActivityFile), log)
		if err != nil {
			return err
		}
		ex.Movies = movies
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &ex, nil
}
