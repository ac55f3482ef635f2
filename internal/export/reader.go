package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// header maps CSV column names to their positions. The export carries
// many more columns than we use; lookup is by name so column order and
// additions don't break parsing.
type header map[string]int

func readHeader(r *csv.Reader) (header, error) {
	row, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	h := make(header, len(row))
	for i, name := range row {
		h[strings.TrimSpace(name)] = i
	}
	return h, nil
}

func (h header) get(row []string, name string) string {
	i, ok := h[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// ReadEpisodes parses the watched-episodes file into records, in file
// order. Rows that are not episode entries (no episode number) are
// skipped silently; rows that should be episodes but don't parse are
// skipped with a warning.
func ReadEpisodes(path string, log *slog.Logger) ([]EpisodeRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // TV Time rows are not always uniform

	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	var records []EpisodeRecord
	line := 1
	for {
		line++
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Warn("skipping unreadable export row", "file", path, "line", line, "error", err)
			continue
		}

		// Rows without an episode number are follow/other activity
		episodeStr := h.get(row, "episode_number")
		if episodeStr == "" {
			continue
		}

		name := h.get(row, "series_name")
		if name == "" {
			log.Warn("skipping episode row with empty series name", "line", line)
			continue
		}

		season, err := strconv.Atoi(h.get(row, "season_number"))
		if err != nil {
			log.Warn("skipping episode row with bad season number", "line", line, "series", name, "value", h.get(row, "season_number"))
			continue
		}
		episode, err := strconv.Atoi(episodeStr)
		if err != nil {
			log.Warn("skipping episode row with bad episode number", "line", line, "series", name, "value", episodeStr)
			continue
		}

		records = append(records, EpisodeRecord{
			SeriesName: name,
			Season:     season,
			Episode:    episode,
			EpisodeID:  h.get(row, "episode_id"),
			WatchedAt:  parseTime(h.get(row, "created_at")),
		})
	}

	return records, nil
}

// ReadMovies parses the movie-activity file into records, in file
// order. The file mixes show and movie activity; rows with no movie
// name are skipped silently.
func ReadMovies(path string, log *slog.Logger) ([]MovieRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	var records []MovieRecord
	line := 1
	for {
		line++
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Warn("skipping unreadable export row", "file", path, "line", line, "error", err)
			continue
		}

		name := h.get(row, "movie_name")
		if name == "" {
			continue
		}

		activity := h.get(row, "type")
		if activity == "" {
			log.Warn("skipping movie row with no activity type", "line", line, "movie", name)
			continue
		}

		records = append(records, MovieRecord{
			Name:        name,
			Activity:    activity,
			WatchedAt:   parseTime(h.get(row, "updated_at")),
			ReleaseYear: parseReleaseYear(h.get(row, "release_date")),
		})
	}

	return records, nil
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// parseReleaseYear extracts the year from a release date. Some export
// rows carry placeholder dates like "0000-01-01 00:00:00"; anything
// before 1800 is treated as unknown.
func parseReleaseYear(s string) int {
	t, err := time.Parse(timeLayout, s)
	if err != nil || t.Year() <= 1800 {
		return 0
	}
	return t.Year()
}
