// Package title provides parsing, normalization, and fuzzy matching of
// show and movie titles.
package title

import (
	"regexp"
	"strconv"
	"strings"
)

// yearSuffixRegex matches a trailing "(YYYY)" year marker, e.g. "The Americans (2013)".
var yearSuffixRegex = regexp.MustCompile(`\((\d{4})\)\s*$`)

// Title is a display title with an optional release year.
type Title struct {
	Name        string // Original title as it appears in the export
	WithoutYear string // Title with any "(YYYY)" suffix removed
	Year        int    // 0 when unknown
}

// Parse splits a title of the form "Name (YYYY)" into name and year.
// Titles without a year marker come back with Year 0 and
// WithoutYear equal to Name.
func Parse(s string) Title {
	t := Title{Name: s, WithoutYear: s}

	m := yearSuffixRegex.FindStringSubmatch(s)
	if m == nil {
		return t
	}

	year, err := strconv.Atoi(m[1])
	if err != nil || year < 1800 {
		return t
	}

	t.Year = year
	t.WithoutYear = strings.TrimSpace(yearSuffixRegex.ReplaceAllString(s, ""))
	return t
}

// WithYear builds a Title from a name and a known release year,
// bypassing year parsing. Years before 1800 are treated as absent;
// some exports carry placeholder dates like 0000-01-01.
func WithYear(name string, year int) Title {
	if year < 1800 {
		return Parse(name)
	}
	return Title{Name: name, WithoutYear: name, Year: year}
}

// SearchQuery returns the string to send to a catalog search endpoint:
// the title without its year marker, with whitespace collapsed.
func (t Title) SearchQuery() string {
	return strings.Join(strings.Fields(t.WithoutYear), " ")
}
