package title

import (
	"github.com/hbollon/go-edlib"
)

// MatchConfidence represents the confidence level of a title match.
type MatchConfidence int

const (
	ConfidenceNone   MatchConfidence = iota // Score < 0.70
	ConfidenceLow                           // Score >= 0.70
	ConfidenceMedium                        // Score >= 0.85
	ConfidenceHigh                          // Score >= 0.95
)

func (c MatchConfidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "high"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceLow:
		return "low"
	default:
		return "none"
	}
}

// Candidate is one catalog search result offered for matching.
type Candidate struct {
	Name string
	Year int // 0 when the catalog doesn't report one
}

// Match is a scored candidate.
type Match struct {
	Index      int     // Position in the candidates slice
	Score      float64 // Jaro-Winkler similarity, year-adjusted (0.0-1.0)
	Confidence MatchConfidence
}

// Score ranks candidates against an export title.
// Uses Jaro-Winkler similarity which favors prefix matches (good for
// media titles), then adjusts for year agreement when the export title
// carries a year. Results come back in candidate order.
func Score(t Title, candidates []Candidate) []Match {
	cleaned := Clean(t.WithoutYear)

	matches := make([]Match, len(candidates))
	for i, c := range candidates {
		score := float64(edlib.JaroWinklerSimilarity(cleaned, Clean(c.Name)))
		score = adjustScoreForYear(score, t.Year, c.Year)
		matches[i] = Match{Index: i, Score: score, Confidence: confidenceFor(score)}
	}
	return matches
}

// Best returns the highest-scoring match, or a zero Match with
// ConfidenceNone when there are no candidates.
func Best(t Title, candidates []Candidate) Match {
	best := Match{Index: -1, Confidence: ConfidenceNone}
	for _, m := range Score(t, candidates) {
		if m.Score > best.Score {
			best = m
		}
	}
	return best
}

func confidenceFor(score float64) MatchConfidence {
	switch {
	case score >= 0.95:
		return ConfidenceHigh
	case score >= 0.85:
		return ConfidenceMedium
	case score >= 0.70:
		return ConfidenceLow
	default:
		return ConfidenceNone
	}
}

// adjustScoreForYear modifies the similarity score based on year agreement.
// When the export title has no year the score passes through unchanged.
// A matching year gets a bonus, a mismatched year a penalty, and a
// candidate with no year at all a smaller penalty.
func adjustScoreForYear(score float64, wantYear, candidateYear int) float64 {
	if wantYear == 0 {
		return score
	}
	switch {
	case candidateYear == wantYear:
		return min(score*1.05, 1.0)
	case candidateYear == 0:
		return score * 0.95
	default:
		return score * 0.85
	}
}
