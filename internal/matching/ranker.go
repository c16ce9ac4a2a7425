// internal/matching/ranker.go
package matching

import (
	"sort"

	"matching-engine/internal/models"
)

const (
	// MinViableScore is the minimum-viability threshold; results at or below
	// it are not worth surfacing as matches.
	MinViableScore = 30.0

	// MaxMatches caps the ranked list returned to the caller.
	MaxMatches = 10
)

// Rank filters out non-viable results, orders the rest descending by score
// and truncates to maxMatches. Ties keep their input order: candidate-load
// order is the documented tie-break contract, enforced by the stable sort.
func Rank(results []models.ScoreResult, minScore float64, maxMatches int) []models.ScoreResult {
	matches := make([]models.ScoreResult, 0, len(results))
	for _, r := range results {
		if r.Score > minScore {
			matches = append(matches, r)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > maxMatches {
		matches = matches[:maxMatches]
	}
	return matches
}
