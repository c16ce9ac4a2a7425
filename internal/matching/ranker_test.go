// internal/matching/ranker_test.go
package matching

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"matching-engine/internal/models"
)

func scored(id string, score float64) models.ScoreResult {
	return models.ScoreResult{CandidateID: id, Score: score}
}

func TestRank_FiltersSortsAndCaps(t *testing.T) {
	results := []models.ScoreResult{
		scored("low", 12),
		scored("top", 95),
		scored("mid", 55),
		scored("floor", 30), // exactly at threshold: not viable
		scored("high", 80),
	}

	ranked := Rank(results, MinViableScore, MaxMatches)

	assert.Equal(t, []string{"top", "high", "mid"}, ids(ranked))
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Score, ranked[i].Score)
	}
}

func TestRank_ThresholdIsStrict(t *testing.T) {
	results := []models.ScoreResult{
		scored("at", 30),
		scored("just-above", 30.01),
	}

	ranked := Rank(results, MinViableScore, MaxMatches)
	assert.Equal(t, []string{"just-above"}, ids(ranked))
}

func TestRank_CapsAtMaxMatches(t *testing.T) {
	var results []models.ScoreResult
	for i := 0; i < 25; i++ {
		results = append(results, scored(fmt.Sprintf("v%02d", i), 40+float64(i)))
	}

	ranked := Rank(results, MinViableScore, MaxMatches)

	assert.Len(t, ranked, MaxMatches)
	assert.Equal(t, "v24", ranked[0].CandidateID)
	assert.Equal(t, "v15", ranked[MaxMatches-1].CandidateID)
}

func TestRank_TiesKeepInputOrder(t *testing.T) {
	results := []models.ScoreResult{
		scored("first", 60),
		scored("second", 60),
		scored("third", 60),
		scored("winner", 70),
	}

	ranked := Rank(results, MinViableScore, MaxMatches)
	assert.Equal(t, []string{"winner", "first", "second", "third"}, ids(ranked))
}

func TestRank_EmptyAndAllBelowThreshold(t *testing.T) {
	assert.Empty(t, Rank(nil, MinViableScore, MaxMatches))
	assert.Empty(t, Rank([]models.ScoreResult{scored("a", 5), scored("b", 29)}, MinViableScore, MaxMatches))
}

func ids(results []models.ScoreResult) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.CandidateID)
	}
	return out
}
