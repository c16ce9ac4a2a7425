// internal/models/match.go
package models

// MatchDetails records which sub-criteria contributed to a score.
type MatchDetails struct {
	CategoryMatch   bool    `json:"categoryMatch"`
	BudgetMatch     bool    `json:"budgetMatch"`
	LocationMatch   bool    `json:"locationMatch"`
	ExperienceMatch bool    `json:"experienceMatch"`
	Rating          float64 `json:"rating"`
}

// ScoreResult is the scorer's verdict for one candidate. Score is unbounded
// above; the nominal weights sum past 100 and the headroom is intentional.
// Reasons are ordered by evaluation order and are stable for identical input.
type ScoreResult struct {
	CandidateID string       `json:"candidateId"`
	Score       float64      `json:"score"`
	Reasons     []string     `json:"reasons"`
	Details     MatchDetails `json:"details"`
}
