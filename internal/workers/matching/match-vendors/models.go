// internal/workers/matching/match-vendors/models.go
package matchvendors

import "matching-engine/internal/models"

// Input is the job variable shape raised by the request-published workflow.
type Input struct {
	Criteria models.MatchingCriteria `json:"criteria"`
}
