// internal/models/activity.go
package models

// Activity types written by the engine.
const (
	ActivityTypeVendorsMatched = "vendors_matched"
)

// ActivityRecord is the audit summary of one matching run. It is produced by
// the system, so it carries no actor.
type ActivityRecord struct {
	ID                  string           `json:"id"`
	Type                string           `json:"type"`
	Description         string           `json:"description"`
	RequestID           string           `json:"requestId"`
	CandidatesEvaluated int              `json:"candidatesEvaluated"`
	MatchesFound        int              `json:"matchesFound"`
	Criteria            MatchingCriteria `json:"criteria"`
	CreatedAt           string           `json:"createdAt"` // ISO 8601
}
