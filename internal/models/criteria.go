// internal/models/criteria.go
package models

// Request priority levels.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// MatchingCriteria is the structured matching input extracted from a single
// procurement request. It is immutable for the duration of one run; missing
// optional fields fall back to scorer defaults rather than being rejected.
type MatchingCriteria struct {
	RequestID    string                 `json:"requestId"`
	CategoryID   string                 `json:"categoryId"`
	BudgetMin    *float64               `json:"budgetMin,omitempty"`
	BudgetMax    *float64               `json:"budgetMax,omitempty"`
	Location     string                 `json:"location,omitempty"`
	Requirements map[string]interface{} `json:"requirements,omitempty"`
	Priority     string                 `json:"priority,omitempty"`
}
