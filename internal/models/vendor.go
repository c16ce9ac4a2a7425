// internal/models/vendor.go
package models

// Vendor account / verification states.
const (
	RoleVendor     = "vendor"
	StatusApproved = "approved"
)

// DefaultRating is used when a vendor has no rating on record.
const DefaultRating = 3.5

// PerformanceMetrics holds a vendor's rolling delivery statistics. The record
// is optional; new vendors have none.
type PerformanceMetrics struct {
	TotalEarnings    float64 `json:"totalEarnings"`
	CompletedOrders  int     `json:"completedOrders"`
	CompletionRate   float64 `json:"completionRate"`   // percentage, 0-100
	AvgResponseHours float64 `json:"avgResponseHours"`
}

// Candidate is a read-only snapshot of a vendor profile from the vendor
// directory. The engine never mutates it.
type Candidate struct {
	ID                 string              `json:"id"`
	DisplayName        string              `json:"displayName"`
	Categories         []string            `json:"categories"`
	Location           string              `json:"location,omitempty"`
	Rating             float64             `json:"rating"`
	Role               string              `json:"role"`
	AccountStatus      string              `json:"accountStatus"`
	VerificationStatus string              `json:"verificationStatus"`
	CompletedProjects  int                 `json:"completedProjects"`
	Metrics            *PerformanceMetrics `json:"metrics,omitempty"`
}
