// internal/matching/eligibility.go
package matching

import "matching-engine/internal/models"

// IsEligible reports whether a candidate may be scored at all. The vendor
// store applies the same rules in its query; this predicate keeps the
// eligibility contract testable independent of the data source.
func IsEligible(candidate models.Candidate) bool {
	return candidate.Role == models.RoleVendor &&
		candidate.AccountStatus == models.StatusApproved &&
		candidate.VerificationStatus == models.StatusApproved
}
