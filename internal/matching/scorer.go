// internal/matching/scorer.go
package matching

import (
	"fmt"
	"math"
	"strings"

	"matching-engine/internal/models"
)

// Scoring weights. They deliberately sum past 100 (40+20+15+10+5+10+5); a
// maximally qualified candidate exceeds 100 and the headroom is part of the
// scoring contract. Do not renormalize.
const (
	weightCategory       = 40.0
	weightBudget         = 20.0
	weightBudgetNew      = 10.0
	weightLocation       = 15.0
	weightLocationOpen   = 5.0
	weightExperienceCap  = 10.0
	weightRatingCap      = 5.0
	bonusCompletionRate  = 5.0
	bonusResponseTime    = 5.0
	bonusVerified        = 5.0

	// DefaultTargetBudget is used when the criteria carry no budget bounds.
	DefaultTargetBudget = 1000.0

	budgetTolerance = 0.5 // historical average within ±50% of target
)

// TargetBudget derives the budget value candidates are compared against:
// the midpoint when both bounds are present, the single bound when only one
// is, and a fixed default when the criteria carry none.
func TargetBudget(criteria models.MatchingCriteria) float64 {
	switch {
	case criteria.BudgetMin != nil && criteria.BudgetMax != nil:
		return (*criteria.BudgetMin + *criteria.BudgetMax) / 2
	case criteria.BudgetMax != nil:
		return *criteria.BudgetMax
	case criteria.BudgetMin != nil:
		return *criteria.BudgetMin
	default:
		return DefaultTargetBudget
	}
}

// ScoreCandidate computes the weighted compatibility score of one candidate
// against one request's criteria. It is a pure function: no I/O, and
// identical input yields identical output including reason order.
func ScoreCandidate(candidate models.Candidate, criteria models.MatchingCriteria) models.ScoreResult {
	var (
		score   float64
		reasons []string
		details models.MatchDetails
	)

	// Category expertise (40): full credit when the requested category is in
	// the candidate's claimed set.
	for _, cat := range candidate.Categories {
		if cat == criteria.CategoryID {
			score += weightCategory
			reasons = append(reasons, "Category expertise match")
			details.CategoryMatch = true
			break
		}
	}

	// Budget compatibility (20, or 10 for new vendors). Vendors without an
	// earnings history get half credit rather than a penalty.
	target := TargetBudget(criteria)
	if candidate.Metrics != nil && candidate.Metrics.TotalEarnings > 0 {
		orders := candidate.Metrics.CompletedOrders
		if orders < 1 {
			orders = 1
		}
		avgProjectValue := candidate.Metrics.TotalEarnings / float64(orders)
		if avgProjectValue >= target*(1-budgetTolerance) && avgProjectValue <= target*(1+budgetTolerance) {
			score += weightBudget
			reasons = append(reasons, "Budget range compatibility")
			details.BudgetMatch = true
		}
	} else {
		score += weightBudgetNew
		reasons = append(reasons, "Available for budget range")
	}

	// Location proximity (15, or 5 when the request has no location
	// constraint so strong candidates are not zeroed out).
	if criteria.Location == "" {
		score += weightLocationOpen
	} else if candidate.Location != "" {
		reqLoc := strings.ToLower(criteria.Location)
		candLoc := strings.ToLower(candidate.Location)
		if strings.Contains(candLoc, reqLoc) || strings.Contains(reqLoc, candLoc) {
			score += weightLocation
			reasons = append(reasons, "Geographic proximity")
			details.LocationMatch = true
		}
	}

	// Experience (up to 10): two points per completed project, capped.
	experience := math.Min(float64(candidate.CompletedProjects)*2, weightExperienceCap)
	if experience > 0 {
		score += experience
		reasons = append(reasons, fmt.Sprintf("%d completed projects", candidate.CompletedProjects))
		details.ExperienceMatch = true
	}

	// Rating (up to 5): linear map of the 1-5 scale onto 0-5 points.
	rating := candidate.Rating
	if rating == 0 {
		rating = models.DefaultRating
	}
	score += ((rating - 1) / 4) * weightRatingCap
	if rating >= 4.0 {
		reasons = append(reasons, fmt.Sprintf("Rated %.1f out of 5", rating))
	}
	details.Rating = rating

	// Performance bonuses (up to 10), independent of each other.
	if candidate.Metrics != nil {
		if candidate.Metrics.CompletionRate > 80 {
			score += bonusCompletionRate
			reasons = append(reasons, "High completion rate")
		}
		if candidate.Metrics.AvgResponseHours < 24 {
			score += bonusResponseTime
			reasons = append(reasons, "Fast response time")
		}
	}

	// Verification bonus (5): eligibility already requires approved
	// verification, so every scored candidate gets it.
	score += bonusVerified
	reasons = append(reasons, "Verified vendor")

	return models.ScoreResult{
		CandidateID: candidate.ID,
		Score:       score,
		Reasons:     reasons,
		Details:     details,
	}
}
