package certification

import "care-circle-api/models"

// Tier is the performance classification derived from average rating
type Tier string

const (
	TierBronze Tier = "Bronze"
	TierSilver Tier = "Silver"
	TierGold   Tier = "Gold"
)

// MinProcessedTasks is how many processed tasks unlock a certificate
const MinProcessedTasks = 3

// Summary is a helper's certification standing, computed on demand from
// their request history. Read-only; nothing here mutates helper or request
// state.
type Summary struct {
	ProcessedCount int     `json:"processed_count"`
	AvgRating      float64 `json:"avg_rating"`
	Tier           Tier    `json:"tier"`
	Eligible       bool    `json:"eligible"`
	TotalEarnings  int     `json:"total_earnings"` // cleared (paid) completed tasks
}

// tierFor maps average rating to a tier
func tierFor(avgRating float64) Tier {
	switch {
	case avgRating >= 4.8:
		return TierGold
	case avgRating >= 4.0:
		return TierSilver
	}
	return TierBronze
}

// Evaluate computes a helper's certification summary from their request
// history. A task counts as processed only when it is completed, paid, and
// rated. Part-Time helpers are never certificate-eligible.
func Evaluate(helperType models.HelperType, requests []models.CareRequest) Summary {
	var processed, ratingSum, earnings int
	for i := range requests {
		r := &requests[i]
		if r.Status != models.StatusCompleted {
			continue
		}
		if r.IsPaid {
			earnings += r.Payment
		}
		if r.IsPaid && r.Rating != nil {
			processed++
			ratingSum += *r.Rating
		}
	}

	avg := 0.0
	if processed > 0 {
		avg = float64(ratingSum) / float64(processed)
	}

	canEarn := helperType == models.HelperStudent || helperType == models.HelperVolunteer
	return Summary{
		ProcessedCount: processed,
		AvgRating:      avg,
		Tier:           tierFor(avg),
		Eligible:       canEarn && processed >= MinProcessedTasks,
		TotalEarnings:  earnings,
	}
}
