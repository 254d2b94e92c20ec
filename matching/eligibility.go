package matching

import (
	"care-circle-api/models"
	"care-circle-api/pricing"
)

// Eligible reports whether a helper may accept the given request right now.
// hasActiveTask must reflect whether the helper already holds a request in
// an active status — a helper pursues one task at a time.
//
// Rules, all of which must hold:
//  1. the request is still searching with no helper attached
//  2. the helper serves the request's category
//  3. the helper holds no other active task
//  4. Basic requests are steered by size: Students see only small tasks
//     (≤4 km and ≤3 h), everyone else only non-small ones; Technical and
//     Personal requests are never visible to Students
//  5. the helper is verified
func Eligible(helper *models.HelperProfile, hasActiveTask bool, req *models.CareRequest) bool {
	if req.Status != models.StatusSearching || req.HelperID != nil {
		return false
	}
	if !helper.Categories.Contains(req.Category) {
		return false
	}
	if hasActiveTask {
		return false
	}
	if !helper.Verified() {
		return false
	}

	if req.Category == models.CategoryBasic {
		small := pricing.SmallTask(req.DistanceKm, req.Hours)
		if helper.HelperType == models.HelperStudent {
			return small
		}
		return !small
	}
	return helper.HelperType != models.HelperStudent
}

// Visible returns the subset of requests the helper is allowed to accept.
// No ordering is guaranteed; callers sort for display.
func Visible(helper *models.HelperProfile, hasActiveTask bool, requests []models.CareRequest) []models.CareRequest {
	visible := []models.CareRequest{}
	for i := range requests {
		if Eligible(helper, hasActiveTask, &requests[i]) {
			visible = append(visible, requests[i])
		}
	}
	return visible
}
