package pricing

import "care-circle-api/models"

// SmallTask reports whether a Basic task falls under the micro-task policy:
// at most 4 km and at most 3 hours. Small Basic tasks are free and are the
// only Basic tasks Student helpers may take.
func SmallTask(distanceKm, hours int) bool {
	return distanceKm <= 4 && hours <= 3
}

// Fee computes the payment for a request at creation time. Deterministic,
// no side effects; the result is fixed on the request and never recomputed.
// Inputs are validated as non-negative by the request binding upstream.
func Fee(category models.ServiceCategory, distanceKm, hours int) int {
	switch category {
	case models.CategoryBasic:
		if SmallTask(distanceKm, hours) {
			return 0
		}
		return 10*distanceKm + 50*hours
	case models.CategoryTechnical:
		// duration does not affect Technical pricing
		return 100 + 15*distanceKm
	case models.CategoryPersonal:
		return 200 + 20*distanceKm + 100*hours
	}
	return 0
}
