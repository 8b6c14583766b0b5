// internal/matching/eligibility.go
package matching

import "carematch/internal/models"

// IsEligible applies the hard filters: the provider must offer the requested
// service type and cost no more than the applicant's budget.
func IsEligible(a models.ApplicantProfile, p models.ProviderProfile) bool {
	if !p.Offers(a.ServiceType) {
		return false
	}
	return p.Price <= a.MaxBudget
}

// FilterEligible keeps eligible providers in their original order.
func FilterEligible(a models.ApplicantProfile, providers []models.ProviderProfile) []models.ProviderProfile {
	out := make([]models.ProviderProfile, 0, len(providers))
	for _, p := range providers {
		if IsEligible(a, p) {
			out = append(out, p)
		}
	}
	return out
}
