// internal/providers/store.go
package providers

import (
	"context"
	"time"

	"carematch/internal/models"

	"github.com/google/uuid"
)

// Store is the source of provider profiles for ranking and registration.
// ListProviders returns providers in creation order; a limit <= 0 returns
// an empty page.
type Store interface {
	GetCandidateProviders(ctx context.Context, q CandidateQuery) ([]models.ProviderProfile, error)
	ListProviders(ctx context.Context, skip, limit int) ([]models.ProviderProfile, error)
	GetProvider(ctx context.Context, id string) (models.ProviderProfile, error)
	CreateProvider(ctx context.Context, p models.ProviderProfile) (models.ProviderProfile, error)
	CountProviders(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
}

// CandidateQuery carries the hard filters a store may push down. The zero
// value selects every provider. The ranking engine re-applies both filters.
type CandidateQuery struct {
	ServiceType models.ServiceType
	MaxBudget   *float64
}

// QueryFor builds the candidate query of an applicant.
func QueryFor(a models.ApplicantProfile) CandidateQuery {
	budget := a.MaxBudget
	return CandidateQuery{ServiceType: a.ServiceType, MaxBudget: &budget}
}

func (q CandidateQuery) Matches(p models.ProviderProfile) bool {
	if q.ServiceType != "" && !p.Offers(q.ServiceType) {
		return false
	}
	if q.MaxBudget != nil && p.Price > *q.MaxBudget {
		return false
	}
	return true
}

func (q CandidateQuery) Filter(pool []models.ProviderProfile) []models.ProviderProfile {
	out := make([]models.ProviderProfile, 0, len(pool))
	for _, p := range pool {
		if q.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}

// assignIdentity fills the id and creation time of a new provider.
func assignIdentity(p models.ProviderProfile, now time.Time) models.ProviderProfile {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now.UTC()
	}
	return p
}
