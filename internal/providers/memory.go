// internal/providers/memory.go
package providers

import (
	"context"
	"sync"
	"time"

	"carematch/internal/common/errors"
	"carematch/internal/models"
)

// MemoryStore keeps providers in insertion order. Used by tests and the CLI
// file mode.
type MemoryStore struct {
	mu        sync.RWMutex
	providers []models.ProviderProfile
	byID      map[string]int
}

func NewMemoryStore(initial ...models.ProviderProfile) *MemoryStore {
	s := &MemoryStore{byID: make(map[string]int)}
	for _, p := range initial {
		_, _ = s.CreateProvider(context.Background(), p)
	}
	return s
}

func (s *MemoryStore) GetCandidateProviders(_ context.Context, q CandidateQuery) ([]models.ProviderProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return q.Filter(s.providers), nil
}

func (s *MemoryStore) ListProviders(_ context.Context, skip, limit int) ([]models.ProviderProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || skip >= len(s.providers) {
		return []models.ProviderProfile{}, nil
	}
	end := len(s.providers)
	if skip+limit < end {
		end = skip + limit
	}
	out := make([]models.ProviderProfile, end-skip)
	copy(out, s.providers[skip:end])
	return out, nil
}

func (s *MemoryStore) GetProvider(_ context.Context, id string) (models.ProviderProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byID[id]
	if !ok {
		return models.ProviderProfile{}, errors.NewProviderNotFoundError(id)
	}
	return s.providers[i], nil
}

func (s *MemoryStore) CreateProvider(_ context.Context, p models.ProviderProfile) (models.ProviderProfile, error) {
	p = assignIdentity(p, time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[p.ID]; exists {
		return models.ProviderProfile{}, errors.NewBusinessRuleError("Provider already exists", "providerId: "+p.ID)
	}
	s.byID[p.ID] = len(s.providers)
	s.providers = append(s.providers, p)
	return p, nil
}

func (s *MemoryStore) CountProviders(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.providers), nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}
