// internal/service/registration.go
package service

import (
	"context"
	"time"

	"carematch/internal/common/logger"
	"carematch/internal/common/metrics"
	"carematch/internal/common/validation"
	"carematch/internal/matching"
	"carematch/internal/models"
	"carematch/internal/providers"
)

// EventPublisher announces stored providers. Implemented by
// aws.ProviderEventPublisher.
type EventPublisher interface {
	ProviderRegistered(ctx context.Context, p models.ProviderProfile) error
}

// RegistrationRecorder counts stored providers.
type RegistrationRecorder interface {
	RecordRegistration(ctx context.Context, source string)
}

// RegistrationService validates and stores providers.
type RegistrationService struct {
	store     providers.Store
	publisher EventPublisher
	recorder  RegistrationRecorder
	logger    logger.Logger
}

// NewRegistrationService builds the service. publisher may be nil.
func NewRegistrationService(store providers.Store, publisher EventPublisher, log logger.Logger) *RegistrationService {
	return &RegistrationService{
		store:     store,
		publisher: publisher,
		logger:    log.WithFields(map[string]interface{}{"component": "registration-service"}),
	}
}

// WithRecorder attaches an OpenTelemetry registration counter.
func (s *RegistrationService) WithRecorder(r RegistrationRecorder) *RegistrationService {
	s.recorder = r
	return s
}

// Register stores a provider and returns it with its capability vector. The
// id and creation time are always assigned by the store. A failed event
// publish is logged and does not fail the registration.
func (s *RegistrationService) Register(ctx context.Context, p models.ProviderProfile, source string) (models.CapabilityReport, error) {
	if err := validation.ValidateProvider(p); err != nil {
		return models.CapabilityReport{}, validation.AsStandardError(err)
	}
	p.ID = ""
	p.CreatedAt = time.Time{}

	created, err := s.store.CreateProvider(ctx, p)
	if err != nil {
		return models.CapabilityReport{}, storeError("create", err)
	}
	metrics.ProvidersRegistered.WithLabelValues(source).Inc()
	if s.recorder != nil {
		s.recorder.RecordRegistration(ctx, source)
	}

	if s.publisher != nil {
		if err := s.publisher.ProviderRegistered(ctx, created); err != nil {
			s.logger.Warn("provider event not published", map[string]interface{}{
				"providerId": created.ID,
				"error":      err,
			})
		}
	}

	s.logger.Info("provider registered", map[string]interface{}{
		"providerId": created.ID,
		"name":       created.Name,
		"source":     source,
	})
	return models.CapabilityReport{
		Home:       created,
		Capability: matching.NormalizeCapability(created),
	}, nil
}

// List returns one page of providers.
func (s *RegistrationService) List(ctx context.Context, skip, limit int) ([]models.ProviderProfile, error) {
	list, err := s.store.ListProviders(ctx, skip, limit)
	if err != nil {
		return nil, storeError("list", err)
	}
	return list, nil
}

func (s *RegistrationService) Get(ctx context.Context, id string) (models.ProviderProfile, error) {
	p, err := s.store.GetProvider(ctx, id)
	if err != nil {
		return models.ProviderProfile{}, storeError("get", err)
	}
	return p, nil
}
