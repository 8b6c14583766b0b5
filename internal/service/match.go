// internal/service/match.go
package service

import (
	"context"
	stderrors "errors"

	"carematch/internal/common/errors"
	"carematch/internal/common/logger"
	"carematch/internal/common/metrics"
	"carematch/internal/common/validation"
	"carematch/internal/matching"
	"carematch/internal/models"
	"carematch/internal/providers"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Tracer opens spans; *observability.Observability satisfies it.
type Tracer interface {
	StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span)
}

// matchRecorder is implemented by tracers that also count ranking runs.
type matchRecorder interface {
	RecordMatch(ctx context.Context, source string, returned int)
}

type noopTracer struct{}

func (noopTracer) StartSpan(ctx context.Context, name string, _ ...attribute.KeyValue) (context.Context, trace.Span) {
	return noop.NewTracerProvider().Tracer("").Start(ctx, name)
}

// MatchService loads the candidate pool for an applicant and ranks it.
type MatchService struct {
	engine *matching.Engine
	store  providers.Store
	tracer Tracer
	logger logger.Logger
}

func NewMatchService(engine *matching.Engine, store providers.Store, tracer Tracer, log logger.Logger) *MatchService {
	if tracer == nil {
		tracer = noopTracer{}
	}
	return &MatchService{
		engine: engine,
		store:  store,
		tracer: tracer,
		logger: log.WithFields(map[string]interface{}{"component": "match-service"}),
	}
}

// Match returns at most topN providers for the applicant, best first. A
// non-positive topN uses the engine default. source labels metrics.
func (s *MatchService) Match(ctx context.Context, applicant models.ApplicantProfile, topN int, source string) ([]models.MatchResult, error) {
	ctx, span := s.tracer.StartSpan(ctx, "match.providers",
		attribute.String("source", source),
		attribute.String("service_type", string(applicant.ServiceType)),
	)
	defer span.End()

	results, err := s.match(ctx, applicant, topN)
	if err != nil {
		stdErr := errors.Normalize(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, string(stdErr.Code))
		metrics.RecordMatch(source, outcomeOf(stdErr), 0, 0)
		return nil, err
	}

	top := 0
	if len(results) > 0 {
		top = results[0].TotalMatchScore
	}
	span.SetAttributes(attribute.Int("results", len(results)))
	metrics.RecordMatch(source, "success", len(results), top)
	if rec, ok := s.tracer.(matchRecorder); ok {
		rec.RecordMatch(ctx, source, len(results))
	}

	s.logger.Info("providers ranked", map[string]interface{}{
		"source":      source,
		"serviceType": applicant.ServiceType,
		"returned":    len(results),
		"topScore":    top,
	})
	return results, nil
}

func (s *MatchService) match(ctx context.Context, applicant models.ApplicantProfile, topN int) ([]models.MatchResult, error) {
	if err := validation.ValidateApplicant(applicant); err != nil {
		return nil, validation.AsStandardError(err)
	}

	pool, err := s.store.GetCandidateProviders(ctx, providers.QueryFor(applicant))
	if err != nil {
		return nil, storeError("candidates", err)
	}

	results, err := s.engine.Match(applicant, pool, topN)
	if err != nil {
		return nil, validation.AsStandardError(err)
	}
	return results, nil
}

// storeError keeps typed store errors and wraps anything else as a
// retryable store failure.
func storeError(op string, err error) error {
	var stdErr *errors.StandardError
	if stderrors.As(err, &stdErr) {
		return err
	}
	return errors.NewProviderStoreFailedError(op, err)
}

func outcomeOf(stdErr *errors.StandardError) string {
	switch stdErr.Code {
	case errors.ErrCodeValidationFailed:
		return "validation_failed"
	case errors.ErrCodeProviderStoreFailed:
		return "store_failed"
	default:
		return "error"
	}
}
