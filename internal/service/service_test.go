// internal/service/service_test.go
package service

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"carematch/internal/common/errors"
	"carematch/internal/common/logger"
	"carematch/internal/matching"
	"carematch/internal/models"
	"carematch/internal/providers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func applicant() models.ApplicantProfile {
	return models.ApplicantProfile{
		ChronicDiseaseCount: 2,
		NeedMonitor:         true,
		Mobility:            models.MobilityAssisted,
		CognitiveStatus:     models.CognitiveNone,
		LonelinessLevel:     models.LonelinessMedium,
		SocialNeedFreq:      2,
		FamilyDistanceKm:    3,
		VisitFreqNeeded:     2,
		ServiceType:         models.ServiceLongTerm,
		MaxBudget:           5000,
	}
}

func newMatchService(t *testing.T, store providers.Store) *MatchService {
	t.Helper()
	engine, err := matching.NewEngine(matching.Options{}, logger.NewTestLogger(t))
	require.NoError(t, err)
	return NewMatchService(engine, store, nil, logger.NewTestLogger(t))
}

type failingStore struct {
	providers.Store
	err error
}

func (f failingStore) GetCandidateProviders(context.Context, providers.CandidateQuery) ([]models.ProviderProfile, error) {
	return nil, f.err
}

func (f failingStore) CreateProvider(context.Context, models.ProviderProfile) (models.ProviderProfile, error) {
	return models.ProviderProfile{}, f.err
}

func TestMatchService_Match(t *testing.T) {
	svc := newMatchService(t, providers.NewMemoryStore(providers.DemoProviders()...))

	results, err := svc.Match(context.Background(), applicant(), 0, "test")
	require.NoError(t, err)
	require.Len(t, results, 2, "home C offers day care only")
	for _, r := range results {
		assert.True(t, r.Home.Offers(models.ServiceLongTerm))
		assert.GreaterOrEqual(t, r.TotalMatchScore, 0)
		assert.LessOrEqual(t, r.TotalMatchScore, 100)
	}
	assert.GreaterOrEqual(t, results[0].TotalMatchScore, results[1].TotalMatchScore)
}

func TestMatchService_ValidationError(t *testing.T) {
	svc := newMatchService(t, providers.NewMemoryStore())
	a := applicant()
	a.LonelinessLevel = "extreme"

	_, err := svc.Match(context.Background(), a, 3, "test")
	require.Error(t, err)
	assert.Equal(t, 400, errors.HTTPStatus(err))
}

func TestMatchService_StoreErrorIsWrapped(t *testing.T) {
	svc := newMatchService(t, failingStore{err: stderrors.New("connection refused")})

	_, err := svc.Match(context.Background(), applicant(), 3, "test")
	require.Error(t, err)

	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeProviderStoreFailed, stdErr.Code)
	assert.Equal(t, 503, errors.HTTPStatus(err))
}

func TestMatchService_EmptyPool(t *testing.T) {
	svc := newMatchService(t, providers.NewMemoryStore())

	results, err := svc.Match(context.Background(), applicant(), 3, "test")
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

type recordingPublisher struct {
	published []models.ProviderProfile
	err       error
}

func (r *recordingPublisher) ProviderRegistered(_ context.Context, p models.ProviderProfile) error {
	r.published = append(r.published, p)
	return r.err
}

func TestRegistrationService_Register(t *testing.T) {
	store := providers.NewMemoryStore()
	pub := &recordingPublisher{}
	svc := NewRegistrationService(store, pub, logger.NewTestLogger(t))

	report, err := svc.Register(context.Background(), providers.DemoProviders()[0], "test")
	require.NoError(t, err)
	assert.NotEmpty(t, report.Home.ID)
	assert.Equal(t, matching.NormalizeCapability(report.Home), report.Capability)
	require.Len(t, pub.published, 1)
	assert.Equal(t, report.Home.ID, pub.published[0].ID)

	got, err := svc.Get(context.Background(), report.Home.ID)
	require.NoError(t, err)
	assert.Equal(t, report.Home, got)
}

func TestRegistrationService_IgnoresClientIdentity(t *testing.T) {
	store := providers.NewMemoryStore()
	svc := NewRegistrationService(store, nil, logger.NewTestLogger(t))
	ctx := context.Background()

	supplied := time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)
	p := providers.DemoProviders()[0]
	p.ID = "fixed"
	p.CreatedAt = supplied

	first, err := svc.Register(ctx, p, "test")
	require.NoError(t, err)
	second, err := svc.Register(ctx, p, "test")
	require.NoError(t, err)

	assert.NotEqual(t, "fixed", first.Home.ID)
	assert.NotEqual(t, "fixed", second.Home.ID)
	assert.NotEqual(t, first.Home.ID, second.Home.ID)
	assert.True(t, first.Home.CreatedAt.After(supplied))

	n, err := store.CountProviders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRegistrationService_PublishFailureDoesNotFail(t *testing.T) {
	svc := NewRegistrationService(providers.NewMemoryStore(), &recordingPublisher{err: stderrors.New("sns down")}, logger.NewTestLogger(t))

	_, err := svc.Register(context.Background(), providers.DemoProviders()[1], "test")
	assert.NoError(t, err)
}

func TestRegistrationService_Errors(t *testing.T) {
	svc := NewRegistrationService(providers.NewMemoryStore(), nil, logger.NewTestLogger(t))

	invalid := providers.DemoProviders()[0]
	invalid.ServiceTypes = nil
	_, err := svc.Register(context.Background(), invalid, "test")
	assert.Equal(t, 400, errors.HTTPStatus(err))

	_, err = svc.Get(context.Background(), "missing")
	assert.Equal(t, 404, errors.HTTPStatus(err))

	broken := NewRegistrationService(failingStore{err: stderrors.New("disk full")}, nil, logger.NewTestLogger(t))
	_, err = broken.Register(context.Background(), providers.DemoProviders()[0], "test")
	assert.Equal(t, 503, errors.HTTPStatus(err))
}

type countingRecorder struct{ registrations []string }

func (c *countingRecorder) RecordRegistration(_ context.Context, source string) {
	c.registrations = append(c.registrations, source)
}

func TestRegistrationService_Recorder(t *testing.T) {
	rec := &countingRecorder{}
	svc := NewRegistrationService(providers.NewMemoryStore(), nil, logger.NewTestLogger(t)).WithRecorder(rec)

	_, err := svc.Register(context.Background(), providers.DemoProviders()[2], "cli")
	require.NoError(t, err)
	assert.Equal(t, []string{"cli"}, rec.registrations)
}
