// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"carematch/internal/api"
	"carematch/internal/common/logger"
	"carematch/internal/matching"
	"carematch/internal/models"
	"carematch/internal/providers"
	"carematch/internal/service"
	matchproviders "carematch/internal/workers/matching/match-providers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stack struct {
	server  *httptest.Server
	matcher *service.MatchService
	store   *providers.MemoryStore
}

func newStack(t *testing.T) *stack {
	t.Helper()
	log := logger.NewTestLogger(t)

	store := providers.NewMemoryStore()
	n, err := providers.Seed(context.Background(), store, log)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	engine, err := matching.NewEngine(matching.Options{Parallelism: 4}, log)
	require.NoError(t, err)

	matcher := service.NewMatchService(engine, store, nil, log)
	registry := service.NewRegistrationService(store, nil, log)
	srv := httptest.NewServer(api.NewServer(matcher, registry, 500, log,
		api.ReadinessCheck{Name: "store", Check: store.Ping},
	).Routes())
	t.Cleanup(srv.Close)

	return &stack{server: srv, matcher: matcher, store: store}
}

func (s *stack) call(t *testing.T, method, path string, body interface{}) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, method, s.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func budgetApplicant() models.ApplicantProfile {
	return models.ApplicantProfile{
		ChronicDiseaseCount: 1,
		Mobility:            models.MobilityIndependent,
		CognitiveStatus:     models.CognitiveNone,
		LonelinessLevel:     models.LonelinessLow,
		ServiceType:         models.ServiceLongTerm,
		MaxBudget:           3500,
	}
}

func TestFullE2E(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E tests in short mode")
	}
	s := newStack(t)

	t.Run("ready", func(t *testing.T) {
		status, _ := s.call(t, http.MethodGet, "/ready", nil)
		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("budget excludes home A", func(t *testing.T) {
		status, body := s.call(t, http.MethodPost, "/api/evaluate/elder", budgetApplicant())
		require.Equal(t, http.StatusOK, status, string(body))

		var results []models.MatchResult
		require.NoError(t, json.Unmarshal(body, &results))
		require.Len(t, results, 1)
		assert.Equal(t, "Nursing Home B (Spiritual Focus)", results[0].Home.Name)
		assert.Greater(t, results[0].TotalMatchScore, 0)
	})

	t.Run("repeated requests are byte identical", func(t *testing.T) {
		_, first := s.call(t, http.MethodPost, "/api/evaluate/elder", budgetApplicant())
		_, second := s.call(t, http.MethodPost, "/api/evaluate/elder", budgetApplicant())
		assert.Equal(t, string(first), string(second))
	})

	t.Run("registered home joins the pool", func(t *testing.T) {
		home := providers.DemoProviders()[1]
		home.Name = "Nursing Home D (Budget)"
		home.Price = 1500

		status, body := s.call(t, http.MethodPost, "/api/evaluate/home_questionnaire", home)
		require.Equal(t, http.StatusCreated, status, string(body))
		var report models.CapabilityReport
		require.NoError(t, json.Unmarshal(body, &report))
		require.NotEmpty(t, report.Home.ID)

		status, body = s.call(t, http.MethodPost, "/api/evaluate/elder", budgetApplicant())
		require.Equal(t, http.StatusOK, status)
		var results []models.MatchResult
		require.NoError(t, json.Unmarshal(body, &results))
		require.Len(t, results, 2)

		// Same capabilities as B, so the scores tie and the cheaper home leads.
		assert.Equal(t, results[0].TotalMatchScore, results[1].TotalMatchScore)
		assert.Equal(t, "Nursing Home D (Budget)", results[0].Home.Name)

		status, body = s.call(t, http.MethodGet, "/api/homes/"+report.Home.ID, nil)
		require.Equal(t, http.StatusOK, status)
		var got models.ProviderProfile
		require.NoError(t, json.Unmarshal(body, &got))
		assert.Equal(t, home.Name, got.Name)
	})

	t.Run("worker and API agree", func(t *testing.T) {
		raw, err := json.Marshal(budgetApplicant())
		require.NoError(t, err)

		h := matchproviders.NewHandler(matchproviders.LoadConfig(), s.matcher, logger.NewTestLogger(t))
		out, err := h.Execute(context.Background(), &matchproviders.Input{Applicant: raw, TopN: 3})
		require.NoError(t, err)

		_, body := s.call(t, http.MethodPost, "/api/evaluate/elder?top_n=3", budgetApplicant())
		var results []models.MatchResult
		require.NoError(t, json.Unmarshal(body, &results))

		require.Equal(t, len(results), out.MatchCount)
		for i := range results {
			assert.Equal(t, results[i].Home.ID, out.Matches[i].Home.ID)
			assert.Equal(t, results[i].TotalMatchScore, out.Matches[i].TotalMatchScore)
		}
	})

	t.Run("listing", func(t *testing.T) {
		status, body := s.call(t, http.MethodGet, "/api/homes?limit=10", nil)
		require.Equal(t, http.StatusOK, status)
		var homes []models.ProviderProfile
		require.NoError(t, json.Unmarshal(body, &homes))
		assert.Len(t, homes, 4)
	})
}
