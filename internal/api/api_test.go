// internal/api/api_test.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"carematch/internal/common/logger"
	"carematch/internal/matching"
	"carematch/internal/models"
	"carematch/internal/providers"
	"carematch/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const applicantJSON = `{
	"chronic_disease_count": 2,
	"need_monitor": true,
	"mobility": "assisted",
	"cognitive_status": "none",
	"loneliness_level": "medium",
	"social_need_freq": 2,
	"family_distance_km": 3,
	"visit_freq_needed": 2,
	"service_type": "long_term",
	"max_budget": 5000
}`

func newTestServer(t *testing.T, store providers.Store, checks ...ReadinessCheck) http.Handler {
	t.Helper()
	log := logger.NewTestLogger(t)
	engine, err := matching.NewEngine(matching.Options{}, log)
	require.NoError(t, err)

	srv := NewServer(
		service.NewMatchService(engine, store, nil, log),
		service.NewRegistrationService(store, nil, log),
		2,
		log,
		checks...,
	)
	return srv.Routes()
}

func do(t *testing.T, h http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Fields  []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"fields"`
	} `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func TestEvaluateElder(t *testing.T) {
	h := newTestServer(t, providers.NewMemoryStore(providers.DemoProviders()...))

	rec := do(t, h, http.MethodPost, "/api/evaluate/elder", []byte(applicantJSON))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var results []models.MatchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Len(t, r.DimensionDetails, 4)
		assert.True(t, r.Home.Offers(models.ServiceLongTerm))
	}

	rec = do(t, h, http.MethodPost, "/api/evaluate/elder?top_n=1", []byte(applicantJSON))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	assert.Len(t, results, 1)
}

func TestEvaluateElder_EmptyPoolReturnsEmptyArray(t *testing.T) {
	h := newTestServer(t, providers.NewMemoryStore())

	rec := do(t, h, http.MethodPost, "/api/evaluate/elder", []byte(applicantJSON))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestEvaluateElder_Rejections(t *testing.T) {
	h := newTestServer(t, providers.NewMemoryStore(providers.DemoProviders()...))

	tests := []struct {
		name   string
		target string
		body   string
		status int
		code   string
		field  string
	}{
		{
			name:   "unknown loneliness level",
			target: "/api/evaluate/elder",
			body:   `{"mobility":"assisted","cognitive_status":"none","loneliness_level":"extreme","service_type":"long_term","max_budget":100}`,
			status: http.StatusBadRequest,
			code:   "VALIDATION_FAILED",
		},
		{
			name:   "malformed json",
			target: "/api/evaluate/elder",
			body:   `{"mobility":`,
			status: http.StatusBadRequest,
			code:   "VALIDATION_FAILED",
		},
		{
			name:   "empty body",
			target: "/api/evaluate/elder",
			body:   ``,
			status: http.StatusBadRequest,
			code:   "PARSE_ERROR",
		},
		{
			name:   "bad top_n",
			target: "/api/evaluate/elder?top_n=-1",
			body:   applicantJSON,
			status: http.StatusBadRequest,
			code:   "VALIDATION_FAILED",
			field:  "top_n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, tt.target, []byte(tt.body))
			require.Equal(t, tt.status, rec.Code, rec.Body.String())

			resp := decodeError(t, rec)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.Message)
			if tt.field != "" {
				require.NotEmpty(t, resp.Error.Fields)
				assert.Equal(t, tt.field, resp.Error.Fields[0].Field)
			}
		})
	}
}

func TestHomes_RegisterListGet(t *testing.T) {
	h := newTestServer(t, providers.NewMemoryStore())

	body, err := json.Marshal(providers.DemoProviders()[0])
	require.NoError(t, err)

	rec := do(t, h, http.MethodPost, "/api/homes", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created models.ProviderProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	body, err = json.Marshal(providers.DemoProviders()[1])
	require.NoError(t, err)
	rec = do(t, h, http.MethodPost, "/api/evaluate/home_questionnaire", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var report models.CapabilityReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.NotEmpty(t, report.Home.ID)
	assert.Equal(t, matching.NormalizeCapability(providers.DemoProviders()[1]), report.Capability)

	rec = do(t, h, http.MethodGet, "/api/homes/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got models.ProviderProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, created.Name, got.Name)

	rec = do(t, h, http.MethodGet, "/api/homes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []models.ProviderProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 2)

	rec = do(t, h, http.MethodGet, "/api/homes?skip=1&limit=1", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, report.Home.ID, list[0].ID)
}

func TestHomes_Errors(t *testing.T) {
	h := newTestServer(t, providers.NewMemoryStore(providers.DemoProviders()...))

	rec := do(t, h, http.MethodGet, "/api/homes/does-not-exist", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "PROVIDER_NOT_FOUND", decodeError(t, rec).Error.Code)

	rec = do(t, h, http.MethodGet, "/api/homes?limit=abc", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "limit", decodeError(t, rec).Error.Fields[0].Field)

	invalid := providers.DemoProviders()[0]
	invalid.ServiceTypes = []models.ServiceType{}
	body, err := json.Marshal(invalid)
	require.NoError(t, err)
	rec = do(t, h, http.MethodPost, "/api/homes", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", decodeError(t, rec).Error.Code)
}

func TestHomes_PageSizeIsCapped(t *testing.T) {
	h := newTestServer(t, providers.NewMemoryStore(providers.DemoProviders()...))

	rec := do(t, h, http.MethodGet, "/api/homes?limit=50", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []models.ProviderProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 2)
}

func TestHealthAndReady(t *testing.T) {
	store := providers.NewMemoryStore()
	h := newTestServer(t, store,
		ReadinessCheck{Name: "store", Check: store.Ping},
		ReadinessCheck{Name: "redis", Check: func(context.Context) error { return stderrors.New("connection refused") }},
	)

	rec := do(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"not_ready","checks":{"store":"ok","redis":"connection refused"}}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
