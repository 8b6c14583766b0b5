// internal/common/validation/profile_test.go
package validation

import (
	"errors"
	"math"
	"testing"

	apperrors "carematch/internal/common/errors"
	"carematch/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func validApplicant() models.ApplicantProfile {
	return models.ApplicantProfile{
		ChronicDiseaseCount:  2,
		NeedMonitor:          true,
		CanEatIndependently:  true,
		Mobility:             models.MobilityAssisted,
		CognitiveStatus:      models.CognitiveMild,
		LonelinessLevel:      models.LonelinessMedium,
		SocialNeedFreq:       3,
		FamilyDistanceKm:     12.5,
		VisitFreqNeeded:      2,
		ServiceType:          models.ServiceLongTerm,
		MaxBudget:            4000,
		CanWashIndependently: false,
	}
}

func validProvider() models.ProviderProfile {
	return models.ProviderProfile{
		Name:             "Maple Court",
		HasInfirmary:     true,
		RehabEquipCount:  3,
		CareGrade:        models.CareGradeSemi,
		BarrierFreeScore: 4,
		ActivityFreq:     models.ActivityWeekly,
		LocationType:     models.LocationSuburb,
		ServiceTypes:     []models.ServiceType{models.ServiceLongTerm},
		Price:            3200,
	}
}

func asValidationError(t *testing.T, err error) *ValidationError {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected *ValidationError, got %T: %v", err, err)
	return verr
}

// ==========================
// Struct Validation Tests
// ==========================

func TestValidateApplicant(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(a *models.ApplicantProfile)
		expectValid bool
		badFields   []string
	}{
		{
			name:        "valid applicant",
			mutate:      func(a *models.ApplicantProfile) {},
			expectValid: true,
		},
		{
			name:      "unknown mobility",
			mutate:    func(a *models.ApplicantProfile) { a.Mobility = "flying" },
			badFields: []string{"mobility"},
		},
		{
			name:      "negative disease count",
			mutate:    func(a *models.ApplicantProfile) { a.ChronicDiseaseCount = -1 },
			badFields: []string{"chronic_disease_count"},
		},
		{
			name:      "social frequency above a week",
			mutate:    func(a *models.ApplicantProfile) { a.SocialNeedFreq = 9 },
			badFields: []string{"social_need_freq"},
		},
		{
			name:      "infinite distance",
			mutate:    func(a *models.ApplicantProfile) { a.FamilyDistanceKm = math.Inf(1) },
			badFields: []string{"family_distance_km"},
		},
		{
			name: "every offending field is reported",
			mutate: func(a *models.ApplicantProfile) {
				a.ServiceType = "respite"
				a.MaxBudget = -5
				a.LonelinessLevel = ""
			},
			badFields: []string{"service_type", "max_budget", "loneliness_level"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validApplicant()
			tt.mutate(&a)

			err := ValidateApplicant(a)
			if tt.expectValid {
				assert.NoError(t, err)
				return
			}

			verr := asValidationError(t, err)
			assert.Equal(t, "applicant", verr.Subject)
			for _, f := range tt.badFields {
				assert.True(t, verr.HasErrors(f), "expected error on %s, got %v", f, verr.Fields)
			}
		})
	}
}

func TestValidateProvider(t *testing.T) {
	t.Run("valid provider", func(t *testing.T) {
		assert.NoError(t, ValidateProvider(validProvider()))
	})

	t.Run("empty service types", func(t *testing.T) {
		p := validProvider()
		p.ServiceTypes = nil

		verr := asValidationError(t, ValidateProvider(p))
		assert.True(t, verr.HasErrors("service_types"))
		assert.Contains(t, verr.Subject, "Maple Court")
	})

	t.Run("unknown service type inside list", func(t *testing.T) {
		p := validProvider()
		p.ServiceTypes = []models.ServiceType{models.ServiceDayCare, "hospice"}

		verr := asValidationError(t, ValidateProvider(p))
		assert.True(t, verr.HasErrors("service_types"))
	})

	t.Run("barrier free score out of range", func(t *testing.T) {
		p := validProvider()
		p.BarrierFreeScore = 0

		verr := asValidationError(t, ValidateProvider(p))
		assert.True(t, verr.HasErrors("barrier_free_score"))
	})

	t.Run("non-finite price", func(t *testing.T) {
		p := validProvider()
		p.Price = math.NaN()

		verr := asValidationError(t, ValidateProvider(p))
		assert.True(t, verr.HasErrors("price"))
	})
}

// ==========================
// Schema Validation Tests
// ==========================

func TestDecodeApplicant(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		payload := []byte(`{
			"chronic_disease_count": 1,
			"need_monitor": true,
			"mobility": "independent",
			"cognitive_status": "none",
			"loneliness_level": "low",
			"social_need_freq": 2,
			"family_distance_km": 8,
			"visit_freq_needed": 1,
			"service_type": "day_care",
			"max_budget": 2500
		}`)

		a, err := DecodeApplicant(payload)
		require.NoError(t, err)
		assert.Equal(t, models.ServiceDayCare, a.ServiceType)
		assert.Equal(t, 2500.0, a.MaxBudget)
		assert.True(t, a.NeedMonitor)
	})

	t.Run("malformed number", func(t *testing.T) {
		payload := []byte(`{
			"mobility": "independent",
			"cognitive_status": "none",
			"loneliness_level": "low",
			"service_type": "day_care",
			"max_budget": "lots"
		}`)

		_, err := DecodeApplicant(payload)
		verr := asValidationError(t, err)
		assert.True(t, verr.HasErrors("max_budget"), "fields: %v", verr.Fields)
	})

	t.Run("unknown enum value", func(t *testing.T) {
		payload := []byte(`{
			"mobility": "independent",
			"cognitive_status": "confused",
			"loneliness_level": "low",
			"service_type": "day_care",
			"max_budget": 100
		}`)

		_, err := DecodeApplicant(payload)
		verr := asValidationError(t, err)
		assert.True(t, verr.HasErrors("cognitive_status"), "fields: %v", verr.Fields)
	})

	t.Run("missing service type", func(t *testing.T) {
		payload := []byte(`{
			"mobility": "independent",
			"cognitive_status": "none",
			"loneliness_level": "low",
			"max_budget": 100
		}`)

		_, err := DecodeApplicant(payload)
		verr := asValidationError(t, err)
		assert.True(t, verr.HasErrors("service_type"), "fields: %v", verr.Fields)
	})

	t.Run("not json", func(t *testing.T) {
		_, err := DecodeApplicant([]byte(`{not json`))
		asValidationError(t, err)
	})
}

func TestDecodeProvider(t *testing.T) {
	payload := []byte(`{
		"name": "Riverside",
		"care_grade": "full_care",
		"barrier_free_score": 5,
		"activity_freq": "daily",
		"location_type": "center",
		"public_transport": true,
		"service_types": ["long_term", "short_term"],
		"price": 3900
	}`)

	p, err := DecodeProvider(payload)
	require.NoError(t, err)
	assert.Equal(t, "Riverside", p.Name)
	assert.True(t, p.PublicTransport)
	assert.False(t, p.ShuttleService)
	assert.True(t, p.Offers(models.ServiceShortTerm))

	_, err = DecodeProvider([]byte(`{"name": "Empty", "care_grade": "full_care", "barrier_free_score": 5,
		"activity_freq": "daily", "location_type": "center", "service_types": [], "price": 1}`))
	verr := asValidationError(t, err)
	assert.True(t, verr.HasErrors("service_types"), "fields: %v", verr.Fields)
}

func TestAsStandardError(t *testing.T) {
	a := validApplicant()
	a.Mobility = "flying"

	err := AsStandardError(ValidateApplicant(a))

	var stdErr *apperrors.StandardError
	require.True(t, errors.As(err, &stdErr))
	assert.Equal(t, apperrors.ErrCodeValidationFailed, stdErr.Code)
	fields, ok := stdErr.Metadata["fields"].([]FieldError)
	require.True(t, ok)
	assert.Equal(t, "mobility", fields[0].Field)

	plain := errors.New("other")
	assert.Same(t, plain, AsStandardError(plain))
}
