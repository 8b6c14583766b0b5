// internal/common/validation/profile.go
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"carematch/internal/models"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateApplicant checks enum membership and numeric ranges of an applicant.
func ValidateApplicant(a models.ApplicantProfile) error {
	fields := structErrors(a)
	fields = append(fields, finite("family_distance_km", a.FamilyDistanceKm)...)
	fields = append(fields, finite("max_budget", a.MaxBudget)...)
	return newValidationError("applicant", fields)
}

// ValidateProvider checks a provider profile. The subject names the provider
// so a failure inside a pool points at the offending record.
func ValidateProvider(p models.ProviderProfile) error {
	fields := structErrors(p)
	fields = append(fields, finite("price", p.Price)...)

	subject := "provider"
	if p.Name != "" {
		subject = fmt.Sprintf("provider %q", p.Name)
	}
	return newValidationError(subject, fields)
}

// DecodeApplicant validates a raw applicant payload against its schema,
// decodes it and applies the struct rules.
func DecodeApplicant(data []byte) (models.ApplicantProfile, error) {
	var a models.ApplicantProfile
	if err := ValidateJSON(SchemaApplicant, data); err != nil {
		return a, err
	}
	if err := json.Unmarshal(data, &a); err != nil {
		return a, malformed("applicant", err)
	}
	return a, ValidateApplicant(a)
}

func DecodeProvider(data []byte) (models.ProviderProfile, error) {
	var p models.ProviderProfile
	if err := ValidateJSON(SchemaProvider, data); err != nil {
		return p, err
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, malformed("provider", err)
	}
	return p, ValidateProvider(p)
}

func structErrors(s interface{}) []FieldError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "(root)", Message: err.Error(), Code: "INVALID"}}
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field:   fe.Field(),
			Message: describe(fe),
			Code:    strings.ToUpper(fe.Tag()),
		})
	}
	return fields
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fmt.Sprint(fe.Value()))
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be <= %s", fe.Param())
	case "min":
		return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
	default:
		return fmt.Sprintf("failed %s check", fe.Tag())
	}
}

func finite(field string, v float64) []FieldError {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []FieldError{{Field: field, Message: "must be a finite number", Code: "NOT_FINITE"}}
	}
	return nil
}

func malformed(subject string, err error) error {
	return &ValidationError{
		Subject: subject,
		Fields: []FieldError{{
			Field:   "(root)",
			Message: err.Error(),
			Code:    "MALFORMED_JSON",
		}},
	}
}
