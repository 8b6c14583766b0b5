// internal/common/validation/errors.go
package validation

import (
	stderrors "errors"
	"fmt"
	"strings"

	apperrors "carematch/internal/common/errors"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ValidationError rejects a whole payload and lists every offending field.
type ValidationError struct {
	Subject string       `json:"subject"`
	Fields  []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s validation failed: %s", e.Subject, strings.Join(e.GetErrorMessages(), "; "))
}

func (e *ValidationError) GetErrorMessages() []string {
	messages := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		messages[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return messages
}

func (e *ValidationError) HasErrors(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field || strings.HasPrefix(f.Field, field+"[") {
			return true
		}
	}
	return false
}

func newValidationError(subject string, fields []FieldError) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Subject: subject, Fields: fields}
}

// AsStandardError turns a *ValidationError anywhere in err's chain into a
// VALIDATION_FAILED error carrying the field report. Other errors pass through.
func AsStandardError(err error) error {
	var verr *ValidationError
	if stderrors.As(err, &verr) {
		return apperrors.NewValidationFailedError(verr, verr.Fields)
	}
	return err
}
