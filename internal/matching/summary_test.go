// internal/matching/summary_test.go
package matching

import (
	"testing"

	"carematch/internal/models"

	"github.com/stretchr/testify/assert"
)

func details(statuses ...models.Status) []models.DimensionDetail {
	out := make([]models.DimensionDetail, len(statuses))
	for i, s := range statuses {
		out[i] = models.DimensionDetail{Dimension: models.Dimensions[i], Status: s}
	}
	return out
}

func TestSummarize(t *testing.T) {
	const (
		def = models.StatusDeficient
		sat = models.StatusSatisfied
		exc = models.StatusExcess
	)

	tests := []struct {
		name     string
		details  []models.DimensionDetail
		expected string
	}{
		{
			name:     "well matched",
			details:  details(sat, sat, sat, sat),
			expected: "Well matched to your care needs across all dimensions.",
		},
		{
			name:     "single deficiency",
			details:  details(def, sat, sat, sat),
			expected: "May not fully meet your medical needs.",
		},
		{
			name:     "deficiencies listed before excess",
			details:  details(def, exc, def, sat),
			expected: "May not fully meet your medical and spiritual needs. Exceeds your life care needs.",
		},
		{
			name:     "three deficiencies",
			details:  details(def, def, sat, def),
			expected: "May not fully meet your medical, life care and traffic needs.",
		},
		{
			name:     "excess only",
			details:  details(sat, sat, sat, exc),
			expected: "Exceeds your traffic needs.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Summarize(tt.details))
			assert.Equal(t, Summarize(tt.details), Summarize(tt.details))
		})
	}
}
