// internal/matching/summary.go
package matching

import (
	"strings"

	"carematch/internal/models"
)

const wellMatchedSummary = "Well matched to your care needs across all dimensions."

// Summarize renders the breakdown as text. Deficient dimensions come first,
// then excess ones, each group in fixed dimension order.
func Summarize(details []models.DimensionDetail) string {
	var deficient, excess []string
	for _, d := range details {
		switch d.Status {
		case models.StatusDeficient:
			deficient = append(deficient, d.Dimension.Label())
		case models.StatusExcess:
			excess = append(excess, d.Dimension.Label())
		}
	}

	var sentences []string
	if len(deficient) > 0 {
		sentences = append(sentences, "May not fully meet your "+joinNames(deficient)+" needs.")
	}
	if len(excess) > 0 {
		sentences = append(sentences, "Exceeds your "+joinNames(excess)+" needs.")
	}
	if len(sentences) == 0 {
		return wellMatchedSummary
	}
	return strings.Join(sentences, " ")
}

func joinNames(names []string) string {
	switch len(names) {
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
}
