// internal/matching/compare.go
package matching

import "carematch/internal/models"

const (
	// DeficientBelow is the delta under which capability is materially below need.
	DeficientBelow = -0.25
	// ExcessAbove is the delta over which capability clearly exceeds need.
	ExcessAbove = 1.0
)

// Compare classifies one dimension and computes its bounded satisfaction ratio.
// Status depends only on userVal and homeVal.
func Compare(dimension models.Dimension, userVal, homeVal float64) models.DimensionDetail {
	delta := round2(homeVal - userVal)

	status := models.StatusSatisfied
	switch {
	case delta < DeficientBelow:
		status = models.StatusDeficient
	case delta > ExcessAbove:
		status = models.StatusExcess
	}

	ratio := 1.0
	if userVal > 0 && status != models.StatusExcess {
		ratio = clamp(homeVal/userVal, 0, 1)
	}

	return models.DimensionDetail{
		Dimension: dimension,
		UserVal:   userVal,
		HomeVal:   homeVal,
		Status:    status,
		Ratio:     ratio,
	}
}

// CompareAll produces the four details in fixed dimension order.
func CompareAll(need, capability models.LevelVector) []models.DimensionDetail {
	needs := need.Values()
	caps := capability.Values()

	details := make([]models.DimensionDetail, len(models.Dimensions))
	for i, d := range models.Dimensions {
		details[i] = Compare(d, needs[i], caps[i])
	}
	return details
}
