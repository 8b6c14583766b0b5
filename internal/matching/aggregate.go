// internal/matching/aggregate.go
package matching

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"carematch/internal/models"
)

const weightTolerance = 1e-6

// ConfigurationError reports an unusable engine setup. It is raised at
// construction time, never per request.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "matching configuration invalid: " + e.Reason
}

// Weights assigns each dimension its share of the total score.
type Weights map[models.Dimension]float64

func DefaultWeights() Weights {
	return Weights{
		models.DimensionMedical:   0.35,
		models.DimensionLifeCare:  0.30,
		models.DimensionSpiritual: 0.15,
		models.DimensionTraffic:   0.20,
	}
}

var configKeys = map[string]models.Dimension{
	"medical":   models.DimensionMedical,
	"life_care": models.DimensionLifeCare,
	"spiritual": models.DimensionSpiritual,
	"traffic":   models.DimensionTraffic,
}

// ParseWeights converts a config map keyed by medical, life_care, spiritual
// and traffic. An empty map yields the default weights.
func ParseWeights(raw map[string]float64) (Weights, error) {
	if len(raw) == 0 {
		return DefaultWeights(), nil
	}
	w := make(Weights, len(raw))
	for k, v := range raw {
		d, ok := configKeys[strings.ToLower(k)]
		if !ok {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("unknown weight key %q", k)}
		}
		w[d] = v
	}
	return w, nil
}

type Aggregator struct {
	weights [4]float64
}

// NewAggregator fails fast unless every dimension has a non-negative weight
// and the weights sum to 1.
func NewAggregator(w Weights) (*Aggregator, error) {
	if len(w) == 0 {
		return nil, &ConfigurationError{Reason: "weight map is empty"}
	}

	known := make(map[models.Dimension]bool, len(models.Dimensions))
	for _, d := range models.Dimensions {
		known[d] = true
	}
	var unknown []string
	for d := range w {
		if !known[d] {
			unknown = append(unknown, string(d))
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &ConfigurationError{Reason: "unknown dimensions: " + strings.Join(unknown, ", ")}
	}

	agg := &Aggregator{}
	sum := 0.0
	for i, d := range models.Dimensions {
		v, ok := w[d]
		if !ok {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("missing weight for %s", d)}
		}
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("invalid weight %v for %s", v, d)}
		}
		agg.weights[i] = v
		sum += v
	}
	if math.Abs(sum-1) > weightTolerance {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("weights sum to %.6f, want 1", sum)}
	}
	return agg, nil
}

// Aggregate returns round(100 * sum(weight * ratio)) bounded to [0, 100].
// Ratios are given in fixed dimension order.
func (a *Aggregator) Aggregate(ratios [4]float64) int {
	total := 0.0
	for i, r := range ratios {
		total += a.weights[i] * clamp(r, 0, 1)
	}
	return int(clamp(math.Round(100*total), 0, 100))
}

// Score aggregates the ratios carried by a breakdown.
func (a *Aggregator) Score(details []models.DimensionDetail) int {
	var ratios [4]float64
	for i := 0; i < len(details) && i < len(ratios); i++ {
		ratios[i] = details[i].Ratio
	}
	return a.Aggregate(ratios)
}

// Weights returns the weights in fixed dimension order.
func (a *Aggregator) Weights() Weights {
	w := make(Weights, len(models.Dimensions))
	for i, d := range models.Dimensions {
		w[d] = a.weights[i]
	}
	return w
}
