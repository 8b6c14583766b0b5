// internal/models/match.go
package models

import "strings"

type Dimension string

const (
	DimensionMedical   Dimension = "Medical"
	DimensionLifeCare  Dimension = "Life Care"
	DimensionSpiritual Dimension = "Spiritual"
	DimensionTraffic   Dimension = "Traffic"
)

// Dimensions is the fixed order used for every breakdown.
var Dimensions = [4]Dimension{
	DimensionMedical,
	DimensionLifeCare,
	DimensionSpiritual,
	DimensionTraffic,
}

// Label is the lower-case name used in summaries.
func (d Dimension) Label() string {
	return strings.ToLower(string(d))
}

type Status string

const (
	StatusDeficient Status = "Deficient"
	StatusSatisfied Status = "Satisfied"
	StatusExcess    Status = "Excess"
)

// LevelVector holds one 0-5 level per dimension.
type LevelVector struct {
	Medical   float64 `json:"medical"`
	LifeCare  float64 `json:"life_care"`
	Spiritual float64 `json:"spiritual"`
	Traffic   float64 `json:"traffic"`
}

// Values returns the levels in Dimensions order.
func (v LevelVector) Values() [4]float64 {
	return [4]float64{v.Medical, v.LifeCare, v.Spiritual, v.Traffic}
}

type DimensionDetail struct {
	Dimension Dimension `json:"dimension"`
	UserVal   float64   `json:"user_val"`
	HomeVal   float64   `json:"home_val"`
	Status    Status    `json:"status"`
	Ratio     float64   `json:"ratio"`
}

type MatchResult struct {
	Home             ProviderProfile   `json:"home"`
	TotalMatchScore  int               `json:"total_match_score"`
	DimensionDetails []DimensionDetail `json:"dimension_details"`
	Summary          string            `json:"summary"`
}

// CapabilityReport is returned to a provider after registration.
type CapabilityReport struct {
	Home       ProviderProfile `json:"home"`
	Capability LevelVector     `json:"capability"`
}
