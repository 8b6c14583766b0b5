// internal/workers/matching/match-providers/models.go
package matchproviders

import (
	"encoding/json"

	"carematch/internal/models"
)

type Input struct {
	Applicant json.RawMessage `json:"applicant"`
	TopN      int             `json:"topN,omitempty"`
}

type Output struct {
	Matches    []models.MatchResult `json:"matches"`
	MatchCount int                  `json:"matchCount"`
}
