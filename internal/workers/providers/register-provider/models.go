// internal/workers/providers/register-provider/models.go
package registerprovider

import (
	"encoding/json"

	"carematch/internal/models"
)

type Input struct {
	Provider json.RawMessage `json:"provider"`
}

type Output struct {
	ProviderID string             `json:"providerId"`
	Capability models.LevelVector `json:"capability"`
}
