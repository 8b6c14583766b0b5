// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
)

const Version = "1"

// Builtin lists the job types this service implements.
func Builtin() *ActivityRegistry {
	return &ActivityRegistry{
		Version: Version,
		Activities: []Activity{
			{
				TaskType:    "match-providers",
				DisplayName: "Match Providers",
				Description: "Ranks the stored providers for an applicant and returns the best matches.",
				Category:    "matching",
				Inputs:      []string{"applicant", "topN"},
				Outputs:     []string{"matches", "matchCount"},
				ErrorCodes:  []string{"VALIDATION_FAILED", "PARSE_ERROR", "PROVIDER_STORE_FAILED"},
				TimeoutMs:   30000,
				Retries:     3,
			},
			{
				TaskType:    "register-provider",
				DisplayName: "Register Provider",
				Description: "Validates and stores a provider questionnaire and returns its capability vector.",
				Category:    "providers",
				Inputs:      []string{"provider"},
				Outputs:     []string{"providerId", "capability"},
				ErrorCodes:  []string{"VALIDATION_FAILED", "PARSE_ERROR", "PROVIDER_STORE_FAILED", "BUSINESS_RULE_VIOLATION"},
				TimeoutMs:   30000,
				Retries:     3,
			},
		},
	}
}

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}
	return &reg, nil
}

func (r *ActivityRegistry) Lookup(taskType string) (Activity, bool) {
	for _, a := range r.Activities {
		if a.TaskType == taskType {
			return a, true
		}
	}
	return Activity{}, false
}
