// internal/workers/matching/match-providers/config.go
package matchproviders

import "time"

type Config struct {
	Timeout time.Duration
	// TopN applies when the job carries no topN variable.
	TopN int
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
		TopN:    3,
	}
}
