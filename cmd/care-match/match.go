// cmd/care-match/match.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"carematch/internal/common/config"
	"carematch/internal/common/logger"
	"carematch/internal/common/validation"
	"carematch/internal/models"
	"carematch/internal/providers"
	"carematch/internal/service"

	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank providers for one applicant from local JSON files",
	Long:  "Reads an applicant profile and an optional provider list, ranks the providers in memory and prints the MatchResult JSON. Without --providers the three demo homes are used.",
	RunE:  runMatch,
}

var (
	matchApplicant string
	matchProviders string
	matchTopN      int
	matchOutput    string
)

func init() {
	matchCmd.Flags().StringVarP(&matchApplicant, "applicant", "a", "", "Path to input ApplicantProfile JSON file (required)")
	matchCmd.Flags().StringVarP(&matchProviders, "providers", "p", "", "Path to a JSON array of ProviderProfile")
	matchCmd.Flags().IntVarP(&matchTopN, "top-n", "n", 0, "Number of results (defaults to matching.top_n)")
	matchCmd.Flags().StringVarP(&matchOutput, "out", "o", "", "Path to output JSON file (defaults to stdout)")

	if err := matchCmd.MarkFlagRequired("applicant"); err != nil {
		panic(fmt.Sprintf("failed to mark applicant flag as required: %v", err))
	}

	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, _ []string) error {
	// A config file is optional here; without one the engine defaults apply.
	cfg := &config.Config{}
	if configPath != "" {
		loaded, err := config.LoadFromFile(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	log := logger.NewStructured("warn", "console")

	results, err := rankFromFiles(cmd.Context(), cfg, log, matchApplicant, matchProviders, matchTopN)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal match results: %w", err)
	}
	out = append(out, '\n')

	if matchOutput == "" {
		_, err = os.Stdout.Write(out)
		return err
	}
	if err := os.WriteFile(matchOutput, out, 0o644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", matchOutput, err)
	}
	return nil
}

// rankFromFiles ranks the providers in providersPath (or the demo homes) for
// the applicant in applicantPath using an in-memory store.
func rankFromFiles(ctx context.Context, cfg *config.Config, log logger.Logger, applicantPath, providersPath string, topN int) ([]models.MatchResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	raw, err := os.ReadFile(applicantPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read applicant file %s: %w", applicantPath, err)
	}
	applicant, err := validation.DecodeApplicant(raw)
	if err != nil {
		return nil, validation.AsStandardError(err)
	}

	pool := providers.DemoProviders()
	if providersPath != "" {
		pool, err = loadProviders(providersPath)
		if err != nil {
			return nil, err
		}
	}

	store := providers.NewMemoryStore()
	for _, p := range pool {
		if _, err := store.CreateProvider(ctx, p); err != nil {
			return nil, err
		}
	}

	engine, err := newEngine(cfg, log)
	if err != nil {
		return nil, err
	}
	return service.NewMatchService(engine, store, nil, log).Match(ctx, applicant, topN, "cli")
}

func loadProviders(path string) ([]models.ProviderProfile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read providers file %s: %w", path, err)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("providers file %s must hold a JSON array: %w", path, err)
	}

	pool := make([]models.ProviderProfile, 0, len(items))
	for i, item := range items {
		p, err := validation.DecodeProvider(item)
		if err != nil {
			return nil, fmt.Errorf("provider %d: %w", i, validation.AsStandardError(err))
		}
		pool = append(pool, p)
	}
	return pool, nil
}
