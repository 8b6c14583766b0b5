// cmd/care-match/seed.go
package main

import (
	"carematch/internal/providers"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo providers into an empty store",
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// Seeding here is explicit; skip the automatic pass in bootstrap.
	cfg.Seed.Enabled = false
	log := newLogger(cfg)

	a, err := bootstrap(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	_, err = providers.Seed(cmd.Context(), a.store, log)
	return err
}
