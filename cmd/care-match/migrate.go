// cmd/care-match/migrate.go
package main

import (
	"fmt"

	"carematch/internal/common/config"
	"carematch/internal/common/database"

	"github.com/spf13/cobra"
)

var reindex bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long:  "Creates the providers table and, when Elasticsearch is enabled, the providers index. With --reindex every stored provider is copied into the index.",
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&reindex, "reindex", false, "Copy every stored provider into the search index")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Database.Driver != config.DriverPostgres {
		return fmt.Errorf("migrate requires database.driver %q, got %q", config.DriverPostgres, cfg.Database.Driver)
	}
	log := newLogger(cfg)
	ctx := cmd.Context()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return err
	}
	defer pg.Close()

	applied, err := pg.Migrate(ctx)
	if err != nil {
		return err
	}
	log.Info("migrations applied", map[string]interface{}{"files": applied})

	if !reindex {
		return nil
	}

	// bootstrap ensures the index exists when elasticsearch is enabled.
	a, err := bootstrap(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()
	if a.indexed == nil {
		return fmt.Errorf("--reindex requires database.elasticsearch.enabled")
	}

	n, err := a.indexed.Reindex(ctx, 500)
	if err != nil {
		return err
	}
	log.Info("providers reindexed", map[string]interface{}{"count": n})
	return nil
}
