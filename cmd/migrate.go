package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ekaya-inc/ekaya-eventbot/pkg/adapters/datasource/postgres"
	"github.com/ekaya-inc/ekaya-eventbot/pkg/config"
	"github.com/ekaya-inc/ekaya-eventbot/pkg/database"
	"github.com/ekaya-inc/ekaya-eventbot/pkg/logging"
)

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	var down bool

	c := &cobra.Command{
		Use:   "migrate",
		Short: "Create and seed the demo events table on a Postgres datastore",
		Long: `migrate applies the bundled fixture migrations, which create the events table
and insert a handful of sample events. It is meant for local demos and tests;
production deployments point eventbot at an existing events table.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(opts, down)
		},
	}
	c.Flags().BoolVar(&down, "down", false, "roll the fixtures back instead")
	return c
}

func runMigrate(opts *rootOptions, down bool) error {
	// No completion calls happen here, so LLM settings are not validated.
	cfg, err := config.Read(opts.configPath, opts.version)
	if err != nil {
		return err
	}
	if cfg.Datastore.Type != "postgres" {
		return fmt.Errorf("migrate supports the postgres datastore only, configured type is %q", cfg.Datastore.Type)
	}

	logger, err := logging.NewLogger(cfg.Env, opts.verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.OpenSQL(postgres.ConnectionString(cfg.Datastore.DatasourceConfig()))
	if err != nil {
		return err
	}
	defer db.Close()

	if down {
		return database.DropFixtures(db, logger)
	}
	return database.RunMigrations(db, logger)
}
