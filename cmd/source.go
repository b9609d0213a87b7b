package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/newslog/internal/contract"
	"github.com/huangsam/newslog/internal/iostore"
	"github.com/huangsam/newslog/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// sourceSetup loads minimal configuration needed for record source operations.
// It does not open the source, so migrations can run on a fresh database.
func sourceSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	contract.SetLogLevel(viper.GetString("log-level"))

	backend, err := contract.ParseBackend(viper.GetString("source-backend"))
	if err != nil {
		return err
	}
	if backend == schema.NoneBackend {
		return fmt.Errorf("a record source backend is required")
	}
	connStr := contract.ResolveSourceConnect(backend, viper.GetString("source-db-connect"))
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.SourceBackend = backend
	cfg.SourceDBConnect = connStr
	return nil
}

// sourceSetupWrapper wraps sourceSetup to provide PreRunE for source commands.
func sourceSetupWrapper(_ *cobra.Command, _ []string) error {
	return sourceSetup()
}

// sourceCmd focused on the record source.
//
// Note: Source subcommands use minimal initialization (sourceSetup) instead of
// the full sharedSetup used by report commands.
var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Manage the news database the reports are computed from",
	Long: `Manage the record source: the articles, authors and log tables.

Supported backends: PostgreSQL (default), MySQL, SQLite

Subcommands:
  status  - Show connectivity and row counts
  migrate - Create or upgrade the news tables
  clear   - Drop the news tables

Examples:
  # Check the default PostgreSQL source
  newslog source status

  # Provision a local SQLite source
  newslog source migrate --source-backend sqlite --source-db-connect news.db`,
}

// sourceStatusCmd shows record source status.
var sourceStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display record source row counts and connection details",
	Long: `Show connectivity and the number of rows in the articles, authors and
log tables.

Examples:
  newslog source status`,
	PreRunE: sourceSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store, err := iostore.NewSourceStore(cfg.SourceBackend, cfg.SourceDBConnect)
		if err != nil {
			contract.LogFatal("Failed to connect to record source", err)
		}
		defer func() { _ = store.Close() }()

		status, err := store.GetStatus(rootCtx)
		if err != nil {
			contract.LogFatal("Failed to get record source status", err)
		}
		iostore.PrintSourceStatus(os.Stdout, status)
	},
}

// sourceMigrateCmd runs database migrations for the record source.
var sourceMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run record source schema migrations (upgrades/downgrades)",
	Long: `Manage schema versions of the news tables.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  newslog source migrate

  # Migrate to specific version
  newslog source migrate --target-version 1

  # Rollback to initial state
  newslog source migrate --target-version 0`,
	PreRunE: sourceSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		msg, err := iostore.MigrateSource(cfg.SourceBackend, cfg.SourceDBConnect, viper.GetInt("target-version"))
		if err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
		fmt.Println(msg)
	},
}

// sourceClearCmd drops the news tables.
var sourceClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop the news tables from the record source",
	Long: `Drop the articles, authors and log tables together with the migration
bookkeeping table.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the tables

WARNING: This action cannot be undone.

Examples:
  newslog source clear --source-backend sqlite --source-db-connect news.db`,
	PreRunE: sourceSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iostore.ClearSource(cfg.SourceBackend, cfg.SourceDBConnect); err != nil {
			contract.LogFatal("Failed to clear record source", err)
		}
		fmt.Println("Record source cleared successfully.")
	},
}
