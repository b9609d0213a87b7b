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

// historySetup loads minimal configuration needed for history operations.
func historySetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	contract.SetLogLevel(viper.GetString("log-level"))

	backend, err := contract.ParseBackend(viper.GetString("history-backend"))
	if err != nil {
		return err
	}
	connStr := viper.GetString("history-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// openHistoryStore opens the configured history store or exits.
func openHistoryStore() contract.HistoryStore {
	store, err := iostore.NewHistoryStore(cfg.HistoryBackend, cfg.HistoryDBConnect)
	if err != nil {
		contract.LogFatal("Failed to open report history", err)
	}
	return store
}

// historyCmd focused on report history.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage report run tracking and exports",
	Long: `Manage the report history.

When --history-backend is set, every report run is stored with:
- Run metadata (uuid, timestamps, configuration, log entries read)
- Every row of the report it produced

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, default)

Subcommands:
  status - Show tracking statistics
  export - Export data to Parquet for analytics
  clear  - Remove all tracking data

Examples:
  # Check tracking status
  newslog history status --history-backend sqlite

  # Export for analysis in pandas/DuckDB
  newslog history export --history-backend sqlite --output-file history`,
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display report history statistics and connection details",
	Long: `Show the number of tracked runs and rows, the first and last run times
and the table sizes of the report history.

Examples:
  newslog history status --history-backend sqlite`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := openHistoryStore()
		defer func() { _ = store.Close() }()

		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		iostore.PrintHistoryStatus(os.Stdout, status)
	},
}

// historyExportCmd exports report history to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export report history to Parquet for BI tools and analytics",
	Long: `Export all tracked runs and report rows to Parquet.

Writes two files next to --output-file:
- <output-file>.report_runs.parquet
- <output-file>.report_rows.parquet

Requires: --output-file parameter

Examples:
  newslog history export --history-backend sqlite --output-file history
  duckdb -c "SELECT * FROM read_parquet('history.report_rows.parquet') LIMIT 10"`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		var store contract.HistoryStore
		if cfg.HistoryBackend != schema.NoneBackend {
			store = openHistoryStore()
			defer func() { _ = store.Close() }()
		}
		if err := iostore.ExecuteHistoryExport(os.Stdout, store, cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export report history", err)
		}
	},
}

// historyClearCmd clears the report history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all report history",
	Long: `Delete all tracked report runs and rows.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the history tables

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  newslog history export --history-backend sqlite --output-file backup
  newslog history clear --history-backend sqlite`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		dbFilePath := cfg.HistoryDBConnect
		if dbFilePath == "" {
			dbFilePath = iostore.GetHistoryDBFilePath()
		}
		if err := iostore.ClearHistory(cfg.HistoryBackend, dbFilePath, cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear report history", err)
		}
		fmt.Println("Report history cleared successfully.")
	},
}
