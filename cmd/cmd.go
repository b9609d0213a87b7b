// Package cmd defines the command-line interface for newslog.
package cmd

import (
	"github.com/huangsam/newslog/internal/contract"
	"github.com/huangsam/newslog/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(articlesCmd)
	rootCmd.AddCommand(authorsCmd)
	rootCmd.AddCommand(errorsCmd)
	rootCmd.AddCommand(sourceCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the source subcommands to the parent source command
	sourceCmd.AddCommand(sourceStatusCmd)
	sourceCmd.AddCommand(sourceMigrateCmd)
	sourceCmd.AddCommand(sourceClearCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyClearCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of top articles to display")
	rootCmd.PersistentFlags().Float64("error-threshold", contract.DefaultErrorThreshold, "Error rate percentage a day must exceed to be reported")
	rootCmd.PersistentFlags().String("error-statuses", contract.DefaultErrorStatuses, "Comma-separated status codes or classes counted as errors (e.g. 404,5xx)")
	rootCmd.PersistentFlags().String("timezone", contract.DefaultTimezone, "IANA timezone used to group requests into days")
	rootCmd.PersistentFlags().String("path-prefix", contract.DefaultPathPrefix, "Request path prefix that precedes the article slug")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers for counting views")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or table or csv or json or yaml or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("source-backend", string(schema.PostgreSQLBackend), "Record source backend: postgresql or mysql or sqlite")
	rootCmd.PersistentFlags().String("source-db-connect", "", "Record source connection string (defaults to 'host=localhost port=5432 dbname=news')")
	rootCmd.PersistentFlags().String("history-backend", "", "Report history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Report history connection string (must differ from source-db-connect)")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Diagnostic log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("metrics-file", "", "Optional path to write Prometheus textfile metrics to")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of sourceMigrateCmd to Viper
	sourceMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(sourceMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding source migrate flags", err)
	}
}
