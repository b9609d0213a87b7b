package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/huangsam/newslog/core"
	"github.com/huangsam/newslog/internal/contract"
	"github.com/huangsam/newslog/internal/iostore"
	"github.com/huangsam/newslog/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// storeManager is the global store manager instance.
var storeManager contract.StoreManager

// profilePrefix is set when profiling is enabled.
var profilePrefix string

// startProfiling starts CPU profiling when a prefix is configured.
func startProfiling(prefix string) error {
	if prefix == "" {
		return nil
	}
	cpuFile, err := os.Create(prefix + ".cpu.prof")
	if err != nil {
		return fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(cpuFile); err != nil {
		return fmt.Errorf("could not start CPU profiling: %w", err)
	}
	profilePrefix = prefix
	_, err = fmt.Fprintf(os.Stderr, "Profiling enabled. CPU profile: %s.cpu.prof, Memory profile: %s.mem.prof\n", prefix, prefix)
	return err
}

// StopProfiling stops profiling and writes the memory profile, if enabled.
func StopProfiling() error {
	if profilePrefix == "" {
		return nil
	}
	pprof.StopCPUProfile()

	memFile, err := os.Create(profilePrefix + ".mem.prof")
	if err != nil {
		return fmt.Errorf("could not create memory profile: %w", err)
	}
	defer func() { _ = memFile.Close() }()

	if err := pprof.WriteHeapProfile(memFile); err != nil {
		return fmt.Errorf("could not write memory profile: %w", err)
	}
	_, err = fmt.Fprintf(os.Stderr, "Profiling complete. Use 'go tool pprof %s.cpu.prof' to analyze.\n", profilePrefix)
	return err
}

// rootCmd is the command-line entrypoint for all other commands.
// Without a subcommand it prints the full report.
var rootCmd = &cobra.Command{
	Use:   "newslog",
	Short: "Report popular articles, popular authors and error-heavy days from a news site log.",
	Long: `Newslog reads the articles, authors and access log of a news site and answers:

1. What are the most popular three articles of all time?
2. Who are the most popular article authors of all time?
3. On which days did more than 1% of requests lead to errors?`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Args:               cobra.NoArgs,
	PreRunE:            sectionSetup(schema.AllSections...),
	Run:                runReport,
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	configureConfigFile()

	// Set environment variable prefix
	viper.SetEnvPrefix("NEWSLOG")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("limit", contract.DefaultResultLimit)
	viper.SetDefault("error-threshold", contract.DefaultErrorThreshold)
	viper.SetDefault("error-statuses", contract.DefaultErrorStatuses)
	viper.SetDefault("timezone", contract.DefaultTimezone)
	viper.SetDefault("path-prefix", contract.DefaultPathPrefix)
	viper.SetDefault("workers", contract.DefaultWorkers)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("source-backend", schema.PostgreSQLBackend)
	viper.SetDefault("source-db-connect", "")
	viper.SetDefault("history-backend", "")
	viper.SetDefault("history-db-connect", "")
	viper.SetDefault("color", "yes")
	viper.SetDefault("log-level", contract.DefaultLogLevel)
}

// configureConfigFile points viper at --config or the default .newslog.yaml.
func configureConfigFile() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".newslog") // Name of config file (without extension)
	viper.SetConfigType("yaml")     // We'll use YAML format
	viper.AddConfigPath(".")        // Look in the current directory
	viper.AddConfigPath("$HOME")    // Look in the home directory
}

// loadConfigFile reads the config file if present.
func loadConfigFile() error {
	configureConfigFile()
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}
	return nil
}

// sharedSetup unmarshals config, runs validation and opens the stores.
func sharedSetup(_ context.Context, _ *cobra.Command, _ []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	if err := startProfiling(viper.GetString("profile")); err != nil {
		return fmt.Errorf("failed to start profiling: %w", err)
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}
	contract.SetLogLevel(cfg.LogLevel)

	// 4. Open the stores with validated config
	if err := iostore.InitStores(cfg.SourceBackend, cfg.SourceDBConnect, cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return err
	}
	storeManager = iostore.Manager
	return nil
}

// sectionSetup returns a PreRunE that limits the run to the given sections.
func sectionSetup(sections ...schema.Section) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg.Sections = sections
		return sharedSetup(rootCtx, cmd, args)
	}
}

// runReport prints the configured sections.
func runReport(_ *cobra.Command, _ []string) {
	if err := core.ExecuteReport(rootCtx, cfg, storeManager); err != nil {
		if errors.Is(err, contract.ErrSourceUnavailable) {
			contract.LogFatal("Record source unavailable, no report produced", err)
		}
		contract.LogFatal("Cannot build report", err)
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

