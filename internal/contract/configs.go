package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/huangsam/newslog/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit    = 3
	MaxResultLimit        = 1000
	DefaultErrorThreshold = 1.0
	DefaultErrorStatuses  = "404"
	DefaultTimezone       = "UTC"
	DefaultPathPrefix     = "/article/"
	DefaultSourceConnect  = "host=localhost port=5432 dbname=news"
	DefaultSourceFile     = "news.db"
	DefaultLogLevel       = "warn"
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DayFormat is how a calendar day is displayed in reports.
const DayFormat = "January 02, 2006"

// statusPattern accepts an exact status code (404) or a class (4xx).
var statusPattern = regexp.MustCompile(`^[1-5]([0-9]{2}|xx)$`)

// Config holds the runtime configuration for a report run.
// This struct is the "final, validated" config.
type Config struct {
	ResultLimit    int
	ErrorThreshold float64
	ErrorStatuses  []string
	Location       *time.Location
	PathPrefix     string
	Workers        int
	Sections       []schema.Section

	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	SourceBackend   schema.DatabaseBackend
	SourceDBConnect string // Please use env var as this is plaintext

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	LogLevel    string
	MetricsFile string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	Limit            int     `mapstructure:"limit"`
	ErrorThreshold   float64 `mapstructure:"error-threshold"`
	ErrorStatuses    string  `mapstructure:"error-statuses"`
	Timezone         string  `mapstructure:"timezone"`
	PathPrefix       string  `mapstructure:"path-prefix"`
	Workers          int     `mapstructure:"workers"`
	Output           string  `mapstructure:"output"`
	OutputFile       string  `mapstructure:"output-file"`
	Width            int     `mapstructure:"width"`
	Color            string  `mapstructure:"color"`
	SourceBackend    string  `mapstructure:"source-backend"`
	SourceDBConnect  string  `mapstructure:"source-db-connect"`
	HistoryBackend   string  `mapstructure:"history-backend"`
	HistoryDBConnect string  `mapstructure:"history-db-connect"`
	LogLevel         string  `mapstructure:"log-level"`
	MetricsFile      string  `mapstructure:"metrics-file"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.ErrorStatuses = slices.Clone(c.ErrorStatuses)
	clone.Sections = slices.Clone(c.Sections)
	return &clone
}

// Wants reports whether the given section is part of this run.
func (c *Config) Wants(section schema.Section) bool {
	return slices.Contains(c.Sections, section)
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processErrorRules(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if len(cfg.Sections) == 0 {
		cfg.Sections = slices.Clone(schema.AllSections)
	}
	return nil
}

// validateSimpleInputs processes and validates all non-backend fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.MetricsFile = input.MetricsFile

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, table, csv, json, yaml, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for parquet output")
	}

	cfg.PathPrefix = input.PathPrefix
	if cfg.PathPrefix == "" {
		cfg.PathPrefix = DefaultPathPrefix
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(input.LogLevel))
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	return nil
}

// processErrorRules handles the error threshold, error statuses and timezone.
func processErrorRules(cfg *Config, input *ConfigRawInput) error {
	if input.ErrorThreshold < 0.0 || input.ErrorThreshold > 100.0 {
		return fmt.Errorf("error threshold must be between 0.0 and 100.0 (received %.2f)", input.ErrorThreshold)
	}
	cfg.ErrorThreshold = input.ErrorThreshold

	statuses, err := ParseErrorStatuses(input.ErrorStatuses)
	if err != nil {
		return err
	}
	cfg.ErrorStatuses = statuses

	tz := strings.TrimSpace(input.Timezone)
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("invalid timezone '%s': %w", tz, err)
	}
	cfg.Location = loc
	return nil
}

// RevalidateErrorRules applies per-request overrides of the error rules on
// top of an already validated cfg. A negative threshold and empty strings
// keep the current values.
func RevalidateErrorRules(cfg *Config, threshold float64, statuses, timezone string) error {
	input := &ConfigRawInput{
		ErrorThreshold: cfg.ErrorThreshold,
		ErrorStatuses:  strings.Join(cfg.ErrorStatuses, ","),
		Timezone:       cfg.Location.String(),
	}
	if threshold >= 0 {
		input.ErrorThreshold = threshold
	}
	if statuses != "" {
		input.ErrorStatuses = statuses
	}
	if timezone != "" {
		input.Timezone = timezone
	}
	return processErrorRules(cfg, input)
}

// RevalidateLimit applies a per-request result limit. Zero keeps the current value.
func RevalidateLimit(cfg *Config, limit int) error {
	if limit == 0 {
		return nil
	}
	if limit < 0 || limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, limit)
	}
	cfg.ResultLimit = limit
	return nil
}

// ParseErrorStatuses parses a comma-separated list like "404,5xx".
// An empty string falls back to DefaultErrorStatuses.
func ParseErrorStatuses(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		s = DefaultErrorStatuses
	}
	var statuses []string
	for part := range strings.SplitSeq(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		if !statusPattern.MatchString(part) {
			return nil, fmt.Errorf("invalid error status '%s', expected a code like 404 or a class like 5xx", part)
		}
		if !slices.Contains(statuses, part) {
			statuses = append(statuses, part)
		}
	}
	if len(statuses) == 0 {
		return nil, fmt.Errorf("at least one error status is required")
	}
	return statuses, nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ParseBackend lowercases and validates a backend name. Empty means none.
func ParseBackend(s string) (schema.DatabaseBackend, error) {
	if strings.TrimSpace(s) == "" {
		return schema.NoneBackend, nil
	}
	backend := schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("invalid backend '%s'. must be postgresql, mysql, sqlite, none", s)
	}
	return backend, nil
}

// validateBackendConfigs validates source and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Source Backend Validation ---
	source, err := ParseBackend(input.SourceBackend)
	if err != nil {
		return err
	}
	if source == schema.NoneBackend {
		return fmt.Errorf("a record source backend is required")
	}
	cfg.SourceBackend = source
	cfg.SourceDBConnect = ResolveSourceConnect(source, input.SourceDBConnect)
	if err := ValidateDatabaseConnectionString(cfg.SourceBackend, cfg.SourceDBConnect); err != nil {
		return err
	}

	// --- History Backend Validation ---
	history, err := ParseBackend(input.HistoryBackend)
	if err != nil {
		return err
	}
	cfg.HistoryBackend = history
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return err
	}

	if cfg.HistoryBackend == schema.SQLiteBackend && cfg.SourceBackend == schema.SQLiteBackend {
		historyPath := cfg.HistoryDBConnect
		if historyPath == "" {
			historyPath = GetHistoryDBFilePath()
		}
		if filepath.Clean(historyPath) == filepath.Clean(cfg.SourceDBConnect) {
			return fmt.Errorf("history and source storage must use different SQLite database files. Both resolve to %q", historyPath)
		}
	}
	return nil
}

// ResolveSourceConnect fills in the default connection string for a record
// source backend when none was given.
func ResolveSourceConnect(backend schema.DatabaseBackend, connStr string) string {
	if connStr != "" {
		return connStr
	}
	switch backend {
	case schema.PostgreSQLBackend:
		return DefaultSourceConnect
	case schema.SQLiteBackend:
		return DefaultSourceFile
	default:
		return ""
	}
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for report history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".newslog_history.db"
	}
	return filepath.Join(homeDir, ".newslog_history.db")
}
