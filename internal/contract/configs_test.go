package contract

import (
	"path/filepath"
	"testing"

	"github.com/huangsam/newslog/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validInput returns a raw input that passes validation with a SQLite source.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Limit:           DefaultResultLimit,
		ErrorThreshold:  DefaultErrorThreshold,
		ErrorStatuses:   DefaultErrorStatuses,
		Timezone:        DefaultTimezone,
		Workers:         2,
		Output:          "text",
		Color:           "yes",
		SourceBackend:   "sqlite",
		SourceDBConnect: "news.db",
		HistoryBackend:  "none",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError string
	}{
		{name: "valid minimal config"},
		{name: "limit zero", mutate: func(in *ConfigRawInput) { in.Limit = 0 }, expectError: "limit must be greater than 0"},
		{name: "limit too large", mutate: func(in *ConfigRawInput) { in.Limit = MaxResultLimit + 1 }, expectError: "cannot exceed"},
		{name: "workers zero", mutate: func(in *ConfigRawInput) { in.Workers = 0 }, expectError: "workers must be greater than 0"},
		{name: "bad output", mutate: func(in *ConfigRawInput) { in.Output = "xml" }, expectError: "invalid output format"},
		{name: "parquet without file", mutate: func(in *ConfigRawInput) { in.Output = "parquet" }, expectError: "--output-file is required"},
		{name: "parquet with file", mutate: func(in *ConfigRawInput) { in.Output = "parquet"; in.OutputFile = "out.parquet" }},
		{name: "bad color", mutate: func(in *ConfigRawInput) { in.Color = "maybe" }, expectError: "invalid --color value"},
		{name: "negative threshold", mutate: func(in *ConfigRawInput) { in.ErrorThreshold = -0.1 }, expectError: "error threshold must be between"},
		{name: "threshold above 100", mutate: func(in *ConfigRawInput) { in.ErrorThreshold = 100.1 }, expectError: "error threshold must be between"},
		{name: "bad status", mutate: func(in *ConfigRawInput) { in.ErrorStatuses = "40" }, expectError: "invalid error status"},
		{name: "bad timezone", mutate: func(in *ConfigRawInput) { in.Timezone = "Mars/Olympus" }, expectError: "invalid timezone"},
		{name: "missing source", mutate: func(in *ConfigRawInput) { in.SourceBackend = "" }, expectError: "a record source backend is required"},
		{name: "unknown source", mutate: func(in *ConfigRawInput) { in.SourceBackend = "oracle" }, expectError: "invalid backend"},
		{name: "mysql without tcp", mutate: func(in *ConfigRawInput) {
			in.SourceBackend = "mysql"
			in.SourceDBConnect = "user:pass@localhost/news"
		}, expectError: "@tcp("},
		{name: "mysql valid", mutate: func(in *ConfigRawInput) {
			in.SourceBackend = "mysql"
			in.SourceDBConnect = "user:pass@tcp(localhost:3306)/news"
		}},
		{name: "postgres without dbname", mutate: func(in *ConfigRawInput) {
			in.SourceBackend = "postgresql"
			in.SourceDBConnect = "host=localhost"
		}, expectError: "dbname="},
		{name: "history mysql without connection", mutate: func(in *ConfigRawInput) { in.HistoryBackend = "mysql" }, expectError: "a connection string is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			if tt.mutate != nil {
				tt.mutate(input)
			}
			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	input := validInput()
	input.ErrorStatuses = ""
	input.Timezone = ""
	input.Output = "JSON"
	input.LogLevel = " Debug "

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, 3, cfg.ResultLimit)
	assert.Equal(t, 1.0, cfg.ErrorThreshold)
	assert.Equal(t, []string{"404"}, cfg.ErrorStatuses)
	assert.Equal(t, "UTC", cfg.Location.String())
	assert.Equal(t, DefaultPathPrefix, cfg.PathPrefix)
	assert.Equal(t, schema.JSONOut, cfg.Output)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.UseColors)
	assert.Equal(t, schema.SQLiteBackend, cfg.SourceBackend)
	assert.Equal(t, schema.NoneBackend, cfg.HistoryBackend)
	assert.Equal(t, schema.AllSections, cfg.Sections)
}

func TestProcessAndValidateKeepsSections(t *testing.T) {
	cfg := &Config{Sections: []schema.Section{schema.ErrorDaysSection}}
	require.NoError(t, ProcessAndValidate(cfg, validInput()))
	assert.Equal(t, []schema.Section{schema.ErrorDaysSection}, cfg.Sections)
	assert.True(t, cfg.Wants(schema.ErrorDaysSection))
	assert.False(t, cfg.Wants(schema.ArticlesSection))
}

func TestProcessAndValidateSQLiteConflict(t *testing.T) {
	dir := t.TempDir()
	input := validInput()
	input.SourceDBConnect = filepath.Join(dir, "news.db")
	input.HistoryBackend = "sqlite"
	input.HistoryDBConnect = filepath.Join(dir, ".", "news.db")

	err := ProcessAndValidate(&Config{}, input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "different SQLite database files")

	input.HistoryDBConnect = filepath.Join(dir, "history.db")
	assert.NoError(t, ProcessAndValidate(&Config{}, input))
}

func TestParseErrorStatuses(t *testing.T) {
	tests := []struct {
		input       string
		expected    []string
		expectError bool
	}{
		{input: "", expected: []string{"404"}},
		{input: "404", expected: []string{"404"}},
		{input: " 404 , 5XX ", expected: []string{"404", "5xx"}},
		{input: "404,404,5xx", expected: []string{"404", "5xx"}},
		{input: "410,,", expected: []string{"410"}},
		{input: ",", expectError: true},
		{input: "4040", expectError: true},
		{input: "600", expectError: true},
		{input: "4x4", expectError: true},
		{input: "abc", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseErrorStatuses(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseBackend(t *testing.T) {
	tests := []struct {
		input       string
		expected    schema.DatabaseBackend
		expectError bool
	}{
		{input: "", expected: schema.NoneBackend},
		{input: "  ", expected: schema.NoneBackend},
		{input: "SQLite", expected: schema.SQLiteBackend},
		{input: "mysql", expected: schema.MySQLBackend},
		{input: "postgresql", expected: schema.PostgreSQLBackend},
		{input: "none", expected: schema.NoneBackend},
		{input: "mongo", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBackend(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestResolveSourceConnect(t *testing.T) {
	assert.Equal(t, "custom.db", ResolveSourceConnect(schema.SQLiteBackend, "custom.db"))
	assert.Equal(t, DefaultSourceFile, ResolveSourceConnect(schema.SQLiteBackend, ""))
	assert.Equal(t, DefaultSourceConnect, ResolveSourceConnect(schema.PostgreSQLBackend, ""))
	assert.Empty(t, ResolveSourceConnect(schema.MySQLBackend, ""))
}

func TestRevalidateErrorRules(t *testing.T) {
	base := &Config{}
	require.NoError(t, ProcessAndValidate(base, validInput()))

	t.Run("keeps current values", func(t *testing.T) {
		cfg := base.Clone()
		require.NoError(t, RevalidateErrorRules(cfg, -1, "", ""))
		assert.Equal(t, 1.0, cfg.ErrorThreshold)
		assert.Equal(t, []string{"404"}, cfg.ErrorStatuses)
		assert.Equal(t, "UTC", cfg.Location.String())
	})

	t.Run("overrides", func(t *testing.T) {
		cfg := base.Clone()
		require.NoError(t, RevalidateErrorRules(cfg, 0, "5xx", "America/New_York"))
		assert.Equal(t, 0.0, cfg.ErrorThreshold)
		assert.Equal(t, []string{"5xx"}, cfg.ErrorStatuses)
		assert.Equal(t, "America/New_York", cfg.Location.String())
		assert.Equal(t, []string{"404"}, base.ErrorStatuses, "base config untouched")
	})

	t.Run("invalid values", func(t *testing.T) {
		assert.Error(t, RevalidateErrorRules(base.Clone(), 101, "", ""))
		assert.Error(t, RevalidateErrorRules(base.Clone(), -1, "x", ""))
		assert.Error(t, RevalidateErrorRules(base.Clone(), -1, "", "Nowhere/Town"))
	})
}

func TestRevalidateLimit(t *testing.T) {
	cfg := &Config{ResultLimit: 3}
	require.NoError(t, RevalidateLimit(cfg, 0))
	assert.Equal(t, 3, cfg.ResultLimit)

	require.NoError(t, RevalidateLimit(cfg, 10))
	assert.Equal(t, 10, cfg.ResultLimit)

	assert.Error(t, RevalidateLimit(cfg, -2))
	assert.Error(t, RevalidateLimit(cfg, MaxResultLimit+1))
	assert.Equal(t, 10, cfg.ResultLimit)
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{ErrorStatuses: []string{"404"}, Sections: []schema.Section{schema.ArticlesSection}}
	clone := cfg.Clone()
	clone.ErrorStatuses[0] = "500"
	clone.Sections[0] = schema.AuthorsSection

	assert.Equal(t, "404", cfg.ErrorStatuses[0])
	assert.Equal(t, schema.ArticlesSection, cfg.Sections[0])
}

func TestGetHistoryDBFilePath(t *testing.T) {
	assert.Equal(t, ".newslog_history.db", filepath.Base(GetHistoryDBFilePath()))
}
