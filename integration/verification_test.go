//go:build basic

// Package integration contains end-to-end tests for the newslog binary.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
// Or with containers: go test -tags database ./integration
package integration

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// sqliteEnv returns the environment for a SQLite source in dir.
func sqliteEnv(dir string) map[string]string {
	return map[string]string{
		"NEWSLOG_SOURCE_BACKEND":     "sqlite",
		"NEWSLOG_SOURCE_DB_CONNECT":  filepath.Join(dir, "news.db"),
		"NEWSLOG_HISTORY_BACKEND":    "sqlite",
		"NEWSLOG_HISTORY_DB_CONNECT": filepath.Join(dir, "history.db"),
	}
}

// seedSQLite migrates and seeds a SQLite source through the binary.
func seedSQLite(t *testing.T, dir string, env map[string]string) {
	t.Helper()
	_, err := runNewslog(t, dir, env, "source", "migrate")
	require.NoError(t, err)

	db, err := sql.Open("sqlite", env["NEWSLOG_SOURCE_DB_CONNECT"])
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	seedNews(t, db)
}

// TestReportVerificationSQLite checks the text report and that two runs match byte for byte.
func TestReportVerificationSQLite(t *testing.T) {
	dir := t.TempDir()
	env := sqliteEnv(dir)
	seedSQLite(t, dir, env)

	first := filepath.Join(dir, "first.txt")
	second := filepath.Join(dir, "second.txt")
	_, err := runNewslog(t, dir, env, "report", "--output-file", first)
	require.NoError(t, err)
	_, err = runNewslog(t, dir, env, "report", "--output-file", second)
	require.NoError(t, err)

	firstBytes, err := os.ReadFile(first)
	require.NoError(t, err)
	secondBytes, err := os.ReadFile(second)
	require.NoError(t, err)

	assert.Equal(t, expectedScenarioText, string(firstBytes))
	assert.Equal(t, firstBytes, secondBytes)
}

// TestReportHeaderOnStdout checks that printing to stdout adds the header.
func TestReportHeaderOnStdout(t *testing.T) {
	dir := t.TempDir()
	env := sqliteEnv(dir)
	seedSQLite(t, dir, env)

	out, err := runNewslog(t, dir, env)
	require.NoError(t, err)
	assert.Equal(t, "\n*** Log analysis reporting tool ***\n\n"+expectedScenarioText, out)
}

// TestReportJSONSQLite checks the structured report.
func TestReportJSONSQLite(t *testing.T) {
	dir := t.TempDir()
	env := sqliteEnv(dir)
	seedSQLite(t, dir, env)

	out, err := runNewslog(t, dir, env, "report", "--output", "json")
	require.NoError(t, err)
	assertScenarioJSON(t, out)
}

// TestErrorsThresholdSQLite checks that a higher threshold hides the day.
func TestErrorsThresholdSQLite(t *testing.T) {
	dir := t.TempDir()
	env := sqliteEnv(dir)
	seedSQLite(t, dir, env)

	out, err := runNewslog(t, dir, env, "errors", "--error-threshold", "20")
	require.NoError(t, err)
	assert.Contains(t, out, "3. On which days did more than 20% of requests lead to errors?")
	assert.NotContains(t, out, "July 01, 2016")
	assert.NotContains(t, out, "views")

	out, err = runNewslog(t, dir, env, "errors", "--error-threshold", "19.9")
	require.NoError(t, err)
	assert.Contains(t, out, "July 01, 2016 - 20.0% errors")
}

// TestHistorySQLite checks that runs are tracked and can be cleared.
func TestHistorySQLite(t *testing.T) {
	dir := t.TempDir()
	env := sqliteEnv(dir)
	seedSQLite(t, dir, env)

	_, err := runNewslog(t, dir, env, "report", "--output-file", filepath.Join(dir, "report.txt"))
	require.NoError(t, err)

	out, err := runNewslog(t, dir, env, "history", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "sqlite")

	_, err = runNewslog(t, dir, env, "history", "export", "--output-file", filepath.Join(dir, "history"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "history.report_rows.parquet"))
	assert.NoError(t, err)

	_, err = runNewslog(t, dir, env, "history", "clear")
	require.NoError(t, err)
}

// TestMissingSourceFails checks that an unreachable source exits non-zero.
func TestMissingSourceFails(t *testing.T) {
	dir := t.TempDir()
	env := map[string]string{
		"NEWSLOG_SOURCE_BACKEND":    "mysql",
		"NEWSLOG_SOURCE_DB_CONNECT": "user:pass@tcp(127.0.0.1:1)/news",
	}

	out, err := runNewslog(t, dir, env, "report")
	assert.Error(t, err)
	assert.Empty(t, out)
}
