package iostore

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/newslog/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *schema.Report {
	return &schema.Report{
		Articles: []schema.ArticleViewCount{
			{Article: schema.Article{Slug: "a", Title: "Alpha", AuthorID: 1}, Views: 3},
			{Article: schema.Article{Slug: "b", Title: "Beta", AuthorID: 1}, Views: 1},
		},
		Authors: []schema.AuthorViewCount{{Author: schema.Author{ID: 1, Name: "Ann"}, Views: 4}},
		ErrorDays: []schema.DailyErrorStat{{
			Day: time.Date(2016, 7, 1, 0, 0, 0, 0, time.UTC), TotalRequests: 5, ErrorRequests: 1, ErrorRate: 20,
		}},
	}
}

func TestHistoryStore_NoneBackend(t *testing.T) {
	store, err := NewHistoryStore(schema.NoneBackend, "")
	require.NoError(t, err)
	require.NotNil(t, store)

	runID, err := store.BeginRun(time.Now(), map[string]any{"limit": 3})
	assert.NoError(t, err)
	assert.Equal(t, int64(0), runID)

	assert.NoError(t, store.RecordReport(1, sampleReport()))
	assert.NoError(t, store.EndRun(1, time.Now(), 10))

	status, err := store.GetStatus()
	assert.NoError(t, err)
	assert.False(t, status.Connected)

	runs, err := store.GetAllRuns()
	assert.NoError(t, err)
	assert.Empty(t, runs)

	assert.NoError(t, store.Close())
}

func TestHistoryStore_SQLite(t *testing.T) {
	store, err := NewHistoryStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	start := time.Now().Add(-time.Second)
	runID, err := store.BeginRun(start, map[string]any{"limit": 3, "sections": "articles,authors,errors"})
	require.NoError(t, err)
	assert.Greater(t, runID, int64(0))

	require.NoError(t, store.RecordReport(runID, sampleReport()))
	require.NoError(t, store.EndRun(runID, time.Now(), 5))

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)

	run := runs[0]
	assert.Equal(t, runID, run.RunID)
	_, err = uuid.Parse(run.RunUUID)
	assert.NoError(t, err, "run uuid should be a valid UUID")
	assert.WithinDuration(t, start, run.StartTime, time.Millisecond)
	require.NotNil(t, run.EndTime)
	require.NotNil(t, run.RunDurationMs)
	assert.GreaterOrEqual(t, *run.RunDurationMs, int32(1000))
	require.NotNil(t, run.TotalLogEntries)
	assert.Equal(t, int32(5), *run.TotalLogEntries)
	require.NotNil(t, run.ConfigParams)
	assert.Contains(t, *run.ConfigParams, `"limit":3`)

	rows, err := store.GetAllRows()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, schema.ReportRowRecord{RunID: runID, Section: "articles", Rank: 1, Label: "Alpha", Value: 3}, rows[0])
	assert.Equal(t, schema.ReportRowRecord{RunID: runID, Section: "authors", Rank: 1, Label: "Ann", Value: 4}, rows[2])
	assert.Equal(t, schema.ReportRowRecord{RunID: runID, Section: "errors", Rank: 1, Label: "2016-07-01", Value: 20}, rows[3])
}

func TestHistoryStore_Status(t *testing.T) {
	store, err := NewHistoryStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 0, status.TotalRuns)

	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)
	_, err = store.BeginRun(first, nil)
	require.NoError(t, err)
	lastID, err := store.BeginRun(second, nil)
	require.NoError(t, err)

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, 2, status.TotalRuns)
	assert.Equal(t, lastID, status.LastRunID)
	assert.True(t, second.Equal(status.LastRunTime))
	assert.True(t, first.Equal(status.OldestRunTime))
	assert.Equal(t, int64(2), status.TableSizes[reportRunsTable])
	assert.Equal(t, int64(0), status.TableSizes[reportRowsTable])

	var buf bytes.Buffer
	PrintHistoryStatus(&buf, status)
	assert.Contains(t, buf.String(), "Total Runs: 2")
	assert.Contains(t, buf.String(), "newslog_report_runs: 2 rows")
}

func TestHistoryStore_EmptyReport(t *testing.T) {
	store, err := NewHistoryStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	runID, err := store.BeginRun(time.Now(), nil)
	require.NoError(t, err)
	assert.NoError(t, store.RecordReport(runID, &schema.Report{}))
	assert.NoError(t, store.RecordReport(runID, nil))

	rows, err := store.GetAllRows()
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestHistoryStore_EndRunUnknown(t *testing.T) {
	store, err := NewHistoryStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	err = store.EndRun(42, time.Now(), 0)
	assert.Error(t, err)
}

func TestExecuteHistoryExport(t *testing.T) {
	store, err := NewHistoryStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	var out bytes.Buffer
	err = ExecuteHistoryExport(&out, store, filepath.Join(t.TempDir(), "x"))
	require.Error(t, err, "nothing to export yet")

	runID, err := store.BeginRun(time.Now(), nil)
	require.NoError(t, err)
	require.NoError(t, store.RecordReport(runID, sampleReport()))
	require.NoError(t, store.EndRun(runID, time.Now(), 5))

	base := filepath.Join(t.TempDir(), "history")
	require.NoError(t, ExecuteHistoryExport(&out, store, base))
	assert.Contains(t, out.String(), "Exported 1 report runs")
	assert.Contains(t, out.String(), "Exported 4 report rows")

	for _, suffix := range []string{".report_runs.parquet", ".report_rows.parquet"} {
		info, err := os.Stat(base + suffix)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestExecuteHistoryExport_Validation(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, ExecuteHistoryExport(&out, &MockHistoryStore{}, ""))
	assert.Error(t, ExecuteHistoryExport(&out, nil, "out"))
}
