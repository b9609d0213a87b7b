// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"errors"
	"time"

	"github.com/huangsam/newslog/schema"
)

// ErrSourceUnavailable marks any failure to reach or query the record source.
// It aborts a run before aggregation starts; no partial report is produced.
var ErrSourceUnavailable = errors.New("record source unavailable")

// RecordSource supplies the read-only collections the report is computed from.
// Implementations own their connection lifecycle; callers never open or close
// the underlying resource.
type RecordSource interface {
	// FetchArticles returns every article.
	FetchArticles(ctx context.Context) ([]schema.Article, error)

	// FetchAuthors returns every author.
	FetchAuthors(ctx context.Context) ([]schema.Author, error)

	// FetchLogEntries returns every access log entry.
	FetchLogEntries(ctx context.Context) ([]schema.LogEntry, error)
}

// SourceStore is a RecordSource backed by a database.
type SourceStore interface {
	RecordSource
	GetStatus(ctx context.Context) (schema.SourceStatus, error)
	Close() error
}

// HistoryStore defines the interface for tracking report runs and their rows.
type HistoryStore interface {
	// BeginRun creates a new report run and returns its unique ID
	BeginRun(startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the report run with completion data
	EndRun(runID int64, endTime time.Time, totalLogEntries int) error

	// RecordReport stores every row of a finished report
	RecordReport(runID int64, report *schema.Report) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns retrieves all report runs
	GetAllRuns() ([]schema.ReportRunRecord, error)

	// GetAllRows retrieves all report rows
	GetAllRows() ([]schema.ReportRowRecord, error)

	// Close closes the underlying connection
	Close() error
}

// StoreManager defines the interface for managing stores.
// This allows the store layer to be mocked for testing.
type StoreManager interface {
	GetSourceStore() SourceStore
	GetHistoryStore() HistoryStore
}
