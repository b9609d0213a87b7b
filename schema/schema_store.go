package schema

import "time"

// ReportRunRecord represents a row from the newslog_report_runs table.
type ReportRunRecord struct {
	RunID           int64
	RunUUID         string
	StartTime       time.Time
	EndTime         *time.Time
	RunDurationMs   *int32
	TotalLogEntries *int32
	ConfigParams    *string
}

// ReportRowRecord represents a row from the newslog_report_rows table.
// Label is an article title, an author name or a formatted day; Value is a
// view count or an error percentage.
type ReportRowRecord struct {
	RunID   int64   `db:"run_id"`
	Section string  `db:"section"`
	Rank    int32   `db:"row_rank"`
	Label   string  `db:"row_label"`
	Value   float64 `db:"row_value"`
}

// SourceStatus represents the status of the record source.
type SourceStatus struct {
	Backend    string           `json:"backend"`
	Database   string           `json:"database"`
	Connected  bool             `json:"connected"`
	TableSizes map[string]int64 `json:"table_sizes"`
}

// HistoryStatus represents the status of the report history store.
type HistoryStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     int64            `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}
