// Package parquet provides data structures and functions for exporting newslog
// reports and report history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/newslog/schema"
	"github.com/parquet-go/parquet-go"
)

// ReportRun represents a single report run with metadata.
// This struct maps to the newslog_report_runs database table.
type ReportRun struct {
	// RunID is the unique identifier for this run within its store
	RunID int64 `parquet:"run_id,snappy"`

	// RunUUID identifies the run across stores
	RunUUID string `parquet:"run_uuid,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TotalLogEntries is the number of log entries read (nullable)
	TotalLogEntries *int32 `parquet:"total_log_entries,optional,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// ReportRow is one ranked row of a stored report.
// This struct maps to the newslog_report_rows database table.
type ReportRow struct {
	RunID   int64   `parquet:"run_id,snappy"`
	Section string  `parquet:"section,dict,snappy"`
	Rank    int32   `parquet:"rank,snappy"`
	Label   string  `parquet:"label,snappy"`
	Value   float64 `parquet:"value,snappy"`
}

// ReportEntry is one line of a freshly built report. Fields that do not
// apply to the entry's section are null.
type ReportEntry struct {
	Section       string     `parquet:"section,dict,snappy"`
	Rank          int32      `parquet:"rank,snappy"`
	Label         string     `parquet:"label,snappy"`
	Slug          *string    `parquet:"slug,optional,snappy"`
	AuthorID      *int64     `parquet:"author_id,optional,snappy"`
	Views         *int64     `parquet:"views,optional,snappy"`
	Day           *time.Time `parquet:"day,optional,snappy"`
	TotalRequests *int64     `parquet:"total_requests,optional,snappy"`
	ErrorRequests *int64     `parquet:"error_requests,optional,snappy"`
	ErrorRate     *float64   `parquet:"error_rate,optional,snappy"`
}

// write encodes data to w using the schema inferred from T.
func write[T any](w io.Writer, data []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// writeFile creates outputPath and writes data to it.
func writeFile[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()
	return write(file, data)
}

// WriteReportRunsParquet writes report runs to a Parquet file.
func WriteReportRunsParquet(data []ReportRun, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteReportRowsParquet writes report rows to a Parquet file.
func WriteReportRowsParquet(data []ReportRow, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteReportEntries writes a report to w as Parquet.
func WriteReportEntries(w io.Writer, data []ReportEntry) error {
	return write(w, data)
}

// ConvertReportRunRecords converts schema.ReportRunRecord to ReportRun for Parquet export.
func ConvertReportRunRecords(records []schema.ReportRunRecord) []ReportRun {
	result := make([]ReportRun, len(records))
	for i, record := range records {
		result[i] = ReportRun{
			RunID:           record.RunID,
			RunUUID:         record.RunUUID,
			StartTime:       record.StartTime,
			EndTime:         record.EndTime,
			RunDurationMs:   record.RunDurationMs,
			TotalLogEntries: record.TotalLogEntries,
			ConfigParams:    record.ConfigParams,
		}
	}
	return result
}

// ConvertReportRowRecords converts schema.ReportRowRecord to ReportRow for Parquet export.
func ConvertReportRowRecords(records []schema.ReportRowRecord) []ReportRow {
	result := make([]ReportRow, len(records))
	for i, record := range records {
		result[i] = ReportRow(record)
	}
	return result
}

// ConvertReport flattens a report into entries, in section print order.
func ConvertReport(report *schema.Report) []ReportEntry {
	entries := make([]ReportEntry, 0, len(report.Articles)+len(report.Authors)+len(report.ErrorDays))
	for i, a := range report.Articles {
		slug := a.Article.Slug
		authorID := a.Article.AuthorID
		views := int64(a.Views)
		entries = append(entries, ReportEntry{
			Section:  string(schema.ArticlesSection),
			Rank:     int32(i + 1),
			Label:    a.Article.Title,
			Slug:     &slug,
			AuthorID: &authorID,
			Views:    &views,
		})
	}
	for i, a := range report.Authors {
		authorID := a.Author.ID
		views := int64(a.Views)
		entries = append(entries, ReportEntry{
			Section:  string(schema.AuthorsSection),
			Rank:     int32(i + 1),
			Label:    a.Author.Name,
			AuthorID: &authorID,
			Views:    &views,
		})
	}
	for i, d := range report.ErrorDays {
		day := d.Day
		total := int64(d.TotalRequests)
		errs := int64(d.ErrorRequests)
		rate := d.ErrorRate
		entries = append(entries, ReportEntry{
			Section:       string(schema.ErrorDaysSection),
			Rank:          int32(i + 1),
			Label:         d.Day.Format(time.DateOnly),
			Day:           &day,
			TotalRequests: &total,
			ErrorRequests: &errs,
			ErrorRate:     &rate,
		})
	}
	return entries
}
