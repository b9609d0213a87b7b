package iostore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/newslog/internal/contract"
	"github.com/huangsam/newslog/schema"
	"github.com/jmoiron/sqlx"
)

// Table names for report history.
const (
	reportRunsTable = "newslog_report_runs"
	reportRowsTable = "newslog_report_rows"
)

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db      *sqlx.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
// NoneBackend yields a store whose operations are no-ops.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	if backend == schema.NoneBackend {
		return &HistoryStoreImpl{backend: backend}, nil
	}
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = GetHistoryDBFilePath()
	}

	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}
	name, _ := driverName(backend)
	xdb := sqlx.NewDb(db, name)

	if err := createHistoryTables(xdb, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}
	return &HistoryStoreImpl{db: xdb, backend: backend}, nil
}

// createHistoryTables creates the report history tables.
func createHistoryTables(db *sqlx.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{reportRunsTable, getCreateReportRunsQuery(backend)},
		{reportRowsTable, getCreateReportRowsQuery(backend)},
	}
	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateReportRunsQuery returns the CREATE TABLE query for newslog_report_runs.
func getCreateReportRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(reportRunsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				run_uuid CHAR(36) NOT NULL,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms INT,
				total_log_entries INT,
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				run_uuid UUID NOT NULL,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms INT,
				total_log_entries INT,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				run_uuid TEXT NOT NULL,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				total_log_entries INTEGER,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreateReportRowsQuery returns the CREATE TABLE query for newslog_report_rows.
func getCreateReportRowsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(reportRowsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				section VARCHAR(16) NOT NULL,
				row_rank INT NOT NULL,
				row_label VARCHAR(512) NOT NULL,
				row_value DOUBLE NOT NULL,
				PRIMARY KEY (run_id, section, row_rank)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				section TEXT NOT NULL,
				row_rank INT NOT NULL,
				row_label TEXT NOT NULL,
				row_value DOUBLE PRECISION NOT NULL,
				PRIMARY KEY (run_id, section, row_rank)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				section TEXT NOT NULL,
				row_rank INTEGER NOT NULL,
				row_label TEXT NOT NULL,
				row_value REAL NOT NULL,
				PRIMARY KEY (run_id, section, row_rank)
			);
		`, quotedTableName)
	}
}

// BeginRun creates a new report run and returns its unique ID.
func (hs *HistoryStoreImpl) BeginRun(startTime time.Time, configParams map[string]any) (int64, error) {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(reportRunsTable, hs.backend)
	runUUID := uuid.NewString()

	var runID int64
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (run_uuid, start_time, config_params) VALUES ($1, $2, $3) RETURNING run_id`, quotedTableName)
		err = hs.db.QueryRow(query, runUUID, startTime, string(configJSON)).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (run_uuid, start_time, config_params) VALUES (?, ?, ?)`, quotedTableName)
		var result sql.Result
		result, err = hs.db.Exec(query, runUUID, formatTime(startTime, hs.backend), string(configJSON))
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert report run: %w", err)
	}
	return runID, nil
}

// EndRun updates the report run with completion data.
func (hs *HistoryStoreImpl) EndRun(runID int64, endTime time.Time, totalLogEntries int) error {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(reportRunsTable, hs.backend)

	var startTime dbTime
	query := hs.db.Rebind(fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = ?`, quotedTableName))
	if err := hs.db.Get(&startTime, query, runID); err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}
	durationMs := endTime.Sub(startTime.Time).Milliseconds()

	update := hs.db.Rebind(fmt.Sprintf(`UPDATE %s SET end_time = ?, run_duration_ms = ?, total_log_entries = ? WHERE run_id = ?`, quotedTableName))
	if _, err := hs.db.Exec(update, formatTime(endTime, hs.backend), durationMs, totalLogEntries, runID); err != nil {
		return fmt.Errorf("failed to update report run: %w", err)
	}
	return nil
}

// RecordReport stores every row of a report in one transaction.
func (hs *HistoryStoreImpl) RecordReport(runID int64, report *schema.Report) error {
	if hs.backend == schema.NoneBackend || hs.db == nil || report == nil {
		return nil
	}

	rows := reportRows(runID, report)
	if len(rows) == 0 {
		return nil
	}

	tx, err := hs.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := tx.Rebind(fmt.Sprintf(`INSERT INTO %s (run_id, section, row_rank, row_label, row_value) VALUES (?, ?, ?, ?, ?)`,
		quoteTableName(reportRowsTable, hs.backend)))
	for _, r := range rows {
		if _, err := tx.Exec(query, r.RunID, r.Section, r.Rank, r.Label, r.Value); err != nil {
			return fmt.Errorf("failed to insert report row: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit report rows: %w", err)
	}
	return nil
}

// reportRows flattens a report into ranked rows, one per section entry.
func reportRows(runID int64, report *schema.Report) []schema.ReportRowRecord {
	rows := make([]schema.ReportRowRecord, 0, len(report.Articles)+len(report.Authors)+len(report.ErrorDays))
	for i, a := range report.Articles {
		rows = append(rows, schema.ReportRowRecord{
			RunID: runID, Section: string(schema.ArticlesSection), Rank: int32(i + 1),
			Label: a.Article.Title, Value: float64(a.Views),
		})
	}
	for i, a := range report.Authors {
		rows = append(rows, schema.ReportRowRecord{
			RunID: runID, Section: string(schema.AuthorsSection), Rank: int32(i + 1),
			Label: a.Author.Name, Value: float64(a.Views),
		})
	}
	for i, d := range report.ErrorDays {
		rows = append(rows, schema.ReportRowRecord{
			RunID: runID, Section: string(schema.ErrorDaysSection), Rank: int32(i + 1),
			Label: d.Day.Format(time.DateOnly), Value: d.ErrorRate,
		})
	}
	return rows
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return status, nil
	}

	quotedRuns := quoteTableName(reportRunsTable, hs.backend)
	if err := hs.db.Get(&status.TotalRuns, fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedRuns)); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		var last struct {
			RunID     int64  `db:"run_id"`
			StartTime dbTime `db:"start_time"`
		}
		lastQuery := fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", quotedRuns)
		if err := hs.db.Get(&last, lastQuery); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		status.LastRunID = last.RunID
		status.LastRunTime = last.StartTime.Time

		var oldest dbTime
		oldestQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", quotedRuns)
		if err := hs.db.Get(&oldest, oldestQuery); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldest.Time
	}

	for _, table := range []string{reportRunsTable, reportRowsTable} {
		var count int64
		if err := hs.db.Get(&count, fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, hs.backend))); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	return status, nil
}

// runRow is a newslog_report_runs row with driver-neutral time columns.
type runRow struct {
	RunID           int64   `db:"run_id"`
	RunUUID         string  `db:"run_uuid"`
	StartTime       dbTime  `db:"start_time"`
	EndTime         dbTime  `db:"end_time"`
	RunDurationMs   *int32  `db:"run_duration_ms"`
	TotalLogEntries *int32  `db:"total_log_entries"`
	ConfigParams    *string `db:"config_params"`
}

// GetAllRuns retrieves all report runs from the store.
func (hs *HistoryStoreImpl) GetAllRuns() ([]schema.ReportRunRecord, error) {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, run_uuid, start_time, end_time, run_duration_ms, total_log_entries, config_params
		FROM %s ORDER BY run_id`, quoteTableName(reportRunsTable, hs.backend))
	var rows []runRow
	if err := hs.db.Select(&rows, query); err != nil {
		return nil, fmt.Errorf("failed to query report runs: %w", err)
	}

	results := make([]schema.ReportRunRecord, 0, len(rows))
	for _, r := range rows {
		record := schema.ReportRunRecord{
			RunID:           r.RunID,
			RunUUID:         r.RunUUID,
			StartTime:       r.StartTime.Time,
			RunDurationMs:   r.RunDurationMs,
			TotalLogEntries: r.TotalLogEntries,
			ConfigParams:    r.ConfigParams,
		}
		if !r.EndTime.IsZero() {
			endTime := r.EndTime.Time
			record.EndTime = &endTime
		}
		results = append(results, record)
	}
	return results, nil
}

// GetAllRows retrieves all report rows from the store.
func (hs *HistoryStoreImpl) GetAllRows() ([]schema.ReportRowRecord, error) {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, section, row_rank, row_label, row_value
		FROM %s ORDER BY run_id, section, row_rank`, quoteTableName(reportRowsTable, hs.backend))
	var results []schema.ReportRowRecord
	if err := hs.db.Select(&results, query); err != nil {
		return nil, fmt.Errorf("failed to query report rows: %w", err)
	}
	return results, nil
}
