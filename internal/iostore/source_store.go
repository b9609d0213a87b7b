package iostore

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/go-sql-driver/mysql"
	"github.com/huangsam/newslog/internal/contract"
	"github.com/huangsam/newslog/schema"
	"github.com/jackc/pgx/v5"
	"github.com/jmoiron/sqlx"
)

// Table names of the news database.
const (
	articlesTable = "articles"
	authorsTable  = "authors"
	logTable      = "log"
)

// sourceTables lists the news tables in creation order.
var sourceTables = []string{authorsTable, articlesTable, logTable}

// SourceStoreImpl reads articles, authors and the access log from a database.
// It owns the connection and closes it in Close.
type SourceStoreImpl struct {
	db      *sqlx.DB
	backend schema.DatabaseBackend
	connStr string
}

var _ contract.SourceStore = &SourceStoreImpl{} // Compile-time check

// NewSourceStore opens the news database for the given backend.
// An empty connStr falls back to the backend default.
func NewSourceStore(backend schema.DatabaseBackend, connStr string) (contract.SourceStore, error) {
	if backend == schema.NoneBackend || backend == "" {
		return nil, fmt.Errorf("%w: a source backend is required", contract.ErrSourceUnavailable)
	}
	connStr = contract.ResolveSourceConnect(backend, connStr)
	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", contract.ErrSourceUnavailable, err)
	}
	name, _ := driverName(backend)
	return &SourceStoreImpl{
		db:      sqlx.NewDb(db, name),
		backend: backend,
		connStr: connStr,
	}, nil
}

// NewSourceStoreWithDB wraps an existing connection. The store takes ownership of db.
func NewSourceStoreWithDB(db *sqlx.DB, backend schema.DatabaseBackend) *SourceStoreImpl {
	return &SourceStoreImpl{db: db, backend: backend}
}

// FetchArticles implements the RecordSource interface.
func (s *SourceStoreImpl) FetchArticles(ctx context.Context) ([]schema.Article, error) {
	query := fmt.Sprintf("SELECT slug, title, author FROM %s", quoteTableName(articlesTable, s.backend))
	var articles []schema.Article
	if err := s.db.SelectContext(ctx, &articles, query); err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	return articles, nil
}

// FetchAuthors implements the RecordSource interface.
func (s *SourceStoreImpl) FetchAuthors(ctx context.Context) ([]schema.Author, error) {
	query := fmt.Sprintf("SELECT id, name FROM %s", quoteTableName(authorsTable, s.backend))
	var authors []schema.Author
	if err := s.db.SelectContext(ctx, &authors, query); err != nil {
		return nil, fmt.Errorf("failed to query authors: %w", err)
	}
	return authors, nil
}

// logRow is a log table row before its nullable columns are normalized.
type logRow struct {
	Time   dbTime
	Path   sql.NullString
	Status sql.NullString
}

// FetchLogEntries implements the RecordSource interface.
func (s *SourceStoreImpl) FetchLogEntries(ctx context.Context) ([]schema.LogEntry, error) {
	query := fmt.Sprintf("SELECT %s, path, status FROM %s",
		quoteTableName("time", s.backend), quoteTableName(logTable, s.backend))
	rows, err := s.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query log: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []schema.LogEntry
	for rows.Next() {
		var row logRow
		if err := rows.Scan(&row.Time, &row.Path, &row.Status); err != nil {
			return nil, fmt.Errorf("failed to scan log entry: %w", err)
		}
		entries = append(entries, schema.LogEntry{Time: row.Time.Time, Path: row.Path.String, Status: row.Status.String})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating log entries: %w", err)
	}
	return entries, nil
}

// GetStatus returns the row count of each news table.
func (s *SourceStoreImpl) GetStatus(ctx context.Context) (schema.SourceStatus, error) {
	status := schema.SourceStatus{
		Backend:    string(s.backend),
		Database:   databaseName(s.backend, s.connStr),
		Connected:  s.db != nil,
		TableSizes: make(map[string]int64),
	}
	if s.db == nil {
		return status, nil
	}
	for _, table := range sourceTables {
		var count int64
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, s.backend))
		if err := s.db.GetContext(ctx, &count, query); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	return status, nil
}

// Close closes the underlying connection.
func (s *SourceStoreImpl) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// databaseName extracts the database name from a connection string.
// It returns an empty string when the string cannot be parsed.
func databaseName(backend schema.DatabaseBackend, connStr string) string {
	switch backend {
	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(connStr)
		if err != nil {
			return ""
		}
		return cfg.DBName
	case schema.PostgreSQLBackend:
		cfg, err := pgx.ParseConfig(connStr)
		if err != nil {
			return ""
		}
		return cfg.Database
	case schema.SQLiteBackend:
		if connStr == "" || connStr == ":memory:" {
			return connStr
		}
		return filepath.Base(connStr)
	default:
		return ""
	}
}
