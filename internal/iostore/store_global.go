package iostore

import (
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/newslog/internal/contract"
	"github.com/huangsam/newslog/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &StoreManagerImpl{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitStores initializes the global manager with the record source and the
// history store. An empty historyBackend disables report tracking.
func InitStores(sourceBackend schema.DatabaseBackend, sourceConnStr string, historyBackend schema.DatabaseBackend, historyConnStr string) error {
	var initErr error

	initOnce.Do(func() {
		source, err := NewSourceStore(sourceBackend, sourceConnStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize record source: %w", err)
			return
		}

		var history contract.HistoryStore
		if historyBackend != "" {
			history, err = NewHistoryStore(historyBackend, historyConnStr)
			if err != nil {
				_ = source.Close()
				initErr = fmt.Errorf("failed to initialize history store: %w", err)
				return
			}
		}

		Manager.Lock()
		defer Manager.Unlock()
		Manager.source = source
		Manager.history = history
	})

	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.source != nil {
			_ = Manager.source.Close()
		}
		if Manager.history != nil {
			_ = Manager.history.Close()
		}
	})
}

// ClearHistory clears the report history for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the history tables.
// For NoneBackend, it does nothing.
func ClearHistory(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		return removeSQLiteFile(dbFilePath)
	case schema.MySQLBackend, schema.PostgreSQLBackend:
		return dropTables(backend, connStr, reportRowsTable, reportRunsTable)
	case schema.NoneBackend, "":
		return nil
	default:
		return fmt.Errorf("unsupported history backend for clearing: %s", backend)
	}
}

// ClearSource drops the news tables and the migration bookkeeping table.
// For SQLite, it deletes the database file.
func ClearSource(backend schema.DatabaseBackend, connStr string) error {
	connStr = contract.ResolveSourceConnect(backend, connStr)
	switch backend {
	case schema.SQLiteBackend:
		return removeSQLiteFile(connStr)
	case schema.MySQLBackend, schema.PostgreSQLBackend:
		return dropTables(backend, connStr, logTable, articlesTable, authorsTable, "schema_migrations")
	default:
		return fmt.Errorf("unsupported source backend for clearing: %s", backend)
	}
}

// removeSQLiteFile removes the file; it is fine if it does not exist.
func removeSQLiteFile(dbFilePath string) error {
	if dbFilePath == "" {
		return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
	}
	if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
	}
	return nil
}

// dropTables connects to the SQL database and drops the tables in order.
func dropTables(backend schema.DatabaseBackend, connStr string, tables ...string) error {
	db, err := openDB(backend, connStr)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	for _, table := range tables {
		if err := validateTableName(table); err != nil {
			return err
		}
		query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(table, backend))
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return nil
}
