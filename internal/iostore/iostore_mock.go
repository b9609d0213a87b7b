package iostore

import (
	"context"
	"time"

	"github.com/huangsam/newslog/internal/contract"
	"github.com/huangsam/newslog/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetSourceStore implements the StoreManager interface.
func (m *MockStoreManager) GetSourceStore() contract.SourceStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.SourceStore)
	return store
}

// GetHistoryStore implements the StoreManager interface.
func (m *MockStoreManager) GetHistoryStore() contract.HistoryStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.HistoryStore)
	return store
}

// MockSourceStore is a mock implementation of SourceStore for testing.
type MockSourceStore struct {
	mock.Mock
}

var _ contract.SourceStore = &MockSourceStore{} // Compile-time check

// FetchArticles implements the RecordSource interface.
func (m *MockSourceStore) FetchArticles(ctx context.Context) ([]schema.Article, error) {
	args := m.Called(ctx)
	articles, _ := args.Get(0).([]schema.Article)
	return articles, args.Error(1)
}

// FetchAuthors implements the RecordSource interface.
func (m *MockSourceStore) FetchAuthors(ctx context.Context) ([]schema.Author, error) {
	args := m.Called(ctx)
	authors, _ := args.Get(0).([]schema.Author)
	return authors, args.Error(1)
}

// FetchLogEntries implements the RecordSource interface.
func (m *MockSourceStore) FetchLogEntries(ctx context.Context) ([]schema.LogEntry, error) {
	args := m.Called(ctx)
	entries, _ := args.Get(0).([]schema.LogEntry)
	return entries, args.Error(1)
}

// GetStatus implements the SourceStore interface.
func (m *MockSourceStore) GetStatus(ctx context.Context) (schema.SourceStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.SourceStatus), args.Error(1)
}

// Close implements the SourceStore interface.
func (m *MockSourceStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ contract.HistoryStore = &MockHistoryStore{} // Compile-time check

// BeginRun implements the HistoryStore interface.
func (m *MockHistoryStore) BeginRun(startTime time.Time, configParams map[string]any) (int64, error) {
	args := m.Called(startTime, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// EndRun implements the HistoryStore interface.
func (m *MockHistoryStore) EndRun(runID int64, endTime time.Time, totalLogEntries int) error {
	args := m.Called(runID, endTime, totalLogEntries)
	return args.Error(0)
}

// RecordReport implements the HistoryStore interface.
func (m *MockHistoryStore) RecordReport(runID int64, report *schema.Report) error {
	args := m.Called(runID, report)
	return args.Error(0)
}

// GetStatus implements the HistoryStore interface.
func (m *MockHistoryStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// GetAllRuns implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllRuns() ([]schema.ReportRunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.ReportRunRecord)
	return runs, args.Error(1)
}

// GetAllRows implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllRows() ([]schema.ReportRowRecord, error) {
	args := m.Called()
	rows, _ := args.Get(0).([]schema.ReportRowRecord)
	return rows, args.Error(1)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
