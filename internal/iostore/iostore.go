// Package iostore is for reading news records and tracking report runs.
package iostore

import (
	"sync"

	"github.com/huangsam/newslog/internal/contract"
)

// StoreManagerImpl holds the record source and the report history store.
type StoreManagerImpl struct {
	sync.RWMutex // Protects the store pointers during initialization
	source       contract.SourceStore
	history      contract.HistoryStore
}

var _ contract.StoreManager = &StoreManagerImpl{} // Compile-time check

// NewStoreManager builds a manager around existing stores. Either may be nil.
func NewStoreManager(source contract.SourceStore, history contract.HistoryStore) *StoreManagerImpl {
	return &StoreManagerImpl{source: source, history: history}
}

// GetSourceStore returns the record source.
func (mgr *StoreManagerImpl) GetSourceStore() contract.SourceStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.source
}

// GetHistoryStore returns the report history store.
func (mgr *StoreManagerImpl) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}
