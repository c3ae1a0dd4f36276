package badger

import (
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/newslens/internal/common"
	"github.com/ternarybob/newslens/internal/interfaces"
)

// Manager wires the Badger connection to the storage implementations and
// owns the database lifecycle.
type Manager struct {
	db            *BadgerDB
	cacheStorage  interfaces.CacheStorage
	reportStorage interfaces.ReportStorage
	logger        arbor.ILogger
}

// NewManager opens the database and constructs all storage implementations
func NewManager(config *common.BadgerConfig, logger arbor.ILogger) (*Manager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize badger storage: %w", err)
	}

	return &Manager{
		db:            db,
		cacheStorage:  NewCacheStorage(db, logger),
		reportStorage: NewReportStorage(db, logger),
		logger:        logger,
	}, nil
}

// CacheStorage returns the response cache store
func (m *Manager) CacheStorage() interfaces.CacheStorage {
	return m.cacheStorage
}

// ReportStorage returns the company report store
func (m *Manager) ReportStorage() interfaces.ReportStorage {
	return m.reportStorage
}

// Close closes the underlying database
func (m *Manager) Close() error {
	return m.db.Close()
}

// Ensure Manager implements the interface
var _ interfaces.StorageManager = (*Manager)(nil)
