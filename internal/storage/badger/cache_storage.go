package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/newslens/internal/interfaces"
)

// cacheEntry is the stored form of one cached external-call result.
// Entries are content-addressed and immutable once written; there is no
// eviction.
type cacheEntry struct {
	Key       string    `badgerhold:"key"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

// CacheStorage implements interfaces.CacheStorage on Badger
type CacheStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewCacheStorage creates a new Badger-backed cache storage
func NewCacheStorage(db *BadgerDB, logger arbor.ILogger) interfaces.CacheStorage {
	return &CacheStorage{
		db:     db,
		logger: logger,
	}
}

// Get retrieves a cached value by key
func (s *CacheStorage) Get(ctx context.Context, key string) (string, error) {
	var entry cacheEntry
	err := s.db.Store().Get(key, &entry)
	if err == badgerhold.ErrNotFound {
		return "", interfaces.ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get cache entry: %w", err)
	}
	return entry.Value, nil
}

// Set inserts or overwrites a cached value. Values for a given key are
// deterministic functions of the key's inputs, so last-write-wins is fine.
func (s *CacheStorage) Set(ctx context.Context, key string, value string) error {
	entry := cacheEntry{
		Key:       key,
		Value:     value,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.db.Store().Upsert(key, &entry); err != nil {
		return fmt.Errorf("failed to set cache entry: %w", err)
	}
	return nil
}

// Ensure CacheStorage implements the interface
var _ interfaces.CacheStorage = (*CacheStorage)(nil)
