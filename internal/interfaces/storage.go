package interfaces

import (
	"context"
	"errors"

	"github.com/ternarybob/newslens/internal/models"
)

// ErrKeyNotFound is returned when a key is not present in a store.
var ErrKeyNotFound = errors.New("key not found")

// CacheStorage is a durable key/value store for cached external-call results.
// Values are opaque strings (plain text or JSON documents). Persistence is
// best-effort: the response cache treats a failed read as a miss and drops
// failed writes, so implementations only need to report errors honestly.
type CacheStorage interface {
	// Get retrieves a value by key, returning ErrKeyNotFound on a miss.
	Get(ctx context.Context, key string) (string, error)

	// Set inserts or overwrites a key/value pair.
	Set(ctx context.Context, key string, value string) error
}

// ReportStorage persists per-company analysis reports keyed by the
// normalized company slug.
type ReportStorage interface {
	// SaveReport inserts or replaces the report stored under its slug.
	SaveReport(ctx context.Context, report *models.CompanyReport) error

	// GetReport retrieves the report for a slug, ErrKeyNotFound if absent.
	GetReport(ctx context.Context, slug string) (*models.CompanyReport, error)

	// ListSlugs returns the slugs of all stored reports.
	ListSlugs(ctx context.Context) ([]string, error)

	// DeleteReport removes the report for a slug, ErrKeyNotFound if absent.
	DeleteReport(ctx context.Context, slug string) error
}

// StorageManager provides access to all storage implementations and owns the
// underlying database lifecycle.
type StorageManager interface {
	CacheStorage() CacheStorage
	ReportStorage() ReportStorage
	Close() error
}
