package analysis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/newslens/internal/interfaces"
)

// ResponseCache is a content-addressed cache for external-call results.
// Keys are deterministic fingerprints of (scope, inputs); values are plain
// strings or JSON records. Caching is a performance optimization only: a
// failed read degrades to a miss and a failed write is dropped with a log
// line, never surfaced to the caller.
type ResponseCache struct {
	storage interfaces.CacheStorage
	logger  arbor.ILogger
}

// NewResponseCache creates a response cache backed by the given store.
func NewResponseCache(storage interfaces.CacheStorage, logger arbor.ILogger) *ResponseCache {
	return &ResponseCache{
		storage: storage,
		logger:  logger,
	}
}

// KeyFor computes the deterministic fingerprint for a scoped set of inputs.
// Inputs are length-delimited before hashing so ("ab","c") and ("a","bc")
// produce different keys.
func (c *ResponseCache) KeyFor(scope string, inputs ...string) string {
	h := sha256.New()
	h.Write([]byte(scope))
	for _, input := range inputs {
		h.Write([]byte{0})
		h.Write([]byte(input))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// GetString retrieves a cached plain-string value. Returns false on a miss
// or any storage failure.
func (c *ResponseCache) GetString(ctx context.Context, key string) (string, bool) {
	value, err := c.storage.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, interfaces.ErrKeyNotFound) {
			c.logger.Warn().Err(err).Str("key", key).Msg("Cache read failed, treating as miss")
		}
		return "", false
	}
	return value, true
}

// PutString stores a plain-string value. Write failures are logged and
// dropped.
func (c *ResponseCache) PutString(ctx context.Context, key string, value string) {
	if err := c.storage.Set(ctx, key, value); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Cache write failed, dropping entry")
	}
}

// GetRecord retrieves a cached JSON record into target. A corrupt entry is
// treated as a miss.
func (c *ResponseCache) GetRecord(ctx context.Context, key string, target any) bool {
	value, ok := c.GetString(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(value), target); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Cached record is corrupt, treating as miss")
		return false
	}
	return true
}

// PutRecord stores a JSON-serializable record. Marshal and write failures
// are logged and dropped.
func (c *ResponseCache) PutRecord(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Cache record marshal failed, dropping entry")
		return
	}
	c.PutString(ctx, key, string(data))
}
