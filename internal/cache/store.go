package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"time"
)

// DefaultTTL is how long a cached vendor response stays fresh.
const DefaultTTL = 30 * time.Minute

// Store keeps vendor responses for a short time so repeated lookups of the
// same ticker do not spend API quota.
type Store interface {
	// Get returns the entry for key. ok is false when it is missing or expired.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Put(ctx context.Context, key, kind string, data []byte) error
	// Prune deletes expired entries and reports how many were removed.
	Prune(ctx context.Context) (int64, error)
	Close() error
}

// Key derives the cache key for one kind of data about a ticker.
func Key(ticker, kind string) string {
	sum := md5.Sum([]byte(ticker + "_" + kind))
	return hex.EncodeToString(sum[:])
}
