package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/phuslu/log"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS api_cache (
	key        TEXT PRIMARY KEY,
	kind       TEXT NOT NULL,
	data       BLOB NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_api_cache_created ON api_cache(created_at);
`

// SQLiteStore keeps cache entries in a SQLite file.
type SQLiteStore struct {
	db  *sqlx.DB
	mu  sync.Mutex
	ttl time.Duration
	now func() time.Time
}

// Option configures a SQLiteStore.
type Option func(*SQLiteStore)

// WithTTL sets the freshness window.
func WithTTL(ttl time.Duration) Option {
	return func(s *SQLiteStore) { s.ttl = ttl }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *SQLiteStore) { s.now = now }
}

// NewSQLiteStore opens (or creates) the database and its schema.
func NewSQLiteStore(dbPath string, opts ...Option) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	s := &SQLiteStore{db: db, ttl: DefaultTTL, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	log.Info().Str("path", dbPath).Dur("ttl", s.ttl).Msg("sqlite cache opened")
	return s, nil
}

type entry struct {
	Data      []byte `db:"data"`
	CreatedAt int64  `db:"created_at"`
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var e entry
	err := s.db.GetContext(ctx, &e, `SELECT data, created_at FROM api_cache WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cache entry: %w", err)
	}
	if s.expired(e.CreatedAt) {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM api_cache WHERE key = ?`, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("drop expired cache entry")
		}
		return nil, false, nil
	}
	return e.Data, true, nil
}

func (s *SQLiteStore) Put(ctx context.Context, key, kind string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO api_cache (key, kind, data, created_at) VALUES (?, ?, ?, ?)`,
		key, kind, data, s.now().UnixNano())
	if err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Prune(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl).UnixNano()
	res, err := s.db.ExecContext(ctx, `DELETE FROM api_cache WHERE created_at <= ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune cache: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) Close() error {
	log.Info().Msg("closing sqlite cache")
	return s.db.Close()
}

func (s *SQLiteStore) expired(createdAt int64) bool {
	return s.now().Sub(time.Unix(0, createdAt)) >= s.ttl
}
