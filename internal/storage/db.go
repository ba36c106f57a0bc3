package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"automatosx/internal/config"
	"automatosx/internal/storage/migrations"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a lookup by key finds no (non-expired) row.
var ErrNotFound = errors.New("storage: not found")

// DB wraps a sqlite connection backing the response cache's L2 tier and
// the delegation audit trail.
type DB struct {
	*sql.DB
	path string
}

// Open opens (and migrates) the sqlite database at path.
func Open(path string) (*DB, error) {
	expandedPath, err := config.ExpandPath(path)
	if err != nil {
		return nil, fmt.Errorf("expand path: %w", err)
	}

	dir := filepath.Dir(expandedPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}

	// Build DSN with _pragma parameters so that every new connection in
	// the pool is configured identically. Setting PRAGMAs via db.Exec()
	// only applies to one pooled connection — any subsequent connections
	// would lack WAL/busy_timeout, causing SQLITE_BUSY errors under
	// concurrent load (e.g. two agents writing cache entries at once).
	dsn := buildDSN(expandedPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite allows only one concurrent writer; keeping the pool small
	// prevents SQLITE_BUSY contention while still allowing concurrent
	// reads via WAL mode.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)

	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &DB{DB: db, path: expandedPath}, nil
}

// buildDSN constructs a modernc.org/sqlite DSN with _pragma parameters.
// This ensures every pooled connection inherits the same configuration.
func buildDSN(path string) string {
	v := url.Values{}
	v.Set("_pragma", "journal_mode=WAL")
	v.Add("_pragma", "foreign_keys=ON")
	v.Add("_pragma", "busy_timeout=30000") // 30s — generous for concurrent tool execution
	v.Add("_pragma", "synchronous=NORMAL") // Safe with WAL; reduces fsync pressure
	v.Add("_txlock", "immediate")          // Acquire write lock at BEGIN, fail fast instead of deadlock
	return path + "?" + v.Encode()
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// Tx wraps a sqlite transaction.
type Tx struct {
	*sql.Tx
}

// Begin starts a transaction.
func (db *DB) Begin() (*Tx, error) {
	tx, err := db.DB.Begin()
	if err != nil {
		return nil, err
	}
	return &Tx{Tx: tx}, nil
}

// WithTx runs fn inside a transaction, committing on success and rolling
// back on any error returned by fn.
func (db *DB) WithTx(fn func(*Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}
