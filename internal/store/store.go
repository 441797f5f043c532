package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"net/url"
	"time"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - Initial value store schema
const currentSchemaVersion = 1

// Default pool settings.
const (
	DefaultMaxOpenConns = 8
	DefaultBusyTimeout  = 5 * time.Second
)

// Options configures the connection pool.
type Options struct {
	// MaxOpenConns bounds concurrent connections. Zero means DefaultMaxOpenConns.
	MaxOpenConns int

	// BusyTimeout is how long a connection waits on a locked database.
	// Zero means DefaultBusyTimeout.
	BusyTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.MaxOpenConns <= 0 {
		o.MaxOpenConns = DefaultMaxOpenConns
	}
	if o.BusyTimeout <= 0 {
		o.BusyTimeout = DefaultBusyTimeout
	}
	return o
}

// Store is a handle on the value store.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path and applies the
// schema. The database is configured with WAL mode, NORMAL synchronous mode,
// the configured busy timeout and foreign key enforcement.
//
// This function is idempotent - safe to call multiple times on one path.
func Open(path string, opts Options) (*Store, error) {
	opts = opts.withDefaults()

	db, err := sql.Open(DriverName, dsn(path, opts))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify connection works
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxOpenConns)

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// dsn builds a go-sqlite3 DSN carrying per-connection pragmas.
func dsn(path string, opts Options) string {
	params := url.Values{}
	params.Set("_journal_mode", "WAL")
	params.Set("_synchronous", "NORMAL")
	params.Set("_busy_timeout", fmt.Sprintf("%d", opts.BusyTimeout.Milliseconds()))
	params.Set("_foreign_keys", "on")
	return "file:" + path + "?" + params.Encode()
}

// Close closes the database connection pool.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
// Use with caution - prefer using Store methods when available.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Ping verifies the store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// applySchema creates tables if they don't exist and checks the version.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	if version > currentSchemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", version, currentSchemaVersion)
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
