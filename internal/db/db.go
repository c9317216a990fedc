package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/existflow/hackersunity/internal/remote"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect selects placeholder syntax and driver
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

// DB is the self-hosted Remote Data Client backed by SQL
type DB struct {
	*sql.DB
	dialect    Dialect
	now        func() time.Time
	sessionTTL time.Duration
	resetTTL   time.Duration
}

var _ remote.Backend = (*DB)(nil)

// Open opens a PostgreSQL (driver "postgres") or SQLite (driver "sqlite") database
// and runs migrations
func Open(driver, dsn string) (*DB, error) {
	var (
		dialect    Dialect
		driverName string
	)

	switch driver {
	case "postgres":
		dialect, driverName = Postgres, "postgres"
	case "sqlite":
		dialect, driverName = SQLite, "sqlite"
		// Ensure directory exists
		if dir := filepath.Dir(dsn); dir != "." && !strings.HasPrefix(dsn, "file:") {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		if !strings.Contains(dsn, "_pragma") {
			dsn += "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
		}
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	sqlDB, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := &DB{
		DB:         sqlDB,
		dialect:    dialect,
		now:        time.Now,
		sessionTTL: time.Hour,
		resetTTL:   15 * time.Minute,
	}

	// Run migrations
	if err := db.migrate(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// SetClock overrides the time source; used by tests
func (db *DB) SetClock(now func() time.Time) {
	db.now = now
}

// rebind rewrites ? placeholders to $n for PostgreSQL
func (db *DB) rebind(query string) string {
	if db.dialect != Postgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (db *DB) timestamp() string {
	return db.now().UTC().Format(time.RFC3339Nano)
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique")
}
