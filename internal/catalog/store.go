package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"soundvault/config"
	"soundvault/sound"
)

const (
	sqliteBusyCode    = 5
	busyRetryAttempts = 5
	busyRetryBaseWait = 10 * time.Millisecond
	busyRetryMaxWait  = 200 * time.Millisecond
)

// Store provides persistent storage for the sound catalog using SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens the catalog database for the configured library and
// applies any pending migrations.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	if cfg == nil {
		return nil, sound.Wrap(sound.ErrConfiguration, "open catalog", "configuration missing", nil)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, sound.Wrap(sound.ErrConfiguration, "open catalog", "create library directories", err)
	}
	return OpenPath(ctx, cfg.Library.DatabasePath)
}

// OpenPath creates or opens the catalog database at the given path.
func OpenPath(ctx context.Context, path string) (*Store, error) {
	ctx = ensureContext(ctx)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, sound.Wrap(sound.ErrStorage, "open catalog", "open database", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, sound.Wrap(sound.ErrStorage, "open catalog", fmt.Sprintf("apply %s", pragma), err)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path backing this store.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Ping verifies the database connection is still usable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ensureContext(ctx)); err != nil {
		return sound.Wrap(sound.ErrStorage, "ping catalog", "database unreachable", err)
	}
	return nil
}

// Stats summarizes catalog contents for health reporting.
type Stats struct {
	Sounds      int64
	Collections int64
	Memberships int64
}

// Stats counts the rows in the primary catalog tables.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	ctx = ensureContext(ctx)
	var stats Stats
	counts := []struct {
		query string
		dest  *int64
	}{
		{"SELECT COUNT(*) FROM sounds", &stats.Sounds},
		{"SELECT COUNT(*) FROM collections", &stats.Collections},
		{"SELECT COUNT(*) FROM memberships", &stats.Memberships},
	}
	for _, count := range counts {
		if err := s.db.QueryRowContext(ctx, count.query).Scan(count.dest); err != nil {
			return Stats{}, sound.Wrap(sound.ErrStoreTransaction, "count catalog rows", count.query, err)
		}
	}
	return stats, nil
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coded interface{ Code() int }
	if errors.As(err, &coded) && coded.Code() == sqliteBusyCode {
		return true
	}
	message := err.Error()
	return strings.Contains(message, "SQLITE_BUSY") || strings.Contains(message, "database is locked")
}

func isUniqueViolation(err error, constraint string) bool {
	if err == nil {
		return false
	}
	message := err.Error()
	return strings.Contains(message, "UNIQUE constraint failed: "+constraint)
}

func retryOnBusy(ctx context.Context, op func() error) error {
	ctx = ensureContext(ctx)
	wait := busyRetryBaseWait
	var err error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		if err = op(); err == nil || !isSQLiteBusy(err) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
		if wait > busyRetryMaxWait {
			wait = busyRetryMaxWait
		}
	}
	return err
}

// withTx runs fn inside a transaction, retrying the whole transaction when
// SQLite reports the database busy. fn must be safe to re-run after rollback.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer tx.Rollback()
		if err := fn(tx); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit transaction: %w", err)
		}
		return nil
	})
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	var result sql.Result
	err := retryOnBusy(ctx, func() error {
		var execErr error
		result, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	})
	return result, err
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func timestamp(value time.Time) string {
	return value.UTC().Format(time.RFC3339Nano)
}

func parseTimeString(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	if parsed, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return parsed
	}
	if parsed, err := time.Parse("2006-01-02 15:04:05", value); err == nil {
		return parsed
	}
	return time.Time{}
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]string, count)
	for i := range placeholders {
		placeholders[i] = "?"
	}
	return strings.Join(placeholders, ", ")
}

// prefixColumns qualifies a comma-separated column list with a table alias
// for use in join queries.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ", ")
	for i, part := range parts {
		parts[i] = alias + "." + part
	}
	return strings.Join(parts, ", ")
}
