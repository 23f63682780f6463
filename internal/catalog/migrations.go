package catalog

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"soundvault/sound"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

type migration struct {
	version string
	script  string
}

func loadMigrations() ([]migration, error) {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations directory: %w", err)
	}

	migrations := make([]migration, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		content, err := migrationFiles.ReadFile("migrations/" + name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		migrations = append(migrations, migration{version: name, script: string(content)})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].version < migrations[j].version
	})
	return migrations, nil
}

func (s *Store) applyMigrations(ctx context.Context) error {
	ctx = ensureContext(ctx)
	migrations, err := loadMigrations()
	if err != nil {
		return sound.Wrap(sound.ErrStorage, "migrate catalog", "load migrations", err)
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY)`); err != nil {
			return fmt.Errorf("create schema_migrations: %w", err)
		}

		applied := make(map[string]bool)
		rows, err := tx.QueryContext(ctx, `SELECT version FROM schema_migrations`)
		if err != nil {
			return fmt.Errorf("list applied migrations: %w", err)
		}
		for rows.Next() {
			var version string
			if err := rows.Scan(&version); err != nil {
				rows.Close()
				return fmt.Errorf("scan migration version: %w", err)
			}
			applied[version] = true
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return fmt.Errorf("iterate migration versions: %w", err)
		}
		rows.Close()

		for _, m := range migrations {
			if applied[m.version] {
				continue
			}
			if _, err := tx.ExecContext(ctx, m.script); err != nil {
				return fmt.Errorf("apply migration %s: %w", m.version, err)
			}
			if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, m.version); err != nil {
				return fmt.Errorf("record migration %s: %w", m.version, err)
			}
		}
		return nil
	})
	if err != nil {
		return sound.Wrap(sound.ErrStorage, "migrate catalog", "apply migrations", err)
	}
	return nil
}
