package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"embed"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"time"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// ErrChecksumMismatch reports an applied migration whose file changed.
var ErrChecksumMismatch = errors.New("sqlite: applied migration was modified")

var migrationName = regexp.MustCompile(`^(\d{3})_([a-z0-9_]+)\.sql$`)

// Migration is one versioned schema change.
type Migration struct {
	Version     string
	Description string
	SQL         string
	Checksum    string
}

// AppliedMigration is a row of the schema_migrations table.
type AppliedMigration struct {
	Version   string
	Checksum  string
	AppliedAt time.Time
}

// scanMigrations reads NNN_description.sql files from fsys in version order.
func scanMigrations(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("sqlite: read migrations: %w", err)
	}
	var migrations []Migration
	seen := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		match := migrationName.FindStringSubmatch(entry.Name())
		if match == nil {
			return nil, fmt.Errorf("sqlite: invalid migration file name %q", entry.Name())
		}
		if other, dup := seen[match[1]]; dup {
			return nil, fmt.Errorf("sqlite: duplicate migration version %s (%s, %s)", match[1], other, entry.Name())
		}
		seen[match[1]] = entry.Name()

		raw, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("sqlite: read migration %s: %w", entry.Name(), err)
		}
		sum := sha256.Sum256(raw)
		migrations = append(migrations, Migration{
			Version:     match[1],
			Description: match[2],
			SQL:         string(raw),
			Checksum:    hex.EncodeToString(sum[:]),
		})
	}
	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Version < migrations[j].Version })
	return migrations, nil
}

// migrate applies the pending migrations of fsys, each in its own
// transaction, and verifies the checksums of those already applied.
func (s *Store) migrate(ctx context.Context, fsys fs.FS, dir string) error {
	migrations, err := scanMigrations(fsys, dir)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			checksum   TEXT NOT NULL,
			applied_at TEXT NOT NULL
		)`); err != nil {
		return fmt.Errorf("sqlite: create schema_migrations: %w", err)
	}

	applied, err := s.AppliedMigrations(ctx)
	if err != nil {
		return err
	}
	done := make(map[string]string, len(applied))
	for _, m := range applied {
		done[m.Version] = m.Checksum
	}

	for _, m := range migrations {
		if checksum, ok := done[m.Version]; ok {
			if checksum != m.Checksum {
				return fmt.Errorf("%w: %s_%s", ErrChecksumMismatch, m.Version, m.Description)
			}
			continue
		}
		err := s.withTransaction(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
				return fmt.Errorf("sqlite: migration %s_%s: %w", m.Version, m.Description, err)
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO schema_migrations (version, checksum, applied_at) VALUES (?, ?, ?)`,
				m.Version, m.Checksum, s.now().UTC().Format(time.RFC3339Nano))
			return err
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// AppliedMigrations lists the recorded migrations in version order.
func (s *Store) AppliedMigrations(ctx context.Context) ([]AppliedMigration, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT version, checksum, applied_at FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list migrations: %w", err)
	}
	defer rows.Close()

	var out []AppliedMigration
	for rows.Next() {
		var m AppliedMigration
		var appliedAt string
		if err := rows.Scan(&m.Version, &m.Checksum, &appliedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scan migration: %w", err)
		}
		m.AppliedAt, _ = time.Parse(time.RFC3339Nano, appliedAt)
		out = append(out, m)
	}
	return out, rows.Err()
}
