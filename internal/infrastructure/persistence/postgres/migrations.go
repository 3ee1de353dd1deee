package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

// Migration is one versioned schema change.
type Migration struct {
	Version   int
	Name      string
	UpSQL     string
	AppliedAt time.Time
	IsApplied bool
}

var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_resource_lines",
		// Every registry resource is an ordered list of ';'-delimited lines.
		UpSQL: `
CREATE TABLE IF NOT EXISTS resource_lines (
    resource TEXT    NOT NULL,
    line_no  INTEGER NOT NULL CHECK (line_no >= 0),
    line     TEXT    NOT NULL,
    PRIMARY KEY (resource, line_no)
)`,
	},
}

// migrationLockID serializes migrations between processes starting together.
const migrationLockID = 7_340_011

const createMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version    INTEGER PRIMARY KEY,
    name       TEXT NOT NULL,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// Migrator applies the embedded migrations.
type Migrator struct {
	conn *Connection
}

// NewMigrator creates a Migrator over conn.
func NewMigrator(conn *Connection) *Migrator {
	return &Migrator{conn: conn}
}

// Migrate applies every pending migration in one transaction.
func (m *Migrator) Migrate(ctx context.Context) error {
	err := m.conn.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, migrationLockID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, createMigrationsTable); err != nil {
			return err
		}

		applied, err := appliedVersions(ctx, tx)
		if err != nil {
			return err
		}

		for _, mig := range migrations {
			if _, ok := applied[mig.Version]; ok {
				continue
			}
			if _, err := tx.Exec(ctx, mig.UpSQL); err != nil {
				return fmt.Errorf("migration %d (%s): %w", mig.Version, mig.Name, err)
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, mig.Version, mig.Name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("postgres: migrate: %w", err)
	}
	return nil
}

// Status lists the embedded migrations with their applied time.
func (m *Migrator) Status(ctx context.Context) ([]Migration, error) {
	var applied map[int]time.Time
	err := m.conn.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, createMigrationsTable); err != nil {
			return err
		}
		var err error
		applied, err = appliedVersions(ctx, tx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: migration status: %w", err)
	}

	out := make([]Migration, len(migrations))
	copy(out, migrations)
	for i := range out {
		if at, ok := applied[out[i].Version]; ok {
			out[i].IsApplied = true
			out[i].AppliedAt = at
		}
	}
	return out, nil
}

// Check fails when an embedded migration has not been applied.
func (m *Migrator) Check(ctx context.Context) error {
	status, err := m.Status(ctx)
	if err != nil {
		return err
	}
	return pendingError(status)
}

func pendingError(status []Migration) error {
	var pending []string
	for _, mig := range status {
		if !mig.IsApplied {
			pending = append(pending, fmt.Sprintf("%d_%s", mig.Version, mig.Name))
		}
	}
	if len(pending) == 0 {
		return nil
	}
	return fmt.Errorf("postgres: pending migrations: %s", strings.Join(pending, ", "))
}

func appliedVersions(ctx context.Context, tx pgx.Tx) (map[int]time.Time, error) {
	rows, err := tx.Query(ctx, `SELECT version, applied_at FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]time.Time)
	for rows.Next() {
		var version int
		var at time.Time
		if err := rows.Scan(&version, &at); err != nil {
			return nil, err
		}
		applied[version] = at
	}
	return applied, rows.Err()
}
