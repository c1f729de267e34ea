package migration

import (
	"context"

	"mincerdash/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner creates the export ledger schema
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all migrations. Every statement is idempotent.
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createExportsTable(ctx, db); err != nil {
		return errors.DatabaseError("failed to create exports table", err)
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.DatabaseError("failed to create indexes", err)
	}

	return nil
}

func (r *MigrationRunner) createExportsTable(ctx context.Context, db *sqlx.DB) error {
	timestamp := "TIMESTAMP WITH TIME ZONE"
	if db.DriverName() == "sqlite" {
		// modernc only decodes time.Time for these exact declared types
		timestamp = "TIMESTAMP"
	}

	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS exports (
			id VARCHAR(36) PRIMARY KEY,
			kind VARCHAR(20) NOT NULL,
			filename TEXT NOT NULL,
			genders VARCHAR(50) NOT NULL,
			education_min INTEGER NOT NULL,
			education_max INTEGER NOT NULL,
			sample_size INTEGER NOT NULL,
			robust BOOLEAN NOT NULL,
			seed BIGINT NOT NULL,
			size_bytes INTEGER NOT NULL,
			created_at `+timestamp+` NOT NULL
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_exports_created_at ON exports(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_exports_kind ON exports(kind)`,
	}

	for _, indexSQL := range indexes {
		if _, err := db.ExecContext(ctx, indexSQL); err != nil {
			return err
		}
	}

	return nil
}
