package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"mincerdash/domain/artifacts"
	"mincerdash/domain/core"

	"github.com/jmoiron/sqlx"
)

// ExportRepository records completed exports. Queries are written with ?
// placeholders and rebound for the connected driver.
type ExportRepository struct {
	db *sqlx.DB
}

// NewExportRepository creates a new export ledger repository
func NewExportRepository(db *sqlx.DB) *ExportRepository {
	return &ExportRepository{db: db}
}

const exportColumns = `id, kind, filename, genders, education_min, education_max,
	sample_size, robust, seed, size_bytes, created_at`

// Record inserts a ledger entry
func (r *ExportRepository) Record(ctx context.Context, record artifacts.Record) error {
	query := r.db.Rebind(`
		INSERT INTO exports (` + exportColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.Kind,
		record.Filename,
		record.Genders,
		record.EducationMin,
		record.EducationMax,
		record.SampleSize,
		record.Robust,
		record.Seed,
		record.SizeBytes,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record export %s: %w", record.ID, err)
	}
	return nil
}

// Get retrieves a single export by ID
func (r *ExportRepository) Get(ctx context.Context, id core.ExportID) (*artifacts.Record, error) {
	query := r.db.Rebind(`SELECT ` + exportColumns + ` FROM exports WHERE id = ?`)

	var record artifacts.Record
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("export %s: %w", id, core.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get export %s: %w", id, err)
	}
	return &record, nil
}

// Recent lists the newest exports first
func (r *ExportRepository) Recent(ctx context.Context, limit int) ([]artifacts.Record, error) {
	if limit <= 0 {
		limit = 20
	}
	query := r.db.Rebind(`
		SELECT ` + exportColumns + `
		FROM exports
		ORDER BY created_at DESC, id DESC
		LIMIT ?`)

	records := []artifacts.Record{}
	if err := r.db.SelectContext(ctx, &records, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list exports: %w", err)
	}
	return records, nil
}
