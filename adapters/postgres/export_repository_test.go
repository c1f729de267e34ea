package postgres

import (
	"context"
	"testing"
	"time"

	"mincerdash/domain/artifacts"
	"mincerdash/domain/core"
	"mincerdash/internal/migration"
	"mincerdash/ports"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.ExportLedger = (*ExportRepository)(nil)

func newTestRepository(t *testing.T) (*ExportRepository, *sqlx.DB) {
	t.Helper()
	db, err := Open(context.Background(), DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, migration.NewRunner().Run(context.Background(), db))
	return NewExportRepository(db), db
}

func sampleRecord(at time.Time) artifacts.Record {
	return artifacts.Record{
		ID:           core.NewExportID(),
		Kind:         core.ArtifactWorkbook,
		Filename:     "education_return_data_20240101000000.xlsx",
		Genders:      "female,male",
		EducationMin: 8,
		EducationMax: 16,
		SampleSize:   812,
		Robust:       true,
		Seed:         123,
		SizeBytes:    40960,
		CreatedAt:    at,
	}
}

func TestExportRepository_RecordAndGet(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	want := sampleRecord(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Record(ctx, want))

	got, err := repo.Get(ctx, want.ID)
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Kind, got.Kind)
	assert.Equal(t, want.Genders, got.Genders)
	assert.Equal(t, want.SampleSize, got.SampleSize)
	assert.True(t, got.Robust)
	assert.Equal(t, int64(123), got.Seed)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt))

	assert.Error(t, repo.Record(ctx, want), "duplicate id")
}

func TestExportRepository_GetMissing(t *testing.T) {
	repo, _ := newTestRepository(t)
	_, err := repo.Get(context.Background(), core.NewExportID())
	assert.True(t, core.IsNotFoundError(err))
}

func TestExportRepository_Recent(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	empty, err := repo.Recent(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, empty)

	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		require.NoError(t, repo.Record(ctx, sampleRecord(base.Add(time.Duration(i)*time.Hour))))
	}

	recent, err := repo.Recent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.True(t, recent[0].CreatedAt.Equal(base.Add(3*time.Hour)))
	assert.True(t, recent[2].CreatedAt.Equal(base.Add(1*time.Hour)))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "x")
	assert.ErrorContains(t, err, "unsupported")
}
