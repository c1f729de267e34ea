package generator

import (
	"bytes"
	"context"
	"encoding/csv"
	"math"
	"sync"
	"testing"

	"mincerdash/domain/wage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestGenerate_Deterministic(t *testing.T) {
	for _, seed := range []int64{123, 1, 42, -7} {
		a, err := Generate(WithSeed(seed))
		require.NoError(t, err)
		b, err := Generate(WithSeed(seed))
		require.NoError(t, err)

		require.Equal(t, a.Len(), b.Len(), "seed %d", seed)
		assert.Equal(t, a.Fingerprint(), b.Fingerprint(), "seed %d", seed)
		for i := 0; i < a.Len(); i++ {
			x, y := a.At(i), b.At(i)
			if math.Float64bits(x.LogWage) != math.Float64bits(y.LogWage) ||
				math.Float64bits(x.Education) != math.Float64bits(y.Education) {
				t.Fatalf("seed %d: row %d differs", seed, i)
			}
		}
	}
}

func TestGenerate_SeedsDiffer(t *testing.T) {
	a, err := Generate(WithSeed(123))
	require.NoError(t, err)
	b, err := Generate(WithSeed(124))
	require.NoError(t, err)
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestGenerate_Invariants(t *testing.T) {
	ds, err := Generate(DefaultConfig())
	require.NoError(t, err)

	// with sd 0.2 around ~3.8 essentially nothing is dropped
	assert.Greater(t, ds.Len(), 990)
	assert.LessOrEqual(t, ds.Len(), 1000)
	assert.Equal(t, int64(123), ds.Seed())

	males := 0
	lastID := -1
	for i := 0; i < ds.Len(); i++ {
		o := ds.At(i)
		assert.Greater(t, o.ID, lastID, "rows must keep generation order")
		lastID = o.ID

		assert.GreaterOrEqual(t, o.Education, 6.0)
		assert.LessOrEqual(t, o.Education, 20.0)
		assert.GreaterOrEqual(t, o.Experience, 0.0)
		assert.LessOrEqual(t, o.Experience, 40.0)
		assert.Equal(t, o.Experience*o.Experience, o.ExperienceSq)
		assert.Greater(t, o.LogWage, 1.0)
		assert.Less(t, o.LogWage, 5.0)
		assert.InDelta(t, math.Exp(o.LogWage), o.Wage, 1e-9)
		if o.Gender == wage.Male {
			males++
		}
	}

	share := float64(males) / float64(ds.Len())
	assert.InDelta(t, 0.55, share, 0.06)
}

func TestGenerate_DropsOutOfRangeLogWage(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogWageLow = 3.7
	cfg.LogWageHigh = 3.9

	ds, err := Generate(cfg)
	require.NoError(t, err)
	assert.Less(t, ds.Len(), cfg.Size)
	for i := 0; i < ds.Len(); i++ {
		lw := ds.At(i).LogWage
		assert.True(t, lw > 3.7 && lw < 3.9)
	}
}

func TestGenerate_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Size = 0
	_, err := Generate(cfg)
	assert.Error(t, err)

	cfg = DefaultConfig()
	cfg.MaleShare = 1.5
	_, err = Generate(cfg)
	assert.Error(t, err)
}

func TestCache_SharesDatasetAcrossCallers(t *testing.T) {
	cache := NewCache(DefaultConfig())
	ctx := context.Background()

	const callers = 16
	results := make([]*wage.Dataset, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ds, err := cache.Get(ctx, 123)
			assert.NoError(t, err)
			results[i] = ds
		}(i)
	}
	wg.Wait()

	for _, ds := range results {
		assert.Same(t, results[0], ds)
	}

	other, err := cache.Get(ctx, 99)
	require.NoError(t, err)
	assert.NotSame(t, results[0], other)

	def, err := cache.Default(ctx)
	require.NoError(t, err)
	assert.Same(t, results[0], def)
}

func TestCache_Store(t *testing.T) {
	cache := NewCache(DefaultConfig())
	pinned := wage.NewDataset(42, []wage.Observation{{ID: 0, Education: 12, LogWage: 3}})
	cache.Store(pinned)

	got, err := cache.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Same(t, pinned, got)
}

func TestCache_CancelledContext(t *testing.T) {
	cache := NewCache(DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Either the generation wins the race or the cancellation does; both are valid.
	ds, err := cache.Get(ctx, 5)
	if err != nil {
		assert.ErrorIs(t, err, context.Canceled)
	} else {
		assert.NotNil(t, ds)
	}
}

func TestWriteCSV(t *testing.T) {
	ds, err := Generate(DefaultConfig())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, ds))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, RawHeaders, records[0])
	assert.Len(t, records, ds.Len()+1)
}

func TestWriteXLSX(t *testing.T) {
	ds, err := Generate(DefaultConfig())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, ds))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	assert.Len(t, rows, ds.Len()+1)
	assert.Equal(t, "gender", rows[0][1])
}
