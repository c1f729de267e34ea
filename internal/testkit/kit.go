package testkit

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"sync"

	"mincerdash/domain/artifacts"
	"mincerdash/domain/core"
	"mincerdash/domain/wage"
)

// Params describes a synthetic wage sample with known coefficients, in
// design order: intercept, education, experience, experience^2, gender.
type Params struct {
	Beta    [5]float64
	NoiseSD float64
	// noise sd grows linearly with education when set
	Heteroscedastic bool
}

// DefaultParams mirrors the coefficients of the dashboard's generator
func DefaultParams() Params {
	return Params{
		Beta:    [5]float64{2.5, 0.08, 0.05, -0.001, 0.15},
		NoiseSD: 0.2,
	}
}

// Observations draws n rows with uniform education in [6,20], uniform
// experience in [0,40] and a fair gender coin.
func Observations(n int, seed int64, p Params) []wage.Observation {
	rng := rand.New(rand.NewSource(seed))
	rows := make([]wage.Observation, n)
	for i := range rows {
		edu := 6 + 14*rng.Float64()
		exp := 40 * rng.Float64()
		g := wage.Female
		if rng.Float64() < 0.5 {
			g = wage.Male
		}
		sd := p.NoiseSD
		if p.Heteroscedastic {
			sd = p.NoiseSD * (edu - 5)
		}
		lw := p.Beta[0] + p.Beta[1]*edu + p.Beta[2]*exp + p.Beta[3]*exp*exp + p.Beta[4]*g.Dummy() + sd*rng.NormFloat64()
		rows[i] = wage.Observation{
			ID:           i,
			Gender:       g,
			Education:    edu,
			Experience:   exp,
			ExperienceSq: exp * exp,
			LogWage:      lw,
			Wage:         math.Exp(lw),
		}
	}
	return rows
}

// Dataset wraps rows into an immutable dataset
func Dataset(rows []wage.Observation) *wage.Dataset {
	return wage.NewDataset(0, rows)
}

// View returns a view over every row
func View(rows []wage.Observation) *wage.FilteredView {
	return Dataset(rows).All()
}

// WithConstant returns a copy of rows where variable no longer varies.
// Experience and its square are kept consistent.
func WithConstant(rows []wage.Observation, variable wage.Variable, value float64) []wage.Observation {
	out := make([]wage.Observation, len(rows))
	copy(out, rows)
	for i := range out {
		switch variable {
		case wage.VarEducation:
			out[i].Education = value
		case wage.VarExperience:
			out[i].Experience = value
			out[i].ExperienceSq = value * value
		case wage.VarExperienceSq:
			out[i].ExperienceSq = value
		case wage.VarGender:
			out[i].Gender = wage.Gender(int(value))
		}
	}
	return out
}

// InMemoryLedger is an ExportLedger kept in a map, for tests and for running
// without a database.
type InMemoryLedger struct {
	records map[core.ExportID]artifacts.Record
	mu      sync.RWMutex
}

// NewInMemoryLedger creates an empty ledger
func NewInMemoryLedger() *InMemoryLedger {
	return &InMemoryLedger{records: make(map[core.ExportID]artifacts.Record)}
}

// Record stores a record, replacing any previous entry with the same ID
func (l *InMemoryLedger) Record(ctx context.Context, record artifacts.Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records[record.ID] = record
	return nil
}

// Get returns a record by ID
func (l *InMemoryLedger) Get(ctx context.Context, id core.ExportID) (*artifacts.Record, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	r, ok := l.records[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &r, nil
}

// Recent returns up to limit records, newest first
func (l *InMemoryLedger) Recent(ctx context.Context, limit int) ([]artifacts.Record, error) {
	l.mu.RLock()
	out := make([]artifacts.Record, 0, len(l.records))
	for _, r := range l.records {
		out = append(out, r)
	}
	l.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Len returns how many exports were recorded
func (l *InMemoryLedger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}
