package filter

import (
	"testing"

	"mincerdash/domain/wage"
	"mincerdash/internal/generator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dataset(t *testing.T) *wage.Dataset {
	t.Helper()
	ds, err := generator.Generate(generator.DefaultConfig())
	require.NoError(t, err)
	return ds
}

func TestApply_PredicatesHoldForEveryRow(t *testing.T) {
	ds := dataset(t)

	cases := []wage.FilterCriteria{
		{Genders: []wage.Gender{wage.Female, wage.Male}, EducationMin: 8, EducationMax: 16},
		{Genders: []wage.Gender{wage.Female}, EducationMin: 6, EducationMax: 20},
		{Genders: []wage.Gender{wage.Male}, EducationMin: 12, EducationMax: 12},
		{Genders: nil, EducationMin: 6, EducationMax: 20},
		{Genders: []wage.Gender{wage.Male}, EducationMin: 19, EducationMax: 20},
	}

	for _, c := range cases {
		view := Apply(ds, c)

		kept := make(map[int]bool, view.Len())
		for i := 0; i < view.Len(); i++ {
			o := view.At(i)
			assert.True(t, c.Matches(o), "row %d violates %s", o.ID, c)
			kept[o.ID] = true
		}
		for i := 0; i < ds.Len(); i++ {
			o := ds.At(i)
			if c.Matches(o) {
				assert.True(t, kept[o.ID], "row %d matches %s but is missing", o.ID, c)
			}
		}
	}
}

func TestApply_PreservesOrder(t *testing.T) {
	ds := dataset(t)
	view := Apply(ds, wage.DefaultCriteria())

	for i := 1; i < view.Len(); i++ {
		assert.Less(t, view.Position(i-1), view.Position(i))
		assert.Less(t, view.At(i-1).ID, view.At(i).ID)
	}
}

func TestApply_Idempotent(t *testing.T) {
	ds := dataset(t)
	c := wage.FilterCriteria{Genders: []wage.Gender{wage.Female}, EducationMin: 9, EducationMax: 15}

	once := Apply(ds, c)
	twice := Apply(once, c)

	assert.Equal(t, once.Observations(), twice.Observations())
	assert.Same(t, once.Source(), twice.Source())
}

func TestApply_EmptyIsNotAnError(t *testing.T) {
	ds := dataset(t)
	view := Apply(ds, wage.FilterCriteria{Genders: []wage.Gender{}, EducationMin: 8, EducationMax: 16})
	assert.True(t, view.IsEmpty())

	// education is clipped at 20, nothing above it
	view = Apply(ds, wage.FilterCriteria{Genders: wage.Genders, EducationMin: 21, EducationMax: 22})
	assert.Equal(t, 0, view.Len())
}

func TestApply_DoesNotMutateSource(t *testing.T) {
	ds := dataset(t)
	before := ds.Fingerprint()
	n := ds.Len()

	_ = Apply(ds, wage.FilterCriteria{Genders: []wage.Gender{wage.Male}, EducationMin: 10, EducationMax: 11})

	assert.Equal(t, before, ds.Fingerprint())
	assert.Equal(t, n, ds.Len())
}

func TestApply_DefaultScenario(t *testing.T) {
	ds := dataset(t)
	view := Apply(ds, wage.DefaultCriteria())

	assert.Greater(t, view.Len(), 0)
	assert.Less(t, view.Len(), 1000)
}

func TestApply_GenericRows(t *testing.T) {
	rows := sliceRows{
		{ID: 0, Gender: wage.Female, Education: 7},
		{ID: 1, Gender: wage.Male, Education: 9},
		{ID: 2, Gender: wage.Female, Education: 11},
	}
	view := Apply(rows, wage.FilterCriteria{Genders: []wage.Gender{wage.Female}, EducationMin: 8, EducationMax: 12})
	require.Equal(t, 1, view.Len())
	assert.Equal(t, 2, view.At(0).ID)
}

func TestRun_CorrectsInvertedRange(t *testing.T) {
	ds := dataset(t)
	res, view := Run(ds, wage.FilterCriteria{Genders: wage.Genders, EducationMin: 14, EducationMax: 10})

	require.True(t, res.Adjusted)
	assert.Equal(t, 15, res.Criteria.EducationMax)
	assert.NotEmpty(t, res.Warning)
	for i := 0; i < view.Len(); i++ {
		e := view.At(i).Education
		assert.True(t, e >= 14 && e <= 15)
	}
}

type sliceRows []wage.Observation

func (s sliceRows) Len() int                  { return len(s) }
func (s sliceRows) At(i int) wage.Observation { return s[i] }
