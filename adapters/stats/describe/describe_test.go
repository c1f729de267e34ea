package describe

import (
	"math"
	"testing"

	"mincerdash/domain/wage"
	"mincerdash/internal/filter"
	"mincerdash/internal/generator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe_KnownValues(t *testing.T) {
	d := Describe([]float64{4, 1, 3, 2, 5})

	assert.Equal(t, 5, d.Count)
	assert.InDelta(t, 3.0, d.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(2.5), d.Std, 1e-12) // sample std
	assert.Equal(t, 1.0, d.Min)
	assert.Equal(t, 5.0, d.Max)
	assert.InDelta(t, 3.0, d.Median, 1e-12)
	assert.InDelta(t, 2.0, d.Q25, 1e-12)
	assert.InDelta(t, 4.0, d.Q75, 1e-12)
	assert.LessOrEqual(t, d.Min, d.Q25)
	assert.LessOrEqual(t, d.Q25, d.Median)
	assert.LessOrEqual(t, d.Median, d.Q75)
	assert.LessOrEqual(t, d.Q75, d.Max)
}

func TestDescribe_Degenerate(t *testing.T) {
	empty := Describe(nil)
	assert.Equal(t, 0, empty.Count)
	assert.True(t, math.IsNaN(empty.Mean))
	assert.True(t, math.IsNaN(empty.Std))
	assert.True(t, math.IsNaN(empty.Max))

	single := Describe([]float64{7.5})
	assert.Equal(t, 1, single.Count)
	assert.Equal(t, 7.5, single.Mean)
	assert.True(t, math.IsNaN(single.Std), "std of one value must be NaN, not zero")
	assert.Equal(t, 7.5, single.Min)
	assert.Equal(t, 7.5, single.Median)

	pair := Describe([]float64{2, 2})
	assert.Equal(t, 0.0, pair.Std, "constant data has a defined zero std")

}

func TestDescribe_QuartilesInterpolateLinearly(t *testing.T) {
	tests := []struct {
		data          []float64
		q25, med, q75 float64
	}{
		{[]float64{1, 2, 3, 4}, 1.75, 2.5, 3.25},
		{[]float64{4, 3, 2, 1}, 1.75, 2.5, 3.25},
		{[]float64{10, 20}, 12.5, 15, 17.5},
		{[]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 3.25, 5.5, 7.75},
		{[]float64{6, 8, 8, 12, 20}, 8, 8, 12},
		{[]float64{7.5}, 7.5, 7.5, 7.5},
	}
	for _, tt := range tests {
		d := Describe(tt.data)
		assert.InDelta(t, tt.q25, d.Q25, 1e-12, "%v", tt.data)
		assert.InDelta(t, tt.med, d.Median, 1e-12, "%v", tt.data)
		assert.InDelta(t, tt.q75, d.Q75, 1e-12, "%v", tt.data)
	}
}

func TestDescribe_DoesNotReorderInput(t *testing.T) {
	data := []float64{3, 1, 2}
	_ = Describe(data)
	assert.Equal(t, []float64{3, 1, 2}, data)
}

func TestSummarize_Tables(t *testing.T) {
	ds, err := generator.Generate(generator.DefaultConfig())
	require.NoError(t, err)
	view := filter.Apply(ds, wage.DefaultCriteria())

	s := Summarize(view)
	require.Len(t, s.Overall, 4)
	assert.Equal(t, wage.VarEducation, s.Overall[0].Variable)
	assert.Equal(t, wage.VarLogWage, s.Overall[3].Variable)
	for _, vs := range s.Overall {
		assert.Equal(t, view.Len(), vs.Stats.Count)
	}

	edu, ok := s.Lookup(wage.VarEducation)
	require.True(t, ok)
	assert.GreaterOrEqual(t, edu.Min, 8.0)
	assert.LessOrEqual(t, edu.Max, 16.0)

	require.Len(t, s.Grouped, 2)
	assert.Equal(t, wage.Female, s.Grouped[0].Gender)
	assert.Equal(t, wage.Male, s.Grouped[1].Gender)
	total := 0
	for _, g := range s.Grouped {
		require.Len(t, g.Variables, 3)
		total += g.Variables[0].Stats.Count
	}
	assert.Equal(t, view.Len(), total)
}

func TestSummarize_SingleGroupAndEmpty(t *testing.T) {
	ds, err := generator.Generate(generator.DefaultConfig())
	require.NoError(t, err)

	males := filter.Apply(ds, wage.FilterCriteria{Genders: []wage.Gender{wage.Male}, EducationMin: 6, EducationMax: 20})
	s := Summarize(males)
	require.Len(t, s.Grouped, 1)
	assert.Equal(t, wage.Male, s.Grouped[0].Gender)

	empty := filter.Apply(ds, wage.FilterCriteria{EducationMin: 6, EducationMax: 20})
	s = Summarize(empty)
	assert.Empty(t, s.Grouped)
	assert.Equal(t, 0, s.Overall[0].Stats.Count)
	assert.True(t, math.IsNaN(s.Overall[0].Stats.Std))
}

func TestOverview(t *testing.T) {
	ds, err := generator.Generate(generator.DefaultConfig())
	require.NoError(t, err)
	view := filter.Apply(ds, wage.DefaultCriteria())

	o := Overview(view)
	assert.Equal(t, view.Len(), o.Observations)
	assert.InDelta(t, 12, o.MeanEducation, 1.5)
	assert.Greater(t, o.MeanWage, 0.0)

	empty := Overview(filter.Apply(ds, wage.FilterCriteria{}))
	assert.Equal(t, 0, empty.Observations)
	assert.True(t, math.IsNaN(empty.MeanWage))
}
