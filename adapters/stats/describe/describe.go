package describe

import (
	"math"
	"sort"

	domainstats "mincerdash/domain/stats"
	"mincerdash/domain/wage"

	"github.com/montanaflynn/stats"
)

// Describe computes count, mean, sample std (ddof=1), min, quartiles and max.
// Undefined statistics stay NaN rather than being coerced to zero. All three
// quartiles interpolate linearly between the closest ranks.
func Describe(data []float64) domainstats.DescriptiveStats {
	nan := math.NaN()
	d := domainstats.DescriptiveStats{
		Count: len(data), Mean: nan, Std: nan, Min: nan, Q25: nan, Median: nan, Q75: nan, Max: nan,
	}
	if len(data) == 0 {
		return d
	}

	d.Mean, _ = stats.Mean(data)
	d.Min, _ = stats.Min(data)
	d.Max, _ = stats.Max(data)
	if len(data) > 1 {
		d.Std, _ = stats.StandardDeviationSample(data)
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	d.Q25 = linearQuantile(sorted, 0.25)
	d.Median = linearQuantile(sorted, 0.5)
	d.Q75 = linearQuantile(sorted, 0.75)

	return d
}

// Summarize builds the overall table (education, experience, wage, log wage)
// and the per-gender table (education, experience, wage). Groups appear in
// category order and only when the view contains them.
func Summarize(view *wage.FilteredView) domainstats.Summary {
	summary := domainstats.Summary{
		Overall: describeVariables(view, wage.OverallVariables),
	}

	groups := view.ByGender()
	for _, g := range wage.Genders {
		sub, ok := groups[g]
		if !ok {
			continue
		}
		summary.Grouped = append(summary.Grouped, domainstats.GroupStats{
			Gender:    g,
			Variables: describeVariables(sub, wage.GroupedVariables),
		})
	}
	return summary
}

// Overview computes the four headline metrics
func Overview(view *wage.FilteredView) domainstats.Overview {
	return domainstats.Overview{
		Observations:   view.Len(),
		MeanEducation:  mean(view.Column(wage.VarEducation)),
		MeanExperience: mean(view.Column(wage.VarExperience)),
		MeanWage:       mean(view.Column(wage.VarWage)),
	}
}

func describeVariables(view *wage.FilteredView, vars []wage.Variable) []domainstats.VariableStats {
	out := make([]domainstats.VariableStats, 0, len(vars))
	for _, v := range vars {
		out = append(out, domainstats.VariableStats{Variable: v, Stats: Describe(view.Column(v))})
	}
	return out
}

func mean(data []float64) float64 {
	m, err := stats.Mean(data)
	if err != nil {
		return math.NaN()
	}
	return m
}

// linearQuantile reads quantile p from sorted data at rank h = (n-1)p,
// interpolating between x[floor(h)] and the next value.
func linearQuantile(sorted []float64, p float64) float64 {
	h := float64(len(sorted)-1) * p
	lo := int(math.Floor(h))
	if lo+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}
