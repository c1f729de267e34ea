package stats

import (
	"encoding/json"
	"math"

	"mincerdash/domain/wage"
)

// SignificanceLevel is the fixed threshold for calling a coefficient significant.
const SignificanceLevel = 0.05

// ForestPlotZ is the normal critical value used for the 95% whiskers on the forest plot.
const ForestPlotZ = 1.96

// DescriptiveStats mirrors a describe() row set for one variable. With fewer
// than two observations Std is NaN; with none, every field except Count is NaN.
type DescriptiveStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q25    float64 `json:"q25"`
	Median float64 `json:"median"`
	Q75    float64 `json:"q75"`
	Max    float64 `json:"max"`
}

// Row labels of a describe table, in order
var DescribeRows = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// Values returns the statistics in DescribeRows order
func (d DescriptiveStats) Values() []float64 {
	return []float64{float64(d.Count), d.Mean, d.Std, d.Min, d.Q25, d.Median, d.Q75, d.Max}
}

// MarshalJSON writes undefined statistics as null instead of failing on NaN
func (d DescriptiveStats) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"count":  d.Count,
		"mean":   Nullable(d.Mean),
		"std":    Nullable(d.Std),
		"min":    Nullable(d.Min),
		"q25":    Nullable(d.Q25),
		"median": Nullable(d.Median),
		"q75":    Nullable(d.Q75),
		"max":    Nullable(d.Max),
	})
}

// VariableStats pairs a column with its statistics
type VariableStats struct {
	Variable wage.Variable    `json:"variable"`
	Stats    DescriptiveStats `json:"stats"`
}

// GroupStats holds the per-variable statistics for one gender category
type GroupStats struct {
	Gender    wage.Gender     `json:"gender"`
	Variables []VariableStats `json:"variables"`
}

// Summary is the output of the statistics summarizer
type Summary struct {
	Overall []VariableStats `json:"overall"`
	Grouped []GroupStats    `json:"grouped"`
}

// Lookup finds the overall statistics for a variable
func (s Summary) Lookup(v wage.Variable) (DescriptiveStats, bool) {
	for _, vs := range s.Overall {
		if vs.Variable == v {
			return vs.Stats, true
		}
	}
	return DescriptiveStats{}, false
}

// DescribeRow is one statistic across every overall variable
type DescribeRow struct {
	Label  string
	Values []float64
}

// DescribeTable lays the overall statistics out the way describe() prints
// them: variables as columns, statistics as rows.
func (s Summary) DescribeTable() ([]wage.Variable, []DescribeRow) {
	vars := make([]wage.Variable, len(s.Overall))
	columns := make([][]float64, len(s.Overall))
	for i, vs := range s.Overall {
		vars[i] = vs.Variable
		columns[i] = vs.Stats.Values()
	}

	rows := make([]DescribeRow, len(DescribeRows))
	for r, label := range DescribeRows {
		values := make([]float64, len(columns))
		for c, col := range columns {
			values[c] = col[r]
		}
		rows[r] = DescribeRow{Label: label, Values: values}
	}
	return vars, rows
}

// Overview is the four headline metrics shown above the data table
type Overview struct {
	Observations   int     `json:"observations"`
	MeanEducation  float64 `json:"mean_education"`
	MeanExperience float64 `json:"mean_experience"`
	MeanWage       float64 `json:"mean_wage"`
}

// MarshalJSON writes undefined means as null
func (o Overview) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"observations":    o.Observations,
		"mean_education":  Nullable(o.MeanEducation),
		"mean_experience": Nullable(o.MeanExperience),
		"mean_wage":       Nullable(o.MeanWage),
	})
}

// Nullable maps NaN and ±Inf to nil so they encode as JSON null
func Nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
