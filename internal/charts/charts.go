// Package charts turns a filtered view and a regression fit into the data
// series the dashboard hands to its client-side renderer.
package charts

import (
	"encoding/json"

	domainstats "mincerdash/domain/stats"
	"mincerdash/domain/wage"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Forest plot palette
const (
	ColorSignificant   = "#1f77b4"
	ColorInsignificant = "#7f7f7f"
	ColorReference     = "#d62728"
)

// GenderColors are the scatter colors per category
var GenderColors = map[wage.Gender]string{
	wage.Female: "#1f77b4",
	wage.Male:   "#ff7f0e",
}

// Point is a single (x, y) pair
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Line is a fitted y = Intercept + Slope*x drawn between two endpoints.
type Line struct {
	Intercept float64 `json:"intercept"`
	Slope     float64 `json:"slope"`
	From      Point   `json:"from"`
	To        Point   `json:"to"`
}

// ScatterSeries holds one gender's points and, when at least two distinct
// education values exist, its fitted line.
type ScatterSeries struct {
	Gender wage.Gender `json:"-"`
	Label  string      `json:"label"`
	Color  string      `json:"color"`
	Points []Point     `json:"points"`
	Fit    *Line       `json:"fit,omitempty"`
}

// Scatter builds education vs log wage series per gender, in display order.
func Scatter(view *wage.FilteredView) []ScatterSeries {
	groups := view.ByGender()
	out := make([]ScatterSeries, 0, len(groups))
	for _, g := range wage.Genders {
		sub, ok := groups[g]
		if !ok {
			continue
		}
		xs := sub.Column(wage.VarEducation)
		ys := sub.Column(wage.VarLogWage)

		points := make([]Point, len(xs))
		for i := range xs {
			points[i] = Point{X: xs[i], Y: ys[i]}
		}
		out = append(out, ScatterSeries{
			Gender: g,
			Label:  g.Label(),
			Color:  GenderColors[g],
			Points: points,
			Fit:    fitLine(xs, ys),
		})
	}
	return out
}

func fitLine(xs, ys []float64) *Line {
	if len(xs) < 2 {
		return nil
	}
	lo, hi := floats.Min(xs), floats.Max(xs)
	if lo == hi {
		return nil
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	return &Line{
		Intercept: alpha,
		Slope:     beta,
		From:      Point{X: lo, Y: alpha + beta*lo},
		To:        Point{X: hi, Y: alpha + beta*hi},
	}
}

// ForestEntry is one coefficient with its ±1.96·SE interval
type ForestEntry struct {
	Term     domainstats.Term `json:"term"`
	Label    string           `json:"label"`
	Estimate float64          `json:"estimate"`
	Lower    float64          `json:"lower"`
	Upper    float64          `json:"upper"`
	PValue   float64          `json:"p_value"`
	Color    string           `json:"color"`
}

// MarshalJSON writes undefined bounds and p-values as null
func (e ForestEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"term":     e.Term,
		"label":    e.Label,
		"estimate": domainstats.Nullable(e.Estimate),
		"lower":    domainstats.Nullable(e.Lower),
		"upper":    domainstats.Nullable(e.Upper),
		"p_value":  domainstats.Nullable(e.PValue),
		"color":    e.Color,
	})
}

// Forest is the coefficient plot configuration
type Forest struct {
	Entries        []ForestEntry `json:"entries"`
	Reference      float64       `json:"reference"`
	ReferenceColor string        `json:"reference_color"`
	Title          string        `json:"title"`
}

// ForestPlot builds entries for every slope in design order.
func ForestPlot(result *domainstats.RegressionResult) Forest {
	slopes := result.Slopes()
	entries := make([]ForestEntry, len(slopes))
	for i, c := range slopes {
		color := ColorInsignificant
		if c.Significant() {
			color = ColorSignificant
		}
		half := domainstats.ForestPlotZ * c.StdError
		entries[i] = ForestEntry{
			Term:     c.Term,
			Label:    c.Term.Label(),
			Estimate: c.Estimate,
			Lower:    c.Estimate - half,
			Upper:    c.Estimate + half,
			PValue:   c.PValue,
			Color:    color,
		}
	}

	title := "Coefficients (classical SE)"
	if result.Robust {
		title = "Coefficients (HC1 robust SE)"
	}
	return Forest{
		Entries:        entries,
		Reference:      0,
		ReferenceColor: ColorReference,
		Title:          title,
	}
}
