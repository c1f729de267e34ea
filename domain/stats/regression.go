package stats

import (
	"encoding/json"
	"math"

	"mincerdash/domain/wage"
)

// Term names a column of the design matrix
type Term string

const (
	TermIntercept    Term = "Intercept"
	TermEducation    Term = "education"
	TermExperience   Term = "experience"
	TermExperienceSq Term = "experience_sq"
	TermGender       Term = "gender"
)

// MincerTerms is the fixed design: log_wage ~ 1 + edu + exp + exp^2 + gender
var MincerTerms = []Term{TermIntercept, TermEducation, TermExperience, TermExperienceSq, TermGender}

// Variable maps a predictor term to the observation column feeding it
func (t Term) Variable() (wage.Variable, bool) {
	switch t {
	case TermEducation:
		return wage.VarEducation, true
	case TermExperience:
		return wage.VarExperience, true
	case TermExperienceSq:
		return wage.VarExperienceSq, true
	case TermGender:
		return wage.VarGender, true
	}
	return "", false
}

// Label is the display name used in tables and the forest plot
func (t Term) Label() string {
	if v, ok := t.Variable(); ok {
		return v.Label()
	}
	return string(t)
}

// CovarianceType selects the variance estimator
type CovarianceType string

const (
	CovNonRobust CovarianceType = "nonrobust"
	CovHC1       CovarianceType = "HC1"
)

// Coefficient is one row of the coefficient table
type Coefficient struct {
	Term     Term    `json:"term"`
	Estimate float64 `json:"estimate"`
	StdError float64 `json:"std_error"`
	TStat    float64 `json:"t"`
	PValue   float64 `json:"p_value"`
	CILower  float64 `json:"ci_lower"`
	CIUpper  float64 `json:"ci_upper"`
}

// MarshalJSON writes undefined statistics (an exact fit has SE 0) as null
func (c Coefficient) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"term":      c.Term,
		"estimate":  Nullable(c.Estimate),
		"std_error": Nullable(c.StdError),
		"t":         Nullable(c.TStat),
		"p_value":   Nullable(c.PValue),
		"ci_lower":  Nullable(c.CILower),
		"ci_upper":  Nullable(c.CIUpper),
	})
}

// Significant reports p < SignificanceLevel
func (c Coefficient) Significant() bool {
	return c.PValue < SignificanceLevel
}

// ModelFit holds goodness-of-fit figures for the summary block
type ModelFit struct {
	RSquared      float64 `json:"r_squared"`
	AdjRSquared   float64 `json:"adj_r_squared"`
	FStatistic    float64 `json:"f_statistic"`
	FPValue       float64 `json:"f_p_value"`
	ResidualSE    float64 `json:"residual_se"`
	LogLikelihood float64 `json:"log_likelihood"`
	AIC           float64 `json:"aic"`
	BIC           float64 `json:"bic"`
}

// MarshalJSON writes undefined fit statistics as null
func (m ModelFit) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"r_squared":      Nullable(m.RSquared),
		"adj_r_squared":  Nullable(m.AdjRSquared),
		"f_statistic":    Nullable(m.FStatistic),
		"f_p_value":      Nullable(m.FPValue),
		"residual_se":    Nullable(m.ResidualSE),
		"log_likelihood": Nullable(m.LogLikelihood),
		"aic":            Nullable(m.AIC),
		"bic":            Nullable(m.BIC),
	})
}

// RegressionResult is an immutable OLS fit over one filtered view.
type RegressionResult struct {
	Coefficients []Coefficient `json:"coefficients"`
	Robust       bool          `json:"robust"`
	Observations int           `json:"observations"`
	DFResidual   int           `json:"df_residual"`
	DFModel      int           `json:"df_model"`
	Fit          ModelFit      `json:"fit"`
}

// CovarianceType reports the estimator used for standard errors
func (r *RegressionResult) CovarianceType() CovarianceType {
	if r.Robust {
		return CovHC1
	}
	return CovNonRobust
}

// Coefficient looks up a term
func (r *RegressionResult) Coefficient(t Term) (Coefficient, bool) {
	for _, c := range r.Coefficients {
		if c.Term == t {
			return c, true
		}
	}
	return Coefficient{}, false
}

// Params returns estimates keyed by term
func (r *RegressionResult) Params() map[Term]float64 {
	return r.column(func(c Coefficient) float64 { return c.Estimate })
}

// StdErrors returns standard errors keyed by term
func (r *RegressionResult) StdErrors() map[Term]float64 {
	return r.column(func(c Coefficient) float64 { return c.StdError })
}

// PValues returns p-values keyed by term
func (r *RegressionResult) PValues() map[Term]float64 {
	return r.column(func(c Coefficient) float64 { return c.PValue })
}

func (r *RegressionResult) column(pick func(Coefficient) float64) map[Term]float64 {
	out := make(map[Term]float64, len(r.Coefficients))
	for _, c := range r.Coefficients {
		out[c.Term] = pick(c)
	}
	return out
}

// Slopes returns every coefficient except the intercept
func (r *RegressionResult) Slopes() []Coefficient {
	out := make([]Coefficient, 0, len(r.Coefficients))
	for _, c := range r.Coefficients {
		if c.Term != TermIntercept {
			out = append(out, c)
		}
	}
	return out
}

// DerivedMetric is a headline number computed from one coefficient
type DerivedMetric struct {
	Name        string  `json:"name"`
	Value       float64 `json:"value"` // proportion; multiply by 100 for percent
	PValue      float64 `json:"p_value"`
	Significant bool    `json:"significant"`
}

// MarshalJSON writes an undefined value or p-value as null
func (m DerivedMetric) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"name":        m.Name,
		"value":       Nullable(m.Value),
		"p_value":     Nullable(m.PValue),
		"significant": m.Significant,
	})
}

// Percent returns the metric in percentage points
func (m DerivedMetric) Percent() float64 {
	return m.Value * 100
}

// Annotation is the significance note shown next to the metric
func (m DerivedMetric) Annotation() string {
	if m.Significant {
		return "(p<0.05, significant)"
	}
	return "(p>=0.05, not significant)"
}

// KeyFindings are the two metrics the dashboard headlines
type KeyFindings struct {
	EducationReturn DerivedMetric `json:"education_return"`
	GenderPremium   DerivedMetric `json:"gender_premium"`
}

// Findings derives the education return (beta_edu) and the back-transformed
// gender premium exp(beta_gender) - 1.
func (r *RegressionResult) Findings() KeyFindings {
	edu, _ := r.Coefficient(TermEducation)
	gender, _ := r.Coefficient(TermGender)
	return KeyFindings{
		EducationReturn: DerivedMetric{
			Name:        "Return to education",
			Value:       edu.Estimate,
			PValue:      edu.PValue,
			Significant: edu.Significant(),
		},
		GenderPremium: DerivedMetric{
			Name:        "Male wage premium",
			Value:       math.Exp(gender.Estimate) - 1,
			PValue:      gender.PValue,
			Significant: gender.Significant(),
		},
	}
}
