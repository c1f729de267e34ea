package wage

import "math"

// Variable names a numeric column of an Observation.
type Variable string

const (
	VarEducation    Variable = "education"
	VarExperience   Variable = "experience"
	VarExperienceSq Variable = "experience_sq"
	VarGender       Variable = "gender"
	VarWage         Variable = "wage"
	VarLogWage      Variable = "log_wage"
)

// Value reads the variable from an observation
func (v Variable) Value(o Observation) float64 {
	switch v {
	case VarEducation:
		return o.Education
	case VarExperience:
		return o.Experience
	case VarExperienceSq:
		return o.ExperienceSq
	case VarGender:
		return o.Gender.Dummy()
	case VarWage:
		return o.Wage
	case VarLogWage:
		return o.LogWage
	}
	return math.NaN()
}

// Label is the human-readable column header
func (v Variable) Label() string {
	switch v {
	case VarEducation:
		return "Education (years)"
	case VarExperience:
		return "Experience (years)"
	case VarExperienceSq:
		return "Experience squared"
	case VarGender:
		return "Gender (male=1)"
	case VarWage:
		return "Hourly Wage"
	case VarLogWage:
		return "Log Wage"
	}
	return string(v)
}

// Column groups used by the summarizer and exports
var (
	OverallVariables = []Variable{VarEducation, VarExperience, VarWage, VarLogWage}
	GroupedVariables = []Variable{VarEducation, VarExperience, VarWage}
)
