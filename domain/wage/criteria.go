package wage

import (
	"fmt"
	"sort"
	"strings"
)

// Slider domain for the education filter
const (
	EducationFloor = 6
	EducationCeil  = 20
)

// FilterCriteria selects rows by gender membership and an inclusive
// education range.
type FilterCriteria struct {
	Genders      []Gender `json:"genders"`
	EducationMin int      `json:"education_min"`
	EducationMax int      `json:"education_max"`
}

// DefaultCriteria is the dashboard's initial selection
func DefaultCriteria() FilterCriteria {
	return FilterCriteria{
		Genders:      []Gender{Female, Male},
		EducationMin: 8,
		EducationMax: 16,
	}
}

// Includes reports whether g is selected
func (c FilterCriteria) Includes(g Gender) bool {
	for _, sel := range c.Genders {
		if sel == g {
			return true
		}
	}
	return false
}

// Matches applies both predicates to one observation
func (c FilterCriteria) Matches(o Observation) bool {
	return c.Includes(o.Gender) &&
		o.Education >= float64(c.EducationMin) &&
		o.Education <= float64(c.EducationMax)
}

// GenderLabels lists the selected categories in canonical order
func (c FilterCriteria) GenderLabels() []string {
	sorted := make([]Gender, len(c.Genders))
	copy(sorted, c.Genders)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	labels := make([]string, 0, len(sorted))
	var last Gender = -1
	for _, g := range sorted {
		if g == last {
			continue
		}
		labels = append(labels, g.String())
		last = g
	}
	return labels
}

// String renders the criteria the way the dashboard header shows them
func (c FilterCriteria) String() string {
	return fmt.Sprintf("gender=[%s] | education=%d-%d years",
		strings.Join(c.GenderLabels(), ", "), c.EducationMin, c.EducationMax)
}

// CriteriaResult is the outcome of normalizing user input: either the
// criteria as given, or an adjusted copy with a warning for the user.
type CriteriaResult struct {
	Criteria FilterCriteria `json:"criteria"`
	Adjusted bool           `json:"adjusted"`
	Warning  string         `json:"warning,omitempty"`
}

// NormalizeCriteria enforces min <= max. When the user inverts the range the
// maximum is raised to min+1 and a warning is attached.
func NormalizeCriteria(c FilterCriteria) CriteriaResult {
	if err := c.Validate(); err != nil {
		adjusted := c
		adjusted.Genders = append([]Gender(nil), c.Genders...)
		adjusted.EducationMax = c.EducationMin + 1
		return CriteriaResult{
			Criteria: adjusted,
			Adjusted: true,
			Warning: fmt.Sprintf("minimum education cannot exceed maximum; maximum adjusted to %d",
				adjusted.EducationMax),
		}
	}
	return CriteriaResult{Criteria: c}
}

// Validate returns an *InvalidCriteriaError when the range is inverted
func (c FilterCriteria) Validate() error {
	if c.EducationMin > c.EducationMax {
		return &InvalidCriteriaError{Min: c.EducationMin, Max: c.EducationMax}
	}
	return nil
}
