package wage

import (
	"fmt"
	"strings"

	"mincerdash/domain/core"
)

// Gender is the binary category used both as a filter dimension and as the
// gender dummy in the wage equation (Male = 1).
type Gender int

const (
	Female Gender = 0
	Male   Gender = 1
)

// Genders lists every category in display order
var Genders = []Gender{Female, Male}

func (g Gender) String() string {
	switch g {
	case Female:
		return "female"
	case Male:
		return "male"
	default:
		return fmt.Sprintf("gender(%d)", int(g))
	}
}

// Label returns the capitalized display label
func (g Gender) Label() string {
	switch g {
	case Female:
		return "Female"
	case Male:
		return "Male"
	default:
		return g.String()
	}
}

// Dummy returns the regression encoding of the category
func (g Gender) Dummy() float64 {
	return float64(g)
}

// MarshalText encodes the category as its lowercase name
func (g Gender) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText accepts anything ParseGender does
func (g *Gender) UnmarshalText(text []byte) error {
	parsed, err := ParseGender(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// ParseGender parses "female"/"male" (case-insensitive) or "0"/"1"
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "female", "f", "0":
		return Female, nil
	case "male", "m", "1":
		return Male, nil
	}
	return 0, fmt.Errorf("unknown gender %q", s)
}

// Observation is one simulated individual.
type Observation struct {
	ID           int     `json:"id"` // row index at generation time
	Gender       Gender  `json:"gender"`
	Education    float64 `json:"education_years"`
	Experience   float64 `json:"experience_years"`
	ExperienceSq float64 `json:"experience_squared"`
	LogWage      float64 `json:"log_wage"`
	Wage         float64 `json:"wage"`
}

// Rows is read-only positional access shared by Dataset and FilteredView.
type Rows interface {
	Len() int
	At(i int) Observation
}

// Dataset is the generated sample. It is immutable once constructed and safe
// for concurrent readers.
type Dataset struct {
	seed        int64
	rows        []Observation
	fingerprint core.Hash
}

// NewDataset copies rows into a new immutable dataset
func NewDataset(seed int64, rows []Observation) *Dataset {
	owned := make([]Observation, len(rows))
	copy(owned, rows)

	h := core.NewFloatHasher(len(owned) * 6)
	for _, o := range owned {
		h.Add(float64(o.ID), o.Gender.Dummy(), o.Education, o.Experience, o.LogWage, o.Wage)
	}

	return &Dataset{seed: seed, rows: owned, fingerprint: h.Sum()}
}

// Seed returns the RNG seed the dataset was generated from
func (d *Dataset) Seed() int64 { return d.seed }

// Fingerprint is a SHA-256 over the exact bits of every row
func (d *Dataset) Fingerprint() core.Hash { return d.fingerprint }

// Len returns the number of observations
func (d *Dataset) Len() int { return len(d.rows) }

// At returns a copy of the i-th observation
func (d *Dataset) At(i int) Observation { return d.rows[i] }

// Observations returns a copy of all rows
func (d *Dataset) Observations() []Observation {
	out := make([]Observation, len(d.rows))
	copy(out, d.rows)
	return out
}

// All returns a view over every row of the dataset
func (d *Dataset) All() *FilteredView {
	index := make([]int, len(d.rows))
	for i := range index {
		index[i] = i
	}
	return &FilteredView{source: d, index: index}
}
