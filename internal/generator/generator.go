package generator

import (
	"fmt"
	"math"
	"math/rand"

	"mincerdash/domain/wage"
)

// Mincer equation used to simulate log wages:
//
//	log_wage = 2.5 + 0.08*edu + 0.05*exp - 0.001*exp^2 + 0.15*male + N(0, 0.2)
const (
	Intercept       = 2.5
	BetaEducation   = 0.08
	BetaExperience  = 0.05
	BetaExperience2 = -0.001
	BetaMale        = 0.15
	NoiseSD         = 0.2
)

// Config controls the simulated sample.
type Config struct {
	Seed int64
	Size int

	MaleShare float64

	EducationMean, EducationSD   float64
	EducationMin, EducationMax   float64
	ExperienceMean, ExperienceSD float64
	ExperienceMin, ExperienceMax float64

	// rows outside (LogWageLow, LogWageHigh) are dropped
	LogWageLow, LogWageHigh float64
}

// DefaultConfig returns the dashboard's sample: n=1000, seed 123.
func DefaultConfig() Config {
	return Config{
		Seed:           123,
		Size:           1000,
		MaleShare:      0.55,
		EducationMean:  12,
		EducationSD:    2,
		EducationMin:   6,
		EducationMax:   20,
		ExperienceMean: 10,
		ExperienceSD:   5,
		ExperienceMin:  0,
		ExperienceMax:  40,
		LogWageLow:     1,
		LogWageHigh:    5,
	}
}

// WithSeed returns the default configuration for another seed
func WithSeed(seed int64) Config {
	cfg := DefaultConfig()
	cfg.Seed = seed
	return cfg
}

// Generate simulates the dataset. Columns are drawn one after another
// (gender, education, experience, noise) so every column is a pure function
// of the seed.
func Generate(cfg Config) (*wage.Dataset, error) {
	if cfg.Size <= 0 {
		return nil, fmt.Errorf("size must be > 0")
	}
	if cfg.MaleShare < 0 || cfg.MaleShare > 1 {
		return nil, fmt.Errorf("male share must be within [0,1], got %g", cfg.MaleShare)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	n := cfg.Size

	// P(male) = MaleShare: a uniform draw below the female share picks female.
	genders := make([]wage.Gender, n)
	for i := range genders {
		if rng.Float64() < 1-cfg.MaleShare {
			genders[i] = wage.Female
		} else {
			genders[i] = wage.Male
		}
	}

	education := make([]float64, n)
	for i := range education {
		education[i] = clip(cfg.EducationMean+cfg.EducationSD*rng.NormFloat64(), cfg.EducationMin, cfg.EducationMax)
	}

	experience := make([]float64, n)
	for i := range experience {
		experience[i] = clip(cfg.ExperienceMean+cfg.ExperienceSD*rng.NormFloat64(), cfg.ExperienceMin, cfg.ExperienceMax)
	}

	rows := make([]wage.Observation, 0, n)
	for i := 0; i < n; i++ {
		noise := NoiseSD * rng.NormFloat64()
		edu, exp := education[i], experience[i]
		logWage := Intercept +
			BetaEducation*edu +
			BetaExperience*exp +
			BetaExperience2*exp*exp +
			BetaMale*genders[i].Dummy() +
			noise

		if math.IsNaN(logWage) || math.IsNaN(edu) || math.IsNaN(exp) {
			continue
		}
		if logWage <= cfg.LogWageLow || logWage >= cfg.LogWageHigh {
			continue
		}

		rows = append(rows, wage.Observation{
			ID:           i,
			Gender:       genders[i],
			Education:    edu,
			Experience:   exp,
			ExperienceSq: exp * exp,
			LogWage:      logWage,
			Wage:         math.Exp(logWage),
		})
	}

	return wage.NewDataset(cfg.Seed, rows), nil
}

func clip(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
