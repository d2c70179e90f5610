package score

import (
	"math"

	"github.com/pkg/errors"
)

var (
	ErrOutOfRange = errors.New("score outside valid range")
	ErrDeviation  = errors.New("score deviates too far from anchor")
	ErrAverage    = errors.New("average outside tolerance of target")
)

// Constraints bound what counts as a valid redistribution.
type Constraints struct {
	Min          float64 `json:"min" yaml:"min"`
	Max          float64 `json:"max" yaml:"max"`
	MaxDeviation float64 `json:"maxDeviation" yaml:"maxDeviation"`
	Tolerance    float64 `json:"tolerance" yaml:"tolerance"`
	MaxAttempts  int     `json:"maxAttempts,omitempty" yaml:"maxAttempts,omitempty"`
}

// PatternConstraints are the bounds used by PatternLibrary.
func PatternConstraints() Constraints {
	return Constraints{
		Min:          0,
		Max:          100,
		MaxDeviation: 2,
		Tolerance:    0.1,
	}
}

// PerturbationConstraints are the bounds used by RandomPerturbation.
func PerturbationConstraints() Constraints {
	return Constraints{
		Min:          0,
		Max:          100,
		MaxDeviation: 5,
		Tolerance:    0.1,
		MaxAttempts:  100,
	}
}

// InRange reports whether v lies inside [Min, Max].
func (c Constraints) InRange(v float64) bool {
	return v >= c.Min && v <= c.Max
}

// WithinDeviation reports whether v is at most MaxDeviation from anchor.
func (c Constraints) WithinDeviation(v, anchor float64) bool {
	return math.Abs(v-anchor) <= c.MaxDeviation
}

// WithinTolerance reports whether mean is strictly closer than Tolerance
// to target.
func (c Constraints) WithinTolerance(mean, target float64) bool {
	return math.Abs(mean-target) < c.Tolerance
}

// Violations returns every constraint s breaks. The mean is compared after
// rounding to one decimal place.
func (c Constraints) Violations(s ScoreSet, anchor, target float64) []error {
	var errs []error
	for i, v := range s {
		if !c.InRange(v) {
			errs = append(errs, errors.Wrapf(ErrOutOfRange, "score %d is %g, want [%g,%g]", i+1, v, c.Min, c.Max))
		}
	}
	for i, v := range s {
		if !c.WithinDeviation(v, anchor) {
			errs = append(errs, errors.Wrapf(ErrDeviation, "score %d is %g, anchor %g ±%g", i+1, v, anchor, c.MaxDeviation))
		}
	}
	if mean := roundHalfEven(s.Mean(), 1); !c.WithinTolerance(mean, target) {
		errs = append(errs, errors.Wrapf(ErrAverage, "mean %g, target %g ±%g", mean, target, c.Tolerance))
	}
	return errs
}

// Validate returns the first violation, or nil when s satisfies c.
func (c Constraints) Validate(s ScoreSet, anchor, target float64) error {
	if errs := c.Violations(s, anchor, target); len(errs) > 0 {
		return errs[0]
	}
	return nil
}
