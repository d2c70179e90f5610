package score

import (
	"fmt"
	"math"
)

// FlagKind names the check a diagnostic flag comes from.
type FlagKind string

const (
	FlagAverage   FlagKind = "average"
	FlagDeviation FlagKind = "deviation"
	FlagRange     FlagKind = "range"
)

// Entry is one redistributed row as seen by the diagnostic pass.
type Entry struct {
	Row    int      `json:"row" yaml:"row"`
	Anchor float64  `json:"anchor" yaml:"anchor"`
	Target float64  `json:"target" yaml:"target"`
	Scores ScoreSet `json:"scores" yaml:"scores"`
}

// Flag is a diagnostic finding. Flags are informational only.
type Flag struct {
	Row    int      `json:"row" yaml:"row"`
	Kind   FlagKind `json:"kind" yaml:"kind"`
	Detail string   `json:"detail" yaml:"detail"`
	Anchor float64  `json:"anchor" yaml:"anchor"`
	Target float64  `json:"target" yaml:"target"`
	Mean   float64  `json:"mean" yaml:"mean"`
	Scores ScoreSet `json:"scores" yaml:"scores"`
}

// RoundedMean is the mean of s rounded to one decimal place, the value
// written to the output average column.
func RoundedMean(s ScoreSet) float64 {
	return roundHalfEven(s.Mean(), 1)
}

// Diagnose re-checks already produced entries against c. It flags a row
// whose mean differs from its target by more than the tolerance, whose
// scores stray further than MaxDeviation from the anchor, or whose scores
// leave the valid range. At most one flag of each kind is reported per row.
func Diagnose(entries []Entry, c Constraints) []Flag {
	var flags []Flag
	for _, e := range entries {
		mean := RoundedMean(e.Scores)
		flag := func(k FlagKind, detail string) {
			flags = append(flags, Flag{
				Row:    e.Row,
				Kind:   k,
				Detail: detail,
				Anchor: e.Anchor,
				Target: e.Target,
				Mean:   mean,
				Scores: e.Scores,
			})
		}

		if d := math.Abs(mean - e.Target); d > c.Tolerance {
			flag(FlagAverage, fmt.Sprintf("mean %g is %.2f from target %g", mean, d, e.Target))
		}

		for i, v := range e.Scores {
			if !c.WithinDeviation(v, e.Anchor) {
				flag(FlagDeviation, fmt.Sprintf("score %d (%g) exceeds anchor %g ±%g", i+1, v, e.Anchor, c.MaxDeviation))
				break
			}
		}

		for i, v := range e.Scores {
			if !c.InRange(v) {
				flag(FlagRange, fmt.Sprintf("score %d (%g) outside [%g,%g]", i+1, v, c.Min, c.Max))
				break
			}
		}
	}
	return flags
}
