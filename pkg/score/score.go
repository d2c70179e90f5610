// Package score redistributes an anchor score into five sub-scores whose
// average tracks a target average.
//
// Two interchangeable strategies generate candidates: PatternLibrary applies
// small zero-sum deviation templates, RandomPerturbation searches randomly
// and solves for the last score. Neither ever fails; when no candidate
// satisfies the constraints the result is a fallback, tagged as such.
package score

import (
	"fmt"
	"strconv"
	"strings"
)

// Size is the number of sub-scores in a ScoreSet.
const Size = 5

// ScoreSet is the ordered set of redistributed sub-scores.
type ScoreSet [Size]float64

// Mean returns the arithmetic mean of the set.
func (s ScoreSet) Mean() float64 {
	var sum float64
	for _, v := range s {
		sum += v
	}
	return sum / Size
}

// Slice returns a copy of the set as a slice.
func (s ScoreSet) Slice() []float64 {
	out := make([]float64, Size)
	copy(out, s[:])
	return out
}

func (s ScoreSet) String() string {
	parts := make([]string, Size)
	for i, v := range s {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// Repeat returns a set with v in every position.
func Repeat(v float64) ScoreSet {
	var s ScoreSet
	for i := range s {
		s[i] = v
	}
	return s
}

// FromSlice converts v to a ScoreSet. It reports false unless v holds
// exactly Size values.
func FromSlice(v []float64) (ScoreSet, bool) {
	var s ScoreSet
	if len(v) != Size {
		return s, false
	}
	copy(s[:], v)
	return s, true
}

// Status tells a constraint-satisfying result apart from a fallback.
type Status int

const (
	Satisfied Status = iota
	FallenBack
)

func (s Status) String() string {
	switch s {
	case Satisfied:
		return "satisfied"
	case FallenBack:
		return "fallback"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// MarshalText renders the status by name in json and yaml reports.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a status name written by MarshalText.
func (s *Status) UnmarshalText(b []byte) error {
	switch string(b) {
	case "satisfied":
		*s = Satisfied
	case "fallback":
		*s = FallenBack
	default:
		return fmt.Errorf("unknown status %q", string(b))
	}
	return nil
}

// Outcome is the result of a single redistribution.
type Outcome struct {
	Scores   ScoreSet `json:"scores" yaml:"scores"`
	Status   Status   `json:"status" yaml:"status"`
	Reason   string   `json:"reason,omitempty" yaml:"reason,omitempty"`
	Attempts int      `json:"attempts" yaml:"attempts"`
}

// OK reports whether the outcome satisfied the constraints.
func (o Outcome) OK() bool {
	return o.Status == Satisfied
}

func satisfied(s ScoreSet, attempts int) Outcome {
	return Outcome{Scores: s, Status: Satisfied, Attempts: attempts}
}

func fallenBack(s ScoreSet, attempts int, reason string) Outcome {
	return Outcome{Scores: s, Status: FallenBack, Attempts: attempts, Reason: reason}
}

// roundHalfEven rounds the exact binary value of x to the given number of
// decimal places, ties to even. 1.05 is stored just above 1.05 and rounds to
// 1.1; 80.35 is stored just below and rounds to 80.3.
func roundHalfEven(x float64, places int) float64 {
	v, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', places, 64), 64)
	if err != nil {
		return x
	}
	return v
}
