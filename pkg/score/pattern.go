package score

import (
	"fmt"
	"math"

	"github.com/mchmarny/regrade/pkg/random"
)

const patternStrategyName = "pattern"

// DeviationVector is a zero-sum offset template applied to the anchor.
type DeviationVector [Size]int

// Sum returns the sum of the offsets.
func (d DeviationVector) Sum() int {
	var s int
	for _, v := range d {
		s += v
	}
	return s
}

// MaxMagnitude returns the largest absolute offset.
func (d DeviationVector) MaxMagnitude() int {
	var m int
	for _, v := range d {
		if v < 0 {
			v = -v
		}
		if v > m {
			m = v
		}
	}
	return m
}

// Apply adds the offsets to anchor.
func (d DeviationVector) Apply(anchor float64) ScoreSet {
	var s ScoreSet
	for i, v := range d {
		s[i] = anchor + float64(v)
	}
	return s
}

var patterns = []DeviationVector{
	{1, 1, -1, -1, 0},
	{1, -1, 1, -1, 0},
	{2, -1, -1, 0, 0},
	{1, 1, 0, -1, -1},
	{-1, -1, 1, 1, 0},
	{1, 0, 0, -1, 0},
	{0, 1, -1, 0, 0},
	{1, -1, 0, 0, 0},
}

// Patterns returns a copy of the deviation library.
func Patterns() []DeviationVector {
	out := make([]DeviationVector, len(patterns))
	copy(out, patterns)
	return out
}

// PatternOption configures a PatternLibrary.
type PatternOption func(*PatternLibrary)

// WithExhaustive makes the library try every vector, in shuffled order,
// before falling back. By default a single vector is drawn.
func WithExhaustive() PatternOption {
	return func(p *PatternLibrary) {
		p.exhaustive = true
	}
}

// WithPatternConstraints overrides the default pattern constraints.
func WithPatternConstraints(c Constraints) PatternOption {
	return func(p *PatternLibrary) {
		p.constraints = c
	}
}

// PatternLibrary perturbs the rounded anchor with one of the library's
// deviation vectors. Because every vector sums to zero the candidate mean
// always equals the rounded anchor, so it only succeeds when the target is
// already within tolerance of the anchor.
type PatternLibrary struct {
	src         random.Source
	constraints Constraints
	exhaustive  bool
}

// NewPatternLibrary returns the pattern strategy drawing from src.
func NewPatternLibrary(src random.Source, opts ...PatternOption) *PatternLibrary {
	p := &PatternLibrary{
		src:         src,
		constraints: PatternConstraints(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *PatternLibrary) Name() string {
	return patternStrategyName
}

func (p *PatternLibrary) Constraints() Constraints {
	return p.constraints
}

// Generate returns the candidate built from the drawn vector if it passes
// validation. Otherwise it falls back to original when it holds exactly five
// scores, and to the rounded anchor repeated five times when it does not.
func (p *PatternLibrary) Generate(anchor, target float64, original []float64) Outcome {
	anchor = math.RoundToEven(anchor)
	target = roundHalfEven(target, 1)

	order := []int{p.src.Choose(len(patterns))}
	if p.exhaustive {
		order = make([]int, len(patterns))
		for i := range order {
			order[i] = i
		}
		p.src.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
	}

	var lastErr error
	for n, idx := range order {
		candidate := patterns[idx].Apply(anchor)
		if lastErr = p.constraints.Validate(candidate, anchor, target); lastErr == nil {
			return satisfied(candidate, n+1)
		}
	}

	reason := fmt.Sprintf("no pattern satisfied constraints: %v", lastErr)
	if s, ok := FromSlice(original); ok {
		return fallenBack(s, len(order), reason)
	}
	return fallenBack(Repeat(anchor), len(order), reason)
}
