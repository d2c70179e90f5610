package score

import (
	"fmt"
	"math"

	"github.com/mchmarny/regrade/pkg/random"
)

const perturbStrategyName = "random"

// RandomPerturbation draws four offsets around the anchor and solves for the
// fifth score so the mean equals the target. It accepts the first candidate
// whose fifth score stays within MaxDeviation of the anchor.
//
// Scores are not checked against the valid range: an anchor near 0 or 100 can
// yield scores outside it. The diagnostic pass reports those as range flags.
type RandomPerturbation struct {
	src         random.Source
	constraints Constraints
}

// NewRandomPerturbation returns the random strategy drawing from src.
func NewRandomPerturbation(src random.Source) *RandomPerturbation {
	return &RandomPerturbation{
		src:         src,
		constraints: PerturbationConstraints(),
	}
}

func (r *RandomPerturbation) Name() string {
	return perturbStrategyName
}

func (r *RandomPerturbation) Constraints() Constraints {
	return r.constraints
}

// Generate ignores original; its fallback is always the anchor repeated.
func (r *RandomPerturbation) Generate(anchor, target float64, _ []float64) Outcome {
	spread := int(r.constraints.MaxDeviation)

	for attempt := 1; attempt <= r.constraints.MaxAttempts; attempt++ {
		var s ScoreSet
		var sum float64
		for i := 0; i < Size-1; i++ {
			s[i] = anchor + float64(r.src.IntRange(-spread, spread))
			sum += s[i]
		}

		last := math.RoundToEven(target*Size - sum)
		if r.constraints.WithinDeviation(last, anchor) {
			s[Size-1] = last
			return satisfied(s, attempt)
		}
	}

	return fallenBack(Repeat(anchor), r.constraints.MaxAttempts,
		fmt.Sprintf("no candidate within %d attempts", r.constraints.MaxAttempts))
}
