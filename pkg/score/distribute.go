package score

import (
	"fmt"
	"strings"

	"github.com/mchmarny/regrade/pkg/random"
)

// Strategy generates a ScoreSet for an anchor and target average.
// Implementations always return an Outcome; they never fail.
type Strategy interface {
	Name() string
	Constraints() Constraints
	Generate(anchor, target float64, original []float64) Outcome
}

var (
	_ Strategy = (*PatternLibrary)(nil)
	_ Strategy = (*RandomPerturbation)(nil)
)

// StrategyNames lists the names accepted by StrategyByName.
var StrategyNames = []string{patternStrategyName, perturbStrategyName}

// StrategyByName builds the named strategy on top of src. Exhaustive only
// applies to the pattern strategy.
func StrategyByName(name string, src random.Source, exhaustive bool) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case patternStrategyName:
		var opts []PatternOption
		if exhaustive {
			opts = append(opts, WithExhaustive())
		}
		return NewPatternLibrary(src, opts...), nil
	case perturbStrategyName:
		return NewRandomPerturbation(src), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q, want one of [%s]", name, strings.Join(StrategyNames, ", "))
	}
}

// Redistributor is the single entry point used by row processing.
type Redistributor struct {
	strategy Strategy
}

// NewRedistributor returns a Redistributor delegating to s.
func NewRedistributor(s Strategy) *Redistributor {
	return &Redistributor{strategy: s}
}

// Strategy returns the configured strategy.
func (r *Redistributor) Strategy() Strategy {
	return r.strategy
}

// Distribute redistributes anchor into five scores tracking target.
// original, when it holds five scores, is what the pattern strategy falls
// back to. The returned Outcome always carries five scores.
func (r *Redistributor) Distribute(anchor, target float64, original []float64) Outcome {
	return r.strategy.Generate(anchor, target, original)
}
