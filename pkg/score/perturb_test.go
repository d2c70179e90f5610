package score

import (
	"math"
	"testing"

	"github.com/mchmarny/regrade/pkg/random"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomPerturbation_Accepts(t *testing.T) {
	r := NewRandomPerturbation(random.NewSequence(2, -3, 1, 0))
	o := r.Generate(70, 70.0, nil)

	require.True(t, o.OK())
	assert.Equal(t, ScoreSet{72, 67, 71, 70, 70}, o.Scores)
	assert.Equal(t, 70.0, o.Scores.Mean())
	assert.Equal(t, 1, o.Attempts)
}

func TestRandomPerturbation_Retries(t *testing.T) {
	r := NewRandomPerturbation(random.NewSequence(0, 0, 0, 0, 5, 5, 5, 5))
	o := r.Generate(70, 75, nil)

	require.True(t, o.OK())
	assert.Equal(t, Repeat(75), o.Scores)
	assert.Equal(t, 2, o.Attempts)
}

func TestRandomPerturbation_Exhausted(t *testing.T) {
	seq := random.NewSequence(0)
	r := NewRandomPerturbation(seq)
	o := r.Generate(70, 90, []float64{1, 2, 3, 4, 5})

	assert.Equal(t, FallenBack, o.Status)
	assert.Equal(t, Repeat(70), o.Scores)
	assert.Equal(t, 100, o.Attempts)
	assert.Equal(t, 400, seq.Drawn())
	assert.Contains(t, o.Reason, "100 attempts")
}

func TestRandomPerturbation_DoesNotCheckRange(t *testing.T) {
	r := NewRandomPerturbation(random.NewSequence(5, 5, -5, -5))
	o := r.Generate(100, 100, nil)

	require.True(t, o.OK())
	assert.Equal(t, ScoreSet{105, 105, 95, 95, 100}, o.Scores)

	c := r.Constraints()
	assert.ErrorIs(t, c.Validate(o.Scores, 100, 100), ErrOutOfRange)

	flags := Diagnose([]Entry{{Row: 1, Anchor: 100, Target: 100, Scores: o.Scores}}, c)
	require.Len(t, flags, 1)
	assert.Equal(t, FlagRange, flags[0].Kind)
}

func TestRandomPerturbation_ExactMean(t *testing.T) {
	fractions := []float64{0, 0.2, 0.4, 0.6, 0.8}
	for seed := int64(1); seed <= 100; seed++ {
		src := random.New(seed)
		anchor := float64(src.IntRange(10, 90))
		target := anchor + float64(src.IntRange(-2, 2)) + fractions[src.Choose(len(fractions))]

		o := NewRandomPerturbation(src).Generate(anchor, target, nil)
		if !o.OK() {
			continue
		}
		assert.Equal(t, math.Round(target*Size), math.Round(o.Scores.Mean()*Size), "seed %d", seed)
		for _, v := range o.Scores {
			assert.LessOrEqual(t, math.Abs(v-anchor), 5.0, "seed %d", seed)
		}
	}
}

func TestPerturbationConstraints(t *testing.T) {
	c := PerturbationConstraints()
	assert.Equal(t, 5.0, c.MaxDeviation)
	assert.Equal(t, 100, c.MaxAttempts)
	assert.Equal(t, 0.1, c.Tolerance)
}
