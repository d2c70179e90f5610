package score

import (
	"testing"

	"github.com/mchmarny/regrade/pkg/random"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// swapFirst replays a sequence and moves index j to the front on Shuffle.
type swapFirst struct {
	*random.Sequence
	j int
}

func (s swapFirst) Shuffle(_ int, swap func(i, j int)) {
	swap(0, s.j)
}

func TestPatterns_Invariants(t *testing.T) {
	lib := Patterns()
	require.Len(t, lib, 8)
	for _, p := range lib {
		assert.Equal(t, 0, p.Sum(), "pattern %v", p)
		assert.LessOrEqual(t, p.MaxMagnitude(), 2, "pattern %v", p)
	}
}

func TestPatterns_ReturnsCopy(t *testing.T) {
	lib := Patterns()
	lib[0] = DeviationVector{5, 5, 5, 5, 5}
	assert.Equal(t, DeviationVector{1, 1, -1, -1, 0}, Patterns()[0])
}

func TestPatternLibrary_Accepts(t *testing.T) {
	p := NewPatternLibrary(random.NewSequence(0))
	o := p.Generate(80, 80, nil)

	require.True(t, o.OK())
	assert.Equal(t, ScoreSet{81, 81, 79, 79, 80}, o.Scores)
	assert.Equal(t, 80.0, o.Scores.Mean())
	assert.Equal(t, 1, o.Attempts)
	assert.Empty(t, o.Reason)
}

func TestPatternLibrary_RoundsInputs(t *testing.T) {
	p := NewPatternLibrary(random.NewSequence(5))
	o := p.Generate(79.6, 80.04, nil)

	require.True(t, o.OK())
	assert.Equal(t, ScoreSet{81, 80, 80, 79, 80}, o.Scores)
}

func TestPatternLibrary_TargetRoundsFromBinaryValue(t *testing.T) {
	// 1.05 rounds to 1.1, so the mean of 1.0 misses the tolerance
	p := NewPatternLibrary(random.NewSequence(0))
	o := p.Generate(1, 1.05, nil)

	assert.Equal(t, FallenBack, o.Status)
	assert.Equal(t, Repeat(1), o.Scores)
	assert.Contains(t, o.Reason, ErrAverage.Error())
}

func TestPatternLibrary_FallsBackToOriginal(t *testing.T) {
	original := []float64{78, 80, 82, 79, 81}
	for i := 0; i < len(patterns); i++ {
		p := NewPatternLibrary(random.NewSequence(i))
		o := p.Generate(80, 85, original)

		assert.Equal(t, FallenBack, o.Status)
		assert.Equal(t, ScoreSet{78, 80, 82, 79, 81}, o.Scores)
		assert.Contains(t, o.Reason, ErrAverage.Error())
	}
}

func TestPatternLibrary_FallsBackToAnchor(t *testing.T) {
	tests := []struct {
		name     string
		original []float64
	}{
		{"no original", nil},
		{"short original", []float64{78, 80, 82}},
		{"long original", []float64{78, 80, 82, 79, 81, 80}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPatternLibrary(random.NewSequence(0))
			o := p.Generate(80.4, 90, tt.original)
			assert.Equal(t, FallenBack, o.Status)
			assert.Equal(t, Repeat(80), o.Scores)
		})
	}
}

func TestPatternLibrary_EnforcesRange(t *testing.T) {
	p := NewPatternLibrary(random.NewSequence(0))
	o := p.Generate(100, 100, nil)

	assert.Equal(t, FallenBack, o.Status)
	assert.Equal(t, Repeat(100), o.Scores)
	assert.Contains(t, o.Reason, ErrOutOfRange.Error())
}

func TestPatternLibrary_SingleDraw(t *testing.T) {
	seq := random.NewSequence(2)
	p := NewPatternLibrary(seq)
	o := p.Generate(99, 99, nil)

	assert.Equal(t, FallenBack, o.Status)
	assert.Equal(t, 1, o.Attempts)
	assert.Equal(t, 1, seq.Drawn())
}

func TestPatternLibrary_Exhaustive(t *testing.T) {
	src := swapFirst{Sequence: random.NewSequence(), j: 2}
	p := NewPatternLibrary(src, WithExhaustive())
	o := p.Generate(99, 99, nil)

	require.True(t, o.OK())
	assert.Equal(t, 2, o.Attempts)
	assert.Equal(t, ScoreSet{100, 98, 100, 98, 99}, o.Scores)
}

func TestPatternLibrary_ExhaustiveFallsBack(t *testing.T) {
	p := NewPatternLibrary(random.New(3), WithExhaustive())
	o := p.Generate(100, 100, []float64{99, 100, 100, 100, 100})

	assert.Equal(t, FallenBack, o.Status)
	assert.Equal(t, len(patterns), o.Attempts)
	assert.Equal(t, ScoreSet{99, 100, 100, 100, 100}, o.Scores)
}

func TestPatternLibrary_SeededRuns(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		p := NewPatternLibrary(random.New(seed))
		o := p.Generate(72, 72, nil)
		require.True(t, o.OK())
		assert.Equal(t, 72.0, o.Scores.Mean())
		for _, v := range o.Scores {
			assert.InDelta(t, 72, v, 2)
		}
	}
}

func TestPatternLibrary_CustomConstraints(t *testing.T) {
	c := PatternConstraints()
	c.MaxDeviation = 1
	p := NewPatternLibrary(random.NewSequence(2), WithPatternConstraints(c))
	o := p.Generate(50, 50, nil)

	assert.Equal(t, FallenBack, o.Status)
	assert.Contains(t, o.Reason, ErrDeviation.Error())
	assert.Equal(t, c, p.Constraints())
}
