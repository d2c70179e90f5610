package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SeedDeterminism(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.IntRange(-5, 5), b.IntRange(-5, 5))
	}
}

func TestIntRange_Bounds(t *testing.T) {
	s := New(7)
	for i := 0; i < 1000; i++ {
		v := s.IntRange(-5, 5)
		require.GreaterOrEqual(t, v, -5)
		require.LessOrEqual(t, v, 5)
	}
	assert.Equal(t, 3, s.IntRange(3, 3))
}

func TestChoose_Bounds(t *testing.T) {
	s := New(7)
	for i := 0; i < 1000; i++ {
		v := s.Choose(8)
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, 8)
	}
	assert.Equal(t, 0, s.Choose(0))
	assert.Equal(t, 0, s.Choose(1))
}

func TestDerive_IndependentStreams(t *testing.T) {
	a := Derive(99, 0)
	b := Derive(99, 0)
	c := Derive(99, 1)

	var same, diff int
	for i := 0; i < 20; i++ {
		x, y, z := a.IntRange(0, 1000), b.IntRange(0, 1000), c.IntRange(0, 1000)
		if x == y {
			same++
		}
		if x != z {
			diff++
		}
	}
	assert.Equal(t, 20, same)
	assert.Greater(t, diff, 0)
}

func TestSequence(t *testing.T) {
	s := NewSequence(2, -3, 9, -1)
	assert.Equal(t, 2, s.IntRange(-5, 5))
	assert.Equal(t, -3, s.IntRange(-5, 5))
	assert.Equal(t, 5, s.IntRange(-5, 5))
	assert.Equal(t, 7, s.Choose(8))
	assert.Equal(t, 4, s.Drawn())
	// wraps around
	assert.Equal(t, 2, s.Choose(8))
}

func TestSequence_Empty(t *testing.T) {
	s := NewSequence()
	assert.Equal(t, 0, s.IntRange(-5, 5))
	assert.Equal(t, 0, s.Choose(3))
}
