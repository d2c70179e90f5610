package grade

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"A", 95},
		{"a", 95},
		{" B ", 85},
		{"c", 75},
		{"D\t", 65},
		{"E", 55},
		{"Z", 0},
		{"", 0},
		{"90", 0},
		{"AB", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Decode(tt.input))
		})
	}
}

func TestDecodeAll(t *testing.T) {
	scores, mean := DecodeAll([]string{"A", "B", "C", "D", "E"})
	assert.Equal(t, []float64{95, 85, 75, 65, 55}, scores)
	assert.Equal(t, 75.0, mean)

	scores, mean = DecodeAll([]string{"A", "x", "A", "A", "A"})
	assert.Equal(t, []float64{95, 0, 95, 95, 95}, scores)
	assert.Equal(t, 76.0, mean)

	scores, mean = DecodeAll(nil)
	assert.Nil(t, scores)
	assert.Equal(t, 0.0, mean)
}

func TestIsKnown(t *testing.T) {
	assert.True(t, IsKnown(" e "))
	assert.False(t, IsKnown("F"))
}
