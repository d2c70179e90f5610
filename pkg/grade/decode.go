// Package grade converts letter grades to numeric scores.
package grade

import "strings"

// Unknown is the score returned for anything that is not a known letter.
// It takes part in averaging like any real score.
const Unknown = 0

var letterScores = map[string]float64{
	"A": 95,
	"B": 85,
	"C": 75,
	"D": 65,
	"E": 55,
}

// Decode returns the score for a letter grade. Case and surrounding
// whitespace are ignored; unrecognized input decodes to Unknown.
func Decode(g string) float64 {
	if v, ok := letterScores[strings.ToUpper(strings.TrimSpace(g))]; ok {
		return v
	}
	return Unknown
}

// DecodeAll decodes each grade and returns the scores with their mean.
func DecodeAll(grades []string) (scores []float64, mean float64) {
	if len(grades) == 0 {
		return nil, 0
	}
	scores = make([]float64, len(grades))
	var sum float64
	for i, g := range grades {
		scores[i] = Decode(g)
		sum += scores[i]
	}
	return scores, sum / float64(len(grades))
}

// IsKnown reports whether g is a recognized letter grade.
func IsKnown(g string) bool {
	_, ok := letterScores[strings.ToUpper(strings.TrimSpace(g))]
	return ok
}
