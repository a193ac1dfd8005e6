package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name    string
		answer  string
		target  string
		correct bool
		quality int
	}{
		{"exact match", "hello", "hello", true, QualityCorrect},
		{"case insensitive", "Hello", "hELLO", true, QualityCorrect},
		{"surrounding whitespace", "  bonjour ", "bonjour", true, QualityCorrect},
		{"whitespace on target", "danke", "\tdanke\n", true, QualityCorrect},
		{"wrong answer", "goodbye", "hello", false, QualityIncorrect},
		{"inner whitespace differs", "good bye", "goodbye", false, QualityIncorrect},
		{"empty answer", "", "hello", false, QualityIncorrect},
		{"both empty", "", "", true, QualityCorrect},
		{"unicode", "привіт", "ПРИВІТ", true, QualityCorrect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			correct, quality := Evaluate(tt.answer, tt.target)
			assert.Equal(t, tt.correct, correct)
			assert.Equal(t, tt.quality, quality)
		})
	}
}

func TestCardScore(t *testing.T) {
	// Two cards split the 100 points evenly.
	assert.InDelta(t, 50.0, CardScore(QualityCorrect, 2), 1e-9)
	assert.InDelta(t, 25.0, CardScore(QualityCorrect, 4), 1e-9)

	// Incorrect answers contribute nothing.
	assert.Zero(t, CardScore(QualityIncorrect, 2))

	// Empty category must not divide by zero.
	assert.Zero(t, CardScore(QualityCorrect, 0))
}

func TestCardScoreSumsToHundred(t *testing.T) {
	for _, n := range []int{1, 2, 3, 7, 10} {
		total := 0.0
		for i := 0; i < n; i++ {
			total += CardScore(QualityCorrect, n)
		}
		assert.InDelta(t, 100.0, total, 1e-9, "category with %d cards", n)
	}
}
