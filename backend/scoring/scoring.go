// Package scoring decides answer correctness and converts it into the
// per-card contribution toward a category's 100-point attempt score.
package scoring

import "strings"

// Quality values reported on card submission. The submission path is binary:
// an answer is either fully correct or worth nothing.
const (
	QualityIncorrect = 0
	QualityCorrect   = 5
)

// Normalize prepares an answer for comparison.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Evaluate compares a submitted answer with the expected translation.
func Evaluate(answer, target string) (isCorrect bool, quality int) {
	if Normalize(answer) == Normalize(target) {
		return true, QualityCorrect
	}
	return false, QualityIncorrect
}

// CardScore is the score a single submission adds to its attempt. A
// category's cards partition 100 points evenly, so answering every card of an
// N-card category correctly within one attempt totals 100 regardless of
// order. An empty category contributes nothing.
func CardScore(quality int, totalCards int) float64 {
	if totalCards == 0 {
		return 0
	}
	return float64(quality) / 5.0 * (100.0 / float64(totalCards))
}
