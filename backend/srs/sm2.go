// Package srs implements the SuperMemo-2 recurrence used by the legacy
// per-card review path. Unlike the card submission flow, the caller grades
// the recall quality on the full 0-5 scale.
package srs

import (
	"math"
	"time"
)

const (
	// MinEasiness is the floor below which the easiness factor never drops.
	MinEasiness = 1.3

	// DefaultEasiness is the easiness factor of a never-reviewed card.
	DefaultEasiness = 2.5
)

// State is the scheduler state carried by a review card.
type State struct {
	Easiness    float64
	Interval    int // days
	Repetitions int
}

// NewState returns the state of a card that has never been reviewed.
func NewState() State {
	return State{Easiness: DefaultEasiness, Interval: 1, Repetitions: 0}
}

// Review applies one review with the given quality (0-5) and returns the
// updated state together with the next review date.
func Review(s State, quality int, now time.Time) (State, time.Time) {
	s.Repetitions++

	q := float64(quality)
	s.Easiness = math.Max(MinEasiness, s.Easiness+0.1-(5-q)*(0.08+(5-q)*0.02))

	switch {
	case quality < 3:
		s.Interval = 1
	case s.Repetitions == 1:
		s.Interval = 1
	case s.Repetitions == 2:
		s.Interval = 6
	default:
		s.Interval = int(math.Round(float64(s.Interval) * s.Easiness))
	}

	return s, now.AddDate(0, 0, s.Interval)
}
