package srs

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReviewPerfectSequence(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := NewState()

	// First perfect review.
	s, next := Review(s, 5, now)
	assert.Equal(t, 1, s.Repetitions)
	assert.Equal(t, 1, s.Interval)
	assert.InDelta(t, 2.6, s.Easiness, 1e-9)
	assert.Equal(t, now.AddDate(0, 0, 1), next)

	// Second perfect review jumps to six days.
	s, next = Review(s, 5, now)
	assert.Equal(t, 2, s.Repetitions)
	assert.Equal(t, 6, s.Interval)
	assert.Equal(t, now.AddDate(0, 0, 6), next)

	// Third review multiplies by the easiness factor.
	ef := s.Easiness
	s, _ = Review(s, 5, now)
	assert.Equal(t, 3, s.Repetitions)
	assert.Equal(t, int(math.Round(6*(ef+0.1))), s.Interval)
}

func TestReviewFailureResetsInterval(t *testing.T) {
	now := time.Now()
	s := State{Easiness: 2.5, Interval: 42, Repetitions: 7}

	for q := 0; q < 3; q++ {
		got, next := Review(s, q, now)
		assert.Equal(t, 1, got.Interval, "quality %d must reset the interval", q)
		assert.Equal(t, s.Repetitions+1, got.Repetitions)
		assert.Equal(t, now.AddDate(0, 0, 1), next)
	}
}

func TestReviewEasinessFloor(t *testing.T) {
	s := State{Easiness: MinEasiness, Interval: 1, Repetitions: 0}

	// Repeated blackouts must never push easiness below the floor.
	for i := 0; i < 10; i++ {
		s, _ = Review(s, 0, time.Now())
		assert.GreaterOrEqual(t, s.Easiness, MinEasiness)
	}
	assert.InDelta(t, MinEasiness, s.Easiness, 1e-9)
}

func TestReviewEasinessUpdate(t *testing.T) {
	tests := []struct {
		quality int
		want    float64
	}{
		{5, 2.6},
		{4, 2.5},
		{3, 2.36},
		{2, 2.18},
		{1, 1.96},
		{0, 1.7},
	}

	for _, tt := range tests {
		s, _ := Review(NewState(), tt.quality, time.Now())
		assert.InDelta(t, tt.want, s.Easiness, 1e-9, "quality %d", tt.quality)
	}
}
