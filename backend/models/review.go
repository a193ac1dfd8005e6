package models

import (
	"time"

	"gorm.io/gorm"
)

// ReviewCard carries the per-user SM-2 state for the legacy review path.
// It is owned exclusively by the scheduler and is unrelated to the
// category/attempt progress ledger.
type ReviewCard struct {
	gorm.Model
	UserID       uint `gorm:"uniqueIndex:idx_review_user_card;not null"`
	CardID       uint `gorm:"uniqueIndex:idx_review_user_card;not null"`
	Card         Card
	Easiness     float64 `gorm:"default:2.5"`
	Interval     int     `gorm:"default:1"` // days
	Repetitions  int     `gorm:"default:0"`
	NextReview   time.Time
	LastReviewed time.Time
}
