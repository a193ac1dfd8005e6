package models

import (
	"time"

	"gorm.io/gorm"
)

// Exercise types accepted on card submission.
const (
	ExerciseFlash     = "flash"
	ExerciseTest      = "test"
	ExerciseDictation = "dictation"
)

// Attempt accumulates one practice session. The attempt id is chosen by the
// client (or generated server-side when omitted) and is only unique together
// with the user id, so two users may share the same attempt id.
type Attempt struct {
	gorm.Model
	AttemptID      string `gorm:"uniqueIndex:idx_attempt_user;not null"`
	UserID         uint   `gorm:"uniqueIndex:idx_attempt_user;not null"`
	LanguageID     uint   `gorm:"index;not null"`
	CategoryID     uint   `gorm:"index;not null"`
	Type           string // flash, test, dictation
	Date           time.Time
	Score          float64
	CorrectAnswers int
	TotalAnswers   int
	ShareToken     *string `gorm:"uniqueIndex"`
	ShareExpiresAt *time.Time
}

// CategoryProgress is the per (user, language, category) ledger. MaxScore is
// the high-water mark across all attempts and never decreases; Unlocked gates
// access to the category's cards.
type CategoryProgress struct {
	gorm.Model
	UserID     uint `gorm:"uniqueIndex:idx_user_lang_cat;not null"`
	LanguageID uint `gorm:"uniqueIndex:idx_user_lang_cat;not null"`
	CategoryID uint `gorm:"uniqueIndex:idx_user_lang_cat;not null"`
	TotalCards int
	Score      float64
	MaxScore   float64
	Unlocked   bool
}
