package models

import "gorm.io/gorm"

// Category is an ordered unit of vocabulary within a language. Order values
// are unique per language; the first category (order 1) is open to everyone,
// the rest unlock once the previous category's required score is reached.
type Category struct {
	gorm.Model
	LanguageID    uint   `gorm:"uniqueIndex:idx_language_order;not null"`
	Language      Language
	Title         string `gorm:"not null"`
	Description   string
	SequenceOrder int     `gorm:"uniqueIndex:idx_language_order;not null"`
	RequiredScore float64 `gorm:"default:100"`
}

// Card pairs a prompt word with its translation. A card is visible to a user
// only when the prompt word is in the user's native language and the
// translation is in one of their learning languages; admins see everything.
type Card struct {
	gorm.Model
	CategoryID    uint `gorm:"index;not null"`
	Category      Category
	WordID        uint `gorm:"not null"`
	Word          Word `gorm:"foreignKey:WordID"`
	TranslationID uint `gorm:"not null"`
	Translation   Word `gorm:"foreignKey:TranslationID"`
}
