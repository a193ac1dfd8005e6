package models

import "gorm.io/gorm"

type Language struct {
	gorm.Model
	Code string `gorm:"unique;not null"` // ISO 639-1, e.g. "en", "uk"
	Name string `gorm:"not null"`
}

type Word struct {
	gorm.Model
	LanguageID uint   `gorm:"index;not null"`
	Language   Language
	Text       string `gorm:"not null"`
}
