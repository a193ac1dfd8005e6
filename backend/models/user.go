package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username          string `gorm:"unique;not null"`
	Email             string `gorm:"unique;not null"`
	PasswordHash      string `gorm:"not null"`
	Role              string `gorm:"default:user"` // user, admin
	NativeLanguageID  uint
	NativeLanguage    Language   `gorm:"foreignKey:NativeLanguageID"`
	LearningLanguages []Language `gorm:"many2many:user_learning_languages"`
}

type LoginHistory struct {
	gorm.Model
	UserID    uint
	LoginTime time.Time
}

// IsAdmin reports whether the user bypasses card visibility filters.
func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}

// KnowsLanguage reports whether the language is the user's native language
// or one of the languages they are learning.
func (u *User) KnowsLanguage(languageID uint) bool {
	if u.NativeLanguageID == languageID {
		return true
	}
	for _, lang := range u.LearningLanguages {
		if lang.ID == languageID {
			return true
		}
	}
	return false
}

// IsLearning reports whether the language is in the user's learning set.
func (u *User) IsLearning(languageID uint) bool {
	for _, lang := range u.LearningLanguages {
		if lang.ID == languageID {
			return true
		}
	}
	return false
}
