package controllers

import (
	"flashlingo/backend/config"
	"flashlingo/backend/models"
	"flashlingo/backend/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewUserController(db *gorm.DB, cfg *config.Config) *UserController {
	return &UserController{DB: db, Cfg: cfg}
}

// GetProfile godoc
// @Summary Get user profile
// @Description Returns authenticated user's profile with language settings and recent attempts
// @Tags users
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/profile [get]
func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, uc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var user models.User
	if err := uc.DB.Preload("NativeLanguage").Preload("LearningLanguages").First(&user, userID).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	var recentAttempts []models.Attempt
	uc.DB.Where("user_id = ?", userID).
		Order("date DESC").
		Limit(5).
		Find(&recentAttempts)

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"id":                 user.ID,
		"username":           user.Username,
		"email":              user.Email,
		"role":               user.Role,
		"native_language":    user.NativeLanguage,
		"learning_languages": user.LearningLanguages,
		"created_at":         user.CreatedAt,
		"recent_attempts":    recentAttempts,
	})
}

// UpdateProfile godoc
// @Summary Update user profile
// @Description Updates username, password and language settings
// @Tags users
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/profile [put]
func (uc *UserController) UpdateProfile(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, uc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		Username            string `json:"username"`
		Email               string `json:"email"`
		OldPassword         string `json:"old_password"`
		NewPassword         string `json:"new_password"`
		NativeLanguageID    uint   `json:"native_language_id"`
		LearningLanguageIDs []uint `json:"learning_language_ids"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	if input.Username != "" && input.Username != user.Username {
		var existingUser models.User
		if err := uc.DB.Where("username = ?", input.Username).First(&existingUser).Error; err == nil {
			if existingUser.ID != user.ID {
				return utils.BadRequest(c, "Username already taken")
			}
		}
		user.Username = input.Username
	}

	if input.Email != "" && input.Email != user.Email {
		var existingUser models.User
		if err := uc.DB.Where("email = ?", input.Email).First(&existingUser).Error; err == nil {
			if existingUser.ID != user.ID {
				return utils.BadRequest(c, "Email already taken")
			}
		}
		user.Email = input.Email
	}

	if input.NewPassword != "" {
		if input.OldPassword == "" {
			return utils.BadRequest(c, "Old password is required to set new password")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.OldPassword)); err != nil {
			return utils.Unauthorized(c, "Invalid old password")
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return utils.InternalServerError(c, "Could not hash password")
		}
		user.PasswordHash = string(hashedPassword)
	}

	if input.NativeLanguageID != 0 {
		var language models.Language
		if err := uc.DB.First(&language, input.NativeLanguageID).Error; err != nil {
			return utils.BadRequest(c, "Native language not found")
		}
		user.NativeLanguageID = input.NativeLanguageID
	}

	if err := uc.DB.Save(&user).Error; err != nil {
		return utils.InternalServerError(c, "Could not update user")
	}

	// Replacing the learning set keeps existing progress records intact;
	// locked categories simply stop being served.
	if input.LearningLanguageIDs != nil {
		var learning []models.Language
		if len(input.LearningLanguageIDs) > 0 {
			if err := uc.DB.Find(&learning, input.LearningLanguageIDs).Error; err != nil || len(learning) != len(input.LearningLanguageIDs) {
				return utils.BadRequest(c, "Unknown learning language")
			}
		}
		if err := uc.DB.Model(&user).Association("LearningLanguages").Replace(learning); err != nil {
			return utils.InternalServerError(c, "Could not update learning languages")
		}
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message": "Profile updated successfully",
	})
}
