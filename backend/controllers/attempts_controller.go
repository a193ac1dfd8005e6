package controllers

import (
	"errors"
	"time"

	"flashlingo/backend/config"
	"flashlingo/backend/models"
	"flashlingo/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AttemptsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAttemptsController(db *gorm.DB, cfg *config.Config) *AttemptsController {
	return &AttemptsController{DB: db, Cfg: cfg}
}

func (ac *AttemptsController) GetAttempts(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ac.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	query := ac.DB.Where("user_id = ?", userID)
	if languageID := c.Query("language_id"); languageID != "" {
		query = query.Where("language_id = ?", languageID)
	}

	var attempts []models.Attempt
	if err := query.Order("date DESC").Find(&attempts).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(fiber.Map{
		"attempts": attempts,
	})
}

// Share issues an expiring public token for one of the caller's attempts.
// Sharing again replaces the previous token and extends the expiry.
func (ac *AttemptsController) Share(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ac.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	attemptID := c.Params("attemptId")

	var attempt models.Attempt
	if err := ac.DB.Where("attempt_id = ? AND user_id = ?", attemptID, userID).First(&attempt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Attempt not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	token := uuid.NewString()
	expiresAt := time.Now().Add(time.Duration(ac.Cfg.ShareTTLHours) * time.Hour)
	attempt.ShareToken = &token
	attempt.ShareExpiresAt = &expiresAt

	if err := ac.DB.Save(&attempt).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save share token",
		})
	}

	return c.JSON(fiber.Map{
		"share_token": token,
		"expires_at":  expiresAt,
	})
}

// GetShared resolves a share token without authentication. Expired tokens
// behave like missing ones.
func (ac *AttemptsController) GetShared(c *fiber.Ctx) error {
	token := c.Params("token")

	var attempt models.Attempt
	if err := ac.DB.Where("share_token = ? AND share_expires_at > ?", token, time.Now()).First(&attempt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Shared attempt not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var user models.User
	ac.DB.First(&user, attempt.UserID)

	return c.JSON(fiber.Map{
		"username":       user.Username,
		"type":           attempt.Type,
		"date":           attempt.Date,
		"score":          attempt.Score,
		"correctAnswers": attempt.CorrectAnswers,
		"totalAnswers":   attempt.TotalAnswers,
	})
}
