package controllers

import (
	"strconv"

	"flashlingo/backend/config"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type LeaderboardController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewLeaderboardController(db *gorm.DB, cfg *config.Config) *LeaderboardController {
	return &LeaderboardController{DB: db, Cfg: cfg}
}

// GetLeaderboard ranks users of a language by the sum of their per-category
// high-water marks.
func (lc *LeaderboardController) GetLeaderboard(c *fiber.Ctx) error {
	languageID, err := strconv.Atoi(c.Query("language_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid language ID",
		})
	}

	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var entries []struct {
		UserID     uint    `json:"user_id"`
		Username   string  `json:"username"`
		TotalScore float64 `json:"total_score"`
		Categories int     `json:"categories"`
	}

	lc.DB.Raw(`
		SELECT
			users.id AS user_id,
			users.username AS username,
			SUM(category_progresses.max_score) AS total_score,
			COUNT(category_progresses.id) AS categories
		FROM category_progresses
		JOIN users ON users.id = category_progresses.user_id
		WHERE category_progresses.language_id = ? AND category_progresses.deleted_at IS NULL
		GROUP BY users.id, users.username
		ORDER BY total_score DESC
		LIMIT ?
	`, languageID, limit).Scan(&entries)

	return c.JSON(fiber.Map{
		"language_id": languageID,
		"leaderboard": entries,
	})
}
