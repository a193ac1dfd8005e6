package controllers

import (
	"errors"
	"strconv"
	"time"

	"flashlingo/backend/config"
	"flashlingo/backend/models"
	"flashlingo/backend/srs"
	"flashlingo/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ReviewController is the legacy per-card spaced-repetition path. It grades
// reviews on the full 0-5 scale and schedules the next review with SM-2,
// independently of the category/attempt ledger.
type ReviewController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewReviewController(db *gorm.DB, cfg *config.Config) *ReviewController {
	return &ReviewController{DB: db, Cfg: cfg}
}

// GetDueCards returns the caller's review cards whose next review date has
// passed, most overdue first.
func (rc *ReviewController) GetDueCards(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, rc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var due []models.ReviewCard
	if err := rc.DB.Preload("Card").Preload("Card.Word").Preload("Card.Translation").
		Where("user_id = ? AND next_review <= ?", userID, time.Now()).
		Order("next_review ASC").
		Find(&due).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(fiber.Map{
		"due": due,
	})
}

// SubmitReview godoc
// @Summary Submit a graded card review
// @Description Applies the SM-2 recurrence to the caller's review state for the card and returns the updated schedule
// @Tags review
// @Accept json
// @Produce json
// @Param id path int true "Card ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /review/cards/{id} [post]
func (rc *ReviewController) SubmitReview(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, rc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	cardID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid card ID",
		})
	}

	var input struct {
		Quality int `json:"quality" validate:"min=0,max=5"`
	}

	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if err := utils.Validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var card models.Card
	if err := rc.DB.First(&card, cardID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Card not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	now := time.Now()

	var review models.ReviewCard
	err = rc.DB.Where("user_id = ? AND card_id = ?", userID, cardID).First(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		review = models.ReviewCard{
			UserID:      userID,
			CardID:      uint(cardID),
			Easiness:    srs.DefaultEasiness,
			Interval:    1,
			Repetitions: 0,
		}
	} else if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	state := srs.State{
		Easiness:    review.Easiness,
		Interval:    review.Interval,
		Repetitions: review.Repetitions,
	}
	state, nextReview := srs.Review(state, input.Quality, now)

	review.Easiness = state.Easiness
	review.Interval = state.Interval
	review.Repetitions = state.Repetitions
	review.NextReview = nextReview
	review.LastReviewed = now

	if err := rc.DB.Save(&review).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save review",
		})
	}

	return c.JSON(fiber.Map{
		"card":         review.CardID,
		"easiness":     review.Easiness,
		"interval":     review.Interval,
		"repetitions":  review.Repetitions,
		"nextReview":   review.NextReview,
		"lastReviewed": review.LastReviewed,
	})
}
