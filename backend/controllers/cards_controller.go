package controllers

import (
	"errors"
	"strconv"
	"time"

	"flashlingo/backend/config"
	"flashlingo/backend/models"
	"flashlingo/backend/scoring"
	"flashlingo/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CardsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewCardsController(db *gorm.DB, cfg *config.Config) *CardsController {
	return &CardsController{DB: db, Cfg: cfg}
}

type SubmitInput struct {
	LanguageID uint   `json:"language_id" validate:"required"`
	Answer     string `json:"answer"`
	AttemptID  string `json:"attempt_id"`
	Type       string `json:"type" validate:"required,oneof=flash test dictation"`
}

// Submit godoc
// @Summary Submit a card answer
// @Description Judges the answer, accumulates the attempt and updates category progress; unlocks the next category when the required score is reached
// @Tags cards
// @Accept json
// @Produce json
// @Param id path int true "Card ID"
// @Param input body SubmitInput true "Submission"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /cards/{id}/submit [post]
func (cc *CardsController) Submit(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
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

	var input SubmitInput
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

	var user models.User
	if err := cc.DB.Preload("LearningLanguages").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if len(user.LearningLanguages) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No learning languages configured",
		})
	}

	var language models.Language
	if err := cc.DB.First(&language, input.LanguageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Language not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if !user.KnowsLanguage(language.ID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Language is not in your native or learning set",
		})
	}

	var card models.Card
	if err := cc.DB.Preload("Word").Preload("Translation").Preload("Category").First(&card, cardID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Card not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	// The expected answer is always the translation: flash and test prompt
	// with the native word, dictation plays the learning-language word.
	correctTranslation := card.Translation.Text
	isCorrect, quality := scoring.Evaluate(input.Answer, correctTranslation)

	totalCards := cc.visibleCardCount(&user, card.CategoryID)
	cardScore := scoring.CardScore(quality, int(totalCards))

	attemptID := input.AttemptID
	if attemptID == "" {
		attemptID = uuid.NewString()
	}

	var attempt models.Attempt
	txErr := cc.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		attempt, err = cc.recordSubmission(tx, &user, &card, attemptID, input.Type, cardScore, isCorrect, int(totalCards))
		return err
	})
	if txErr != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save progress",
		})
	}

	return c.JSON(fiber.Map{
		"attempt": fiber.Map{
			"attemptId":      attempt.AttemptID,
			"user":           attempt.UserID,
			"language":       attempt.LanguageID,
			"category":       attempt.CategoryID,
			"type":           attempt.Type,
			"date":           attempt.Date,
			"score":          attempt.Score,
			"correctAnswers": attempt.CorrectAnswers,
			"totalAnswers":   attempt.TotalAnswers,
		},
		"isCorrect":          isCorrect,
		"correctTranslation": correctTranslation,
		"quality":            quality,
	})
}

// recordSubmission runs the aggregation, ledger and unlock steps for one
// answered card inside the caller's transaction.
func (cc *CardsController) recordSubmission(tx *gorm.DB, user *models.User, card *models.Card, attemptID, exerciseType string, cardScore float64, isCorrect bool, totalCards int) (models.Attempt, error) {
	correct := 0
	if isCorrect {
		correct = 1
	}

	var attempt models.Attempt
	err := tx.Where("attempt_id = ? AND user_id = ?", attemptID, user.ID).First(&attempt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		attempt = models.Attempt{
			AttemptID:      attemptID,
			UserID:         user.ID,
			LanguageID:     card.Category.LanguageID,
			CategoryID:     card.CategoryID,
			Type:           exerciseType,
			Date:           time.Now(),
			Score:          cardScore,
			CorrectAnswers: correct,
			TotalAnswers:   1,
		}
		if err := tx.Create(&attempt).Error; err != nil {
			return attempt, err
		}
	} else if err != nil {
		return attempt, err
	} else {
		attempt.Score += cardScore
		attempt.TotalAnswers++
		attempt.CorrectAnswers += correct
		if err := tx.Save(&attempt).Error; err != nil {
			return attempt, err
		}
	}

	if err := cc.updateProgress(tx, user, card, attempt.Score, totalCards); err != nil {
		return attempt, err
	}

	return attempt, nil
}

// updateProgress raises the ledger's high-water mark and drives the unlock
// chain for the card's category.
func (cc *CardsController) updateProgress(tx *gorm.DB, user *models.User, card *models.Card, attemptScore float64, totalCards int) error {
	var category models.Category
	if err := tx.First(&category, card.CategoryID).Error; err != nil {
		return err
	}

	var progress models.CategoryProgress
	err := tx.Where("user_id = ? AND language_id = ? AND category_id = ?",
		user.ID, category.LanguageID, category.ID).First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		progress = models.CategoryProgress{
			UserID:     user.ID,
			LanguageID: category.LanguageID,
			CategoryID: category.ID,
			TotalCards: totalCards,
			Score:      attemptScore,
			MaxScore:   attemptScore,
			Unlocked:   category.SequenceOrder == 1,
		}
		if err := tx.Create(&progress).Error; err != nil {
			return err
		}
	} else if err != nil {
		return err
	} else {
		progress.Score = attemptScore
		if attemptScore > progress.MaxScore {
			progress.MaxScore = attemptScore
		}
		if err := tx.Save(&progress).Error; err != nil {
			return err
		}
	}

	return cc.propagateUnlock(tx, user, &category, progress.MaxScore)
}

// propagateUnlock opens the next category in order once the current one's
// required score is reached. Unlocking twice is a no-op.
func (cc *CardsController) propagateUnlock(tx *gorm.DB, user *models.User, category *models.Category, maxScore float64) error {
	if maxScore < category.RequiredScore {
		return nil
	}

	var next models.Category
	err := tx.Where("language_id = ? AND sequence_order = ?",
		category.LanguageID, category.SequenceOrder+1).First(&next).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil // end of the chain
	} else if err != nil {
		return err
	}

	var nextProgress models.CategoryProgress
	err = tx.Where("user_id = ? AND language_id = ? AND category_id = ?",
		user.ID, next.LanguageID, next.ID).First(&nextProgress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		nextProgress = models.CategoryProgress{
			UserID:     user.ID,
			LanguageID: next.LanguageID,
			CategoryID: next.ID,
			TotalCards: cc.visibleCardCountTx(tx, user, next.ID),
			Score:      0,
			MaxScore:   0,
			Unlocked:   true,
		}
		return tx.Create(&nextProgress).Error
	} else if err != nil {
		return err
	}

	if !nextProgress.Unlocked {
		nextProgress.Unlocked = true
		return tx.Save(&nextProgress).Error
	}
	return nil
}

func (cc *CardsController) CreateCard(c *fiber.Ctx) error {
	var input struct {
		CategoryID    uint `json:"category_id" validate:"required"`
		WordID        uint `json:"word_id" validate:"required"`
		TranslationID uint `json:"translation_id" validate:"required"`
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

	var category models.Category
	if err := cc.DB.First(&category, input.CategoryID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Category not found",
		})
	}

	var word, translation models.Word
	if err := cc.DB.First(&word, input.WordID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Word not found",
		})
	}
	if err := cc.DB.First(&translation, input.TranslationID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Translation word not found",
		})
	}

	if word.LanguageID == translation.LanguageID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Prompt and translation must be in different languages",
		})
	}

	card := models.Card{
		CategoryID:    input.CategoryID,
		WordID:        input.WordID,
		TranslationID: input.TranslationID,
	}
	if err := cc.DB.Create(&card).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create card",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Card created",
		"card":    card,
	})
}

func (cc *CardsController) DeleteCard(c *fiber.Ctx) error {
	cardID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid card ID",
		})
	}

	if err := cc.DB.Delete(&models.Card{}, cardID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete card",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Card deleted",
	})
}

// visibleCardCount counts the cards of a category the user can practice:
// prompt in their native language, translation in a learning language.
// Admins see the whole category.
func (cc *CardsController) visibleCardCount(user *models.User, categoryID uint) int64 {
	return int64(cc.visibleCardCountTx(cc.DB, user, categoryID))
}

func (cc *CardsController) visibleCardCountTx(tx *gorm.DB, user *models.User, categoryID uint) int {
	var count int64
	query := tx.Model(&models.Card{}).Where("cards.category_id = ?", categoryID)

	if !user.IsAdmin() {
		learningIDs := make([]uint, 0, len(user.LearningLanguages))
		for _, lang := range user.LearningLanguages {
			learningIDs = append(learningIDs, lang.ID)
		}

		query = query.
			Joins("JOIN words AS prompts ON prompts.id = cards.word_id").
			Joins("JOIN words AS translations ON translations.id = cards.translation_id").
			Where("prompts.language_id = ?", user.NativeLanguageID).
			Where("translations.language_id IN ?", learningIDs)
	}

	query.Count(&count)
	return int(count)
}
