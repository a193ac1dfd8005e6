package controllers

import (
	"errors"
	"strconv"

	"flashlingo/backend/config"
	"flashlingo/backend/models"
	"flashlingo/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CategoriesController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewCategoriesController(db *gorm.DB, cfg *config.Config) *CategoriesController {
	return &CategoriesController{DB: db, Cfg: cfg}
}

// GetCards returns the cards of a category the caller may practice. Locked
// categories are refused; the card set is filtered by the caller's native and
// learning languages unless they are an admin.
func (cc *CategoriesController) GetCards(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	categoryID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid category ID",
		})
	}

	var category models.Category
	if err := cc.DB.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Category not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var user models.User
	if err := cc.DB.Preload("LearningLanguages").First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	if category.SequenceOrder != 1 && !user.IsAdmin() {
		var progress models.CategoryProgress
		err := cc.DB.Where("user_id = ? AND language_id = ? AND category_id = ?",
			userID, category.LanguageID, category.ID).First(&progress).Error
		if err != nil || !progress.Unlocked {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Category is locked",
			})
		}
	}

	query := cc.DB.Model(&models.Card{}).
		Preload("Word").
		Preload("Translation").
		Where("cards.category_id = ?", categoryID)

	if !user.IsAdmin() {
		if len(user.LearningLanguages) == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "No learning languages configured",
			})
		}

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

	var cards []models.Card
	if err := query.Find(&cards).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var result []fiber.Map
	for _, card := range cards {
		result = append(result, fiber.Map{
			"id":          card.ID,
			"word":        card.Word.Text,
			"translation": card.Translation.Text,
			"category":    card.CategoryID,
		})
	}

	return c.JSON(fiber.Map{
		"category": fiber.Map{
			"id":             category.ID,
			"title":          category.Title,
			"order":          category.SequenceOrder,
			"required_score": category.RequiredScore,
		},
		"cards": result,
	})
}

func (cc *CategoriesController) CreateCategory(c *fiber.Ctx) error {
	var input struct {
		LanguageID    uint    `json:"language_id" validate:"required"`
		Title         string  `json:"title" validate:"required"`
		Description   string  `json:"description"`
		RequiredScore float64 `json:"required_score"`
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

	var language models.Language
	if err := cc.DB.First(&language, input.LanguageID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Language not found",
		})
	}

	// New categories are appended at the end of the chain.
	var maxOrder int
	cc.DB.Model(&models.Category{}).
		Where("language_id = ?", input.LanguageID).
		Select("COALESCE(MAX(sequence_order), 0)").
		Scan(&maxOrder)

	requiredScore := input.RequiredScore
	if requiredScore == 0 {
		requiredScore = 100
	}

	category := models.Category{
		LanguageID:    input.LanguageID,
		Title:         input.Title,
		Description:   input.Description,
		SequenceOrder: maxOrder + 1,
		RequiredScore: requiredScore,
	}

	if err := cc.DB.Create(&category).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create category",
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Category created",
		"category": category,
	})
}

func (cc *CategoriesController) UpdateCategory(c *fiber.Ctx) error {
	categoryID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid category ID",
		})
	}

	var input struct {
		Title         string  `json:"title"`
		Description   string  `json:"description"`
		RequiredScore float64 `json:"required_score"`
	}

	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var category models.Category
	if err := cc.DB.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Category not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if input.Title != "" {
		category.Title = input.Title
	}
	if input.Description != "" {
		category.Description = input.Description
	}
	if input.RequiredScore != 0 {
		category.RequiredScore = input.RequiredScore
	}

	if err := cc.DB.Save(&category).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update category",
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Category updated",
		"category": category,
	})
}

// Reorder rewrites the order of a language's categories. Order values are
// unique per language, so the rewrite happens in two phases: every affected
// category is first parked on a temporary negative order, then the final
// values are written. Both phases run in one transaction.
func (cc *CategoriesController) Reorder(c *fiber.Ctx) error {
	var input struct {
		LanguageID uint `json:"language_id" validate:"required"`
		Items      []struct {
			CategoryID uint `json:"category_id" validate:"required"`
			Order      int  `json:"order" validate:"required,min=1"`
		} `json:"items" validate:"required,min=1,dive"`
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

	seen := make(map[int]bool, len(input.Items))
	for _, item := range input.Items {
		if seen[item.Order] {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Duplicate order value",
			})
		}
		seen[item.Order] = true
	}

	err := cc.DB.Transaction(func(tx *gorm.DB) error {
		// Phase one: park on temporary values that cannot collide.
		for i, item := range input.Items {
			result := tx.Model(&models.Category{}).
				Where("id = ? AND language_id = ?", item.CategoryID, input.LanguageID).
				Update("sequence_order", -(i + 1))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}

		// Phase two: write the final order.
		for _, item := range input.Items {
			if err := tx.Model(&models.Category{}).
				Where("id = ? AND language_id = ?", item.CategoryID, input.LanguageID).
				Update("sequence_order", item.Order).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Category not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not reorder categories",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Categories reordered",
	})
}

func (cc *CategoriesController) DeleteCategory(c *fiber.Ctx) error {
	categoryID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid category ID",
		})
	}

	if err := cc.DB.Delete(&models.Category{}, categoryID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete category",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Category deleted",
	})
}
