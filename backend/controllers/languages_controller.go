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

type LanguagesController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewLanguagesController(db *gorm.DB, cfg *config.Config) *LanguagesController {
	return &LanguagesController{DB: db, Cfg: cfg}
}

func (lc *LanguagesController) GetLanguages(c *fiber.Ctx) error {
	var languages []models.Language
	if err := lc.DB.Order("code").Find(&languages).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}
	return c.JSON(languages)
}

// GetCategories returns a language's categories in order, each annotated with
// the caller's progress and unlocked flag. Categories without a progress
// record are open only at order 1.
func (lc *LanguagesController) GetCategories(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, lc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	languageID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid language ID",
		})
	}

	var language models.Language
	if err := lc.DB.First(&language, languageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Language not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var categories []models.Category
	lc.DB.Where("language_id = ?", languageID).
		Order("sequence_order").
		Find(&categories)

	var result []fiber.Map
	for _, category := range categories {
		var progress models.CategoryProgress
		err := lc.DB.Where("user_id = ? AND language_id = ? AND category_id = ?",
			userID, languageID, category.ID).First(&progress).Error

		unlocked := category.SequenceOrder == 1
		if err == nil {
			unlocked = unlocked || progress.Unlocked
		}

		result = append(result, fiber.Map{
			"id":             category.ID,
			"title":          category.Title,
			"description":    category.Description,
			"order":          category.SequenceOrder,
			"required_score": category.RequiredScore,
			"unlocked":       unlocked,
			"max_score":      progress.MaxScore,
			"total_cards":    progress.TotalCards,
		})
	}

	return c.JSON(fiber.Map{
		"language":   language,
		"categories": result,
	})
}

func (lc *LanguagesController) CreateLanguage(c *fiber.Ctx) error {
	var input struct {
		Code string `json:"code" validate:"required,min=2,max=5"`
		Name string `json:"name" validate:"required"`
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

	language := models.Language{Code: input.Code, Name: input.Name}
	if err := lc.DB.Create(&language).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create language",
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Language created",
		"language": language,
	})
}

func (lc *LanguagesController) UpdateLanguage(c *fiber.Ctx) error {
	languageID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid language ID",
		})
	}

	var input struct {
		Code string `json:"code"`
		Name string `json:"name"`
	}

	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var language models.Language
	if err := lc.DB.First(&language, languageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Language not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if input.Code != "" {
		language.Code = input.Code
	}
	if input.Name != "" {
		language.Name = input.Name
	}

	if err := lc.DB.Save(&language).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update language",
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Language updated",
		"language": language,
	})
}

func (lc *LanguagesController) DeleteLanguage(c *fiber.Ctx) error {
	languageID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid language ID",
		})
	}

	if err := lc.DB.Delete(&models.Language{}, languageID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete language",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Language deleted",
	})
}
