package controllers

import (
	"errors"
	"strconv"
	"strings"

	"flashlingo/backend/config"
	"flashlingo/backend/models"
	"flashlingo/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type WordsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewWordsController(db *gorm.DB, cfg *config.Config) *WordsController {
	return &WordsController{DB: db, Cfg: cfg}
}

func (wc *WordsController) GetWords(c *fiber.Ctx) error {
	query := wc.DB.Model(&models.Word{})

	if languageID := c.Query("language_id"); languageID != "" {
		query = query.Where("language_id = ?", languageID)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("text LIKE ?", "%"+search+"%")
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "50"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}

	var total int64
	query.Count(&total)

	var words []models.Word
	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).Find(&words).Error; err != nil {
		return utils.InternalServerError(c, "Failed to fetch words")
	}

	return utils.Paginate(c, words, total, page, pageSize)
}

func (wc *WordsController) CreateWord(c *fiber.Ctx) error {
	var input struct {
		LanguageID uint   `json:"language_id" validate:"required"`
		Text       string `json:"text" validate:"required"`
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
	if err := wc.DB.First(&language, input.LanguageID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Language not found",
		})
	}

	word := models.Word{LanguageID: input.LanguageID, Text: input.Text}
	if err := wc.DB.Create(&word).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create word",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Word created",
		"word":    word,
	})
}

func (wc *WordsController) UpdateWord(c *fiber.Ctx) error {
	wordID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid word ID",
		})
	}

	var input struct {
		Text string `json:"text"`
	}

	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var word models.Word
	if err := wc.DB.First(&word, wordID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Word not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if input.Text != "" {
		word.Text = input.Text
	}

	if err := wc.DB.Save(&word).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update word",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Word updated",
		"word":    word,
	})
}

func (wc *WordsController) DeleteWord(c *fiber.Ctx) error {
	wordID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid word ID",
		})
	}

	if err := wc.DB.Delete(&models.Word{}, wordID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete word",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Word deleted",
	})
}

// ImportWords godoc
// @Summary Bulk import vocabulary from XLSX
// @Description Reads prompt/translation pairs from the first sheet (column A prompt, column B translation) and creates words plus cards in the given category
// @Tags words
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/words/import [post]
func (wc *WordsController) ImportWords(c *fiber.Ctx) error {
	categoryID, err := strconv.Atoi(c.FormValue("category_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid category ID",
		})
	}
	promptLanguageID, err := strconv.Atoi(c.FormValue("prompt_language_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid prompt language ID",
		})
	}
	translationLanguageID, err := strconv.Atoi(c.FormValue("translation_language_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid translation language ID",
		})
	}

	var category models.Category
	if err := wc.DB.First(&category, categoryID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Category not found",
		})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing file",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot open file",
		})
	}
	defer file.Close()

	xlsx, err := excelize.OpenReader(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse XLSX file",
		})
	}
	defer xlsx.Close()

	rows, err := xlsx.GetRows(xlsx.GetSheetName(0))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot read sheet",
		})
	}

	imported := 0
	skipped := 0
	txErr := wc.DB.Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			if len(row) < 2 {
				skipped++
				continue
			}

			promptText := strings.TrimSpace(row[0])
			translationText := strings.TrimSpace(row[1])
			if promptText == "" || translationText == "" {
				skipped++
				continue
			}

			prompt, err := findOrCreateWord(tx, uint(promptLanguageID), promptText)
			if err != nil {
				return err
			}
			translation, err := findOrCreateWord(tx, uint(translationLanguageID), translationText)
			if err != nil {
				return err
			}

			card := models.Card{
				CategoryID:    uint(categoryID),
				WordID:        prompt.ID,
				TranslationID: translation.ID,
			}
			if err := tx.Create(&card).Error; err != nil {
				return err
			}
			imported++
		}
		return nil
	})
	if txErr != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Import failed",
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Import finished",
		"imported": imported,
		"skipped":  skipped,
	})
}

func findOrCreateWord(tx *gorm.DB, languageID uint, text string) (models.Word, error) {
	var word models.Word
	err := tx.Where("language_id = ? AND text = ?", languageID, text).First(&word).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		word = models.Word{LanguageID: languageID, Text: text}
		return word, tx.Create(&word).Error
	}
	return word, err
}
