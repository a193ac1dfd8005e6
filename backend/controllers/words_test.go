package controllers_test

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"flashlingo/backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWordCRUDRequiresAdmin(t *testing.T) {
	english := newLanguage(t, "English")
	_, token := newUser(t, "user", english)

	resp := jsonRequest(t, "POST", "/api/admin/words/", token, fiber.Map{
		"language_id": english.ID,
		"text":        "forbidden",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestWordCRUD(t *testing.T) {
	english := newLanguage(t, "English")
	_, adminToken := newUser(t, "admin", english)

	resp := jsonRequest(t, "POST", "/api/admin/words/", adminToken, fiber.Map{
		"language_id": english.ID,
		"text":        "lighthouse",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	word := decodeBody(t, resp)["word"].(map[string]interface{})
	wordID := uint(word["ID"].(float64))

	resp = jsonRequest(t, "PUT", fmt.Sprintf("/api/admin/words/%d", wordID), adminToken, fiber.Map{
		"text": "lightship",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got models.Word
	require.NoError(t, db.First(&got, wordID).Error)
	assert.Equal(t, "lightship", got.Text)

	resp = jsonRequest(t, "DELETE", fmt.Sprintf("/api/admin/words/%d", wordID), adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Error(t, db.First(&got, wordID).Error)
}

func TestImportWords(t *testing.T) {
	english := newLanguage(t, "English")
	latvian := newLanguage(t, "Latvian")
	category := newCategory(t, latvian, "Basics", 1, 100)

	_, adminToken := newUser(t, "admin", english)

	// Build a small workbook: column A prompt, column B translation.
	xlsx := excelize.NewFile()
	sheet := xlsx.GetSheetName(0)
	rows := [][]string{
		{"hello", "sveiki"},
		{"thanks", "paldies"},
		{"orphan", ""}, // rows without a translation are skipped
	}
	for i, row := range rows {
		require.NoError(t, xlsx.SetCellValue(sheet, fmt.Sprintf("A%d", i+1), row[0]))
		require.NoError(t, xlsx.SetCellValue(sheet, fmt.Sprintf("B%d", i+1), row[1]))
	}

	fileBuf, err := xlsx.WriteToBuffer()
	require.NoError(t, err)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.WriteField("category_id", fmt.Sprint(category.ID)))
	require.NoError(t, writer.WriteField("prompt_language_id", fmt.Sprint(english.ID)))
	require.NoError(t, writer.WriteField("translation_language_id", fmt.Sprint(latvian.ID)))
	part, err := writer.CreateFormFile("file", "words.xlsx")
	require.NoError(t, err)
	_, err = part.Write(fileBuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/admin/words/import", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", adminToken)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decodeBody(t, resp)
	assert.InDelta(t, 2, result["imported"].(float64), 1e-9)
	assert.InDelta(t, 1, result["skipped"].(float64), 1e-9)

	var count int64
	db.Model(&models.Card{}).Where("category_id = ?", category.ID).Count(&count)
	assert.EqualValues(t, 2, count)
}
