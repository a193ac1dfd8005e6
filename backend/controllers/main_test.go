package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"flashlingo/backend/config"
	"flashlingo/backend/models"
	"flashlingo/backend/routes"
	"flashlingo/backend/utils"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	app *fiber.App
	db  *gorm.DB
	cfg *config.Config

	seq int64
)

func TestMain(m *testing.M) {
	cfg = &config.Config{
		JWTSecret:     "testsecret",
		ServerPort:    "8080",
		ShareTTLHours: 72,
	}

	var err error
	db, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := utils.Migrate(db); err != nil {
		panic(err)
	}

	app = fiber.New()
	routes.SetupRoutes(app, db, cfg)

	os.Exit(m.Run())
}

func nextSeq() int64 {
	return atomic.AddInt64(&seq, 1)
}

func newLanguage(t *testing.T, name string) models.Language {
	t.Helper()
	lang := models.Language{
		Code: fmt.Sprintf("x%d", nextSeq()),
		Name: name,
	}
	require.NoError(t, db.Create(&lang).Error)
	return lang
}

func newCategory(t *testing.T, lang models.Language, title string, order int, requiredScore float64) models.Category {
	t.Helper()
	category := models.Category{
		LanguageID:    lang.ID,
		Title:         title,
		SequenceOrder: order,
		RequiredScore: requiredScore,
	}
	require.NoError(t, db.Create(&category).Error)
	return category
}

func newWord(t *testing.T, lang models.Language, text string) models.Word {
	t.Helper()
	word := models.Word{LanguageID: lang.ID, Text: text}
	require.NoError(t, db.Create(&word).Error)
	return word
}

func newCard(t *testing.T, category models.Category, prompt, translation models.Word) models.Card {
	t.Helper()
	card := models.Card{
		CategoryID:    category.ID,
		WordID:        prompt.ID,
		TranslationID: translation.ID,
	}
	require.NoError(t, db.Create(&card).Error)
	return card
}

// newUser creates a user with password "password123" and returns it together
// with a signed token.
func newUser(t *testing.T, role string, native models.Language, learning ...models.Language) (models.User, string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	n := nextSeq()
	user := models.User{
		Username:          fmt.Sprintf("user%d", n),
		Email:             fmt.Sprintf("user%d@example.com", n),
		PasswordHash:      string(hash),
		Role:              role,
		NativeLanguageID:  native.ID,
		LearningLanguages: learning,
	}
	require.NoError(t, db.Create(&user).Error)

	token, err := utils.GenerateJWTToken(user.ID, cfg)
	require.NoError(t, err)
	return user, token
}

func jsonRequest(t *testing.T, method, path, token string, payload interface{}) *http.Response {
	t.Helper()
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result
}
