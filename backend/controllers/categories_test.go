package controllers_test

import (
	"fmt"
	"testing"

	"flashlingo/backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCardsLockedCategory(t *testing.T) {
	english := newLanguage(t, "English")
	japanese := newLanguage(t, "Japanese")
	basics := newCategory(t, japanese, "Basics", 1, 100)
	advanced := newCategory(t, japanese, "Advanced", 2, 100)
	card := newCard(t, basics, newWord(t, english, "water"), newWord(t, japanese, "mizu"))
	newCard(t, advanced, newWord(t, english, "mountain"), newWord(t, japanese, "yama"))

	_, token := newUser(t, "user", english, japanese)

	// The first category is open without any progress record.
	resp := jsonRequest(t, "GET", fmt.Sprintf("/api/categories/%d/cards", basics.ID), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	cards := decodeBody(t, resp)["cards"].([]interface{})
	require.Len(t, cards, 1)
	entry := cards[0].(map[string]interface{})
	assert.Equal(t, "water", entry["word"])
	assert.Equal(t, "mizu", entry["translation"])

	// The second is locked until the first is finished.
	resp = jsonRequest(t, "GET", fmt.Sprintf("/api/categories/%d/cards", advanced.ID), token, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Finish the single-card category and try again.
	resp = jsonRequest(t, "POST", fmt.Sprintf("/api/cards/%d/submit", card.ID), token,
		submitBody(japanese.ID, "mizu", "l1", "flash"))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = jsonRequest(t, "GET", fmt.Sprintf("/api/categories/%d/cards", advanced.ID), token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGetCardsVisibilityFilter(t *testing.T) {
	english := newLanguage(t, "English")
	korean := newLanguage(t, "Korean")
	turkish := newLanguage(t, "Turkish")
	category := newCategory(t, korean, "Basics", 1, 100)

	// One card the user can practice, one with a prompt in the wrong language.
	newCard(t, category, newWord(t, english, "house"), newWord(t, korean, "jib"))
	newCard(t, category, newWord(t, turkish, "ev"), newWord(t, korean, "jib2"))

	_, token := newUser(t, "user", english, korean)

	resp := jsonRequest(t, "GET", fmt.Sprintf("/api/categories/%d/cards", category.ID), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	cards := decodeBody(t, resp)["cards"].([]interface{})
	assert.Len(t, cards, 1)

	// Admins see the whole category.
	_, adminToken := newUser(t, "admin", english)
	resp = jsonRequest(t, "GET", fmt.Sprintf("/api/categories/%d/cards", category.ID), adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	cards = decodeBody(t, resp)["cards"].([]interface{})
	assert.Len(t, cards, 2)
}

func TestListCategoriesWithProgress(t *testing.T) {
	english := newLanguage(t, "English")
	portuguese := newLanguage(t, "Portuguese")
	basics := newCategory(t, portuguese, "Basics", 1, 100)
	newCategory(t, portuguese, "Advanced", 2, 100)
	card := newCard(t, basics, newWord(t, english, "sun"), newWord(t, portuguese, "sol"))

	_, token := newUser(t, "user", english, portuguese)

	resp := jsonRequest(t, "POST", fmt.Sprintf("/api/cards/%d/submit", card.ID), token,
		submitBody(portuguese.ID, "sol", "p1", "flash"))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = jsonRequest(t, "GET", fmt.Sprintf("/api/languages/%d/categories", portuguese.ID), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	categories := decodeBody(t, resp)["categories"].([]interface{})
	require.Len(t, categories, 2)

	first := categories[0].(map[string]interface{})
	assert.Equal(t, "Basics", first["title"])
	assert.Equal(t, true, first["unlocked"])
	assert.InDelta(t, 100.0, first["max_score"].(float64), 1e-6)

	second := categories[1].(map[string]interface{})
	assert.Equal(t, "Advanced", second["title"])
	assert.Equal(t, true, second["unlocked"])
}

func TestReorderCategories(t *testing.T) {
	english := newLanguage(t, "English")
	norwegian := newLanguage(t, "Norwegian")
	first := newCategory(t, norwegian, "First", 1, 100)
	second := newCategory(t, norwegian, "Second", 2, 100)
	third := newCategory(t, norwegian, "Third", 3, 100)

	_, adminToken := newUser(t, "admin", english)

	// Swapping orders would violate the uniqueness constraint without the
	// two-phase write.
	resp := jsonRequest(t, "PUT", "/api/admin/categories/reorder", adminToken, fiber.Map{
		"language_id": norwegian.ID,
		"items": []fiber.Map{
			{"category_id": first.ID, "order": 3},
			{"category_id": second.ID, "order": 1},
			{"category_id": third.ID, "order": 2},
		},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got models.Category
	require.NoError(t, db.First(&got, first.ID).Error)
	assert.Equal(t, 3, got.SequenceOrder)
	got = models.Category{}
	require.NoError(t, db.First(&got, second.ID).Error)
	assert.Equal(t, 1, got.SequenceOrder)
	got = models.Category{}
	require.NoError(t, db.First(&got, third.ID).Error)
	assert.Equal(t, 2, got.SequenceOrder)
}

func TestReorderRequiresAdmin(t *testing.T) {
	english := newLanguage(t, "English")
	norwegian := newLanguage(t, "Norwegian")
	category := newCategory(t, norwegian, "Solo", 1, 100)

	_, token := newUser(t, "user", english, norwegian)

	resp := jsonRequest(t, "PUT", "/api/admin/categories/reorder", token, fiber.Map{
		"language_id": norwegian.ID,
		"items": []fiber.Map{
			{"category_id": category.ID, "order": 2},
		},
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestReorderUnknownCategory(t *testing.T) {
	english := newLanguage(t, "English")
	norwegian := newLanguage(t, "Norwegian")

	_, adminToken := newUser(t, "admin", english)

	resp := jsonRequest(t, "PUT", "/api/admin/categories/reorder", adminToken, fiber.Map{
		"language_id": norwegian.ID,
		"items": []fiber.Map{
			{"category_id": 999999, "order": 1},
		},
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
