package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellarwrite/blog-backend/internal/models"
)

func TestCreateCategoryDerivesSlug(t *testing.T) {
	resetDB(t)
	token := tokenFor(t, createTestUser(t, "alice"))

	w := doJSON(t, http.MethodPost, "/api/categories", map[string]any{
		"name":        "Food & Cooking!",
		"description": "Recipes and more",
	}, token)
	body := statusAndBody(t, w, http.StatusCreated)
	assert.Equal(t, "food-cooking", body["slug"])

	// getById round-trip
	id := int(body["id"].(float64))
	w = doJSON(t, http.MethodGet, fmt.Sprintf("/api/categories/%d", id), nil, "")
	got := statusAndBody(t, w, http.StatusOK)
	assert.Equal(t, "Food & Cooking!", got["name"])
	assert.Equal(t, "food-cooking", got["slug"])
	assert.Equal(t, "Recipes and more", got["description"])
}

func TestCreateCategorySlugConflict(t *testing.T) {
	resetDB(t)
	token := tokenFor(t, createTestUser(t, "alice"))

	w := doJSON(t, http.MethodPost, "/api/categories", map[string]any{"name": "Tech!"}, token)
	require.Equal(t, http.StatusCreated, w.Code)

	// "Tech?" slugifies identically to "Tech!"
	w = doJSON(t, http.MethodPost, "/api/categories", map[string]any{"name": "Tech?"}, token)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateCategoryValidation(t *testing.T) {
	resetDB(t)
	token := tokenFor(t, createTestUser(t, "alice"))

	w := doJSON(t, http.MethodPost, "/api/categories", map[string]any{"description": "no name"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, http.MethodPost, "/api/categories", map[string]any{"name": "!!!"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetCategoriesEmpty(t *testing.T) {
	resetDB(t)

	w := doJSON(t, http.MethodGet, "/api/categories", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var categories []models.Category
	decodeBody(t, w, &categories)
	assert.Empty(t, categories)
	assert.NotEqual(t, "null", w.Body.String())
}

func TestGetCategoryNotFound(t *testing.T) {
	resetDB(t)

	w := doJSON(t, http.MethodGet, "/api/categories/9999", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateCategoryRenameReslugs(t *testing.T) {
	resetDB(t)
	token := tokenFor(t, createTestUser(t, "alice"))

	w := doJSON(t, http.MethodPost, "/api/categories", map[string]any{"name": "Old Name"}, token)
	created := statusAndBody(t, w, http.StatusCreated)
	id := int(created["id"].(float64))

	w = doJSON(t, http.MethodPut, fmt.Sprintf("/api/categories/%d", id), map[string]any{"name": "New Name"}, token)
	updated := statusAndBody(t, w, http.StatusOK)
	assert.Equal(t, "New Name", updated["name"])
	assert.Equal(t, "new-name", updated["slug"])
}

func TestUpdateCategoryRenameConflict(t *testing.T) {
	resetDB(t)
	token := tokenFor(t, createTestUser(t, "alice"))

	w := doJSON(t, http.MethodPost, "/api/categories", map[string]any{"name": "Tech"}, token)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, http.MethodPost, "/api/categories", map[string]any{"name": "Travel"}, token)
	created := statusAndBody(t, w, http.StatusCreated)
	id := int(created["id"].(float64))

	// Renaming Travel to Tech would collide with the live tech slug
	w = doJSON(t, http.MethodPut, fmt.Sprintf("/api/categories/%d", id), map[string]any{"name": "Tech"}, token)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUpdateCategoryPartial(t *testing.T) {
	resetDB(t)
	token := tokenFor(t, createTestUser(t, "alice"))

	w := doJSON(t, http.MethodPost, "/api/categories", map[string]any{
		"name":        "Science",
		"description": "old",
	}, token)
	created := statusAndBody(t, w, http.StatusCreated)
	id := int(created["id"].(float64))

	// Description-only update leaves name and slug untouched
	w = doJSON(t, http.MethodPut, fmt.Sprintf("/api/categories/%d", id), map[string]any{"description": "new"}, token)
	updated := statusAndBody(t, w, http.StatusOK)
	assert.Equal(t, "Science", updated["name"])
	assert.Equal(t, "science", updated["slug"])
	assert.Equal(t, "new", updated["description"])
}

func TestUpdateCategoryNotFound(t *testing.T) {
	resetDB(t)
	token := tokenFor(t, createTestUser(t, "alice"))

	w := doJSON(t, http.MethodPut, "/api/categories/9999", map[string]any{"name": "Ghost"}, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteCategory(t *testing.T) {
	resetDB(t)
	token := tokenFor(t, createTestUser(t, "alice"))

	w := doJSON(t, http.MethodPost, "/api/categories", map[string]any{"name": "Doomed"}, token)
	created := statusAndBody(t, w, http.StatusCreated)
	id := int(created["id"].(float64))

	w = doJSON(t, http.MethodDelete, fmt.Sprintf("/api/categories/%d", id), nil, token)
	body := statusAndBody(t, w, http.StatusOK)
	assert.Equal(t, true, body["success"])

	w = doJSON(t, http.MethodGet, fmt.Sprintf("/api/categories/%d", id), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, http.MethodDelete, fmt.Sprintf("/api/categories/%d", id), nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteCategoryCascadesToPosts(t *testing.T) {
	resetDB(t)
	author := createTestUser(t, "alice")
	token := tokenFor(t, author)

	w := doJSON(t, http.MethodPost, "/api/categories", map[string]any{"name": "Tech"}, token)
	category := statusAndBody(t, w, http.StatusCreated)
	categoryID := int(category["id"].(float64))

	w = doJSON(t, http.MethodPost, "/api/posts", map[string]any{
		"title":        "Post in Tech",
		"content":      "body",
		"category_ids": []int{categoryID},
	}, token)
	post := statusAndBody(t, w, http.StatusCreated)
	postID := int(post["id"].(float64))

	w = doJSON(t, http.MethodDelete, fmt.Sprintf("/api/categories/%d", categoryID), nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, http.MethodGet, fmt.Sprintf("/api/posts/%d", postID), nil, "")
	got := statusAndBody(t, w, http.StatusOK)
	assert.Empty(t, got["category_ids"])
}

func TestCategoryMutationsRequireAuth(t *testing.T) {
	resetDB(t)

	w := doJSON(t, http.MethodPost, "/api/categories", map[string]any{"name": "Tech"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, http.MethodPut, "/api/categories/1", map[string]any{"name": "Tech"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, http.MethodDelete, "/api/categories/1", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
