package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stellarwrite/blog-backend/internal/models"
)

func TestGetUserProfile(t *testing.T) {
	resetDB(t)
	user := createTestUser(t, "alice")

	testDB.Model(&models.User{}).Where("id = ?", user.ID).Update("bio", "writes about Go")

	w := doJSON(t, http.MethodGet, "/api/users/"+user.ID, nil, "")
	body := statusAndBody(t, w, http.StatusOK)
	assert.Equal(t, user.ID, body["id"])
	assert.Equal(t, user.Email, body["email"])
	assert.Equal(t, "writes about Go", body["bio"])

	// Projection only: no auth provider internals
	_, hasProvider := body["auth_provider"]
	assert.False(t, hasProvider)
}

func TestGetUserProfileNotFound(t *testing.T) {
	resetDB(t)

	w := doJSON(t, http.MethodGet, "/api/users/no-such-user", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetUserPostsCount(t *testing.T) {
	resetDB(t)
	author := createTestUser(t, "alice")
	token := tokenFor(t, author)

	createPostT(t, token, map[string]any{"title": "Pub One", "content": "x", "published": true})
	createPostT(t, token, map[string]any{"title": "Pub Two", "content": "x", "published": true})
	createPostT(t, token, map[string]any{"title": "Draft One", "content": "x", "published": false})

	w := doJSON(t, http.MethodGet, "/api/users/"+author.ID+"/posts/count", nil, "")
	body := statusAndBody(t, w, http.StatusOK)
	assert.EqualValues(t, 3, body["total"])
	assert.EqualValues(t, 2, body["published"])
	assert.EqualValues(t, 1, body["drafts"])
}

func TestGetUserPostsCountNoPosts(t *testing.T) {
	resetDB(t)
	user := createTestUser(t, "lurker")

	w := doJSON(t, http.MethodGet, "/api/users/"+user.ID+"/posts/count", nil, "")
	body := statusAndBody(t, w, http.StatusOK)
	assert.EqualValues(t, 0, body["total"])
	assert.EqualValues(t, 0, body["published"])
	assert.EqualValues(t, 0, body["drafts"])
}

func TestUpdateProfile(t *testing.T) {
	resetDB(t)
	user := createTestUser(t, "alice")
	token := tokenFor(t, user)

	w := doJSON(t, http.MethodPatch, "/api/users/profile", map[string]any{
		"bio":   "updated bio",
		"image": "https://example.com/avatar.png",
	}, token)
	body := statusAndBody(t, w, http.StatusOK)
	assert.Equal(t, "updated bio", body["bio"])
	assert.Equal(t, "https://example.com/avatar.png", body["image"])
	assert.Equal(t, user.Name, body["name"])

	w = doJSON(t, http.MethodPatch, "/api/users/profile", map[string]any{"bio": "x"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
