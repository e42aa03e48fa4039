package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Without an API key the handler has no client, which exercises the
// fail-closed path: the fixed fallback list, always 200.
func TestSuggestCategoriesFallback(t *testing.T) {
	w := doJSON(t, http.MethodGet, "/api/ai/suggest-categories", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Categories []CategorySuggestion `json:"categories"`
	}
	decodeBody(t, w, &body)
	require.Len(t, body.Categories, 10)
	for _, c := range body.Categories {
		assert.NotEmpty(t, c.Name)
		assert.NotEmpty(t, c.Description)
	}
}

func TestSummarizeRequiresContent(t *testing.T) {
	w := doJSON(t, http.MethodPost, "/api/ai/summarize", map[string]any{}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
