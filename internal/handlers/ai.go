package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	openai "github.com/sashabaranov/go-openai"
)

type AIHandler struct {
	client *openai.Client
}

func NewAIHandler() *AIHandler {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return &AIHandler{}
	}
	return &AIHandler{client: openai.NewClient(apiKey)}
}

// CategorySuggestion is the strict shape expected from the model.
type CategorySuggestion struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// fallbackSuggestions is served whenever the model is unavailable or returns
// anything that does not validate.
var fallbackSuggestions = []CategorySuggestion{
	{Name: "Technology", Description: "Latest tech trends, gadgets, and innovations"},
	{Name: "Travel", Description: "Explore destinations, travel tips, and adventures"},
	{Name: "Food & Cooking", Description: "Recipes, culinary tips, and food culture"},
	{Name: "Health & Wellness", Description: "Fitness, mental health, and healthy living"},
	{Name: "Finance", Description: "Personal finance, investing, and money management"},
	{Name: "Lifestyle", Description: "Fashion, home decor, and daily inspiration"},
	{Name: "Business", Description: "Entrepreneurship, startups, and business growth"},
	{Name: "Entertainment", Description: "Movies, TV shows, music, and pop culture"},
	{Name: "Education", Description: "Learning resources, tutorials, and skill development"},
	{Name: "Sports", Description: "Sports news, fitness, and athletic performance"},
}

var htmlTag = regexp.MustCompile(`<[^>]*>`)

// SuggestCategories asks the model for 10 trending blog categories. Any
// failure, including a malformed response, falls back to the fixed list, so
// this endpoint always answers 200.
func (h *AIHandler) SuggestCategories(c *gin.Context) {
	suggestions, err := h.fetchSuggestions(c)
	if err != nil {
		suggestions = fallbackSuggestions
	}

	c.JSON(http.StatusOK, gin.H{"categories": suggestions})
}

func (h *AIHandler) fetchSuggestions(c *gin.Context) ([]CategorySuggestion, error) {
	if h.client == nil {
		return nil, errors.New("openai client not configured")
	}

	completion, err := h.client.CreateChatCompletion(c.Request.Context(), openai.ChatCompletionRequest{
		Model: openai.GPT3Dot5Turbo,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: fmt.Sprintf(`You are a helpful assistant that suggests trending blog categories.
Provide exactly 10 popular and trending blog categories that are relevant in %d.
Return ONLY a JSON object with a "categories" array of objects with 'name' and 'description' fields.
Categories should be diverse, covering technology, lifestyle, business, health, entertainment, etc.
Keep descriptions concise (under 50 words).`, time.Now().Year()),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: "Suggest 10 trending blog categories for a modern blogging platform.",
			},
		},
		Temperature: 0.8,
		MaxTokens:   800,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, err
	}
	if len(completion.Choices) == 0 {
		return nil, errors.New("no response from model")
	}

	// Validate strictly and fail closed on any unexpected shape.
	var payload struct {
		Categories []CategorySuggestion `json:"categories"`
	}
	if err := json.Unmarshal([]byte(completion.Choices[0].Message.Content), &payload); err != nil {
		return nil, err
	}

	suggestions := make([]CategorySuggestion, 0, 10)
	for _, s := range payload.Categories {
		if s.Name == "" || s.Description == "" {
			return nil, errors.New("suggestion missing name or description")
		}
		suggestions = append(suggestions, s)
	}

	// Pad short lists from the fallback, as the model occasionally under-delivers.
	for _, s := range fallbackSuggestions {
		if len(suggestions) >= 10 {
			break
		}
		suggestions = append(suggestions, s)
	}

	return suggestions[:10], nil
}

// SummarizePost streams a short summary of the supplied post content as
// plain text chunks.
func (h *AIHandler) SummarizePost(c *gin.Context) {
	var input struct {
		Content string `json:"content" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content is required"})
		return
	}

	if h.client == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "OpenAI API key is not configured"})
		return
	}

	plainText := htmlTag.ReplaceAllString(input.Content, "")

	stream, err := h.client.CreateChatCompletionStream(c.Request.Context(), openai.ChatCompletionRequest{
		Model: openai.GPT3Dot5Turbo,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a helpful assistant that summarizes blog posts. Provide a concise summary in 150 words or less. Focus on the main points and key takeaways.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: "Please summarize this blog post in 150 words or less:\n\n" + plainText,
			},
		},
		MaxTokens:   250,
		Temperature: 0.7,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate summary"})
		return
	}
	defer stream.Close()

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("Cache-Control", "no-cache")
	c.Status(http.StatusOK)

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			return
		}
		if len(resp.Choices) == 0 {
			continue
		}
		if text := resp.Choices[0].Delta.Content; text != "" {
			c.Writer.WriteString(text)
			c.Writer.Flush()
		}
	}
}
