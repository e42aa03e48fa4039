package handlers

import (
	"gorm.io/gorm"
)

// Handler combines all handler types
type Handler struct {
	Auth     *AuthHandler
	Post     *PostHandler
	Category *CategoryHandler
	User     *UserHandler
	AI       *AIHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(db),
		Post:     NewPostHandler(db),
		Category: NewCategoryHandler(db),
		User:     NewUserHandler(db),
		AI:       NewAIHandler(),
	}
}
