package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stellarwrite/blog-backend/internal/models"
	"github.com/stellarwrite/blog-backend/internal/slug"
)

type CategoryHandler struct {
	db *gorm.DB
}

func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{db: db}
}

// GetCategories returns all categories
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	var categories []models.Category

	if err := h.db.Order("name asc").Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}

	// If no categories, return empty array not null
	if categories == nil {
		categories = []models.Category{}
	}

	c.JSON(http.StatusOK, categories)
}

// GetCategory returns a single category by ID
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	categoryID := c.Param("id")
	var category models.Category

	if err := h.db.First(&category, categoryID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	c.JSON(http.StatusOK, category)
}

// CreateCategory creates a new category (PROTECTED - requires authentication)
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var input struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}

	categorySlug := slug.Make(input.Name)
	if categorySlug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name must contain at least one letter or digit"})
		return
	}

	// Check if slug already exists
	var existing models.Category
	if err := h.db.Where("slug = ?", categorySlug).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "A category with this name already exists"})
		return
	}

	category := models.Category{
		Name:        input.Name,
		Description: input.Description,
		Slug:        categorySlug,
	}

	if err := h.db.Create(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}

	c.JSON(http.StatusCreated, category)
}

// UpdateCategory partially updates a category (PROTECTED)
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	categoryID := c.Param("id")

	var input struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var category models.Category
	if err := h.db.First(&category, categoryID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	if input.Name != nil {
		newSlug := slug.Make(*input.Name)
		if newSlug == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name must contain at least one letter or digit"})
			return
		}

		// Renaming re-derives the slug; reject collisions with other rows
		var existing models.Category
		if err := h.db.Where("slug = ? AND id <> ?", newSlug, category.ID).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "A category with this name already exists"})
			return
		}

		category.Name = *input.Name
		category.Slug = newSlug
	}
	if input.Description != nil {
		category.Description = *input.Description
	}

	if err := h.db.Save(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
		return
	}

	c.JSON(http.StatusOK, category)
}

// DeleteCategory deletes a category and its post associations (PROTECTED)
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	categoryID := c.Param("id")

	var category models.Category
	if err := h.db.First(&category, categoryID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", category.ID).Delete(&models.PostCategory{}).Error; err != nil {
			return err
		}
		return tx.Delete(&category).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
