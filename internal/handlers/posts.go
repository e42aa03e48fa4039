package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stellarwrite/blog-backend/internal/models"
	"github.com/stellarwrite/blog-backend/internal/slug"
)

type PostHandler struct {
	db *gorm.DB
}

func NewPostHandler(db *gorm.DB) *PostHandler {
	return &PostHandler{db: db}
}

// currentUserID returns the authenticated caller's id set by the auth middleware.
func currentUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

// authorSummary denormalizes a post's author for list/detail responses.
// All fields are null when the post has no resolvable author.
func authorSummary(author *models.User) gin.H {
	if author == nil {
		return gin.H{"id": nil, "name": nil, "email": nil, "image": nil}
	}
	return gin.H{
		"id":    author.ID,
		"name":  author.Name,
		"email": author.Email,
		"image": author.Image,
	}
}

func (h *PostHandler) categoryIDs(postID int) ([]int, error) {
	var rows []models.PostCategory
	if err := h.db.Where("post_id = ?", postID).Find(&rows).Error; err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.CategoryID)
	}
	return ids, nil
}

// validateCategoryIDs checks that every referenced category exists.
func (h *PostHandler) validateCategoryIDs(ids []int) (bool, error) {
	if len(ids) == 0 {
		return true, nil
	}
	var count int64
	if err := h.db.Model(&models.Category{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return false, err
	}
	return count == int64(len(distinct(ids))), nil
}

func distinct(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (h *PostHandler) postResponse(post *models.Post, categoryIDs []int) gin.H {
	resp := gin.H{
		"id":         post.ID,
		"title":      post.Title,
		"content":    post.Content,
		"slug":       post.Slug,
		"published":  post.Published,
		"author_id":  post.AuthorID,
		"author":     authorSummary(post.Author),
		"created_at": post.CreatedAt,
		"updated_at": post.UpdatedAt,
	}
	if categoryIDs != nil {
		resp["category_ids"] = categoryIDs
	}
	return resp
}

// GetPosts returns posts newest-first, optionally filtered by publication
// state and category membership.
func (h *PostHandler) GetPosts(c *gin.Context) {
	query := h.db.Preload("Author").Order("created_at desc")

	if publishedParam := c.Query("published"); publishedParam != "" {
		published, err := strconv.ParseBool(publishedParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "published must be true or false"})
			return
		}
		query = query.Where("published = ?", published)
	}

	var posts []models.Post
	if err := query.Find(&posts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	// Category filter intersects against the current association table
	// rather than joining in SQL.
	if categoryParam := c.Query("category_id"); categoryParam != "" {
		categoryID, err := strconv.Atoi(categoryParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "category_id must be an integer"})
			return
		}

		var rows []models.PostCategory
		if err := h.db.Where("category_id = ?", categoryID).Find(&rows).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
			return
		}
		member := make(map[int]bool, len(rows))
		for _, row := range rows {
			member[row.PostID] = true
		}

		filtered := posts[:0]
		for _, post := range posts {
			if member[post.ID] {
				filtered = append(filtered, post)
			}
		}
		posts = filtered
	}

	responses := make([]gin.H, 0, len(posts))
	for i := range posts {
		responses = append(responses, h.postResponse(&posts[i], nil))
	}

	c.JSON(http.StatusOK, responses)
}

// GetPost returns a single post by ID with its category ids
func (h *PostHandler) GetPost(c *gin.Context) {
	postID := c.Param("id")
	var post models.Post

	if err := h.db.Preload("Author").First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	ids, err := h.categoryIDs(post.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post categories"})
		return
	}

	c.JSON(http.StatusOK, h.postResponse(&post, ids))
}

// GetPostBySlug returns a single post by slug with its author and category ids
func (h *PostHandler) GetPostBySlug(c *gin.Context) {
	postSlug := c.Param("slug")
	var post models.Post

	if err := h.db.Preload("Author").Where("slug = ?", postSlug).First(&post).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	ids, err := h.categoryIDs(post.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post categories"})
		return
	}

	c.JSON(http.StatusOK, h.postResponse(&post, ids))
}

// CreatePost creates a new post (PROTECTED - requires authentication)
func (h *PostHandler) CreatePost(c *gin.Context) {
	var input struct {
		Title       string `json:"title" binding:"required"`
		Content     string `json:"content" binding:"required"`
		Published   bool   `json:"published"`
		CategoryIDs []int  `json:"category_ids"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and content are required"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	postSlug := slug.Make(input.Title)
	if postSlug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title must contain at least one letter or digit"})
		return
	}

	// Check if slug already exists
	var existing models.Post
	if err := h.db.Where("slug = ?", postSlug).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "A post with this title already exists"})
		return
	}

	ok, err := h.validateCategoryIDs(input.CategoryIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "One or more category ids do not exist"})
		return
	}

	post := models.Post{
		Title:     input.Title,
		Content:   input.Content,
		Slug:      postSlug,
		Published: input.Published,
		AuthorID:  &userID,
	}

	// Post and association inserts succeed or fail together.
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		for _, categoryID := range distinct(input.CategoryIDs) {
			if err := tx.Create(&models.PostCategory{PostID: post.ID, CategoryID: categoryID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	// Reload with author information
	h.db.Preload("Author").First(&post, post.ID)

	ids, err := h.categoryIDs(post.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post categories"})
		return
	}

	c.JSON(http.StatusCreated, h.postResponse(&post, ids))
}

// UpdatePost updates an existing post (PROTECTED - requires ownership)
func (h *PostHandler) UpdatePost(c *gin.Context) {
	postID := c.Param("id")

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		Title       *string `json:"title"`
		Content     *string `json:"content"`
		Published   *bool   `json:"published"`
		CategoryIDs *[]int  `json:"category_ids"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var post models.Post
	if err := h.db.First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	// Check ownership. A post without an author has no owner and cannot be
	// mutated through this path.
	if post.AuthorID == nil || *post.AuthorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own posts"})
		return
	}

	if input.Title != nil {
		newSlug := slug.Make(*input.Title)
		if newSlug == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Title must contain at least one letter or digit"})
			return
		}

		var existing models.Post
		if err := h.db.Where("slug = ? AND id <> ?", newSlug, post.ID).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "A post with this title already exists"})
			return
		}

		post.Title = *input.Title
		post.Slug = newSlug
	}
	if input.Content != nil {
		if *input.Content == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Content cannot be empty"})
			return
		}
		post.Content = *input.Content
	}
	if input.Published != nil {
		post.Published = *input.Published
	}

	if input.CategoryIDs != nil {
		ok, err := h.validateCategoryIDs(*input.CategoryIDs)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update post"})
			return
		}
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "One or more category ids do not exist"})
			return
		}
	}

	// The field update and the association replacement succeed or fail
	// together. A supplied category_ids (even empty) replaces the whole set;
	// an omitted one leaves the set untouched.
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&post).Error; err != nil {
			return err
		}
		if input.CategoryIDs != nil {
			if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostCategory{}).Error; err != nil {
				return err
			}
			for _, categoryID := range distinct(*input.CategoryIDs) {
				if err := tx.Create(&models.PostCategory{PostID: post.ID, CategoryID: categoryID}).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update post"})
		return
	}

	h.db.Preload("Author").First(&post, post.ID)

	ids, err := h.categoryIDs(post.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post categories"})
		return
	}

	c.JSON(http.StatusOK, h.postResponse(&post, ids))
}

// DeletePost deletes a post (PROTECTED - requires ownership)
func (h *PostHandler) DeletePost(c *gin.Context) {
	postID := c.Param("id")

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var post models.Post
	if err := h.db.First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	// Check ownership
	if post.AuthorID == nil || *post.AuthorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own posts"})
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostCategory{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
