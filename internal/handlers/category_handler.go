package handlers

import (
	"net/http"

	"taskboard-api/internal/models"
	"taskboard-api/internal/store"

	"github.com/gin-gonic/gin"
)

// CategoryHandler exposes the category store over HTTP.
type CategoryHandler struct {
	categories *store.CategoryStore
}

// NewCategoryHandler creates a category handler backed by the given store.
func NewCategoryHandler(categories *store.CategoryStore) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// CategoryRequest represents the payload for creating or updating a category
type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

// List handles GET /api/categories
func (h *CategoryHandler) List(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}
	categories, err := h.categories.List()
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"count":      len(categories),
	})
}

// Get handles GET /api/categories/:id
func (h *CategoryHandler) Get(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}
	category, err := h.categories.Get(c.Param("id"))
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// Create handles POST /api/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	category, err := h.categories.Add(models.Category{
		Name:        req.Name,
		Color:       req.Color,
		Description: req.Description,
	})
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// Update handles PUT /api/categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	category, err := h.categories.Update(models.Category{
		ID:          c.Param("id"),
		Name:        req.Name,
		Color:       req.Color,
		Description: req.Description,
	})
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// Delete handles DELETE /api/categories/:id
// Tasks referencing the category keep the dangling id.
func (h *CategoryHandler) Delete(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}
	categoryID := c.Param("id")
	if err := h.categories.Delete(categoryID); err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Category deleted successfully",
		"id":      categoryID,
	})
}
