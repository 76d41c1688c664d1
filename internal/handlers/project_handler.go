package handlers

import (
	"net/http"

	"taskboard-api/internal/models"
	"taskboard-api/internal/store"

	"github.com/gin-gonic/gin"
)

// ProjectHandler exposes the project store over HTTP.
type ProjectHandler struct {
	projects *store.ProjectStore
}

// NewProjectHandler creates a project handler backed by the given store.
func NewProjectHandler(projects *store.ProjectStore) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

// CreateProjectRequest represents the request payload for creating a project
type CreateProjectRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Color       string   `json:"color"`
	StartDate   string   `json:"startDate"`
	Deadline    string   `json:"deadline"`
	CategoryIDs []string `json:"categoryIds"`
}

// UpdateProjectRequest represents the request payload for updating a project
type UpdateProjectRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Color       *string   `json:"color"`
	StartDate   *string   `json:"startDate"`
	Deadline    *string   `json:"deadline"`
	CategoryIDs *[]string `json:"categoryIds"`
}

// projectDateRequest carries a nullable date for the narrow date endpoints.
// An absent or empty date clears the field.
type projectDateRequest struct {
	Date string `json:"date"`
}

// List handles GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}
	projects, err := h.projects.List()
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"projects": projects,
		"count":    len(projects),
	})
}

// Get handles GET /api/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}
	project, err := h.projects.Get(c.Param("id"))
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// Create handles POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	startDate, err := parseOptionalDate("start", req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	deadline, err := parseOptionalDate("deadline", req.Deadline)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.projects.Add(actor, models.Project{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		StartDate:   startDate,
		Deadline:    deadline,
		CategoryIDs: req.CategoryIDs,
	})
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

// Update handles PUT /api/projects/:id
// Fields absent from the payload keep their current values. The membership
// list cannot be set from here; it is store-maintained.
func (h *ProjectHandler) Update(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	existing, err := h.projects.Get(c.Param("id"))
	if err != nil {
		storeError(c, err)
		return
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.Description != nil {
		existing.Description = *req.Description
	}
	if req.Color != nil {
		existing.Color = *req.Color
	}
	if req.StartDate != nil {
		startDate, err := parseOptionalDate("start", *req.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		existing.StartDate = startDate
	}
	if req.Deadline != nil {
		deadline, err := parseOptionalDate("deadline", *req.Deadline)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		existing.Deadline = deadline
	}
	if req.CategoryIDs != nil {
		existing.CategoryIDs = *req.CategoryIDs
	}

	project, err := h.projects.Update(actor, existing)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// Delete handles DELETE /api/projects/:id
// Member tasks are detached, never deleted.
func (h *ProjectHandler) Delete(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	projectID := c.Param("id")
	if err := h.projects.Delete(actor, projectID); err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Project deleted successfully",
		"id":      projectID,
	})
}

// AddTask handles POST /api/projects/:id/tasks/:taskId
func (h *ProjectHandler) AddTask(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	project, err := h.projects.AddTask(actor, c.Param("id"), c.Param("taskId"))
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// RemoveTask handles DELETE /api/projects/:id/tasks/:taskId
func (h *ProjectHandler) RemoveTask(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	project, err := h.projects.RemoveTask(actor, c.Param("id"), c.Param("taskId"))
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// SetDeadline handles PATCH /api/projects/:id/deadline
func (h *ProjectHandler) SetDeadline(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req projectDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	deadline, err := parseOptionalDate("deadline", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	project, err := h.projects.SetDeadline(actor, c.Param("id"), deadline)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// SetStartDate handles PATCH /api/projects/:id/start-date
func (h *ProjectHandler) SetStartDate(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req projectDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	startDate, err := parseOptionalDate("start", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	project, err := h.projects.SetStartDate(actor, c.Param("id"), startDate)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}
