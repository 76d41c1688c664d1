package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"taskboard-api/internal/models"
	"taskboard-api/internal/store"

	"github.com/gin-gonic/gin"
)

// TaskHandler exposes the task store over HTTP.
type TaskHandler struct {
	tasks *store.TaskStore
}

// NewTaskHandler creates a task handler backed by the given store.
func NewTaskHandler(tasks *store.TaskStore) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// CreateTaskRequest represents the request payload for creating a task
type CreateTaskRequest struct {
	Title         string              `json:"title" binding:"required"`
	Description   string              `json:"description"`
	AssigneeID    string              `json:"assigneeId"`
	State         models.TaskState    `json:"state"`
	Priority      models.TaskPriority `json:"priority"`
	CategoryID    string              `json:"categoryId"`
	ProjectID     string              `json:"projectId"`
	Deadline      string              `json:"deadline"`
	ScheduledDate string              `json:"scheduledDate"`
	Progress      int                 `json:"progress"`
}

// UpdateTaskRequest represents the request payload for updating a task
type UpdateTaskRequest struct {
	Title         *string              `json:"title"`
	Description   *string              `json:"description"`
	AssigneeID    *string              `json:"assigneeId"`
	State         *models.TaskState    `json:"state"`
	Priority      *models.TaskPriority `json:"priority"`
	CategoryID    *string              `json:"categoryId"`
	ProjectID     *string              `json:"projectId"`
	Deadline      *string              `json:"deadline"`
	ScheduledDate *string              `json:"scheduledDate"`
	Progress      *int                 `json:"progress"`
}

// UpdateTaskStateRequest represents a minimal request to change state
type UpdateTaskStateRequest struct {
	State models.TaskState `json:"state" binding:"required"`
}

/*
*
List handles GET /api/tasks
Returns all tasks (team-wide) for authenticated users.
Query params: page (default 1), limit (default 5), sort (asc|desc on
created_at, default desc), userId to filter by creator, projectId to filter
by project.
*/
func (h *TaskHandler) List(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))
	sortParam := strings.ToLower(c.DefaultQuery("sort", "desc"))

	tasks, total, err := h.tasks.List(store.ListOptions{
		Page:      page,
		Limit:     limit,
		SortAsc:   sortParam == "asc",
		CreatedBy: c.Query("userId"),
		ProjectID: c.Query("projectId"),
	})
	if err != nil {
		storeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
		"count": len(tasks), // number of items in this page
		"total": total,      // total tasks (all pages) for current filter
		"page":  page,
		"limit": limit,
		"sort":  sortParam,
	})
}

// Get handles GET /api/tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}
	task, err := h.tasks.Get(c.Param("id"))
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

/*
*
Create handles POST /api/tasks
Creates a new task owned by the authenticated user
*/
func (h *TaskHandler) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deadline, err := parseOptionalDate("deadline", req.Deadline)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	scheduled, err := parseOptionalDate("scheduled", req.ScheduledDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.tasks.Add(actor, models.Task{
		Title:         req.Title,
		Description:   req.Description,
		AssigneeID:    req.AssigneeID,
		State:         req.State,
		Priority:      req.Priority,
		CategoryID:    req.CategoryID,
		ProjectID:     strings.TrimSpace(req.ProjectID),
		Deadline:      deadline,
		ScheduledDate: scheduled,
		Progress:      req.Progress,
	})
	if err != nil {
		storeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// Update handles PUT /api/tasks/:id
// Fields absent from the payload keep their current values.
func (h *TaskHandler) Update(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	existing, err := h.tasks.Get(c.Param("id"))
	if err != nil {
		storeError(c, err)
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Update fields if provided
	if req.Title != nil {
		existing.Title = *req.Title
	}
	if req.Description != nil {
		existing.Description = *req.Description
	}
	if req.AssigneeID != nil {
		existing.AssigneeID = *req.AssigneeID
	}
	if req.State != nil {
		existing.State = *req.State
	}
	if req.Priority != nil {
		existing.Priority = *req.Priority
	}
	if req.CategoryID != nil {
		existing.CategoryID = *req.CategoryID
	}
	if req.ProjectID != nil {
		existing.ProjectID = strings.TrimSpace(*req.ProjectID)
	}
	if req.Deadline != nil {
		deadline, err := parseOptionalDate("deadline", *req.Deadline)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		existing.Deadline = deadline
	}
	if req.ScheduledDate != nil {
		scheduled, err := parseOptionalDate("scheduled", *req.ScheduledDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		existing.ScheduledDate = scheduled
	}
	if req.Progress != nil {
		existing.Progress = *req.Progress
	}

	task, err := h.tasks.Update(actor, existing)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// UpdateState handles PATCH /api/tasks/:id/state
// Updates only the state of a task, so edits from other views survive.
func (h *TaskHandler) UpdateState(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req UpdateTaskStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.tasks.UpdateState(actor, c.Param("id"), req.State)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// Delete handles DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	taskID := c.Param("id")
	if err := h.tasks.Delete(actor, taskID); err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
		"id":      taskID,
	})
}

type subtaskRequest struct {
	Title string `json:"title" binding:"required"`
}

// AddSubtask handles POST /api/tasks/:id/subtasks
func (h *TaskHandler) AddSubtask(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req subtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	task, err := h.tasks.AddSubtask(actor, c.Param("id"), req.Title)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// ToggleSubtask handles PATCH /api/tasks/:id/subtasks/:subtaskId/toggle
func (h *TaskHandler) ToggleSubtask(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	task, err := h.tasks.ToggleSubtask(actor, c.Param("id"), c.Param("subtaskId"))
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// DeleteSubtask handles DELETE /api/tasks/:id/subtasks/:subtaskId
func (h *TaskHandler) DeleteSubtask(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	task, err := h.tasks.DeleteSubtask(actor, c.Param("id"), c.Param("subtaskId"))
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

type commentRequest struct {
	Text string `json:"text" binding:"required"`
}

// AddComment handles POST /api/tasks/:id/comments
func (h *TaskHandler) AddComment(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	task, err := h.tasks.AddComment(actor, c.Param("id"), req.Text)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// DeleteComment handles DELETE /api/tasks/:id/comments/:commentId
func (h *TaskHandler) DeleteComment(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	task, err := h.tasks.DeleteComment(actor, c.Param("id"), c.Param("commentId"))
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// Stats handles GET /api/stats
// Returns counts of tasks by state and priority.
func (h *TaskHandler) Stats(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}
	stats, err := h.tasks.Stats()
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
