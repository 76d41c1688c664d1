package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskboard-api/internal/auth"
	"taskboard-api/internal/middleware"
	"taskboard-api/internal/models"
	"taskboard-api/internal/store"
	"taskboard-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newTaskRouter(t *testing.T) (*gin.Engine, *store.TaskStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)

	bus := store.NewBus()
	activity := store.NewActivityStore(db)
	tasks := store.NewTaskStore(db, activity, bus)
	projects := store.NewProjectStore(db, tasks, activity, bus)
	tasks.SetProjectDirectory(projects)

	h := NewTaskHandler(tasks)
	r := gin.New()
	r.Use(middleware.JWTAuthMiddleware())
	r.GET("/api/tasks/:id", h.Get)
	r.POST("/api/tasks", h.Create)
	r.PATCH("/api/tasks/:id/state", h.UpdateState)
	return r, tasks
}

func authedRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", "application/json")
	token, err := auth.GenerateToken("u-1", "alice", false)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestCreateTask_Success(t *testing.T) {
	r, _ := newTaskRouter(t)

	req := authedRequest(t, http.MethodPost, "/api/tasks", map[string]any{
		"title":    "Test Task",
		"deadline": "2025-01-03",
		"priority": "high",
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Task
	_ = json.Unmarshal(w.Body.Bytes(), &created)
	require.NotEmpty(t, created.ID)
	require.Equal(t, models.StateTodo, created.State) // default when unset
	require.Equal(t, models.PriorityHigh, created.Priority)
	require.Equal(t, "u-1", created.CreatedBy)
	require.NotNil(t, created.Deadline)
}

func TestCreateTask_MissingTitle(t *testing.T) {
	r, _ := newTaskRouter(t)

	req := authedRequest(t, http.MethodPost, "/api/tasks", map[string]any{
		"description": "no title",
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTask_NotFound(t *testing.T) {
	r, _ := newTaskRouter(t)

	req := authedRequest(t, http.MethodGet, "/api/tasks/task-missing", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateTaskState(t *testing.T) {
	r, tasks := newTaskRouter(t)

	created, err := tasks.Add(models.Actor{ID: "u-1", Name: "alice"}, models.Task{Title: "Flip me"})
	require.NoError(t, err)

	req := authedRequest(t, http.MethodPatch, "/api/tasks/"+created.ID+"/state", map[string]string{
		"state": "done",
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Task
	_ = json.Unmarshal(w.Body.Bytes(), &updated)
	require.Equal(t, models.StateDone, updated.State)
}
