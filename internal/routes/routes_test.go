package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"taskboard-api/internal/realtime"
	"taskboard-api/internal/store"
	"taskboard-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)

	bus := store.NewBus()
	activity := store.NewActivityStore(db)
	tasks := store.NewTaskStore(db, activity, bus)
	projects := store.NewProjectStore(db, tasks, activity, bus)
	tasks.SetProjectDirectory(projects)

	return Setup(Dependencies{
		DB:         db,
		Tasks:      tasks,
		Projects:   projects,
		Categories: store.NewCategoryStore(db),
		Activity:   activity,
		Hub:        realtime.NewHub(),
	})
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := newTestRouter(t)
	for _, target := range []string{"/api/tasks", "/api/projects", "/api/categories", "/api/activity"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, target, nil)
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusUnauthorized, w.Code, target)
	}
}
