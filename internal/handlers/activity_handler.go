package handlers

import (
	"net/http"
	"strconv"

	"taskboard-api/internal/store"

	"github.com/gin-gonic/gin"
)

// ActivityHandler exposes the recent-activity feed over HTTP.
type ActivityHandler struct {
	activity *store.ActivityStore
}

// NewActivityHandler creates an activity handler backed by the given store.
func NewActivityHandler(activity *store.ActivityStore) *ActivityHandler {
	return &ActivityHandler{activity: activity}
}

// Recent handles GET /api/activity
// Optional query param: limit (default 20), newest first.
func (h *ActivityHandler) Recent(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	entries, err := h.activity.Recent(limit)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"activity": entries,
		"count":    len(entries),
	})
}
