package handlers

import (
	"fmt"
	"net/http"
	"time"

	"taskboard-api/internal/models"
	"taskboard-api/internal/store"

	"github.com/gin-gonic/gin"
)

// requireActor extracts the authenticated user from the request context.
// Writes a 401 and returns ok=false when the JWT middleware did not run.
func requireActor(c *gin.Context) (models.Actor, bool) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User ID not found in token",
		})
		return models.Actor{}, false
	}
	return models.Actor{ID: userID, Name: c.GetString("username")}, true
}

// storeError maps store-layer errors to HTTP responses.
func storeError(c *gin.Context, err error) {
	switch {
	case store.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case store.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func parseDateFlexible(dateStr string) (time.Time, bool) {
	if dateStr == "" {
		return time.Time{}, false
	}
	layouts := []string{
		"2006-01-02",  // ISO date
		"2 Jan 2006",  // e.g., 30 Oct 2025
		time.RFC3339,  // full RFC3339
		"02 Jan 2006", // zero-padded day
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseOptionalDate maps an empty string to nil and rejects unparseable input.
func parseOptionalDate(field, dateStr string) (*time.Time, error) {
	if dateStr == "" {
		return nil, nil
	}
	t, ok := parseDateFlexible(dateStr)
	if !ok {
		return nil, fmt.Errorf("invalid %s date: %q", field, dateStr)
	}
	return &t, nil
}
