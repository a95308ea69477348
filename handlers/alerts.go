package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-vedura/db"
	"go-vedura/types"
)

// Alerts handles GET /api/alerts, returning the newest alerts first.
func Alerts(c *gin.Context, store *db.Store) {
	limit := 20
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	alerts, err := store.RecentAlerts(c.Request.Context(), limit)
	if err != nil {
		log.Printf("Failed to load alerts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve alerts"})
		return
	}
	if alerts == nil {
		alerts = []types.OutbreakAlert{}
	}
	c.JSON(http.StatusOK, alerts)
}

// ResolveAlert handles POST /api/alerts/:id/resolve, the operator action
// that closes out an alert. The detector never resolves alerts itself.
func ResolveAlert(c *gin.Context, store *db.Store) {
	id := c.Param("id")

	if err := store.ResolveAlert(c.Request.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Alert not found"})
			return
		}
		log.Printf("Failed to resolve alert %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve alert"})
		return
	}

	log.Printf("Alert %s resolved by operator", id)
	c.JSON(http.StatusOK, gin.H{"id": id, "status": types.Resolved})
}
