package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-vedura/db"
)

// Stats handles GET /api/stats with aggregate usage counters.
func Stats(c *gin.Context, store *db.Store) {
	stats, err := store.Stats(c.Request.Context())
	if err != nil {
		log.Printf("Failed to compute stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
