package routes

import (
	"github.com/gin-gonic/gin"

	"go-vedura/db"
	"go-vedura/detection"
	"go-vedura/handlers"
	"go-vedura/llm"
)

// SetupRouter wires every endpoint. ai may be nil (rule-only mode).
func SetupRouter(store *db.Store, detector *detection.Detector, ai llm.Client) *gin.Engine {
	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "vedura public health support system",
		})
	})

	r.POST("/whatsapp_webhook", func(c *gin.Context) {
		handlers.WhatsAppWebhook(c, store, detector, ai)
	})

	api := r.Group("/api")
	{
		api.POST("/chat", func(c *gin.Context) {
			handlers.Chat(c, store, detector, ai)
		})
		api.GET("/alerts", func(c *gin.Context) {
			handlers.Alerts(c, store)
		})
		api.POST("/alerts/:id/resolve", func(c *gin.Context) {
			handlers.ResolveAlert(c, store)
		})
		api.GET("/stats", func(c *gin.Context) {
			handlers.Stats(c, store)
		})
	}

	return r
}
