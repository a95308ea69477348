package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"go-vedura/db"
	"go-vedura/detection"
	"go-vedura/llm"
	"go-vedura/nlp"
	"go-vedura/types"
)

type chatRequest struct {
	Message  string   `json:"message" binding:"required"`
	Language string   `json:"language"`
	Lat      *float64 `json:"lat"`
	Lng      *float64 `json:"lng"`
	UserID   string   `json:"user_id"`
}

// Chat handles POST /api/chat: classify the message, build the reply, run
// outbreak ingestion and log the interaction. Storage faults are logged
// and reported in the payload but never block the reply.
func Chat(c *gin.Context, store *db.Store, detector *detection.Detector, ai llm.Client) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No message provided"})
		return
	}

	lang := req.Language
	if lang != "en" && lang != "hi" {
		lang = nlp.DetectLanguage(message)
	}
	userID := req.UserID
	if userID == "" {
		userID = fmt.Sprintf("web_demo_%s", time.Now().Format("150405"))
	}

	log.Printf("Processing message from %s (lang: %s)", userID, lang)

	symptoms := nlp.ExtractSymptoms(message)
	response := composeReply(c.Request.Context(), ai, message, lang, symptoms)
	now := time.Now()

	alert, err := detector.Ingest(c.Request.Context(), userID, req.Lat, req.Lng, symptoms, now)
	if err != nil {
		// Recoverable storage fault: the reply is still served.
		log.Printf("Alert dispatch failed for %s: %v", userID, err)
	}

	if saveErr := store.SaveInteraction(c.Request.Context(), &types.Interaction{
		Reporter:  userID,
		Message:   message,
		Response:  response,
		Language:  lang,
		Timestamp: now,
		Lat:       req.Lat,
		Lng:       req.Lng,
		Symptoms:  symptoms,
	}); saveErr != nil {
		log.Printf("Failed to save interaction for %s: %v", userID, saveErr)
	}

	c.JSON(http.StatusOK, gin.H{
		"response":          response,
		"language_detected": nlp.DetectLanguage(message),
		"symptoms_detected": symptoms,
		"alert_generated":   alert != nil,
		"alert_details":     alert,
	})
}
