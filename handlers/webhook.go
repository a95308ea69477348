package handlers

import (
	"encoding/xml"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"go-vedura/db"
	"go-vedura/detection"
	"go-vedura/knowledge"
	"go-vedura/llm"
	"go-vedura/nlp"
	"go-vedura/types"
)

// twiml is the minimal TwiML reply Twilio expects from a messaging webhook.
type twiml struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

type webhookRequest struct {
	Body string `json:"Body"`
	From string `json:"From"`
}

// WhatsAppWebhook handles POST /whatsapp_webhook. Twilio posts form data;
// the local simulator posts JSON with the same field names. Replies are
// always TwiML and always plain text.
//
// Messages may carry an inline coordinate as "loc:lat:lng:message".
func WhatsAppWebhook(c *gin.Context, store *db.Store, detector *detection.Detector, ai llm.Client) {
	body, from := webhookInput(c)
	from = strings.TrimPrefix(from, "whatsapp:")

	if strings.TrimSpace(body) == "" {
		c.XML(http.StatusOK, twiml{Message: "Sorry, I did not receive any message."})
		return
	}

	lang := nlp.DetectLanguage(body)

	var lat, lng *float64
	if strings.HasPrefix(body, "loc:") {
		if parsedLat, parsedLng, rest, ok := parseLocPrefix(body); ok {
			lat, lng = &parsedLat, &parsedLng
			body = rest
		}
	}

	symptoms := nlp.ExtractSymptoms(body)
	reply := knowledge.ToPlainText(composeReply(c.Request.Context(), ai, body, lang, symptoms))
	now := time.Now()

	alert, err := detector.Ingest(c.Request.Context(), from, lat, lng, symptoms, now)
	if err != nil {
		log.Printf("Alert dispatch failed for %s: %v", from, err)
	}

	if saveErr := store.SaveInteraction(c.Request.Context(), &types.Interaction{
		Reporter:  from,
		Message:   body,
		Response:  reply,
		Language:  lang,
		Timestamp: now,
		Lat:       lat,
		Lng:       lng,
		Symptoms:  symptoms,
	}); saveErr != nil {
		log.Printf("Failed to save interaction for %s: %v", from, saveErr)
	}

	if alert != nil {
		reply += "\n\n" + knowledge.AlertNotice(lang, alert.CaseCount)
	}

	log.Printf("WhatsApp reply sent to %s (%d chars)", from, len(reply))
	c.XML(http.StatusOK, twiml{Message: reply})
}

// webhookInput reads Body/From from either a JSON payload or form fields.
func webhookInput(c *gin.Context) (body, from string) {
	if strings.Contains(c.ContentType(), "json") {
		var req webhookRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			return req.Body, req.From
		}
		return "", ""
	}
	return c.PostForm("Body"), c.PostForm("From")
}

// parseLocPrefix splits "loc:lat:lng:message" into its parts. Malformed
// coordinates leave the message untouched.
func parseLocPrefix(body string) (lat, lng float64, rest string, ok bool) {
	parts := strings.SplitN(body, ":", 4)
	if len(parts) < 4 {
		return 0, 0, "", false
	}
	lat, latErr := strconv.ParseFloat(parts[1], 64)
	lng, lngErr := strconv.ParseFloat(parts[2], 64)
	if latErr != nil || lngErr != nil {
		return 0, 0, "", false
	}
	return lat, lng, parts[3], true
}
