package routes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"go-vedura/db"
	"go-vedura/detection"
	"go-vedura/llm"
)

type fakeLLM struct {
	reply string
	err   error
	calls int
}

func (f *fakeLLM) Reply(context.Context, string, string) (string, error) {
	f.calls++
	return f.reply, f.err
}

func newTestRouter(t *testing.T, ai llm.Client) (*gin.Engine, *db.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	detector := detection.NewDetector(store, nil, detection.Config{})
	return SetupRouter(store, detector, ai), store
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postForm(t *testing.T, r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return body
}

func TestChatRuleBasedReply(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w := postJSON(t, r, "/api/chat", `{"message": "I have a fever and cough", "user_id": "u1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	body := decodeBody(t, w)
	if got := body["language_detected"]; got != "en" {
		t.Errorf("language_detected = %v, want en", got)
	}
	if got := body["alert_generated"]; got != false {
		t.Errorf("alert_generated = %v, want false", got)
	}
	response, _ := body["response"].(string)
	if !strings.Contains(response, "About Fever:") || !strings.Contains(response, "About Cough:") {
		t.Errorf("response missing advice sections: %q", response)
	}
	symptoms, _ := body["symptoms_detected"].([]interface{})
	if len(symptoms) != 2 {
		t.Errorf("symptoms_detected = %v, want 2 entries", symptoms)
	}
}

func TestChatHindiMessage(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w := postJSON(t, r, "/api/chat", `{"message": "मुझे बुखार है", "user_id": "u1"}`)
	body := decodeBody(t, w)
	if got := body["language_detected"]; got != "hi" {
		t.Errorf("language_detected = %v, want hi", got)
	}
	response, _ := body["response"].(string)
	if !strings.Contains(response, "पैरासिटामोल") {
		t.Errorf("hindi response missing treatment: %q", response)
	}
}

func TestChatGenerativeFallback(t *testing.T) {
	ai := &fakeLLM{reply: "Please rest and consult a doctor."}
	r, _ := newTestRouter(t, ai)

	w := postJSON(t, r, "/api/chat", `{"message": "I feel strange lately", "user_id": "u1"}`)
	body := decodeBody(t, w)
	if got := body["response"]; got != "Please rest and consult a doctor." {
		t.Errorf("response = %v, want fallback reply", got)
	}
	if ai.calls != 1 {
		t.Errorf("fallback called %d times, want 1", ai.calls)
	}
}

func TestChatFallbackFailureUsesFixedMessage(t *testing.T) {
	r, _ := newTestRouter(t, &fakeLLM{err: errors.New("service unavailable")})

	w := postJSON(t, r, "/api/chat", `{"message": "I feel strange lately", "user_id": "u1"}`)
	body := decodeBody(t, w)
	response, _ := body["response"].(string)
	if !strings.Contains(response, "describe your symptoms") {
		t.Errorf("response = %q, want fixed fallback message", response)
	}
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, fallback failure must not surface as an error", w.Code)
	}
}

func TestChatMissingMessage(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	if w := postJSON(t, r, "/api/chat", `{}`); w.Code != http.StatusBadRequest {
		t.Errorf("empty payload status = %d, want 400", w.Code)
	}
	if w := postJSON(t, r, "/api/chat", `{"message": "   "}`); w.Code != http.StatusBadRequest {
		t.Errorf("blank message status = %d, want 400", w.Code)
	}
}

func TestChatThirdGeotaggedReportTriggersAlert(t *testing.T) {
	r, store := newTestRouter(t, nil)

	payload := `{"message": "I have a fever", "user_id": "u%d", "lat": 28.6139, "lng": 77.2090}`
	for i := 1; i <= 2; i++ {
		body := decodeBody(t, postJSON(t, r, "/api/chat", fmt.Sprintf(payload, i)))
		if body["alert_generated"] != false {
			t.Fatalf("report %d triggered early", i)
		}
	}

	body := decodeBody(t, postJSON(t, r, "/api/chat", fmt.Sprintf(payload, 3)))
	if body["alert_generated"] != true {
		t.Fatal("third geotagged report did not trigger an alert")
	}
	details, _ := body["alert_details"].(map[string]interface{})
	if details["severity"] != "MEDIUM" {
		t.Errorf("severity = %v, want MEDIUM", details["severity"])
	}
	if details["case_count"] != float64(3) {
		t.Errorf("case_count = %v, want 3", details["case_count"])
	}
	if details["location"] != "Lat: 28.6139, Lng: 77.2090" {
		t.Errorf("location = %v", details["location"])
	}

	// The alert is durable, not just in the response.
	alerts, err := store.RecentAlerts(context.Background(), 10)
	if err != nil {
		t.Fatalf("RecentAlerts: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("%d alerts persisted, want 1", len(alerts))
	}
}

func TestChatWithoutCoordinateNeverAlerts(t *testing.T) {
	r, store := newTestRouter(t, nil)

	for i := 0; i < 5; i++ {
		body := decodeBody(t, postJSON(t, r, "/api/chat", `{"message": "I have a fever", "user_id": "u1"}`))
		if body["alert_generated"] != false {
			t.Fatal("coordinate-less report triggered an alert")
		}
	}
	alerts, _ := store.RecentAlerts(context.Background(), 10)
	if len(alerts) != 0 {
		t.Errorf("%d alerts persisted, want 0", len(alerts))
	}
}

func TestWebhookFormEncodedReply(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w := postForm(t, r, "/whatsapp_webhook", url.Values{
		"Body": {"I have a fever"},
		"From": {"whatsapp:+911234567890"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "xml") {
		t.Errorf("Content-Type = %q, want XML", ct)
	}
	body := w.Body.String()
	if !strings.Contains(body, "<Response>") || !strings.Contains(body, "<Message>") {
		t.Errorf("reply is not TwiML: %q", body)
	}
	if strings.Contains(body, "<strong>") {
		t.Errorf("WhatsApp reply still carries markup: %q", body)
	}
	if !strings.Contains(body, "**About Fever:**") {
		t.Errorf("reply missing plain-text advice: %q", body)
	}
}

func TestWebhookEmptyBody(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w := postForm(t, r, "/whatsapp_webhook", url.Values{"From": {"whatsapp:+911234567890"}})
	if !strings.Contains(w.Body.String(), "did not receive any message") {
		t.Errorf("empty body reply = %q", w.Body.String())
	}
}

func TestWebhookLocPrefixTriggersAlertNotice(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = postForm(t, r, "/whatsapp_webhook", url.Values{
			"Body": {"loc:28.6139:77.2090:I have a fever"},
			"From": {fmt.Sprintf("whatsapp:+91100000000%d", i)},
		})
	}
	body := last.Body.String()
	if !strings.Contains(body, "3 cases detected in your area") {
		t.Errorf("third report reply missing alert notice: %q", body)
	}
}

func TestAlertsEndpointAndResolve(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	// Trigger one alert through the chat API.
	payload := `{"message": "fever again", "user_id": "u%d", "lat": 12.9716, "lng": 77.5946}`
	for i := 1; i <= 3; i++ {
		postJSON(t, r, "/api/chat", fmt.Sprintf(payload, i))
	}

	req := httptest.NewRequest(http.MethodGet, "/api/alerts", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/alerts status = %d", w.Code)
	}
	var alerts []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &alerts); err != nil {
		t.Fatalf("decode alerts: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("%d alerts returned, want 1", len(alerts))
	}
	if alerts[0]["status"] != "ACTIVE" {
		t.Errorf("status = %v, want ACTIVE", alerts[0]["status"])
	}

	id, _ := alerts[0]["id"].(string)
	w = postJSON(t, r, "/api/alerts/"+id+"/resolve", "")
	if w.Code != http.StatusOK {
		t.Fatalf("resolve status = %d", w.Code)
	}

	if w := postJSON(t, r, "/api/alerts/nope/resolve", ""); w.Code != http.StatusNotFound {
		t.Errorf("resolve unknown alert status = %d, want 404", w.Code)
	}
}

func TestStatsEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	postJSON(t, r, "/api/chat", `{"message": "I have a headache", "user_id": "u1"}`)
	postJSON(t, r, "/api/chat", `{"message": "मुझे बुखार है", "user_id": "u2"}`)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/stats status = %d", w.Code)
	}

	body := decodeBody(t, w)
	if body["total_interactions"] != float64(2) {
		t.Errorf("total_interactions = %v, want 2", body["total_interactions"])
	}
	if body["unique_users"] != float64(2) {
		t.Errorf("unique_users = %v, want 2", body["unique_users"])
	}
}
