package types

import "time"

type Severity string

const (
	Medium Severity = "MEDIUM"
	High   Severity = "HIGH"
)

type AlertStatus string

const (
	Active   AlertStatus = "ACTIVE"
	Resolved AlertStatus = "RESOLVED"
)

// AlertTypeOutbreak is the only alert type the detector emits today.
const AlertTypeOutbreak = "OUTBREAK_DETECTED"

// Symptom is one of the fixed categories the keyword matcher can produce.
type Symptom string

const (
	Fever       Symptom = "fever"
	Cough       Symptom = "cough"
	Headache    Symptom = "headache"
	Vaccination Symptom = "vaccination"
)

// AllSymptoms fixes the iteration order wherever deterministic output matters.
var AllSymptoms = []Symptom{Fever, Cough, Headache, Vaccination}

// SymptomReport is a single geotagged symptom submission. Reports are
// append-only: the same reporter messaging twice counts twice.
type SymptomReport struct {
	Reporter  string    `json:"reporter"`
	Symptoms  []Symptom `json:"symptoms"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Timestamp time.Time `json:"timestamp"`
}

// OutbreakAlert is the durable record created when a cluster window crosses
// the trigger threshold. Status is only ever changed by an operator.
type OutbreakAlert struct {
	ID            string          `json:"id"`
	AlertType     string          `json:"alert_type"`
	LocationKey   string          `json:"location_key"`
	Location      string          `json:"location"` // "Lat: %.4f, Lng: %.4f" of the triggering report
	Area          string          `json:"area,omitempty"`
	Lat           float64         `json:"lat"`
	Lng           float64         `json:"lng"`
	SymptomCounts map[Symptom]int `json:"symptoms"`
	CaseCount     int             `json:"case_count"`
	Severity      Severity        `json:"severity"`
	Timestamp     time.Time       `json:"timestamp"`
	Status        AlertStatus     `json:"status"`
}

// Interaction is one chatbot exchange as persisted to the store.
type Interaction struct {
	ID        int64     `json:"id"`
	Reporter  string    `json:"reporter"`
	Message   string    `json:"message"`
	Response  string    `json:"response"`
	Language  string    `json:"language"`
	Timestamp time.Time `json:"timestamp"`
	Lat       *float64  `json:"lat,omitempty"`
	Lng       *float64  `json:"lng,omitempty"`
	Symptoms  []Symptom `json:"symptoms,omitempty"`
}

// UsageStats is the aggregate view served by /api/stats.
type UsageStats struct {
	TotalInteractions    int            `json:"total_interactions"`
	UniqueReporters      int            `json:"unique_users"`
	LanguageDistribution map[string]int `json:"language_distribution"`
	TodayAlerts          int            `json:"today_alerts"`
}
