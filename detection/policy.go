package detection

import (
	"time"

	"go-vedura/types"
)

const (
	// DefaultRetention bounds how long a report stays active in its window.
	DefaultRetention = 24 * time.Hour

	// DefaultTriggerThreshold is the minimum active case count that raises
	// an alert; DefaultHighThreshold upgrades it from MEDIUM to HIGH.
	// Both bounds are inclusive.
	DefaultTriggerThreshold = 3
	DefaultHighThreshold    = 5
)

// Decision is the outcome of evaluating one active cluster window.
type Decision struct {
	SymptomCounts map[types.Symptom]int
	CaseCount     int
	Severity      types.Severity
}

// Evaluate applies the outbreak policy to an active window. It returns nil
// when the window stays below the trigger threshold. Pure function of its
// input: the same window always yields the same decision.
//
// A report contributes at most 1 to each category it mentions, regardless
// of how many keyword hits produced that category.
func Evaluate(active []types.SymptomReport, trigger, high int) *Decision {
	if len(active) < trigger {
		return nil
	}

	counts := make(map[types.Symptom]int)
	for _, report := range active {
		seen := make(map[types.Symptom]bool, len(report.Symptoms))
		for _, s := range report.Symptoms {
			if seen[s] {
				continue
			}
			seen[s] = true
			counts[s]++
		}
	}

	severity := types.Medium
	if len(active) >= high {
		severity = types.High
	}

	return &Decision{
		SymptomCounts: counts,
		CaseCount:     len(active),
		Severity:      severity,
	}
}
