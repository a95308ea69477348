package detection

import (
	"fmt"
	"sync"
	"time"

	"go-vedura/types"
)

// LocationKey quantizes a coordinate onto a ~1.1 km grid cell by rounding
// both axes to 2 decimal places. Reports whose rounded coordinates match
// land in the same cluster window; it is a lossy many-to-one projection.
func LocationKey(lat, lng float64) string {
	return fmt.Sprintf("%.2f_%.2f", lat, lng)
}

// ClusterIndex holds the sliding window of recent reports per grid cell.
// The index is volatile: the store keeps the durable history and the
// index restarts empty, which only affects future clustering, never past
// records.
type ClusterIndex struct {
	mu        sync.Mutex
	retention time.Duration
	windows   map[string][]types.SymptomReport
}

func NewClusterIndex(retention time.Duration) *ClusterIndex {
	return &ClusterIndex{
		retention: retention,
		windows:   make(map[string][]types.SymptomReport),
	}
}

// Record appends a new report to the window for the report's grid cell and
// returns the active subset of that window, newest report included. Active
// means no older than the retention period relative to ts. Stale entries are
// filtered on read; physical eviction happens in Sweep.
func (ci *ClusterIndex) Record(lat, lng float64, symptoms []types.Symptom, reporter string, ts time.Time) ([]types.SymptomReport, string) {
	key := LocationKey(lat, lng)
	report := types.SymptomReport{
		Reporter:  reporter,
		Symptoms:  symptoms,
		Lat:       lat,
		Lng:       lng,
		Timestamp: ts,
	}

	ci.mu.Lock()
	defer ci.mu.Unlock()

	ci.windows[key] = append(ci.windows[key], report)

	var active []types.SymptomReport
	for _, r := range ci.windows[key] {
		if ts.Sub(r.Timestamp) <= ci.retention {
			active = append(active, r)
		}
	}
	return active, key
}

// ActiveCount reports how many entries at the given coordinate are still
// within the retention period at now.
func (ci *ClusterIndex) ActiveCount(lat, lng float64, now time.Time) int {
	key := LocationKey(lat, lng)

	ci.mu.Lock()
	defer ci.mu.Unlock()

	count := 0
	for _, r := range ci.windows[key] {
		if now.Sub(r.Timestamp) <= ci.retention {
			count++
		}
	}
	return count
}

// Sweep drops every grid cell whose entire window has aged out and trims
// stale entries from the rest. Returns the number of cells evicted.
func (ci *ClusterIndex) Sweep(now time.Time) int {
	ci.mu.Lock()
	defer ci.mu.Unlock()

	evicted := 0
	for key, window := range ci.windows {
		kept := window[:0]
		for _, r := range window {
			if now.Sub(r.Timestamp) <= ci.retention {
				kept = append(kept, r)
			}
		}
		if len(kept) == 0 {
			delete(ci.windows, key)
			evicted++
			continue
		}
		ci.windows[key] = kept
	}
	return evicted
}

// Size returns the number of grid cells currently held in memory.
func (ci *ClusterIndex) Size() int {
	ci.mu.Lock()
	defer ci.mu.Unlock()
	return len(ci.windows)
}
