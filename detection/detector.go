package detection

import (
	"context"
	"fmt"
	"log"
	"time"

	"go-vedura/types"

	"github.com/google/uuid"
)

// AlertStore persists triggered alerts. Satisfied by db.Store.
type AlertStore interface {
	SaveAlert(ctx context.Context, alert *types.OutbreakAlert) error
}

// Geocoder resolves a coordinate to a human-readable area name for the
// alert record. Optional; alerts degrade to coordinate-only without one.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) (string, error)
}

// Config carries the externally tunable detection parameters.
type Config struct {
	Retention        time.Duration
	TriggerThreshold int
	HighThreshold    int
}

func (c Config) withDefaults() Config {
	if c.Retention <= 0 {
		c.Retention = DefaultRetention
	}
	if c.TriggerThreshold <= 0 {
		c.TriggerThreshold = DefaultTriggerThreshold
	}
	if c.HighThreshold <= 0 {
		c.HighThreshold = DefaultHighThreshold
	}
	return c
}

// Detector coordinates report ingestion: it updates the cluster index,
// evaluates the outbreak policy on the active window and dispatches an
// alert when the policy fires. It is the sole mutator of cluster state;
// concurrent callers serialize on the index mutex for the single
// append-and-filter step, so no external call ever runs under a lock.
type Detector struct {
	index *ClusterIndex
	store AlertStore
	geo   Geocoder
	cfg   Config
}

// NewDetector constructs a Detector. geo may be nil.
func NewDetector(store AlertStore, geo Geocoder, cfg Config) *Detector {
	cfg = cfg.withDefaults()
	return &Detector{
		index: NewClusterIndex(cfg.Retention),
		store: store,
		geo:   geo,
		cfg:   cfg,
	}
}

// Ingest records one classified report and returns the alert it triggered,
// if any. A missing coordinate or empty symptom set is a documented no-op:
// location clustering needs both, so nothing is mutated and no alert is
// returned.
//
// The threshold is a level-crossing condition evaluated fresh on every
// call, not a one-way latch: a window that ages out below the threshold and
// refills will alert again.
//
// When alert persistence fails the in-memory append is kept (the report
// happened regardless of alerting success) and the error is returned so the
// caller can distinguish a storage fault from a quiet ingestion.
func (d *Detector) Ingest(ctx context.Context, reporter string, lat, lng *float64, symptoms []types.Symptom, ts time.Time) (*types.OutbreakAlert, error) {
	if lat == nil || lng == nil || len(symptoms) == 0 {
		return nil, nil
	}

	active, key := d.index.Record(*lat, *lng, symptoms, reporter, ts)

	decision := Evaluate(active, d.cfg.TriggerThreshold, d.cfg.HighThreshold)
	if decision == nil {
		return nil, nil
	}

	return d.dispatch(ctx, decision, key, *lat, *lng, ts)
}

// dispatch builds the durable alert for a fired decision and persists it.
func (d *Detector) dispatch(ctx context.Context, decision *Decision, key string, lat, lng float64, ts time.Time) (*types.OutbreakAlert, error) {
	alert := &types.OutbreakAlert{
		ID:            uuid.NewString(),
		AlertType:     types.AlertTypeOutbreak,
		LocationKey:   key,
		Location:      fmt.Sprintf("Lat: %.4f, Lng: %.4f", lat, lng),
		Lat:           lat,
		Lng:           lng,
		SymptomCounts: decision.SymptomCounts,
		CaseCount:     decision.CaseCount,
		Severity:      decision.Severity,
		Timestamp:     ts,
		Status:        types.Active,
	}

	if d.geo != nil {
		area, err := d.geo.ReverseGeocode(ctx, lat, lng)
		if err != nil {
			log.Printf("Reverse geocode failed for %s, keeping coordinate-only alert: %v", key, err)
		} else {
			alert.Area = area
		}
	}

	if err := d.store.SaveAlert(ctx, alert); err != nil {
		return nil, fmt.Errorf("record outbreak alert for %s: %w", key, err)
	}

	log.Printf("Outbreak alert %s: %d cases at %s, severity %s", alert.ID, alert.CaseCount, alert.Location, alert.Severity)
	return alert, nil
}

// ActiveCount exposes the current active window size at a coordinate.
func (d *Detector) ActiveCount(lat, lng float64, now time.Time) int {
	return d.index.ActiveCount(lat, lng, now)
}

// Sweep evicts fully aged-out cluster windows. Reads already filter by age,
// so the sweep is purely a memory bound; it runs from a cron job.
func (d *Detector) Sweep(now time.Time) int {
	return d.index.Sweep(now)
}
