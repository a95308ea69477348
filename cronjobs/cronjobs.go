package cronjobs

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"go-vedura/db"
	"go-vedura/detection"
)

// InitCronJobs starts the background maintenance jobs. Reads already
// filter stale reports, so the sweep only bounds memory.
func InitCronJobs(detector *detection.Detector, store *db.Store) *cron.Cron {
	log.Println("Starting cron jobs")
	c := cron.New()

	// Cluster window sweep: hourly on the hour
	_, err := c.AddFunc("0 * * * *", func() {
		evicted := detector.Sweep(time.Now())
		log.Printf("CronJob: window sweep evicted %d location cells", evicted)
	})
	if err != nil {
		log.Println("Error scheduling window sweep:", err)
	}

	// Daily usage snapshot shortly after midnight
	_, err = c.AddFunc("5 0 * * *", func() {
		stats, err := store.Stats(context.Background())
		if err != nil {
			log.Printf("CronJob: stats snapshot failed: %v", err)
			return
		}
		log.Printf("CronJob: daily snapshot - %d interactions, %d unique users, %d alerts today",
			stats.TotalInteractions, stats.UniqueReporters, stats.TodayAlerts)
	})
	if err != nil {
		log.Println("Error scheduling stats snapshot:", err)
	}

	c.Start()
	return c
}
