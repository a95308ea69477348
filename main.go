package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"go-vedura/cronjobs"
	"go-vedura/db"
	"go-vedura/detection"
	"go-vedura/geocode"
	"go-vedura/llm"
	"go-vedura/routes"
)

func main() {
	// Load .env file; fall back to the process environment
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	dbPath := os.Getenv("VEDURA_DB")
	if dbPath == "" {
		dbPath = "vedura.db"
	}
	store, err := db.Open(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()
	log.Printf("Database ready at %s", dbPath)

	cfg := detection.Config{
		Retention:        time.Duration(envInt("OUTBREAK_RETENTION_HOURS", 24)) * time.Hour,
		TriggerThreshold: envInt("OUTBREAK_TRIGGER_THRESHOLD", detection.DefaultTriggerThreshold),
		HighThreshold:    envInt("OUTBREAK_HIGH_THRESHOLD", detection.DefaultHighThreshold),
	}

	var geocoder detection.Geocoder
	if key := os.Getenv("MAPS_CREDENTIALS"); key != "" {
		gc, err := geocode.NewClient(key)
		if err != nil {
			log.Printf("Reverse geocoding unavailable: %v", err)
		} else {
			geocoder = gc
			log.Println("Reverse geocoding ENABLED")
		}
	}

	detector := detection.NewDetector(store, geocoder, cfg)

	var ai llm.Client
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		ai = llm.NewOpenAIClient(key, os.Getenv("OPENAI_MODEL"))
		log.Println("Generative fallback ENABLED")
	} else {
		log.Println("Generative fallback DISABLED - running in rule-only mode")
	}

	cronjobs.InitCronJobs(detector, store)

	r := routes.SetupRouter(store, detector, ai)
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func envInt(name string, fallback int) int {
	if v := os.Getenv(name); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			return parsed
		}
		log.Printf("Ignoring invalid %s=%q", name, v)
	}
	return fallback
}
