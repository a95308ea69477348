package db

import (
	"context"
	"fmt"
	"strings"

	"go-vedura/types"
)

// SaveInteraction appends one chatbot exchange to the interactions log.
// Symptoms are stored comma-joined, matching the export format.
func (s *Store) SaveInteraction(ctx context.Context, in *types.Interaction) error {
	var symptoms *string
	if len(in.Symptoms) > 0 {
		parts := make([]string, 0, len(in.Symptoms))
		for _, sym := range in.Symptoms {
			parts = append(parts, string(sym))
		}
		joined := strings.Join(parts, ",")
		symptoms = &joined
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO interactions (reporter, message, response, language, timestamp, lat, lng, symptoms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Reporter, in.Message, in.Response, in.Language, in.Timestamp, in.Lat, in.Lng, symptoms,
	)
	if err != nil {
		return fmt.Errorf("insert interaction: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		in.ID = id
	}
	return nil
}

// Stats aggregates usage counters for the stats endpoint and the daily
// cron snapshot.
func (s *Store) Stats(ctx context.Context) (*types.UsageStats, error) {
	stats := &types.UsageStats{LanguageDistribution: make(map[string]int)}

	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM interactions`).Scan(&stats.TotalInteractions); err != nil {
		return nil, fmt.Errorf("count interactions: %w", err)
	}

	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT reporter) FROM interactions`).Scan(&stats.UniqueReporters); err != nil {
		return nil, fmt.Errorf("count reporters: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT language, COUNT(*) FROM interactions GROUP BY language`)
	if err != nil {
		return nil, fmt.Errorf("language distribution: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var lang string
		var count int
		if err := rows.Scan(&lang, &count); err != nil {
			return nil, fmt.Errorf("scan language row: %w", err)
		}
		stats.LanguageDistribution[lang] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM alerts WHERE date(timestamp) = date('now')`).Scan(&stats.TodayAlerts); err != nil {
		return nil, fmt.Errorf("count today's alerts: %w", err)
	}

	return stats, nil
}
