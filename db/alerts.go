package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"go-vedura/types"
)

// SaveAlert durably records a triggered outbreak alert. The write happens
// under the store-wide lock; the caller must never hold the cluster index
// lock while calling this.
func (s *Store) SaveAlert(ctx context.Context, alert *types.OutbreakAlert) error {
	counts, err := json.Marshal(alert.SymptomCounts)
	if err != nil {
		return fmt.Errorf("encode symptom counts: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO alerts (id, alert_type, location, area, symptoms, case_count, severity, timestamp, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		alert.ID, alert.AlertType, alert.Location, alert.Area, string(counts),
		alert.CaseCount, string(alert.Severity), alert.Timestamp, string(alert.Status),
	)
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

// RecentAlerts returns the newest alerts, most recent first.
func (s *Store) RecentAlerts(ctx context.Context, limit int) ([]types.OutbreakAlert, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, alert_type, location, area, symptoms, case_count, severity, timestamp, status
		 FROM alerts
		 ORDER BY timestamp DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []types.OutbreakAlert
	for rows.Next() {
		var a types.OutbreakAlert
		var counts string
		if err := rows.Scan(&a.ID, &a.AlertType, &a.Location, &a.Area, &counts,
			&a.CaseCount, &a.Severity, &a.Timestamp, &a.Status); err != nil {
			return nil, fmt.Errorf("scan alert row: %w", err)
		}
		if counts != "" {
			if err := json.Unmarshal([]byte(counts), &a.SymptomCounts); err != nil {
				return nil, fmt.Errorf("decode symptom counts for alert %s: %w", a.ID, err)
			}
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

// ResolveAlert flips an alert's status to RESOLVED. This is the operator
// action; the detector never resolves alerts on its own.
func (s *Store) ResolveAlert(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE alerts SET status = ? WHERE id = ?`, string(types.Resolved), id)
	if err != nil {
		return fmt.Errorf("resolve alert %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
