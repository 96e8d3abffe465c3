package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/TiagoFrencia/smartcommerce-b2b/internal/models"
)

// SaveAnalysis persists one analysis outcome. The identifier and creation
// timestamp are assigned here; the record and its alerts are written in a
// single transaction so a failure leaves nothing behind.
func (s *Store) SaveAnalysis(ctx context.Context, rec models.AnalysisRecord) (models.AnalysisRecord, error) {
	rec.ID = uuid.NewString()
	rec.CreatedAt = time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.AnalysisRecord{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sales_analysis (id, client_id, score, executive_summary, recommendation, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.ClientID, rec.Score, rec.ExecutiveSummary, rec.Recommendation, rec.CreatedAt); err != nil {
		return models.AnalysisRecord{}, fmt.Errorf("failed to insert analysis: %w", err)
	}

	for i, alert := range rec.Alerts {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sales_analysis_alerts (analysis_id, position, alert) VALUES (?, ?, ?)`,
			rec.ID, i, alert); err != nil {
			return models.AnalysisRecord{}, fmt.Errorf("failed to insert alert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return models.AnalysisRecord{}, fmt.Errorf("failed to commit analysis: %w", err)
	}
	return rec, nil
}

// History returns every analysis of one client, newest first. A client
// without analyses yields an empty slice, not an error.
func (s *Store) History(ctx context.Context, clientID int64) ([]models.AnalysisRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, client_id, score, executive_summary, recommendation, created_at
		 FROM sales_analysis WHERE client_id = ?
		 ORDER BY created_at DESC, id DESC`, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis history: %w", err)
	}
	defer rows.Close()

	records := []models.AnalysisRecord{}
	for rows.Next() {
		var rec models.AnalysisRecord
		if err := rows.Scan(&rec.ID, &rec.ClientID, &rec.Score, &rec.ExecutiveSummary,
			&rec.Recommendation, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// The pool holds a single connection; release it before the alert
	// queries or they would wait on these rows forever.
	rows.Close()

	for i := range records {
		records[i].Alerts, err = s.analysisAlerts(ctx, records[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (s *Store) analysisAlerts(ctx context.Context, analysisID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT alert FROM sales_analysis_alerts WHERE analysis_id = ? ORDER BY position`, analysisID)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	alerts := []string{}
	for rows.Next() {
		var alert string
		if err := rows.Scan(&alert); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		alerts = append(alerts, alert)
	}
	return alerts, rows.Err()
}
