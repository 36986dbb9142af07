package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/mr1hm/go-disaster-relief/internal/models"
)

func (s *SQLiteDB) Exists(ctx context.Context, alertID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM processed_alerts WHERE alert_id = ?)`, alertID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking processed alert: %w", err)
	}
	return exists, nil
}

func (s *SQLiteDB) MarkProcessed(ctx context.Context, p *models.ProcessedAlert) (bool, error) {
	if p.ProcessedAt.IsZero() {
		p.ProcessedAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO processed_alerts (alert_id, severity, event, area_desc, processed_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(alert_id) DO NOTHING`,
		p.AlertID, p.Severity, p.Event, p.AreaDesc, toMillis(p.ProcessedAt),
	)
	if err != nil {
		return false, fmt.Errorf("error marking alert processed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error reading rows affected: %w", err)
	}
	return n == 1, nil
}

func (s *SQLiteDB) ListProcessed(ctx context.Context, opts Filter) ([]models.ProcessedAlert, error) {
	query := `SELECT alert_id, severity, event, area_desc, processed_at FROM processed_alerts WHERE 1=1`
	var args []any

	if opts.Since != nil {
		query += ` AND processed_at >= ?`
		args = append(args, toMillis(*opts.Since))
	}

	query += ` ORDER BY processed_at DESC, alert_id ASC`
	if opts.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, opts.Limit, opts.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing processed alerts: %w", err)
	}
	defer rows.Close()

	var alerts []models.ProcessedAlert
	for rows.Next() {
		var (
			p           models.ProcessedAlert
			processedAt int64
		)
		if err := rows.Scan(&p.AlertID, &p.Severity, &p.Event, &p.AreaDesc, &processedAt); err != nil {
			return nil, fmt.Errorf("error scanning processed alert: %w", err)
		}
		p.ProcessedAt = time.UnixMilli(processedAt)
		alerts = append(alerts, p)
	}
	return alerts, rows.Err()
}
