package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sparkmatch/engine/internal/domain"
)

// ErrNotFound indicates the requested row does not exist.
var ErrNotFound = errors.New("not found")

// AlertsRepository handles database operations for moderation alerts.
type AlertsRepository struct {
	db *sqlx.DB
}

// NewAlertsRepository creates a new alerts repository.
func NewAlertsRepository(db *sqlx.DB) *AlertsRepository {
	return &AlertsRepository{db: db}
}

// CreateAlert inserts a moderation alert. Idempotent on the alert ID so a
// retried escalation never duplicates the record.
func (r *AlertsRepository) CreateAlert(ctx context.Context, alert *domain.ModerationAlert) error {
	query := `
		INSERT INTO moderation_alerts (id, user_id, offending_text, reason, categories, severity, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		alert.ID,
		alert.UserID,
		alert.OffendingText,
		alert.Reason,
		pq.Array(alert.Categories),
		alert.Severity,
		alert.Status,
		alert.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}

	return nil
}

// List retrieves alerts, newest first, optionally filtered by status.
func (r *AlertsRepository) List(ctx context.Context, status string) ([]*domain.ModerationAlert, error) {
	query := `
		SELECT id, user_id, offending_text, reason, categories, severity, status, created_at, resolved_at
		FROM moderation_alerts
	`
	var args []any
	if status != "" {
		query += " WHERE status = $1"
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	defer rows.Close()

	var alerts []*domain.ModerationAlert
	for rows.Next() {
		var alert domain.ModerationAlert
		if scanErr := rows.Scan(
			&alert.ID,
			&alert.UserID,
			&alert.OffendingText,
			&alert.Reason,
			pq.Array(&alert.Categories),
			&alert.Severity,
			&alert.Status,
			&alert.CreatedAt,
			&alert.ResolvedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", scanErr)
		}
		alerts = append(alerts, &alert)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate alerts: %w", err)
	}

	return alerts, nil
}

// Resolve marks an alert resolved. Resolving an already resolved alert is a
// no-op; an unknown ID returns ErrNotFound.
func (r *AlertsRepository) Resolve(ctx context.Context, id string) error {
	query := `
		UPDATE moderation_alerts
		SET status = $2, resolved_at = COALESCE(resolved_at, NOW())
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, domain.AlertStatusResolved)
	if err != nil {
		return fmt.Errorf("failed to resolve alert: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check resolve result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("alert %s: %w", id, ErrNotFound)
	}

	return nil
}
