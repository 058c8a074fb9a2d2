package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sparkmatch/engine/internal/domain"
)

// statsRowID pins the singleton aggregate row.
const statsRowID = 1

// StatsRepository handles database operations for aggregate moderation stats.
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository creates a new stats repository.
func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// IncrementThreatsBlocked bumps the aggregate blocked-message counter. The
// merge-style upsert touches only this field, never the rest of the row.
func (r *StatsRepository) IncrementThreatsBlocked(ctx context.Context) error {
	query := `
		INSERT INTO moderation_stats (id, threats_blocked, updated_at)
		VALUES ($1, 1, NOW())
		ON CONFLICT (id) DO UPDATE
		SET threats_blocked = moderation_stats.threats_blocked + 1,
		    updated_at = NOW()
	`

	if _, err := r.db.ExecContext(ctx, query, statsRowID); err != nil {
		return fmt.Errorf("failed to increment threat counter: %w", err)
	}

	return nil
}

// Get retrieves the aggregate stats. Before any block has occurred the row
// does not exist yet; that reads as zero.
func (r *StatsRepository) Get(ctx context.Context) (*domain.ModerationStats, error) {
	var stats domain.ModerationStats
	query := `
		SELECT threats_blocked, updated_at
		FROM moderation_stats
		WHERE id = $1
	`

	err := r.db.GetContext(ctx, &stats, query, statsRowID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &domain.ModerationStats{}, nil
		}
		return nil, fmt.Errorf("failed to get moderation stats: %w", err)
	}

	return &stats, nil
}
