package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sparkmatch/engine/internal/domain"
)

// settingsRowID pins the singleton settings row.
const settingsRowID = 1

// SettingsRepository handles database operations for platform settings.
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository creates a new settings repository.
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get retrieves the platform settings row. Returns ErrNotFound when the row
// has never been written; callers fall back to defaults.
func (r *SettingsRepository) Get(ctx context.Context) (*domain.PlatformSettings, error) {
	query := `
		SELECT geo_weight, interest_weight, moderation_enabled, banned_keywords, updated_at
		FROM platform_settings
		WHERE id = $1
	`

	var settings domain.PlatformSettings
	err := r.db.QueryRowContext(ctx, query, settingsRowID).Scan(
		&settings.Weights.Geo,
		&settings.Weights.Interest,
		&settings.ModerationEnabled,
		pq.Array(&settings.BannedKeywords),
		&settings.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("platform settings: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get platform settings: %w", err)
	}

	return &settings, nil
}

// Put replaces the platform settings row.
func (r *SettingsRepository) Put(ctx context.Context, settings *domain.PlatformSettings) error {
	query := `
		INSERT INTO platform_settings (id, geo_weight, interest_weight, moderation_enabled, banned_keywords, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (id) DO UPDATE
		SET geo_weight = EXCLUDED.geo_weight,
		    interest_weight = EXCLUDED.interest_weight,
		    moderation_enabled = EXCLUDED.moderation_enabled,
		    banned_keywords = EXCLUDED.banned_keywords,
		    updated_at = NOW()
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		settingsRowID,
		settings.Weights.Geo,
		settings.Weights.Interest,
		settings.ModerationEnabled,
		pq.Array(settings.BannedKeywords),
	)
	if err != nil {
		return fmt.Errorf("failed to save platform settings: %w", err)
	}

	return nil
}
