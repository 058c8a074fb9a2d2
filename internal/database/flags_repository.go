package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sparkmatch/engine/internal/domain"
)

// FlagsRepository handles database operations for user violation flags.
type FlagsRepository struct {
	db *sqlx.DB
}

// NewFlagsRepository creates a new flags repository.
func NewFlagsRepository(db *sqlx.DB) *FlagsRepository {
	return &FlagsRepository{db: db}
}

// IncrementFlag bumps the user's violation counter and marks them under
// review. The increment runs in SQL so concurrent blocks never lose counts.
func (r *FlagsRepository) IncrementFlag(ctx context.Context, userID string) error {
	query := `
		INSERT INTO user_flags (user_id, flag_count, under_review, updated_at)
		VALUES ($1, 1, TRUE, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET flag_count = user_flags.flag_count + 1,
		    under_review = TRUE,
		    updated_at = NOW()
	`

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to increment flag for user %s: %w", userID, err)
	}

	return nil
}

// Get retrieves a user's flag record. A user with no violations returns a
// zero-count record rather than ErrNotFound.
func (r *FlagsRepository) Get(ctx context.Context, userID string) (*domain.UserFlag, error) {
	var flag domain.UserFlag
	query := `
		SELECT user_id, flag_count, under_review, updated_at
		FROM user_flags
		WHERE user_id = $1
	`

	err := r.db.GetContext(ctx, &flag, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &domain.UserFlag{UserID: userID}, nil
		}
		return nil, fmt.Errorf("failed to get flags for user %s: %w", userID, err)
	}

	return &flag, nil
}
