package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"farmmarket/internal/model"

	"github.com/google/uuid"
)

// GetProfile retrieves a profile by its ID
func (r *PostgresRepository) GetProfile(ctx context.Context, profileID uuid.UUID) (*model.Profile, error) {
	var profile model.Profile
	query := `
		SELECT id, user_id, role, full_name, avatar_url, phone, location, bio,
			is_available, created_at, updated_at
		FROM profiles
		WHERE id = $1`
	err := r.db.GetContext(ctx, &profile, query, profileID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

// ToggleAvailability flips is_available for the user's profile and returns the new value
func (r *PostgresRepository) ToggleAvailability(ctx context.Context, userID uuid.UUID) (bool, error) {
	var available bool
	query := `
		UPDATE profiles
		SET is_available = NOT is_available, updated_at = NOW()
		WHERE user_id = $1
		RETURNING is_available`
	if err := r.db.GetContext(ctx, &available, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, fmt.Errorf("no profile for user %s", userID)
		}
		return false, fmt.Errorf("failed to toggle availability: %w", err)
	}
	return available, nil
}
