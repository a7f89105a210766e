package repository

import (
	"context"
	"fmt"

	"farmmarket/internal/model"

	"github.com/google/uuid"
)

// InsertMessage stores a platform message
func (r *PostgresRepository) InsertMessage(ctx context.Context, msg *model.Message) error {
	query := `
		INSERT INTO messages (id, listing_id, farmer_id, sender_id, quantity, body, total, created_at)
		VALUES (:id, :listing_id, :farmer_id, :sender_id, :quantity, :body, :total, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, msg); err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

// ListMessagesForSeller returns a seller's inbox, newest first
func (r *PostgresRepository) ListMessagesForSeller(ctx context.Context, sellerID uuid.UUID) ([]model.Message, error) {
	var messages []model.Message
	query := `
		SELECT id, listing_id, farmer_id, sender_id, quantity, body, total, created_at
		FROM messages
		WHERE farmer_id = $1
		ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &messages, query, sellerID); err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// LogContact records a dispatched contact action
func (r *PostgresRepository) LogContact(ctx context.Context, event *model.ContactEvent) error {
	query := `
		INSERT INTO contact_events (listing_id, farmer_id, caller_id, channel, quantity)
		VALUES (:listing_id, :farmer_id, :caller_id, :channel, :quantity)`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("failed to log contact: %w", err)
	}
	return nil
}

// ContactStats counts contact actions per listing and channel for a seller
func (r *PostgresRepository) ContactStats(ctx context.Context, sellerID uuid.UUID) ([]model.ContactStat, error) {
	var stats []model.ContactStat
	query := `
		SELECT listing_id, channel, COUNT(*) AS count
		FROM contact_events
		WHERE farmer_id = $1
		GROUP BY listing_id, channel
		ORDER BY listing_id, channel`
	if err := r.db.SelectContext(ctx, &stats, query, sellerID); err != nil {
		return nil, fmt.Errorf("failed to load contact stats: %w", err)
	}
	return stats, nil
}
