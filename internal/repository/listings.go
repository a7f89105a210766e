package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"farmmarket/internal/model"

	"github.com/google/uuid"
)

// ListActiveListings returns every active listing, newest first
func (r *PostgresRepository) ListActiveListings(ctx context.Context) ([]model.Listing, error) {
	var listings []model.Listing
	query := listingQuery("l.is_active", "l.created_at DESC")
	if err := r.db.SelectContext(ctx, &listings, query); err != nil {
		return nil, fmt.Errorf("failed to fetch listings: %w", err)
	}
	return listings, nil
}

// ListSellerListings returns a seller's listings, newest first
func (r *PostgresRepository) ListSellerListings(ctx context.Context, sellerID uuid.UUID, activeOnly bool) ([]model.Listing, error) {
	where := "l.farmer_id = $1"
	if activeOnly {
		where += " AND l.is_active"
	}

	var listings []model.Listing
	if err := r.db.SelectContext(ctx, &listings, listingQuery(where, "l.created_at DESC"), sellerID); err != nil {
		return nil, fmt.Errorf("failed to fetch seller listings: %w", err)
	}
	return listings, nil
}

// GetListing retrieves a single listing by its ID
func (r *PostgresRepository) GetListing(ctx context.Context, listingID uuid.UUID) (*model.Listing, error) {
	var listing model.Listing
	err := r.db.GetContext(ctx, &listing, listingQuery("l.id = $1", ""), listingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return &listing, nil
}

// CreateListing inserts a listing
func (r *PostgresRepository) CreateListing(ctx context.Context, listing *model.Listing) error {
	query := `
		INSERT INTO listings (
			id, farmer_id, name, description, category, price, unit,
			quantity_available, image_url, is_active, created_at, updated_at
		) VALUES (
			:id, :farmer_id, :name, :description, :category, :price, :unit,
			:quantity_available, :image_url, :is_active, :created_at, :updated_at
		)`
	if _, err := r.db.NamedExecContext(ctx, query, listing); err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}
	return nil
}

// UpdateListing writes the editable fields of a listing owned by listing.SellerID
func (r *PostgresRepository) UpdateListing(ctx context.Context, listing *model.Listing) error {
	query := `
		UPDATE listings SET
			name = :name,
			description = :description,
			category = :category,
			price = :price,
			unit = :unit,
			quantity_available = :quantity_available,
			image_url = :image_url,
			is_active = :is_active,
			updated_at = :updated_at
		WHERE id = :id AND farmer_id = :farmer_id`
	if _, err := r.db.NamedExecContext(ctx, query, listing); err != nil {
		return fmt.Errorf("failed to update listing: %w", err)
	}
	return nil
}

// DeleteListing removes a listing if it belongs to sellerID
func (r *PostgresRepository) DeleteListing(ctx context.Context, listingID, sellerID uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM listings WHERE id = $1 AND farmer_id = $2`, listingID, sellerID)
	if err != nil {
		return false, fmt.Errorf("failed to delete listing: %w", err)
	}
	return affected(res)
}

// SetListingImage points a listing at an uploaded image
func (r *PostgresRepository) SetListingImage(ctx context.Context, listingID, sellerID uuid.UUID, imageURL string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE listings SET image_url = $1, updated_at = NOW() WHERE id = $2 AND farmer_id = $3`,
		imageURL, listingID, sellerID)
	if err != nil {
		return false, fmt.Errorf("failed to set listing image: %w", err)
	}
	return affected(res)
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}
