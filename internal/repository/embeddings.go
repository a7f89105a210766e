package repository

import (
	"context"
	"fmt"

	"farmmarket/internal/model"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// BatchUpdateEmbeddings updates embeddings for multiple listings in one transaction
func (r *PostgresRepository) BatchUpdateEmbeddings(ctx context.Context, items []model.EmbeddingItem) (int, []string) {
	success := 0
	var errors []string

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		errors = append(errors, fmt.Sprintf("failed to start transaction: %v", err))
		return success, errors
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `UPDATE listings SET embedding = $1, updated_at = NOW() WHERE id = $2`)
	if err != nil {
		errors = append(errors, fmt.Sprintf("failed to prepare statement: %v", err))
		return success, errors
	}
	defer stmt.Close()

	for _, item := range items {
		vec := pgvector.NewVector(item.Embedding)
		res, err := stmt.ExecContext(ctx, vec, item.ListingID)
		if err != nil {
			errors = append(errors, fmt.Sprintf("listing %s: %v", item.ListingID, err))
			continue
		}
		if ok, _ := affected(res); !ok {
			errors = append(errors, fmt.Sprintf("listing %s: not found", item.ListingID))
			continue
		}
		success++
	}

	if err := tx.Commit(); err != nil {
		errors = append(errors, fmt.Sprintf("failed to commit transaction: %v", err))
		return 0, errors
	}

	return success, errors
}

// SimilarListings returns active listings nearest to the given one by cosine
// distance. A listing without an embedding has no neighbours.
func (r *PostgresRepository) SimilarListings(ctx context.Context, listingID uuid.UUID, limit int) ([]model.SimilarListing, error) {
	query := `
		WITH target AS (
			SELECT embedding FROM listings WHERE id = $1 AND embedding IS NOT NULL
		)
		SELECT` + listingColumns + `,
			l.embedding <=> target.embedding AS distance` + listingFrom + `
		CROSS JOIN target
		WHERE l.is_active AND l.id <> $1 AND l.embedding IS NOT NULL
		ORDER BY distance
		LIMIT $2`

	var results []model.SimilarListing
	if err := r.db.SelectContext(ctx, &results, query, listingID, limit); err != nil {
		return nil, fmt.Errorf("failed to find similar listings: %w", err)
	}
	return results, nil
}
