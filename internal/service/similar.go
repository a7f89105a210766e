package service

import (
	"context"
	"fmt"

	"farmmarket/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SimilarService stores listing embeddings and finds neighbours of a listing
type SimilarService struct {
	repo       EmbeddingRepository
	dimensions int
	logger     *zap.Logger
}

// NewSimilarService creates a new similar-listings service
func NewSimilarService(repo EmbeddingRepository, dimensions int, logger *zap.Logger) *SimilarService {
	return &SimilarService{
		repo:       repo,
		dimensions: dimensions,
		logger:     logger,
	}
}

// UpdateEmbeddings stores embeddings for multiple listings. Admin only.
func (s *SimilarService) UpdateEmbeddings(ctx context.Context, caller model.Caller, items []model.EmbeddingItem) (int, []string, error) {
	if !caller.IsAdmin() {
		return 0, nil, ErrForbidden
	}
	for i, item := range items {
		if len(item.Embedding) != s.dimensions {
			return 0, nil, fmt.Errorf("%w: embedding %d has dimension %d, expected %d",
				ErrInvalidEmbedding, i, len(item.Embedding), s.dimensions)
		}
	}

	success, errs := s.repo.BatchUpdateEmbeddings(ctx, items)
	if len(errs) > 0 {
		s.logger.Warn("embedding batch partially failed", zap.Int("success", success), zap.Strings("errors", errs))
	}
	return success, errs, nil
}

// Similar returns up to limit active listings closest to the given one
func (s *SimilarService) Similar(ctx context.Context, listingID uuid.UUID, limit int) ([]model.SimilarListing, error) {
	results, err := s.repo.SimilarListings(ctx, listingID, limit)
	if err != nil {
		s.logger.Error("similar listings failed", zap.String("listing_id", listingID.String()), zap.Error(err))
		return nil, upstream("similar listings", err)
	}
	if results == nil {
		results = []model.SimilarListing{}
	}
	return results, nil
}
