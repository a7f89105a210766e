package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FilterCriteria holds the transient search/filter state of a catalog view.
// An empty field places no constraint on its axis.
type FilterCriteria struct {
	SearchText string   `form:"q" json:"q,omitempty"`
	Category   Category `form:"category" json:"category,omitempty"`
	Location   string   `form:"location" json:"location,omitempty"`
}

// IsEmpty reports whether no criterion is supplied
func (c FilterCriteria) IsEmpty() bool {
	return c.SearchText == "" && c.Category == "" && c.Location == ""
}

// CatalogResponse is the catalog view after filtering
type CatalogResponse struct {
	Results   []Listing      `json:"results"`
	Shown     int            `json:"shown"`
	Total     int            `json:"total"`
	Locations []string       `json:"locations"`
	Criteria  FilterCriteria `json:"criteria"`
	Took      int64          `json:"took_ms"`
}

// ListingInput is the seller-editable part of a listing
type ListingInput struct {
	Name              string          `json:"name" binding:"required"`
	Description       string          `json:"description"`
	Category          string          `json:"category" binding:"required"`
	Price             decimal.Decimal `json:"price"`
	Unit              string          `json:"unit" binding:"required"`
	QuantityAvailable int             `json:"quantity_available"`
	ImageURL          *string         `json:"image_url,omitempty"`
	Active            *bool           `json:"is_active,omitempty"`
}

// SellerProfileResponse is a seller's public page
type SellerProfileResponse struct {
	Profile  *Profile  `json:"profile"`
	Listings []Listing `json:"listings"`
}

// EmbeddingBatchRequest represents a batch embedding update request
type EmbeddingBatchRequest struct {
	Embeddings []EmbeddingItem `json:"embeddings" binding:"required"`
}

// EmbeddingItem represents a single embedding with listing info
type EmbeddingItem struct {
	ListingID uuid.UUID `json:"listing_id" binding:"required"`
	Embedding []float32 `json:"embedding" binding:"required"`
}

// EmbeddingBatchResponse represents the response for batch embedding update
type EmbeddingBatchResponse struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}
