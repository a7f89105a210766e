package service

import (
	"context"
	"io"

	"farmmarket/internal/model"

	"github.com/google/uuid"
)

// ListingRepository is the listing side of the external database.
// Lookups return (nil, nil) when nothing matches.
type ListingRepository interface {
	ListActiveListings(ctx context.Context) ([]model.Listing, error)
	ListSellerListings(ctx context.Context, sellerID uuid.UUID, activeOnly bool) ([]model.Listing, error)
	GetListing(ctx context.Context, listingID uuid.UUID) (*model.Listing, error)
	CreateListing(ctx context.Context, listing *model.Listing) error
	UpdateListing(ctx context.Context, listing *model.Listing) error
	DeleteListing(ctx context.Context, listingID, sellerID uuid.UUID) (bool, error)
	SetListingImage(ctx context.Context, listingID, sellerID uuid.UUID, imageURL string) (bool, error)
}

// ProfileRepository is the profile side of the external database
type ProfileRepository interface {
	GetProfile(ctx context.Context, profileID uuid.UUID) (*model.Profile, error)
	ToggleAvailability(ctx context.Context, userID uuid.UUID) (bool, error)
}

// MessageRepository persists platform messages
type MessageRepository interface {
	InsertMessage(ctx context.Context, msg *model.Message) error
	ListMessagesForSeller(ctx context.Context, sellerID uuid.UUID) ([]model.Message, error)
}

// EmbeddingRepository stores listing vectors and answers nearest-neighbour queries
type EmbeddingRepository interface {
	BatchUpdateEmbeddings(ctx context.Context, items []model.EmbeddingItem) (int, []string)
	SimilarListings(ctx context.Context, listingID uuid.UUID, limit int) ([]model.SimilarListing, error)
}

// ContactEventLog records dispatched contact actions and aggregates them per seller
type ContactEventLog interface {
	LogContact(ctx context.Context, event *model.ContactEvent) error
	ContactStats(ctx context.Context, sellerID uuid.UUID) ([]model.ContactStat, error)
}

// ImageStore is the external object store for listing images
type ImageStore interface {
	PutImage(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// Notifier pushes a short text to a seller's phone
type Notifier interface {
	Notify(ctx context.Context, phone, text string) error
}
