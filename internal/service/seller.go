package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"farmmarket/internal/model"
	"farmmarket/internal/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// priceScale and maxPrice match the listings.price NUMERIC(12, 3) column
const priceScale = 3

var maxPrice = decimal.New(1, 12-priceScale)

// SellerService backs the farmer dashboard. Every operation is scoped to the
// caller's own user id.
type SellerService struct {
	listings ListingRepository
	profiles ProfileRepository
	messages MessageRepository
	images   ImageStore
	events   ContactEventLog
	taxonomy *model.Taxonomy
	logger   *zap.Logger
	now      func() time.Time
}

// NewSellerService creates a new seller service; images may be nil when no
// object store is configured
func NewSellerService(
	listings ListingRepository,
	profiles ProfileRepository,
	messages MessageRepository,
	images ImageStore,
	taxonomy *model.Taxonomy,
	logger *zap.Logger,
) *SellerService {
	return &SellerService{
		listings: listings,
		profiles: profiles,
		messages: messages,
		images:   images,
		taxonomy: taxonomy,
		logger:   logger,
		now:      time.Now,
	}
}

// WithContactEvents enables per-listing contact statistics
func (s *SellerService) WithContactEvents(events ContactEventLog) *SellerService {
	s.events = events
	return s
}

// ListOwn returns the caller's listings, active or not, newest first
func (s *SellerService) ListOwn(ctx context.Context, caller model.Caller) ([]model.Listing, error) {
	if !caller.IsFarmer() {
		return nil, ErrForbidden
	}
	listings, err := s.listings.ListSellerListings(ctx, caller.UserID, false)
	if err != nil {
		s.logger.Error("failed to load dashboard listings", zap.String("seller_id", caller.UserID.String()), zap.Error(err))
		return nil, upstream("list seller listings", err)
	}
	if listings == nil {
		listings = []model.Listing{}
	}
	return listings, nil
}

// Create validates input and inserts a new listing owned by the caller
func (s *SellerService) Create(ctx context.Context, caller model.Caller, input model.ListingInput) (*model.Listing, error) {
	if !caller.IsFarmer() {
		return nil, ErrForbidden
	}

	now := s.now().UTC()
	listing := &model.Listing{
		ID:        uuid.New(),
		SellerID:  caller.UserID,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.apply(listing, input); err != nil {
		return nil, err
	}

	if err := s.listings.CreateListing(ctx, listing); err != nil {
		s.logger.Error("failed to create listing", zap.String("seller_id", caller.UserID.String()), zap.Error(err))
		return nil, upstream("create listing", err)
	}

	s.logger.Info("listing created", zap.String("listing_id", listing.ID.String()), zap.String("seller_id", caller.UserID.String()))
	return listing, nil
}

// Update replaces the editable fields of one of the caller's listings
func (s *SellerService) Update(ctx context.Context, caller model.Caller, listingID uuid.UUID, input model.ListingInput) (*model.Listing, error) {
	listing, err := s.owned(ctx, caller, listingID)
	if err != nil {
		return nil, err
	}

	if err := s.apply(listing, input); err != nil {
		return nil, err
	}
	listing.UpdatedAt = s.now().UTC()

	if err := s.listings.UpdateListing(ctx, listing); err != nil {
		s.logger.Error("failed to update listing", zap.String("listing_id", listingID.String()), zap.Error(err))
		return nil, upstream("update listing", err)
	}
	return listing, nil
}

// Delete removes one of the caller's listings
func (s *SellerService) Delete(ctx context.Context, caller model.Caller, listingID uuid.UUID) error {
	if _, err := s.owned(ctx, caller, listingID); err != nil {
		return err
	}

	deleted, err := s.listings.DeleteListing(ctx, listingID, caller.UserID)
	if err != nil {
		s.logger.Error("failed to delete listing", zap.String("listing_id", listingID.String()), zap.Error(err))
		return upstream("delete listing", err)
	}
	if !deleted {
		return ErrNotFound
	}

	s.logger.Info("listing deleted", zap.String("listing_id", listingID.String()))
	return nil
}

// UploadImage stores an image for one of the caller's listings and points
// the listing at it
func (s *SellerService) UploadImage(ctx context.Context, caller model.Caller, listingID uuid.UUID, filename, contentType string, body io.Reader) (string, error) {
	if _, err := s.owned(ctx, caller, listingID); err != nil {
		return "", err
	}
	if s.images == nil {
		return "", upstream("upload image", fmt.Errorf("image storage is not configured"))
	}

	key := ImageKey(caller.UserID, filename, s.now())
	imageURL, err := s.images.PutImage(ctx, key, contentType, body)
	if err != nil {
		s.logger.Error("failed to upload image", zap.String("key", key), zap.Error(err))
		return "", upstream("upload image", err)
	}

	updated, err := s.listings.SetListingImage(ctx, listingID, caller.UserID, imageURL)
	if err != nil {
		return "", upstream("set listing image", err)
	}
	if !updated {
		return "", ErrNotFound
	}
	return imageURL, nil
}

// ToggleAvailability flips the caller's availability flag and returns the new value
func (s *SellerService) ToggleAvailability(ctx context.Context, caller model.Caller) (bool, error) {
	if !caller.IsFarmer() {
		return false, ErrForbidden
	}
	available, err := s.profiles.ToggleAvailability(ctx, caller.UserID)
	if err != nil {
		s.logger.Error("failed to update availability", zap.String("seller_id", caller.UserID.String()), zap.Error(err))
		return false, upstream("toggle availability", err)
	}
	return available, nil
}

// Inbox returns platform messages addressed to the caller, newest first
func (s *SellerService) Inbox(ctx context.Context, caller model.Caller) ([]model.Message, error) {
	if !caller.IsFarmer() {
		return nil, ErrForbidden
	}
	messages, err := s.messages.ListMessagesForSeller(ctx, caller.UserID)
	if err != nil {
		return nil, upstream("list messages", err)
	}
	if messages == nil {
		messages = []model.Message{}
	}
	return messages, nil
}

// ContactStats counts how often customers contacted the caller, per listing
// and channel. Without an event log the result is empty.
func (s *SellerService) ContactStats(ctx context.Context, caller model.Caller) ([]model.ContactStat, error) {
	if !caller.IsFarmer() {
		return nil, ErrForbidden
	}
	if s.events == nil {
		return []model.ContactStat{}, nil
	}
	stats, err := s.events.ContactStats(ctx, caller.UserID)
	if err != nil {
		return nil, upstream("contact stats", err)
	}
	if stats == nil {
		stats = []model.ContactStat{}
	}
	return stats, nil
}

// ImageKey names an uploaded image as <seller id>-<unix millis>.<ext>
func ImageKey(sellerID uuid.UUID, filename string, at time.Time) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == "" {
		ext = "jpg"
	}
	return fmt.Sprintf("%s-%d.%s", sellerID, at.UnixMilli(), ext)
}

func (s *SellerService) owned(ctx context.Context, caller model.Caller, listingID uuid.UUID) (*model.Listing, error) {
	if !caller.IsFarmer() {
		return nil, ErrForbidden
	}
	listing, err := s.listings.GetListing(ctx, listingID)
	if err != nil {
		return nil, upstream("get listing", err)
	}
	if listing == nil {
		return nil, ErrNotFound
	}
	if listing.SellerID != caller.UserID {
		return nil, ErrForbidden
	}
	return listing, nil
}

func (s *SellerService) apply(listing *model.Listing, input model.ListingInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidListing)
	}
	if input.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidListing)
	}
	if !input.Price.Equal(input.Price.Round(priceScale)) {
		return fmt.Errorf("%w: price must have at most %d decimal places", ErrInvalidListing, priceScale)
	}
	if input.Price.GreaterThanOrEqual(maxPrice) {
		return fmt.Errorf("%w: price must be less than %s", ErrInvalidListing, maxPrice)
	}
	if input.QuantityAvailable < 0 {
		return fmt.Errorf("%w: quantity must not be negative", ErrInvalidListing)
	}

	category := model.Category(utils.NormalizeCategory(input.Category))
	if !s.taxonomy.HasCategory(category) {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidListing, input.Category)
	}
	unit := model.Unit(utils.NormalizeUnit(input.Unit))
	if !s.taxonomy.HasUnit(unit) {
		return fmt.Errorf("%w: unknown unit %q", ErrInvalidListing, input.Unit)
	}

	listing.Name = name
	listing.Description = strings.TrimSpace(input.Description)
	listing.Category = category
	listing.Price = input.Price
	listing.Unit = unit
	listing.QuantityAvailable = input.QuantityAvailable
	if input.ImageURL != nil {
		listing.ImageURL = input.ImageURL
	}
	if input.Active != nil {
		listing.Active = *input.Active
	}
	return nil
}
