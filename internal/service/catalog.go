package service

import (
	"context"
	"sort"
	"time"

	"farmmarket/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Catalog is the set of active listings fetched for one page load, newest
// first. It is read-only; a confirmed delete shows up on the next load.
type Catalog struct {
	listings []model.Listing
}

// NewCatalog wraps an already ordered listing slice
func NewCatalog(listings []model.Listing) *Catalog {
	if listings == nil {
		listings = []model.Listing{}
	}
	return &Catalog{listings: listings}
}

// Len returns the number of listings in the catalog
func (c *Catalog) Len() int {
	return len(c.listings)
}

// Visible returns the listings matching criteria
func (c *Catalog) Visible(criteria model.FilterCriteria) []model.Listing {
	return FilterListings(c.listings, criteria)
}

// Locations returns the distinct non-empty seller locations, sorted
func (c *Catalog) Locations() []string {
	seen := make(map[string]struct{})
	locations := []string{}
	for _, listing := range c.listings {
		loc := listing.Seller.LocationOrEmpty()
		if loc == "" {
			continue
		}
		if _, ok := seen[loc]; ok {
			continue
		}
		seen[loc] = struct{}{}
		locations = append(locations, loc)
	}
	sort.Strings(locations)
	return locations
}

// CatalogService serves the public catalog
type CatalogService struct {
	listings ListingRepository
	profiles ProfileRepository
	logger   *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(listings ListingRepository, profiles ProfileRepository, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		listings: listings,
		profiles: profiles,
		logger:   logger,
	}
}

// Load fetches the active catalog from the database
func (s *CatalogService) Load(ctx context.Context) (*Catalog, error) {
	listings, err := s.listings.ListActiveListings(ctx)
	if err != nil {
		s.logger.Error("failed to load catalog", zap.Error(err))
		return nil, upstream("load catalog", err)
	}
	return NewCatalog(listings), nil
}

// Browse loads the catalog and applies criteria to it
func (s *CatalogService) Browse(ctx context.Context, criteria model.FilterCriteria) (*model.CatalogResponse, error) {
	startTime := time.Now()

	catalog, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	visible := catalog.Visible(criteria)

	took := time.Since(startTime).Milliseconds()
	s.logger.Debug("catalog browsed",
		zap.String("q", criteria.SearchText),
		zap.String("category", string(criteria.Category)),
		zap.String("location", criteria.Location),
		zap.Int("shown", len(visible)),
		zap.Int("total", catalog.Len()),
		zap.Int64("took_ms", took))

	return &model.CatalogResponse{
		Results:   visible,
		Shown:     len(visible),
		Total:     catalog.Len(),
		Locations: catalog.Locations(),
		Criteria:  criteria,
		Took:      took,
	}, nil
}

// GetListing returns a single active listing
func (s *CatalogService) GetListing(ctx context.Context, listingID uuid.UUID) (*model.Listing, error) {
	listing, err := s.listings.GetListing(ctx, listingID)
	if err != nil {
		s.logger.Error("failed to get listing", zap.String("listing_id", listingID.String()), zap.Error(err))
		return nil, upstream("get listing", err)
	}
	if listing == nil || !listing.Active {
		return nil, ErrNotFound
	}
	return listing, nil
}

// SellerPage returns a seller's profile and active listings
func (s *CatalogService) SellerPage(ctx context.Context, profileID uuid.UUID) (*model.SellerProfileResponse, error) {
	profile, err := s.profiles.GetProfile(ctx, profileID)
	if err != nil {
		s.logger.Error("failed to load seller profile", zap.String("profile_id", profileID.String()), zap.Error(err))
		return nil, upstream("get profile", err)
	}
	if profile == nil || profile.Role != model.RoleFarmer {
		return nil, ErrNotFound
	}

	listings, err := s.listings.ListSellerListings(ctx, profile.UserID, true)
	if err != nil {
		s.logger.Error("failed to load seller listings", zap.String("seller_id", profile.UserID.String()), zap.Error(err))
		return nil, upstream("list seller listings", err)
	}
	if listings == nil {
		listings = []model.Listing{}
	}

	return &model.SellerProfileResponse{
		Profile:  profile,
		Listings: listings,
	}, nil
}
