package service

import (
	"farmmarket/internal/model"
	"farmmarket/internal/utils"
)

// FilterListings returns the listings that satisfy every supplied criterion,
// in input order. Text matches name, description or seller name; category is
// exact; location matches the seller location, and sellers without one are
// excluded once a location is given.
//
// With no criteria the input slice itself is returned.
func FilterListings(listings []model.Listing, criteria model.FilterCriteria) []model.Listing {
	if criteria.IsEmpty() {
		return listings
	}

	filtered := make([]model.Listing, 0, len(listings))
	for _, listing := range listings {
		if matches(listing, criteria) {
			filtered = append(filtered, listing)
		}
	}
	return filtered
}

func matches(listing model.Listing, criteria model.FilterCriteria) bool {
	if criteria.SearchText != "" && !matchesText(listing, criteria.SearchText) {
		return false
	}
	if criteria.Category != "" && listing.Category != criteria.Category {
		return false
	}
	if criteria.Location != "" {
		if listing.Seller.Location == nil {
			return false
		}
		if !utils.ContainsFold(*listing.Seller.Location, criteria.Location) {
			return false
		}
	}
	return true
}

func matchesText(listing model.Listing, text string) bool {
	return utils.ContainsFold(listing.Name, text) ||
		utils.ContainsFold(listing.Description, text) ||
		utils.ContainsFold(listing.Seller.DisplayName, text)
}
