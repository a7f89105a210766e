package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Listing represents a product offered for sale by a seller
type Listing struct {
	ID                uuid.UUID       `json:"id" db:"id"`
	SellerID          uuid.UUID       `json:"seller_id" db:"farmer_id"`
	Name              string          `json:"name" db:"name"`
	Description       string          `json:"description" db:"description"`
	Category          Category        `json:"category" db:"category"`
	Price             decimal.Decimal `json:"price" db:"price"`
	Unit              Unit            `json:"unit" db:"unit"`
	QuantityAvailable int             `json:"quantity_available" db:"quantity_available"`
	ImageURL          *string         `json:"image_url,omitempty" db:"image_url"`
	Active            bool            `json:"is_active" db:"is_active"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" db:"updated_at"`
	Seller            Seller          `json:"seller" db:"seller"`
}

// Seller is the slice of a seller profile joined onto every catalog listing
type Seller struct {
	ProfileID   uuid.UUID `json:"profile_id" db:"profile_id"`
	DisplayName string    `json:"display_name" db:"display_name"`
	Location    *string   `json:"location,omitempty" db:"location"`
	Phone       *string   `json:"phone,omitempty" db:"phone"`
	Available   bool      `json:"is_available" db:"is_available"`
}

// LocationOrEmpty returns the seller location, or "" when none is on file
func (s Seller) LocationOrEmpty() string {
	if s.Location == nil {
		return ""
	}
	return *s.Location
}

// PhoneOrEmpty returns the seller phone, or "" when none is on file
func (s Seller) PhoneOrEmpty() string {
	if s.Phone == nil {
		return ""
	}
	return *s.Phone
}

// SimilarListing is a listing paired with its embedding distance to a reference listing
type SimilarListing struct {
	Listing
	Distance float64 `json:"distance" db:"distance"`
}
