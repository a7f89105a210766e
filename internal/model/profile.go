package model

import (
	"time"

	"github.com/google/uuid"
)

// Role is the marketplace role of an authenticated user
type Role string

const (
	RoleFarmer   Role = "farmer"
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Caller identifies who is performing an operation. It is built from the
// request token and passed explicitly into services.
type Caller struct {
	UserID uuid.UUID
	Role   Role
}

// Anonymous is the caller of unauthenticated requests
var Anonymous = Caller{}

// IsAuthenticated reports whether the caller carries a user id
func (c Caller) IsAuthenticated() bool {
	return c.UserID != uuid.Nil
}

// IsFarmer reports whether the caller may manage listings
func (c Caller) IsFarmer() bool {
	return c.IsAuthenticated() && c.Role == RoleFarmer
}

// IsAdmin reports whether the caller has the admin role
func (c Caller) IsAdmin() bool {
	return c.IsAuthenticated() && c.Role == RoleAdmin
}

// Profile is a user profile; farmers' profiles double as seller pages
type Profile struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	Role        Role      `json:"role" db:"role"`
	FullName    string    `json:"full_name" db:"full_name"`
	AvatarURL   *string   `json:"avatar_url,omitempty" db:"avatar_url"`
	Phone       *string   `json:"phone,omitempty" db:"phone"`
	Location    *string   `json:"location,omitempty" db:"location"`
	Bio         *string   `json:"bio,omitempty" db:"bio"`
	IsAvailable bool      `json:"is_available" db:"is_available"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
