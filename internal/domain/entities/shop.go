package entities

import (
	"time"
)

// Role identifies what a caller is allowed to do. Authentication happens
// outside this service; we only receive the resolved identity.
type Role string

const (
	RoleCustomer  Role = "customer"
	RoleShopOwner Role = "shop_owner"
)

// Identity is the caller identity supplied by the authentication layer
type Identity struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}

// Shop represents a barbershop storefront
type Shop struct {
	ID        string    `json:"id" db:"id"`
	OwnerID   string    `json:"owner_id" db:"owner_id"`
	Name      string    `json:"name" db:"name"`
	Address   string    `json:"address" db:"address"`
	Phone     string    `json:"phone" db:"phone"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Service represents a bookable service offered by a shop
type Service struct {
	ID              string    `json:"id" db:"id"`
	ShopID          string    `json:"shop_id" db:"shop_id"`
	Name            string    `json:"name" db:"name"`
	DurationMinutes int       `json:"duration_minutes" db:"duration_minutes"`
	PriceCents      int64     `json:"price_cents" db:"price_cents"`
	IsActive        bool      `json:"is_active" db:"is_active"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// Duration returns the service duration as a time.Duration
func (s *Service) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}
