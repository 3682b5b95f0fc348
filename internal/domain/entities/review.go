package entities

import (
	"time"
)

// Review captures a customer's rating of a completed booking. At most one
// review exists per booking.
type Review struct {
	ID          string     `json:"id" db:"id"`
	UserID      string     `json:"user_id" db:"user_id"`
	ShopID      string     `json:"shop_id" db:"shop_id"`
	BookingID   string     `json:"booking_id" db:"booking_id"`
	Rating      int        `json:"rating" db:"rating"`
	Comment     string     `json:"comment" db:"comment"`
	Response    *string    `json:"response,omitempty" db:"response"`
	RespondedAt *time.Time `json:"responded_at,omitempty" db:"responded_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`

	// Enrichment fields populated by batched lookups, not stored columns.
	LikeCount     int  `json:"like_count" db:"-"`
	LikedByCaller bool `json:"liked_by_caller" db:"-"`
}

// ReviewLike marks that a user liked a review. The (ReviewID, UserID) pair
// is unique.
type ReviewLike struct {
	ReviewID  string    `json:"review_id" db:"review_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ReviewStats aggregates a shop's reviews in a single snapshot
type ReviewStats struct {
	ShopID             string      `json:"shop_id"`
	TotalReviews       int         `json:"total_reviews"`
	AverageRating      float64     `json:"average_rating"`
	RatingDistribution map[int]int `json:"rating_distribution"`
}
