package repositories

import (
	"context"

	"github.com/willianOliveira-dev/barber-app-sub000/internal/domain/entities"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/domain/pagination"
)

// ReviewSort selects the listing order for shop reviews
type ReviewSort string

const (
	// ReviewSortNewest orders by created_at descending
	ReviewSortNewest ReviewSort = "newest"
	// ReviewSortHighest orders by rating descending, then created_at descending
	ReviewSortHighest ReviewSort = "highest"
	// ReviewSortLowest orders by rating ascending, then created_at descending
	ReviewSortLowest ReviewSort = "lowest"
)

// ReviewPageFilter defines filters for one page of a shop's reviews
type ReviewPageFilter struct {
	Ratings []int
	Sort    ReviewSort
	After   *pagination.Cursor
	Limit   int
}

// ReviewRepository defines the interface for review data operations
type ReviewRepository interface {
	// Create inserts a review. The booking_id unique constraint rejects a
	// second review for the same booking with a conflict error.
	Create(ctx context.Context, review *entities.Review) error

	// GetByID retrieves a review by ID
	GetByID(ctx context.Context, id string) (*entities.Review, error)

	// Update persists rating, comment, response and responded_at changes
	Update(ctx context.Context, review *entities.Review) error

	// Delete removes a review and its likes
	Delete(ctx context.Context, id string) error

	// ListByShop retrieves one keyset page of a shop's reviews in the
	// filter's sort order. The adapter fetches filter.Limit+1 rows.
	ListByShop(ctx context.Context, shopID string, filter ReviewPageFilter) ([]*entities.Review, error)

	// CountLikes returns like counts for the given reviews in one grouped
	// query. Empty input short-circuits to an empty map.
	CountLikes(ctx context.Context, reviewIDs []string) (map[string]int, error)

	// ListUserLikes returns which of the given reviews the user liked, in
	// one membership query. Empty input short-circuits to an empty set.
	ListUserLikes(ctx context.Context, userID string, reviewIDs []string) (map[string]struct{}, error)

	// AddLike records a like; liking twice fails with an already-liked error
	AddLike(ctx context.Context, reviewID, userID string) error

	// RemoveLike deletes a like if it exists; removing a missing like is a
	// no-op success
	RemoveLike(ctx context.Context, reviewID, userID string) error

	// StatsByShop aggregates total, average and the five rating buckets in a
	// single pass
	StatsByShop(ctx context.Context, shopID string) (*entities.ReviewStats, error)
}
