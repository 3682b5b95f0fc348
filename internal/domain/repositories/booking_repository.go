package repositories

import (
	"context"
	"time"

	"github.com/willianOliveira-dev/barber-app-sub000/internal/domain/entities"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/domain/pagination"
)

// BookingRepository defines the interface for booking data operations
type BookingRepository interface {
	// CreateChecked inserts the booking inside a transaction that first
	// re-validates the overlap predicate against the shop's non-cancelled
	// bookings under row locks. Returns a slot-unavailable error when the
	// interval is already taken, whether detected by the locked re-check or
	// by the schema's exclusion constraint.
	CreateChecked(ctx context.Context, booking *entities.Booking) error

	// GetByID retrieves a booking by ID
	GetByID(ctx context.Context, id string) (*entities.Booking, error)

	// UpdateStatus persists a status transition, stamping cancelled_at when
	// the target status is cancelled
	UpdateStatus(ctx context.Context, booking *entities.Booking) error

	// ListOccupiedByShop retrieves the shop's non-cancelled bookings whose
	// intervals touch [from, to)
	ListOccupiedByShop(ctx context.Context, shopID string, from, to time.Time) ([]*entities.Booking, error)

	// ListByUser retrieves one keyset page of the user's bookings ordered by
	// scheduled_at descending with an id tie-break. The adapter fetches
	// filter.Limit+1 rows so the caller can detect a further page.
	ListByUser(ctx context.Context, userID string, filter BookingPageFilter) ([]*entities.Booking, error)
}

// BookingPageFilter defines filters for one page of a user's bookings
type BookingPageFilter struct {
	Statuses []entities.BookingStatus
	After    *pagination.Cursor
	Limit    int
}

// ShopRepository defines the interface for shop data operations
type ShopRepository interface {
	// GetByID retrieves a shop by ID
	GetByID(ctx context.Context, id string) (*entities.Shop, error)
}

// ServiceRepository defines the interface for service data operations
type ServiceRepository interface {
	// GetByID retrieves a service by ID
	GetByID(ctx context.Context, id string) (*entities.Service, error)
}

// BusinessHourRepository defines the interface for business-hour rules
type BusinessHourRepository interface {
	// GetByShopAndWeekday resolves the rule for a shop and weekday. A shop
	// with no rule configured for the weekday is treated as closed.
	GetByShopAndWeekday(ctx context.Context, shopID string, weekday time.Weekday) (*entities.BusinessHourRule, error)

	// ListByShop retrieves all rules for a shop
	ListByShop(ctx context.Context, shopID string) ([]*entities.BusinessHourRule, error)

	// Upsert creates or replaces the rule for (shop, weekday)
	Upsert(ctx context.Context, rule *entities.BusinessHourRule) error
}
