package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/application/schedule"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/domain/entities"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/domain/repositories"
	apperrors "github.com/willianOliveira-dev/barber-app-sub000/pkg/errors"
)

// AvailabilityService answers "what can I book now?" by composing the slot
// generator with the conflict resolver, and manages business-hour rules.
type AvailabilityService struct {
	shopRepo    repositories.ShopRepository
	serviceRepo repositories.ServiceRepository
	hoursRepo   repositories.BusinessHourRepository
	bookingRepo repositories.BookingRepository
	now         func() time.Time
}

// AvailabilityServiceOption configures an AvailabilityService
type AvailabilityServiceOption func(*AvailabilityService)

// WithAvailabilityClock overrides the time source, for tests
func WithAvailabilityClock(now func() time.Time) AvailabilityServiceOption {
	return func(s *AvailabilityService) {
		s.now = now
	}
}

// NewAvailabilityService creates a new availability service
func NewAvailabilityService(
	shopRepo repositories.ShopRepository,
	serviceRepo repositories.ServiceRepository,
	hoursRepo repositories.BusinessHourRepository,
	bookingRepo repositories.BookingRepository,
	opts ...AvailabilityServiceOption,
) *AvailabilityService {
	s := &AvailabilityService{
		shopRepo:    shopRepo,
		serviceRepo: serviceRepo,
		hoursRepo:   hoursRepo,
		bookingRepo: bookingRepo,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetAvailableSlots returns the full candidate grid for a service on a date
// with each slot flagged available or not. A closed day yields an empty
// grid, never an error.
func (s *AvailabilityService) GetAvailableSlots(ctx context.Context, shopID, serviceID string, date time.Time) ([]entities.Slot, error) {
	service, err := s.serviceRepo.GetByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if !service.IsActive || service.ShopID != shopID {
		return nil, apperrors.NewNotFoundError("service not found for this shop")
	}

	rule, err := s.hoursRepo.GetByShopAndWeekday(ctx, shopID, date.Weekday())
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			// No rule configured for the weekday means the shop is closed.
			return []entities.Slot{}, nil
		}
		return nil, err
	}

	slots, err := schedule.Generate(rule, service, date)
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return slots, nil
	}

	// Fetch a day beyond both boundaries so intervals crossing midnight
	// still count against the grid.
	from := slots[0].StartTime.Add(-24 * time.Hour)
	to := slots[len(slots)-1].EndTime.Add(24 * time.Hour)
	bookings, err := s.bookingRepo.ListOccupiedByShop(ctx, shopID, from, to)
	if err != nil {
		return nil, err
	}

	resolved := schedule.Resolve(slots, bookings, s.now())

	log.Ctx(ctx).Debug().
		Str("shop_id", shopID).
		Str("service_id", serviceID).
		Int("slots", len(resolved)).
		Int("bookings", len(bookings)).
		Msg("computed availability")

	return resolved, nil
}

// UpsertBusinessHours creates or replaces the rule for a shop and weekday.
// Only the shop owner may configure hours; the closing-after-opening
// invariant is enforced here, at write time.
func (s *AvailabilityService) UpsertBusinessHours(ctx context.Context, caller entities.Identity, rule *entities.BusinessHourRule) error {
	shop, err := s.shopRepo.GetByID(ctx, rule.ShopID)
	if err != nil {
		return err
	}
	if caller.Role != entities.RoleShopOwner || shop.OwnerID != caller.UserID {
		return apperrors.NewForbiddenError("only the shop owner can configure business hours")
	}

	if err := rule.Validate(); err != nil {
		return err
	}

	rule.UpdatedAt = s.now()
	return s.hoursRepo.Upsert(ctx, rule)
}

// GetBusinessHours returns all configured weekday rules for a shop
func (s *AvailabilityService) GetBusinessHours(ctx context.Context, shopID string) ([]*entities.BusinessHourRule, error) {
	if _, err := s.shopRepo.GetByID(ctx, shopID); err != nil {
		return nil, err
	}
	return s.hoursRepo.ListByShop(ctx, shopID)
}
