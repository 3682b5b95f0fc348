package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/domain/entities"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/domain/pagination"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/domain/repositories"
	apperrors "github.com/willianOliveira-dev/barber-app-sub000/pkg/errors"
)

// BookingService is the single authoritative write path for creating,
// cancelling and completing bookings. The no-overlap invariant is enforced
// at write time by the repository's locked re-check plus the schema's
// exclusion constraint; the read-time availability check alone is not
// sufficient under concurrent submissions.
type BookingService struct {
	bookingRepo repositories.BookingRepository
	shopRepo    repositories.ShopRepository
	serviceRepo repositories.ServiceRepository
	hoursRepo   repositories.BusinessHourRepository
	now         func() time.Time
}

// BookingServiceOption configures a BookingService
type BookingServiceOption func(*BookingService)

// WithBookingClock overrides the time source, for tests
func WithBookingClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

// NewBookingService creates a new booking service
func NewBookingService(
	bookingRepo repositories.BookingRepository,
	shopRepo repositories.ShopRepository,
	serviceRepo repositories.ServiceRepository,
	hoursRepo repositories.BusinessHourRepository,
	opts ...BookingServiceOption,
) *BookingService {
	s := &BookingService{
		bookingRepo: bookingRepo,
		shopRepo:    shopRepo,
		serviceRepo: serviceRepo,
		hoursRepo:   hoursRepo,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create books a slot. The end time is recomputed from the service's
// current duration, never taken from the caller.
func (s *BookingService) Create(ctx context.Context, userID, shopID, serviceID string, scheduledAt time.Time) (*entities.Booking, error) {
	service, err := s.serviceRepo.GetByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if !service.IsActive || service.ShopID != shopID {
		return nil, apperrors.NewNotFoundError("service not found for this shop")
	}

	scheduledAt = scheduledAt.Truncate(time.Second)
	endTime := scheduledAt.Add(service.Duration())

	rule, err := s.hoursRepo.GetByShopAndWeekday(ctx, shopID, scheduledAt.Weekday())
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return nil, apperrors.NewShopClosedError("shop is closed on the requested day")
		}
		return nil, err
	}
	if !rule.IsOpen {
		return nil, apperrors.NewShopClosedError("shop is closed on the requested day")
	}

	open, close, err := rule.OpeningWindow(scheduledAt)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to resolve business hours", err)
	}
	if scheduledAt.Before(open) || endTime.After(close) {
		return nil, apperrors.NewSlotUnavailableError("requested slot is outside business hours")
	}

	if !scheduledAt.After(s.now()) {
		return nil, apperrors.NewSlotUnavailableError("requested slot is in the past")
	}

	booking := &entities.Booking{
		ID:          uuid.New().String(),
		UserID:      userID,
		ShopID:      shopID,
		ServiceID:   serviceID,
		ScheduledAt: scheduledAt,
		EndTime:     endTime,
		Status:      entities.BookingStatusConfirmed,
		CreatedAt:   s.now(),
		UpdatedAt:   s.now(),
	}

	// The adapter re-runs the overlap predicate under row locks inside the
	// same transaction as the insert; concurrent submissions for the same
	// slot leave exactly one winner.
	if err := s.bookingRepo.CreateChecked(ctx, booking); err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().
		Str("booking_id", booking.ID).
		Str("shop_id", shopID).
		Time("scheduled_at", scheduledAt).
		Msg("booking created")

	return booking, nil
}

// Cancel marks the booking cancelled, freeing its interval. Only the owning
// user may cancel; the row is kept for the audit trail.
func (s *BookingService) Cancel(ctx context.Context, bookingID, callerID string) (*entities.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != callerID {
		return nil, apperrors.NewForbiddenError("only the booking owner can cancel it")
	}
	if !booking.CanTransitionTo(entities.BookingStatusCancelled) {
		return nil, apperrors.NewInvalidTransitionError("booking cannot be cancelled from status " + string(booking.Status))
	}

	now := s.now()
	booking.Status = entities.BookingStatusCancelled
	booking.CancelledAt = &now
	booking.UpdatedAt = now

	if err := s.bookingRepo.UpdateStatus(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// Complete marks the booking completed, enabling review eligibility. Only
// the owner of the shop the booking belongs to may complete it.
func (s *BookingService) Complete(ctx context.Context, bookingID string, caller entities.Identity) (*entities.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if caller.Role != entities.RoleShopOwner {
		return nil, apperrors.NewForbiddenError("only the shop owner can complete a booking")
	}
	shop, err := s.shopRepo.GetByID(ctx, booking.ShopID)
	if err != nil {
		return nil, err
	}
	if shop.OwnerID != caller.UserID {
		return nil, apperrors.NewForbiddenError("only the shop owner can complete a booking")
	}

	if !booking.CanTransitionTo(entities.BookingStatusCompleted) {
		return nil, apperrors.NewInvalidTransitionError("booking cannot be completed from status " + string(booking.Status))
	}

	booking.Status = entities.BookingStatusCompleted
	booking.UpdatedAt = s.now()

	if err := s.bookingRepo.UpdateStatus(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// List returns one page of the caller's bookings, most recent first,
// optionally filtered to a set of statuses.
func (s *BookingService) List(ctx context.Context, userID string, statuses []entities.BookingStatus, cursorToken string, limit int) (pagination.Page[*entities.Booking], error) {
	var empty pagination.Page[*entities.Booking]

	cursor, err := pagination.Decode(cursorToken)
	if err != nil {
		return empty, err
	}
	limit = pagination.ClampLimit(limit)

	rows, err := s.bookingRepo.ListByUser(ctx, userID, repositories.BookingPageFilter{
		Statuses: statuses,
		After:    cursor,
		Limit:    limit,
	})
	if err != nil {
		return empty, err
	}

	return pagination.BuildPage(rows, limit, func(b *entities.Booking) pagination.Cursor {
		return pagination.Cursor{Key: pagination.TimeKey(b.ScheduledAt), ID: b.ID}
	}), nil
}
