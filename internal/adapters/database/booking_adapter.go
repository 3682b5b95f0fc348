package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/lib/pq"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/domain/entities"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/domain/repositories"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/infrastructure/clients/postgres"
	apperrors "github.com/willianOliveira-dev/barber-app-sub000/pkg/errors"
)

const (
	pqUniqueViolation    = "23505"
	pqExclusionViolation = "23P01"
)

var bookingColumns = []interface{}{
	"id", "user_id", "shop_id", "service_id", "scheduled_at",
	"end_time", "status", "cancelled_at", "created_at", "updated_at",
}

// BookingAdapter implements the BookingRepository interface
type BookingAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewBookingAdapter creates a new booking adapter
func NewBookingAdapter(client *postgres.Client) repositories.BookingRepository {
	return &BookingAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB().DB),
	}
}

// CreateChecked inserts the booking after re-validating the interval under
// row locks. The locked SELECT serializes concurrent writers on the same
// shop; the exclusion constraint on the table backstops anything the lock
// misses, so two transactions can never both commit overlapping intervals.
func (a *BookingAdapter) CreateChecked(ctx context.Context, booking *entities.Booking) error {
	tx, err := a.client.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewInternalError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	lockQuery, lockArgs, err := a.db.Select("id").
		From("bookings").
		Where(
			goqu.Ex{"shop_id": booking.ShopID},
			goqu.C("status").Neq(entities.BookingStatusCancelled),
			goqu.C("scheduled_at").Lt(booking.EndTime),
			goqu.C("end_time").Gt(booking.ScheduledAt),
		).
		ForUpdate(exp.Wait).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build lock query", err)
	}

	var conflictID string
	err = tx.QueryRowContext(ctx, lockQuery, lockArgs...).Scan(&conflictID)
	if err == nil {
		return apperrors.NewSlotUnavailableError("the requested time slot is already booked")
	}
	if err != sql.ErrNoRows {
		return apperrors.NewInternalError("failed to check slot availability", err)
	}

	insertQuery, insertArgs, err := a.db.Insert("bookings").Rows(goqu.Record{
		"id":           booking.ID,
		"user_id":      booking.UserID,
		"shop_id":      booking.ShopID,
		"service_id":   booking.ServiceID,
		"scheduled_at": booking.ScheduledAt,
		"end_time":     booking.EndTime,
		"status":       booking.Status,
		"cancelled_at": booking.CancelledAt,
		"created_at":   booking.CreatedAt,
		"updated_at":   booking.UpdatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err = tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqExclusionViolation {
			return apperrors.NewSlotUnavailableError("the requested time slot is already booked")
		}
		return apperrors.NewInternalError("failed to create booking", err)
	}

	if err = tx.Commit(); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqExclusionViolation {
			return apperrors.NewSlotUnavailableError("the requested time slot is already booked")
		}
		return apperrors.NewInternalError("failed to commit booking", err)
	}

	return nil
}

// GetByID retrieves a booking by ID
func (a *BookingAdapter) GetByID(ctx context.Context, id string) (*entities.Booking, error) {
	query, args, err := a.db.Select(bookingColumns...).
		From("bookings").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	booking, err := scanBooking(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("booking with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get booking", err)
	}

	return booking, nil
}

// UpdateStatus persists a status transition
func (a *BookingAdapter) UpdateStatus(ctx context.Context, booking *entities.Booking) error {
	booking.UpdatedAt = time.Now()

	query, args, err := a.db.Update("bookings").
		Set(goqu.Record{
			"status":       booking.Status,
			"cancelled_at": booking.CancelledAt,
			"updated_at":   booking.UpdatedAt,
		}).
		Where(goqu.Ex{"id": booking.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update booking", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("booking with id %s not found", booking.ID))
	}

	return nil
}

// ListOccupiedByShop retrieves the shop's non-cancelled bookings whose
// intervals touch [from, to)
func (a *BookingAdapter) ListOccupiedByShop(ctx context.Context, shopID string, from, to time.Time) ([]*entities.Booking, error) {
	query, args, err := a.db.Select(bookingColumns...).
		From("bookings").
		Where(
			goqu.Ex{"shop_id": shopID},
			goqu.C("status").Neq(entities.BookingStatusCancelled),
			goqu.C("scheduled_at").Lt(to),
			goqu.C("end_time").Gt(from),
		).
		Order(goqu.I("scheduled_at").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list bookings", err)
	}
	defer rows.Close()

	var bookings []*entities.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan booking", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, nil
}

// ListByUser retrieves one keyset page of the user's bookings ordered by
// scheduled_at descending with an id tie-break
func (a *BookingAdapter) ListByUser(ctx context.Context, userID string, filter repositories.BookingPageFilter) ([]*entities.Booking, error) {
	ds := a.db.Select(bookingColumns...).
		From("bookings").
		Where(goqu.Ex{"user_id": userID})

	if len(filter.Statuses) > 0 {
		ds = ds.Where(goqu.C("status").In(filter.Statuses))
	}

	if filter.After != nil {
		key, err := filter.After.KeyAsTime()
		if err != nil {
			return nil, err
		}
		ds = ds.Where(goqu.Or(
			goqu.C("scheduled_at").Lt(key),
			goqu.And(
				goqu.C("scheduled_at").Eq(key),
				goqu.C("id").Gt(filter.After.ID),
			),
		))
	}

	ds = ds.Order(goqu.I("scheduled_at").Desc(), goqu.I("id").Asc())

	if filter.Limit > 0 {
		// One extra row lets the caller detect a further page.
		ds = ds.Limit(uint(filter.Limit) + 1)
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list bookings", err)
	}
	defer rows.Close()

	var bookings []*entities.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan booking", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*entities.Booking, error) {
	booking := &entities.Booking{}
	var cancelledAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.ShopID,
		&booking.ServiceID,
		&booking.ScheduledAt,
		&booking.EndTime,
		&booking.Status,
		&cancelledAt,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if cancelledAt.Valid {
		booking.CancelledAt = &cancelledAt.Time
	}

	return booking, nil
}
