package entities

import (
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking represents a confirmed, completed, or cancelled appointment
// occupying a [ScheduledAt, EndTime) interval on a shop's schedule
type Booking struct {
	ID          string        `json:"id" db:"id"`
	UserID      string        `json:"user_id" db:"user_id"`
	ShopID      string        `json:"shop_id" db:"shop_id"`
	ServiceID   string        `json:"service_id" db:"service_id"`
	ScheduledAt time.Time     `json:"scheduled_at" db:"scheduled_at"`
	EndTime     time.Time     `json:"end_time" db:"end_time"`
	Status      BookingStatus `json:"status" db:"status"`
	CancelledAt *time.Time    `json:"cancelled_at,omitempty" db:"cancelled_at"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`
}

// CanTransitionTo reports whether the state machine permits moving from the
// booking's current status to the target status. Confirmed bookings may be
// completed or cancelled; both of those states are terminal.
func (b *Booking) CanTransitionTo(target BookingStatus) bool {
	if b.Status != BookingStatusConfirmed {
		return false
	}
	return target == BookingStatusCompleted || target == BookingStatusCancelled
}

// Occupies reports whether the booking still holds its schedule interval.
// Cancelled bookings free their interval; completed ones keep it.
func (b *Booking) Occupies() bool {
	return b.Status != BookingStatusCancelled
}

// Overlaps applies the half-open interval intersection test against another
// interval. Back-to-back bookings do not overlap.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return start.Before(b.EndTime) && end.After(b.ScheduledAt)
}
