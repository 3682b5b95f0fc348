// Package schedule computes candidate booking slots from business hours and
// flags conflicts against existing bookings. Both operations are pure
// functions of their inputs so availability can be recomputed per request
// with no shared state.
package schedule

import (
	"time"

	"github.com/willianOliveira-dev/barber-app-sub000/internal/domain/entities"
)

// SlotStep is the fixed distance between consecutive candidate slot starts.
// It is independent of service duration, so candidates for longer services
// overlap each other on the grid; conflicts are filtered per booked
// interval, not per grid cell.
const SlotStep = 30 * time.Minute

// Generate produces the candidate slot grid for a service on a calendar
// date. A closed day yields no slots, as does a service that does not fit
// in the open window. All slots start available; Resolve flags conflicts.
func Generate(rule *entities.BusinessHourRule, service *entities.Service, date time.Time) ([]entities.Slot, error) {
	if rule == nil || !rule.IsOpen {
		return []entities.Slot{}, nil
	}

	open, close, err := rule.OpeningWindow(date)
	if err != nil {
		return nil, err
	}

	duration := service.Duration()
	var slots []entities.Slot
	for cursor := open; !cursor.Add(duration).After(close); cursor = cursor.Add(SlotStep) {
		slots = append(slots, entities.Slot{
			StartTime:   cursor,
			EndTime:     cursor.Add(duration),
			IsAvailable: true,
		})
	}
	if slots == nil {
		slots = []entities.Slot{}
	}
	return slots, nil
}

// Resolve marks each candidate slot unavailable when it starts at or before
// now, or when it overlaps a booking that still occupies its interval.
// Slots are flagged rather than dropped and generator order is preserved.
func Resolve(slots []entities.Slot, bookings []*entities.Booking, now time.Time) []entities.Slot {
	now = now.Truncate(time.Second)

	resolved := make([]entities.Slot, len(slots))
	for i, slot := range slots {
		slot.IsAvailable = slot.StartTime.After(now)
		if slot.IsAvailable {
			for _, booking := range bookings {
				if booking.Occupies() && booking.Overlaps(slot.StartTime, slot.EndTime) {
					slot.IsAvailable = false
					break
				}
			}
		}
		resolved[i] = slot
	}
	return resolved
}

// HasConflict applies the write-time overlap re-check: it reports whether
// [start, end) intersects any booking that occupies its interval.
func HasConflict(bookings []*entities.Booking, start, end time.Time) bool {
	for _, booking := range bookings {
		if booking.Occupies() && booking.Overlaps(start, end) {
			return true
		}
	}
	return false
}
