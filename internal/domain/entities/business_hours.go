package entities

import (
	"fmt"
	"time"

	apperrors "github.com/willianOliveira-dev/barber-app-sub000/pkg/errors"
)

// BusinessHourRule describes whether a shop is open on a given weekday and,
// if so, its wall-clock opening window. Times are "HH:MM" strings.
type BusinessHourRule struct {
	ShopID    string       `json:"shop_id" db:"shop_id"`
	Weekday   time.Weekday `json:"weekday" db:"weekday"`
	IsOpen    bool         `json:"is_open" db:"is_open"`
	OpensAt   string       `json:"opens_at" db:"opens_at"`
	ClosesAt  string       `json:"closes_at" db:"closes_at"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
}

// Validate checks the rule at configuration time. Closed days carry no
// window and always validate; open days require closing after opening.
func (r *BusinessHourRule) Validate() error {
	if !r.IsOpen {
		return nil
	}

	opens, err := parseWallClock(r.OpensAt)
	if err != nil {
		return apperrors.NewInvalidHoursError(fmt.Sprintf("invalid opening time %q", r.OpensAt))
	}
	closes, err := parseWallClock(r.ClosesAt)
	if err != nil {
		return apperrors.NewInvalidHoursError(fmt.Sprintf("invalid closing time %q", r.ClosesAt))
	}
	if !closes.After(opens) {
		return apperrors.NewInvalidHoursError("closing time must be after opening time")
	}
	return nil
}

// OpeningWindow anchors the rule's wall-clock window onto a calendar date in
// the date's location. The rule must be open and valid.
func (r *BusinessHourRule) OpeningWindow(date time.Time) (open, close time.Time, err error) {
	opens, err := parseWallClock(r.OpensAt)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse opening time: %w", err)
	}
	closes, err := parseWallClock(r.ClosesAt)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse closing time: %w", err)
	}

	y, m, d := date.Date()
	loc := date.Location()
	open = time.Date(y, m, d, opens.Hour(), opens.Minute(), 0, 0, loc)
	close = time.Date(y, m, d, closes.Hour(), closes.Minute(), 0, 0, loc)
	return open, close, nil
}

func parseWallClock(value string) (time.Time, error) {
	return time.Parse("15:04", value)
}
