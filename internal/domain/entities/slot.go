package entities

import (
	"time"
)

// Slot is a candidate [StartTime, EndTime) window of service-duration length
// on a shop's schedule. Unavailable slots are flagged, never dropped, so the
// storefront can render them disabled.
type Slot struct {
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	IsAvailable bool      `json:"is_available"`
}
