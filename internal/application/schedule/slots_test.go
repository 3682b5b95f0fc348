package schedule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/application/schedule"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/domain/entities"
)

var testDate = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC) // a Monday

func openRule(opens, closes string) *entities.BusinessHourRule {
	return &entities.BusinessHourRule{
		ShopID:   "shop-1",
		Weekday:  time.Monday,
		IsOpen:   true,
		OpensAt:  opens,
		ClosesAt: closes,
	}
}

func minuteService(minutes int) *entities.Service {
	return &entities.Service{ID: "svc-1", ShopID: "shop-1", DurationMinutes: minutes, IsActive: true}
}

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 2, hour, minute, 0, 0, time.UTC)
}

func TestGenerate_SixtyMinuteServiceOnThreeHourDay(t *testing.T) {
	slots, err := schedule.Generate(openRule("09:00", "12:00"), minuteService(60), testDate)
	require.NoError(t, err)

	require.Len(t, slots, 5)
	expected := []struct{ startH, startM int }{
		{9, 0}, {9, 30}, {10, 0}, {10, 30}, {11, 0},
	}
	for i, want := range expected {
		assert.Equal(t, at(want.startH, want.startM), slots[i].StartTime, "slot %d start", i)
		assert.Equal(t, at(want.startH, want.startM).Add(time.Hour), slots[i].EndTime, "slot %d end", i)
		assert.True(t, slots[i].IsAvailable, "slot %d availability", i)
	}
}

func TestGenerate_StaysInsideOpeningWindow(t *testing.T) {
	slots, err := schedule.Generate(openRule("08:30", "17:00"), minuteService(45), testDate)
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	open, close, err := openRule("08:30", "17:00").OpeningWindow(testDate)
	require.NoError(t, err)
	for _, slot := range slots {
		assert.False(t, slot.StartTime.Before(open))
		assert.False(t, slot.EndTime.After(close))
	}
}

func TestGenerate_ClosedDayYieldsNoSlots(t *testing.T) {
	rule := &entities.BusinessHourRule{ShopID: "shop-1", Weekday: time.Monday, IsOpen: false}
	slots, err := schedule.Generate(rule, minuteService(30), testDate)
	require.NoError(t, err)
	assert.Empty(t, slots)

	slots, err = schedule.Generate(nil, minuteService(30), testDate)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGenerate_DurationLongerThanOpenWindow(t *testing.T) {
	slots, err := schedule.Generate(openRule("09:00", "10:00"), minuteService(90), testDate)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGenerate_DurationExactlyOpenWindow(t *testing.T) {
	slots, err := schedule.Generate(openRule("09:00", "10:00"), minuteService(60), testDate)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, at(9, 0), slots[0].StartTime)
	assert.Equal(t, at(10, 0), slots[0].EndTime)
}

func TestGenerate_IsIdempotent(t *testing.T) {
	first, err := schedule.Generate(openRule("09:00", "12:00"), minuteService(60), testDate)
	require.NoError(t, err)
	second, err := schedule.Generate(openRule("09:00", "12:00"), minuteService(60), testDate)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolve_FlagsOverlappingSlots(t *testing.T) {
	slots, err := schedule.Generate(openRule("09:00", "12:00"), minuteService(60), testDate)
	require.NoError(t, err)

	booked := []*entities.Booking{{
		ShopID:      "shop-1",
		ScheduledAt: at(10, 0),
		EndTime:     at(11, 0),
		Status:      entities.BookingStatusConfirmed,
	}}
	now := at(8, 0)

	resolved := schedule.Resolve(slots, booked, now)
	require.Len(t, resolved, 5)

	available := map[int]bool{0: true, 1: false, 2: false, 3: false, 4: true}
	for i, want := range available {
		assert.Equal(t, want, resolved[i].IsAvailable, "slot starting %v", resolved[i].StartTime)
	}
}

func TestResolve_BackToBackBookingDoesNotConflict(t *testing.T) {
	slots := []entities.Slot{{StartTime: at(11, 0), EndTime: at(12, 0), IsAvailable: true}}
	booked := []*entities.Booking{{
		ScheduledAt: at(10, 0),
		EndTime:     at(11, 0),
		Status:      entities.BookingStatusConfirmed,
	}}

	resolved := schedule.Resolve(slots, booked, at(8, 0))
	assert.True(t, resolved[0].IsAvailable)
}

func TestResolve_CancelledBookingFreesItsInterval(t *testing.T) {
	slots := []entities.Slot{{StartTime: at(10, 0), EndTime: at(11, 0), IsAvailable: true}}
	booked := []*entities.Booking{{
		ScheduledAt: at(10, 0),
		EndTime:     at(11, 0),
		Status:      entities.BookingStatusCancelled,
	}}

	resolved := schedule.Resolve(slots, booked, at(8, 0))
	assert.True(t, resolved[0].IsAvailable)
}

func TestResolve_PastSlotsAreUnavailable(t *testing.T) {
	slots, err := schedule.Generate(openRule("09:00", "12:00"), minuteService(60), testDate)
	require.NoError(t, err)

	resolved := schedule.Resolve(slots, nil, at(10, 0))
	require.Len(t, resolved, 5)
	assert.False(t, resolved[0].IsAvailable, "09:00 is past")
	assert.False(t, resolved[1].IsAvailable, "09:30 is past")
	assert.False(t, resolved[2].IsAvailable, "10:00 starts exactly now")
	assert.True(t, resolved[3].IsAvailable)
	assert.True(t, resolved[4].IsAvailable)
}

func TestResolve_PreservesOrderAndCount(t *testing.T) {
	slots, err := schedule.Generate(openRule("09:00", "18:00"), minuteService(30), testDate)
	require.NoError(t, err)

	booked := []*entities.Booking{
		{ScheduledAt: at(9, 30), EndTime: at(10, 0), Status: entities.BookingStatusConfirmed},
		{ScheduledAt: at(14, 0), EndTime: at(15, 30), Status: entities.BookingStatusCompleted},
	}
	resolved := schedule.Resolve(slots, booked, at(7, 0))

	require.Len(t, resolved, len(slots))
	for i := range resolved {
		assert.Equal(t, slots[i].StartTime, resolved[i].StartTime)
		assert.Equal(t, slots[i].EndTime, resolved[i].EndTime)
	}
}

func TestHasConflict(t *testing.T) {
	booked := []*entities.Booking{
		{ScheduledAt: at(10, 0), EndTime: at(11, 0), Status: entities.BookingStatusConfirmed},
		{ScheduledAt: at(12, 0), EndTime: at(13, 0), Status: entities.BookingStatusCancelled},
	}

	assert.True(t, schedule.HasConflict(booked, at(10, 30), at(11, 30)))
	assert.False(t, schedule.HasConflict(booked, at(11, 0), at(12, 0)))
	assert.False(t, schedule.HasConflict(booked, at(12, 0), at(13, 0)), "cancelled interval is free")
}
