package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codec25/Studio-flow/internal/model"
)

func TestParseMinutes(t *testing.T) {
	assert.Equal(t, 0, ParseMinutes("00:00"))
	assert.Equal(t, 9*60, ParseMinutes("09:00"))
	assert.Equal(t, 13*60+30, ParseMinutes("13:30"))
	assert.Equal(t, 0, ParseMinutes("garbage"))
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "00:00", FormatMinutes(0))
	assert.Equal(t, "09:05", FormatMinutes(9*60+5))
	assert.Equal(t, "23:45", FormatMinutes(23*60+45))
}

func TestWeekday(t *testing.T) {
	day, ok := Weekday("2026-01-05")
	require.True(t, ok)
	assert.Equal(t, 1, day) // Monday

	day, ok = Weekday("2026-01-04")
	require.True(t, ok)
	assert.Equal(t, 0, day) // Sunday

	_, ok = Weekday("not-a-date")
	assert.False(t, ok)
	_, ok = Weekday("2026-13-40")
	assert.False(t, ok)
}

func TestComputeSlotsExpandsWindows(t *testing.T) {
	svc := &model.Service{
		ID:       "svc_1",
		Name:     "Guitar Lesson",
		Duration: 60,
		Capacity: 1,
		WeeklySlots: []model.WeeklySlot{
			{Day: 1, Start: "09:00", End: "12:00", Active: true},
		},
	}

	// 2026-01-05 is a Monday.
	assert.Equal(t, []string{"09:00", "10:00", "11:00"}, ComputeSlots(svc, "2026-01-05"))

	// Tuesday has no window.
	assert.Empty(t, ComputeSlots(svc, "2026-01-06"))
}

func TestComputeSlotsSkipsInactiveWindows(t *testing.T) {
	svc := &model.Service{
		Duration: 30,
		WeeklySlots: []model.WeeklySlot{
			{Day: 1, Start: "09:00", End: "10:00", Active: false},
			{Day: 1, Start: "14:00", End: "15:00", Active: true},
		},
	}

	assert.Equal(t, []string{"14:00", "14:30"}, ComputeSlots(svc, "2026-01-05"))
}

func TestComputeSlotsWindowTooShort(t *testing.T) {
	svc := &model.Service{
		Duration: 60,
		WeeklySlots: []model.WeeklySlot{
			{Day: 1, Start: "09:00", End: "09:45", Active: true},
		},
	}

	assert.Empty(t, ComputeSlots(svc, "2026-01-05"))
}

func TestComputeSlotsDeduplicatesOverlaps(t *testing.T) {
	svc := &model.Service{
		Duration: 60,
		WeeklySlots: []model.WeeklySlot{
			{Day: 1, Start: "09:00", End: "11:00", Active: true},
			{Day: 1, Start: "10:00", End: "12:00", Active: true},
		},
	}

	assert.Equal(t, []string{"09:00", "10:00", "11:00"}, ComputeSlots(svc, "2026-01-05"))
}

func TestComputeSlotsMalformedInput(t *testing.T) {
	svc := &model.Service{
		Duration: 60,
		WeeklySlots: []model.WeeklySlot{
			{Day: 1, Start: "09:00", End: "12:00", Active: true},
		},
	}

	assert.Empty(t, ComputeSlots(svc, "05-01-2026"))
	assert.Empty(t, ComputeSlots(nil, "2026-01-05"))
	assert.Empty(t, ComputeSlots(&model.Service{Duration: 0}, "2026-01-05"))
}

func TestComputeSlotsDeterministic(t *testing.T) {
	svc := &model.Service{
		Duration: 45,
		WeeklySlots: []model.WeeklySlot{
			{Day: 3, Start: "16:00", End: "19:00", Active: true},
			{Day: 3, Start: "08:00", End: "10:00", Active: true},
		},
	}

	// 2026-01-07 is a Wednesday.
	first := ComputeSlots(svc, "2026-01-07")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ComputeSlots(svc, "2026-01-07"))
	}
	assert.Equal(t, []string{"08:00", "08:45", "16:00", "16:45", "17:30", "18:15"}, first)
}

func TestAnnotateSlotsCountsOccupancy(t *testing.T) {
	bookings := []model.Booking{
		{ServiceID: "svc_1", Date: "2026-01-05", Time: "09:00", Status: model.BookingStatusPending},
		{ServiceID: "svc_1", Date: "2026-01-05", Time: "09:00", Status: model.BookingStatusCancelled},
		{ServiceID: "svc_1", Date: "2026-01-05", Time: "10:00", Status: model.BookingStatusConfirmed},
		{ServiceID: "svc_1", Date: "2026-01-05", Time: "10:00", Status: model.BookingStatusCancelledLate},
		{ServiceID: "svc_2", Date: "2026-01-05", Time: "09:00", Status: model.BookingStatusPending},
	}

	slots := AnnotateSlots([]string{"09:00", "10:00", "11:00"}, bookings, "svc_1", "2026-01-05", 2)
	require.Len(t, slots, 3)

	assert.Equal(t, Slot{Time: "09:00", Available: true, OpenSpots: 1}, slots[0])
	// Late cancellations still occupy their spot.
	assert.Equal(t, Slot{Time: "10:00", Available: false, OpenSpots: 0}, slots[1])
	assert.Equal(t, Slot{Time: "11:00", Available: true, OpenSpots: 2}, slots[2])
}
