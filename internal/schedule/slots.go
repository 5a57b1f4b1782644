package schedule

import (
	"sort"

	"github.com/codec25/Studio-flow/internal/model"
)

// Slot is one bookable start time with its occupancy annotation.
type Slot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
	OpenSpots int    `json:"openSpots"`
}

// ComputeSlots expands a service's weekly availability windows into the
// discrete start times bookable on the given date. Deterministic and pure:
// a malformed date or a date with no matching windows yields an empty slice.
// Overlapping windows that produce the same start time are de-duplicated
// (last window wins) and the result is sorted by time label.
func ComputeSlots(svc *model.Service, date string) []string {
	dayIndex, ok := Weekday(date)
	if !ok || svc == nil || svc.Duration <= 0 {
		return []string{}
	}

	seen := map[string]struct{}{}
	slots := []string{}
	for _, window := range svc.WeeklySlots {
		if window.Day != dayIndex || !window.Active {
			continue
		}
		current := ParseMinutes(window.Start)
		end := ParseMinutes(window.End)
		// A window too short for one full lesson emits nothing.
		for current+svc.Duration <= end {
			label := FormatMinutes(current)
			if _, dup := seen[label]; !dup {
				seen[label] = struct{}{}
				slots = append(slots, label)
			}
			current += svc.Duration
		}
	}

	sort.Strings(slots)
	return slots
}

// AnnotateSlots marks each candidate start time with its remaining capacity
// given one consistent snapshot of bookings. Bookings in any status other
// than cancelled occupy their spot: a late cancellation still used the
// capacity at the time it happened.
func AnnotateSlots(times []string, bookings []model.Booking, serviceID, date string, capacity int) []Slot {
	annotated := make([]Slot, 0, len(times))
	for _, label := range times {
		occupied := 0
		for i := range bookings {
			b := &bookings[i]
			if b.ServiceID == serviceID && b.Date == date && b.Time == label && b.Occupies() {
				occupied++
			}
		}
		open := capacity - occupied
		if open < 0 {
			open = 0
		}
		annotated = append(annotated, Slot{
			Time:      label,
			Available: occupied < capacity,
			OpenSpots: open,
		})
	}
	return annotated
}
